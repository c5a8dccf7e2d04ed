package list

import (
	"fmt"
	"testing"
)

func benchList(b *testing.B, size int) *list[*testItem] {
	b.Helper()
	l := New(createItems(size, 3), WithSize(80, 30), WithEstimatedSize(3)).(*list[*testItem])
	drainCmds(l, l.Init())
	return l
}

func BenchmarkRender(b *testing.B) {
	for _, size := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("items_%d", size), func(b *testing.B) {
			l := benchList(b, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.render()
			}
		})
	}
}

func BenchmarkScroll(b *testing.B) {
	for _, size := range []int{1000, 10000} {
		b.Run(fmt.Sprintf("items_%d", size), func(b *testing.B) {
			l := benchList(b, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.SetScrollOffset((i * 7) % l.TotalSize())
			}
		})
	}
}

func BenchmarkIndexAt(b *testing.B) {
	l := benchList(b, 10000)
	total := l.TotalSize()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.cache.indexAt((i * 13) % total)
	}
}
