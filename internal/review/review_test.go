package review

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sift-sh/sift/internal/db"
	"github.com/sift-sh/sift/internal/pubsub"
)

// fakeQuerier is an in-memory db.Querier.
type fakeQuerier struct {
	mu    sync.Mutex
	items map[string]db.Item
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{items: make(map[string]db.Item)}
}

func (f *fakeQuerier) CreateItem(_ context.Context, arg db.CreateItemParams) (db.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := db.Item{
		ID:        arg.ID,
		Title:     arg.Title,
		Body:      arg.Body,
		Source:    arg.Source,
		Score:     arg.Score,
		Status:    arg.Status,
		Position:  arg.Position,
		CreatedAt: time.Now().Unix(),
		UpdatedAt: time.Now().Unix(),
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeQuerier) GetItemByID(_ context.Context, id string) (db.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return db.Item{}, sql.ErrNoRows
	}
	return item, nil
}

func (f *fakeQuerier) ListItemsByStatus(_ context.Context, status string) ([]db.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Item
	for _, item := range f.items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	sortByPosition(out)
	return out, nil
}

func (f *fakeQuerier) ListAllItems(_ context.Context) ([]db.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]db.Item, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	sortByPosition(out)
	return out, nil
}

func (f *fakeQuerier) UpdateItemStatus(_ context.Context, arg db.UpdateItemStatusParams) (db.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[arg.ID]
	if !ok {
		return db.Item{}, sql.ErrNoRows
	}
	item.Status = arg.Status
	item.ReasonCode = arg.ReasonCode
	item.UpdatedAt = time.Now().Unix()
	f.items[arg.ID] = item
	return item, nil
}

func (f *fakeQuerier) DeleteItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeQuerier) CountItemsByStatus(_ context.Context, status string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.items {
		if item.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeQuerier) SearchItemsByTitle(_ context.Context, pattern string) ([]db.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	needle := strings.Trim(pattern, "%")
	var out []db.Item
	for _, item := range f.items {
		if strings.Contains(item.Title, needle) {
			out = append(out, item)
		}
	}
	sortByPosition(out)
	return out, nil
}

func (f *fakeQuerier) MaxItemPosition(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var maxPos int64
	for _, item := range f.items {
		if item.Position > maxPos {
			maxPos = item.Position
		}
	}
	return maxPos, nil
}

func sortByPosition(items []db.Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
}

func newTestService(t *testing.T) Service {
	t.Helper()
	return NewService(newFakeQuerier())
}

func TestService(t *testing.T) {
	t.Parallel()

	t.Run("create assigns sequential positions", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		ctx := t.Context()

		first, err := svc.Create(ctx, CreateItemParams{Title: "one"})
		require.NoError(t, err)
		second, err := svc.Create(ctx, CreateItemParams{Title: "two"})
		require.NoError(t, err)

		assert.NotEmpty(t, first.ID)
		assert.Equal(t, StatusPending, first.Status)
		assert.Equal(t, first.Position+1, second.Position)
	})

	t.Run("set status moves the item out of pending", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		ctx := t.Context()

		item, err := svc.Create(ctx, CreateItemParams{Title: "finding"})
		require.NoError(t, err)

		updated, err := svc.SetStatus(ctx, item.ID, StatusApproved, "lgtm")
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, updated.Status)
		assert.Equal(t, "lgtm", updated.ReasonCode)

		pending, err := svc.ListPending(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("restore returns the item to pending and clears the reason", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		ctx := t.Context()

		item, err := svc.Create(ctx, CreateItemParams{Title: "finding"})
		require.NoError(t, err)
		_, err = svc.SetStatus(ctx, item.ID, StatusRejected, "dup")
		require.NoError(t, err)

		restored, err := svc.Restore(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, restored.Status)
		assert.Empty(t, restored.ReasonCode)

		count, err := svc.CountPending(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("set status on a missing item fails", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		_, err := svc.SetStatus(t.Context(), "nope", StatusApproved, "")
		require.Error(t, err)
	})

	t.Run("search matches substrings", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		ctx := t.Context()

		for _, title := range []string{"SQL injection in login", "XSS in footer", "SQL timeout"} {
			_, err := svc.Create(ctx, CreateItemParams{Title: title})
			require.NoError(t, err)
		}

		found, err := svc.SearchByTitle(ctx, "SQL")
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("mutations publish events", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		ctx := t.Context()
		events := svc.Subscribe(ctx)

		item, err := svc.Create(ctx, CreateItemParams{Title: "watched"})
		require.NoError(t, err)
		_, err = svc.SetStatus(ctx, item.ID, StatusApproved, "")
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, item.ID))

		types := make([]pubsub.EventType, 0, 3)
		for range 3 {
			select {
			case event := <-events:
				types = append(types, event.Type)
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for events")
			}
		}
		assert.Equal(t, []pubsub.EventType{
			pubsub.CreatedEvent,
			pubsub.UpdatedEvent,
			pubsub.DeletedEvent,
		}, types)
	})

	t.Run("list all includes every status", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		ctx := t.Context()

		for i := range 3 {
			item, err := svc.Create(ctx, CreateItemParams{Title: fmt.Sprintf("item %d", i)})
			require.NoError(t, err)
			if i == 0 {
				_, err = svc.SetStatus(ctx, item.ID, StatusDeferred, "")
				require.NoError(t, err)
			}
		}

		all, err := svc.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		pending, err := svc.ListPending(ctx)
		require.NoError(t, err)
		assert.Len(t, pending, 2)
	})
}
