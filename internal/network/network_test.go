package network

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOfflineError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		offline bool
	}{
		{name: "nil error", err: nil, offline: false},
		{name: "plain error", err: errors.New("boom"), offline: false},
		{
			name:    "no such host",
			err:     errors.New("dial tcp: lookup api.github.com: no such host"),
			offline: true,
		},
		{
			name:    "connection refused text",
			err:     errors.New("connection refused"),
			offline: true,
		},
		{
			name:    "dns resolution failure",
			err:     errors.New("temporary failure in name resolution"),
			offline: true,
		},
		{
			name:    "wrapped in url error",
			err:     &url.Error{Op: "Get", URL: "https://api.github.com", Err: errors.New("no route to host")},
			offline: true,
		},
		{
			name:    "dial op error",
			err:     &net.OpError{Op: "dial", Err: errors.New("whatever")},
			offline: true,
		},
		{
			name:    "econnrefused errno",
			err:     &net.OpError{Op: "write", Err: syscall.ECONNREFUSED},
			offline: true,
		},
		{
			name:    "http status error",
			err:     fmt.Errorf("GitHub API returned status 500"),
			offline: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.offline, IsOfflineError(tt.err))
		})
	}
}
