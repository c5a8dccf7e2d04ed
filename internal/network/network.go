// Package network classifies connectivity failures so callers can treat
// "you are offline" differently from a real error.
package network

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

var offlinePatterns = []string{
	"no such host",
	"connection refused",
	"network is unreachable",
	"no route to host",
	"host is down",
	"connection timed out",
	"temporary failure in name resolution",
}

// IsOfflineError reports whether an error looks like a lost or absent
// network connection rather than a server-side failure.
func IsOfflineError(err error) bool {
	if err == nil {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return IsOfflineError(urlErr.Err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.Temporary() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" || opErr.Op == "read" {
			return true
		}
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			return errno == syscall.ECONNREFUSED ||
				errno == syscall.ENETUNREACH ||
				errno == syscall.EHOSTUNREACH
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range offlinePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
