package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrProxyNotConfigured indicates a planning-host URL was requested
	// while no proxy base is configured. Raised before any network call.
	ErrProxyNotConfigured = errors.New("planning proxy not configured")

	// ErrUnreachable indicates a transport-level failure: the server,
	// the network or the proxy is down.
	ErrUnreachable = errors.New("server unreachable, check connectivity or proxy configuration")

	// ErrParseFatal indicates the feed yielded structural errors and
	// zero usable events. The previous event set is preserved.
	ErrParseFatal = errors.New("no usable events in feed")

	// ErrWorkerTerminated rejects requests pending when the parse
	// worker is torn down.
	ErrWorkerTerminated = errors.New("parse worker terminated")
)

// HTTPStatusError reports a non-2xx response from the feed server.
type HTTPStatusError struct {
	Status int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Status)
}
