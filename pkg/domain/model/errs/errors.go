package errs

import (
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// ErrCancelled marks an explicit user dismissal of a cancellable step.
// It is a flow-control sentinel, not a fault: every cancellable pipeline
// swallows it silently instead of reporting it.
var ErrCancelled = goerr.New("cancelled by user", goerr.T(TagCancelled))

// ErrStaleQuery marks a fetch response that was superseded by a newer
// query before it resolved. It is an internal no-op and never reaches
// the user.
var ErrStaleQuery = goerr.New("stale query superseded", goerr.T(TagStale))

func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// RemoteError carries the status and body of a failed remote store
// request so that notifications can name what the store reported.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote request failed: status=%d body=%s", e.Status, e.Body)
}

// NewRemoteError wraps a remote store failure with the external tag and
// its response attributes.
func NewRemoteError(status int, body string) error {
	return goerr.Wrap(&RemoteError{Status: status, Body: body}, "remote store request failed",
		goerr.T(TagExternal),
		goerr.V("status", status),
		goerr.V("body", body))
}

// AsRemote unwraps a RemoteError from an error chain.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
