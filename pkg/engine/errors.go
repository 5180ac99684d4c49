package engine

import (
	"errors"

	"github.com/user/normtree/pkg/tree"
)

// Kind is the category of a session failure. Callers branch on Kind, not
// on message text.
type Kind string

const (
	// KindLoad: the initial fetch failed or the payload was malformed.
	KindLoad Kind = "Load"
	// KindNotFound: the refresh target id no longer exists in the store.
	KindNotFound Kind = "NotFound"
	// KindOverride: the status write failed or was rejected.
	KindOverride Kind = "Override"
)

// ErrStale is the cause of an OverrideError raised when a second override
// is attempted before the snapshot has been reloaded.
var ErrStale = errors.New("snapshot is stale: reload before overriding again")

// Error is the structured error returned by Session and Override.
// None of the kinds is fatal; the last good snapshot stays in place.
type Error struct {
	Kind    Kind
	NodeID  tree.ID
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.NodeID != "" {
		msg += " (node " + e.NodeID.String() + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, id tree.ID, msg string, cause error) error {
	return &Error{Kind: kind, NodeID: id, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

func IsLoad(err error) bool     { return IsKind(err, KindLoad) }
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }
func IsOverride(err error) bool { return IsKind(err, KindOverride) }
