package relation

import (
	"errors"
	"fmt"
)

// RejectionCode identifies why an action was refused. Codes are stable and
// surfaced verbatim to API callers.
type RejectionCode string

const (
	RejectSelfAction        RejectionCode = "self_action"
	RejectAlreadyFriends    RejectionCode = "already_friends"
	RejectAlreadyPending    RejectionCode = "already_pending"
	RejectBlocked           RejectionCode = "blocked"
	RejectNotFound          RejectionCode = "not_found"
	RejectInvalidTransition RejectionCode = "invalid_transition"
	RejectContention        RejectionCode = "contention"
)

// RejectionError is returned for every expected business refusal. Label
// carries the caller's current view of the relationship so clients can
// reconcile without issuing a second read.
type RejectionError struct {
	Code  RejectionCode
	Label Label
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("relationship action rejected: %s", e.Code)
}

// Adapter contract errors. The store implementation maps its native
// failures onto these; everything else propagates as a fault.
var (
	ErrEdgeNotFound        = errors.New("relationship edge not found")
	ErrEdgeVersionConflict = errors.New("relationship edge version conflict")
)

// RejectionCodeOf extracts the code from an error chain, or "" if the error
// is not a business rejection.
func RejectionCodeOf(err error) RejectionCode {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection.Code
	}
	return ""
}
