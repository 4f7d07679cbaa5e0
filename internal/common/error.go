// Package common defines sentinel errors and small helpers shared by the
// store, service and CLI layers of saasctl. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Input validation errors. No store access happens after these.
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidArgument = errors.New("invalid argument")

	// Refusals. The operator has to fix a prerequisite and rerun.
	ErrNotAllowlisted  = errors.New("email is not in the admin allowlist")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoAccountRecord = errors.New("no account record for user")

	// Store failures. Fatal for the invocation, never retried.
	ErrStoreUnavailable = errors.New("store unavailable")
)

var refusals = []error{
	ErrInvalidEmail,
	ErrInvalidArgument,
	ErrNotAllowlisted,
	ErrUserNotFound,
	ErrNoAccountRecord,
}

// IsRefusal reports whether err is an expected refusal (bad input or a
// missing prerequisite) as opposed to a failure of the tool or the store.
func IsRefusal(err error) bool {
	if err == nil {
		return false
	}
	for _, r := range refusals {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
