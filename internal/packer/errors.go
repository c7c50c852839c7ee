// Package packer selects duration-constrained video playlists ("packs") from a candidate pool.
package packer

import "fmt"

// Error represents an invalid pack request. Underfilled or empty packs are
// normal results, never errors.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
