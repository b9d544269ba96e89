package store

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrNotFound is returned when an operation references an article
	// id that is not in the collection.
	ErrNotFound = errors.New("article not found")

	// ErrCorruptState marks a persisted blob that could not be parsed.
	// Load recovers from it by starting with an empty collection; it is
	// never fatal.
	ErrCorruptState = errors.New("persisted articles are unreadable")
)

// IsValidation reports whether err came from article field validation
// (blank title or content, unknown status).
func IsValidation(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.Error
	return errors.As(err, &verr)
}
