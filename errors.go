package msgraph

import (
	"fmt"
	"net/http"
)

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters.
func Wrap(err error, msg string, v ...interface{}) error {
	msg = fmt.Sprintf(msg, v...)
	return fmt.Errorf("%v: %v", msg, err)
}

type notFound struct {
	message string
}

// NewNotFound creates a new "not found" error.
func NewNotFound(s string, v ...interface{}) error {
	return notFound{fmt.Sprintf("Not found: %v", fmt.Sprintf(s, v...))}
}

func (n notFound) Error() string {
	return n.message
}

// IsNotFound checks if the given error is a "not found" error.
func IsNotFound(err error) bool {
	_, ok := err.(notFound)
	return ok
}

type missingTarget struct {
	message string
}

// NewMissingTarget creates an error for a required target parameter
// that was not supplied at all. No request is attempted for it.
func NewMissingTarget(s string, v ...interface{}) error {
	return missingTarget{fmt.Sprintf(s, v...)}
}

func (m missingTarget) Error() string {
	return m.message
}

// IsMissingTarget checks if the given error is a "missing target" error.
func IsMissingTarget(err error) bool {
	_, ok := err.(missingTarget)
	return ok
}

type unresolvableTarget struct {
	message string
}

// NewUnresolvableTarget creates an error for a target parameter that was
// supplied but has no recognized shape. Batch callers skip the item.
func NewUnresolvableTarget(s string, v ...interface{}) error {
	return unresolvableTarget{fmt.Sprintf(s, v...)}
}

func (u unresolvableTarget) Error() string {
	return u.message
}

// IsUnresolvableTarget checks if the given error is an "unresolvable
// target" error.
func IsUnresolvableTarget(err error) bool {
	_, ok := err.(unresolvableTarget)
	return ok
}

type ambiguousMimeType struct {
	message string
}

// NewAmbiguousMimeType creates an error for a file attachment whose MIME
// type could not be determined and was not supplied explicitly.
func NewAmbiguousMimeType(s string, v ...interface{}) error {
	return ambiguousMimeType{fmt.Sprintf(s, v...)}
}

func (a ambiguousMimeType) Error() string {
	return a.message
}

// IsAmbiguousMimeType checks if the given error is an "ambiguous MIME
// type" error.
func IsAmbiguousMimeType(err error) bool {
	_, ok := err.(ambiguousMimeType)
	return ok
}

type skipped struct {
	message string
}

// NewSkipped creates an error for a mutating operation the confirmation
// callback declined. No mutating request was issued for it.
func NewSkipped(s string, v ...interface{}) error {
	return skipped{fmt.Sprintf(s, v...)}
}

func (s skipped) Error() string {
	return s.message
}

// IsSkipped checks if the given error is a "skipped" error.
func IsSkipped(err error) bool {
	_, ok := err.(skipped)
	return ok
}

type validationError struct {
	message string
}

func (v validationError) Error() string {
	return v.message
}

// NewValidationError creates an error from the given format string.
func NewValidationError(msg string, v ...interface{}) error {
	return validationError{fmt.Sprintf(msg, v...)}
}

// ExpectOK checks if the given http response has status "200 - OK"
// and returns an error with the given message if not.
func ExpectOK(res *http.Response, msg string) error {
	return ExpectStatus(res, http.StatusOK, msg)
}

// ExpectStatus checks if the given http response has the expected status
// and returns an error with the given message if not.
//
// A 404 is mapped to a "not found" error so that callers can downgrade
// it to a warning where the resource counts as already absent.
func ExpectStatus(res *http.Response, expected int, msg string) error {
	code := res.StatusCode

	if code == expected {
		return nil
	}
	// Graph answers 200 or 201 depending on the operation.
	if expected == http.StatusOK && code == http.StatusCreated {
		return nil
	}

	if msg != "" {
		msg = msg + ": "
	}

	// specific types for selected error codes
	switch code {
	case http.StatusNotFound:
		return NewNotFound("%vgot HTTP status %v", msg, code)
	}

	// unspecified errors
	return fmt.Errorf("%vgot HTTP status code %v", msg, code)
}
