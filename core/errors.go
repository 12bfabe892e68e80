package core

import "github.com/pkg/errors"

var (
	ErrFileTooLarge      = errors.New("File size exceeded")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrFieldReadOnly     = errors.New("field is read-only")
	ErrSubmitInProgress  = errors.New("a submission is already in progress")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// FieldError is used to indicate an error with a specific form field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewFieldError wraps err (usually one of the upload or read-only errors) as a
// single-field ValidationError. The original error stays in ValidationError.Err.
func NewFieldError(field string, err error) error {
	return &ValidationError{Err: err, Fields: []FieldError{{Field: field, Error: err.Error()}}}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

// IsCause reports whether target is the root of err, looking through
// ValidationError as well as pkg/errors wrapping.
func IsCause(err, target error) bool {
	cause := errors.Cause(err)
	if ve, ok := cause.(*ValidationError); ok {
		return ve.Err == target
	}
	return cause == target
}
