package repository

import "errors"

// Kind classifies repository failures so handlers can map them to a
// transport status without string matching.
type Kind int

const (
	// KindValidation: required field missing or malformed. Raised before
	// any storage mutation.
	KindValidation Kind = iota + 1
	// KindReference: a foreign key does not exist (or belongs to another
	// user). Raised before mutation.
	KindReference
	// KindConflict: the storage layer rejected the write (unique key,
	// delete blocked by dependents).
	KindConflict
	// KindNotFound: update/delete/get targeting a nonexistent id.
	KindNotFound
)

// Error is the failure type returned by every repository operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationErr(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func referenceErr(msg string) error {
	return &Error{Kind: KindReference, Message: msg}
}

func conflictErr(msg string, err error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func notFoundErr(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewNotFound is for callers outside the package that hide rows
// belonging to another user behind a not-found answer.
func NewNotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func hasKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func IsValidation(err error) bool { return hasKind(err, KindValidation) }
func IsReference(err error) bool  { return hasKind(err, KindReference) }
func IsConflict(err error) bool   { return hasKind(err, KindConflict) }
func IsNotFound(err error) bool   { return hasKind(err, KindNotFound) }
