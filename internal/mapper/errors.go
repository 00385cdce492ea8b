package mapper

import (
	"errors"
	"fmt"
)

var (
	// ErrMapping is matched by every *MappingError.
	ErrMapping = errors.New("present document mapping failed")
	// ErrUnknownActivityType reports an activity tag outside models.ActivityTypes.
	ErrUnknownActivityType = errors.New("unknown activity type")
	// ErrNoResolver is returned when a document references a user by id and
	// the mapper was built without a UserResolver.
	ErrNoResolver = errors.New("no user resolver configured")
)

// MappingError names the dotted path of the field that could not be read.
type MappingError struct {
	Field string
	Err   error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map %s: %v", e.Field, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

func (e *MappingError) Is(target error) bool { return target == ErrMapping }

var (
	errMissing   = errors.New("required field missing")
	errWrongType = errors.New("unexpected type")
)

func missing(path string) error {
	return &MappingError{Field: path, Err: errMissing}
}

func wrongType(path, want string, got any) error {
	return &MappingError{Field: path, Err: fmt.Errorf("%w: want %s, got %T", errWrongType, want, got)}
}
