package vaultapi

import "errors"

// Error codes.
const (
	ErrCodeUnknownVersion   = "ERR_VAULTAPI_UNKNOWN_VERSION"
	ErrCodeUndeclaredMethod = "ERR_VAULTAPI_UNDECLARED_METHOD"
	ErrCodeBadArguments     = "ERR_VAULTAPI_BAD_ARGUMENTS"
	ErrCodeNotStubbed       = "ERR_VAULTAPI_NOT_STUBBED"
)

var (
	// ErrUnknownVersion is returned for a version with no surface.
	ErrUnknownVersion = errors.New("vaultapi: unknown version")
	// ErrUndeclaredMethod is returned when a method or attribute is used
	// that the surface does not declare.
	ErrUndeclaredMethod = errors.New("vaultapi: undeclared method")
	// ErrBadArguments is returned for unknown, missing or mistyped arguments.
	ErrBadArguments = errors.New("vaultapi: bad arguments")
	// ErrNotStubbed is returned when a declared method with a return value
	// is called without a stub.
	ErrNotStubbed = errors.New("vaultapi: method not stubbed")
)

// Error carries a code and the runtime-style message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is maps codes onto the package sentinels.
func (e *Error) Is(target error) bool {
	switch e.Code {
	case ErrCodeUnknownVersion:
		return target == ErrUnknownVersion
	case ErrCodeUndeclaredMethod:
		return target == ErrUndeclaredMethod
	case ErrCodeBadArguments:
		return target == ErrBadArguments
	case ErrCodeNotStubbed:
		return target == ErrNotStubbed
	}
	return false
}
