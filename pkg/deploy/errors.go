package deploy

import "errors"

// ErrInvalidXSRFToken is returned when the auth cookie carries no usable
// _xsrf token.
var ErrInvalidXSRFToken = errors.New("deploy: invalid xsrf token")

// FlagError reports an invalid combination of deploy flags. It maps to exit
// code 2 in the CLI.
type FlagError struct {
	Message string
}

func (e *FlagError) Error() string {
	return e.Message
}

type xsrfError struct {
	msg string
}

func (e *xsrfError) Error() string        { return e.msg }
func (e *xsrfError) Is(target error) bool { return target == ErrInvalidXSRFToken }
