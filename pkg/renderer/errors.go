package renderer

import (
	"errors"
	"fmt"
)

// ErrRender matches every *RenderError.
var ErrRender = errors.New("render failed")

// RenderError reports a template or feature that cannot be rendered.
type RenderError struct {
	Path    string
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == ErrRender }

func renderErrorf(path, format string, args ...any) *RenderError {
	return &RenderError{Path: path, Message: fmt.Sprintf(format, args...)}
}
