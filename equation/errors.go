package equation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingExpression = errors.New("missing expression attribute")

// RenderError describes a single element that could not be rendered.
type RenderError struct {
	Class       string
	Index       int
	Path        string
	Expression  string
	DisplayMode bool
	Err         error
}

func (err *RenderError) Error() string {
	return fmt.Sprintf(
		"%s #%d (%s) %q: %s",
		err.Class,
		err.Index,
		err.Path,
		err.Expression,
		err.Err,
	)
}

func (err *RenderError) Unwrap() error {
	return err.Err
}

// Errors collects every element failure of a single pass, in the order
// elements were processed.
type Errors []*RenderError

func (errs Errors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}

	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, fmt.Sprintf("%d equations failed to render:", len(errs)))
	for _, err := range errs {
		lines = append(lines, "  "+err.Error())
	}

	return strings.Join(lines, "\n")
}

func (errs Errors) Unwrap() []error {
	unwrapped := make([]error, len(errs))
	for i, err := range errs {
		unwrapped[i] = err
	}

	return unwrapped
}
