package katex

import (
	"context"
	"errors"
	"strings"

	"github.com/kovetskiy/katexify/stdlib"
)

// ConfluenceRenderer leaves typesetting to Confluence by emitting the
// mathjax inline and block macros in storage format.
type ConfluenceRenderer struct {
	lib *stdlib.Lib
}

func NewConfluenceRenderer(lib *stdlib.Lib) *ConfluenceRenderer {
	return &ConfluenceRenderer{lib: lib}
}

func (renderer *ConfluenceRenderer) Render(
	ctx context.Context,
	expression string,
	opts Options,
) (string, error) {
	if strings.TrimSpace(expression) == "" {
		return "", errors.New("empty expression")
	}

	name := stdlib.TemplateMathInline
	if opts.DisplayMode {
		name = stdlib.TemplateMathDisplay
	}

	return renderer.lib.Execute(name, struct {
		Expression string
	}{
		Expression: expression,
	})
}
