// Package equation renders every marked element of a document in place.
//
// Elements carrying the inline class are typeset inline, elements carrying
// the display class are typeset in display mode. The expression is read
// from an attribute and handed to a katex.Renderer; the element's content
// is replaced with the result while the attribute is kept, so a document
// can be rendered again.
package equation

import (
	"context"

	"github.com/kovetskiy/katexify/dom"
	"github.com/kovetskiy/katexify/katex"
	"github.com/reconquest/pkg/log"
)

const (
	DefaultInlineClass    = "inline-equation"
	DefaultDisplayClass   = "equation"
	DefaultExpressionAttr = "data-expr"
)

type Config struct {
	InlineClass    string
	DisplayClass   string
	ExpressionAttr string

	// Options is the base render configuration; DisplayMode is set per
	// element.
	Options katex.Options

	// FailFast stops the pass at the first failing element, leaving the
	// rest unrendered. By default every element is attempted.
	FailFast bool
}

func (config Config) withDefaults() Config {
	if config.InlineClass == "" {
		config.InlineClass = DefaultInlineClass
	}

	if config.DisplayClass == "" {
		config.DisplayClass = DefaultDisplayClass
	}

	if config.ExpressionAttr == "" {
		config.ExpressionAttr = DefaultExpressionAttr
	}

	return config
}

// Report counts the elements handled by a pass.
type Report struct {
	Inline  int
	Display int
	Failed  int
}

func (report Report) Rendered() int {
	return report.Inline + report.Display
}

type Invoker struct {
	renderer katex.Renderer
	config   Config
}

func New(renderer katex.Renderer, config Config) *Invoker {
	return &Invoker{
		renderer: renderer,
		config:   config.withDefaults(),
	}
}

// RenderAll renders the inline set and then the display set of query, each
// in document order. Element failures are returned as Errors once the pass
// is over, or as soon as one occurs with FailFast.
func (invoker *Invoker) RenderAll(ctx context.Context, query dom.Query) (Report, error) {
	var (
		report Report
		errs   Errors
	)

	passes := []struct {
		class   string
		display bool
	}{
		{invoker.config.InlineClass, false},
		{invoker.config.DisplayClass, true},
	}

	for _, pass := range passes {
		for index, element := range query.Select(pass.class) {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			err := invoker.render(ctx, element, pass.class, index, pass.display)
			if err != nil {
				report.Failed++
				errs = append(errs, err)

				if invoker.config.FailFast {
					return report, errs
				}

				continue
			}

			if pass.display {
				report.Display++
			} else {
				report.Inline++
			}
		}
	}

	log.Debugf(
		nil,
		"rendered %d inline and %d display equations, %d failed",
		report.Inline,
		report.Display,
		report.Failed,
	)

	if len(errs) > 0 {
		return report, errs
	}

	return report, nil
}

func (invoker *Invoker) render(
	ctx context.Context,
	element dom.Element,
	class string,
	index int,
	display bool,
) *RenderError {
	expression, ok := element.Attr(invoker.config.ExpressionAttr)
	if !ok {
		return &RenderError{
			Class:       class,
			Index:       index,
			Path:        element.Path(),
			DisplayMode: display,
			Err:         ErrMissingExpression,
		}
	}

	log.Tracef(nil, "rendering %s #%d: %q", class, index, expression)

	markup, err := invoker.renderer.Render(
		ctx,
		expression,
		invoker.config.Options.WithDisplayMode(display),
	)
	if err != nil {
		return &RenderError{
			Class:       class,
			Index:       index,
			Path:        element.Path(),
			Expression:  expression,
			DisplayMode: display,
			Err:         err,
		}
	}

	element.SetContent(markup)

	return nil
}
