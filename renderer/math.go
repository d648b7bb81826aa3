package renderer

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	cparser "github.com/kovetskiy/katexify/parser"
)

// MathRenderer writes math nodes as empty markable elements; the
// expression travels in an attribute and is typeset by a later pass.
type MathRenderer struct {
	InlineClass    string
	DisplayClass   string
	ExpressionAttr string
}

func NewMathRenderer(inlineClass, displayClass, expressionAttr string) renderer.NodeRenderer {
	return &MathRenderer{
		InlineClass:    inlineClass,
		DisplayClass:   displayClass,
		ExpressionAttr: expressionAttr,
	}
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs .
func (r *MathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(cparser.KindMathInline, r.renderInline)
	reg.Register(cparser.KindMathDisplay, r.renderDisplay)
}

func (r *MathRenderer) renderInline(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.write(w, r.InlineClass, n.(*cparser.MathInline).Expression)
	}

	return ast.WalkContinue, nil
}

func (r *MathRenderer) renderDisplay(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.write(w, r.DisplayClass, n.(*cparser.MathDisplay).Expression)
	}

	return ast.WalkContinue, nil
}

// Both kinds are spans: a display equation may sit inside a paragraph and
// KaTeX display output is block level on its own.
func (r *MathRenderer) write(w util.BufWriter, class string, expression []byte) {
	_, _ = w.WriteString(`<span class="`)
	_, _ = w.Write(util.EscapeHTML([]byte(class)))
	_, _ = w.WriteString(`" `)
	_, _ = w.WriteString(r.ExpressionAttr)
	_, _ = w.WriteString(`="`)
	_, _ = w.Write(util.EscapeHTML(expression))
	_, _ = w.WriteString(`"></span>`)
}
