package renderer

import (
	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// AdmonitionRenderer writes admonition blocks as a div carrying the
// admonition class, with an optional title paragraph before the body.
type AdmonitionRenderer struct{}

func NewAdmonitionRenderer() renderer.NodeRenderer {
	return &AdmonitionRenderer{}
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs.
func (r *AdmonitionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(admonitions.KindAdmonition, r.renderAdmonition)
}

func (r *AdmonitionRenderer) renderAdmonition(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*admonitions.Admonition)

	if !entering {
		_, _ = w.WriteString("</div>\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<div class="admonition`)
	if class := string(n.AdmonitionClass); class != "" {
		_ = w.WriteByte(' ')
		_, _ = w.Write(util.EscapeHTML([]byte(class)))
	}
	_, _ = w.WriteString("\">\n")

	if title := string(n.Title); title != "" {
		_, _ = w.WriteString(`<p class="admonition-title">`)
		_, _ = w.Write(util.EscapeHTML([]byte(title)))
		_, _ = w.WriteString("</p>\n")
	}

	return ast.WalkContinue, nil
}
