package mark

import (
	"bytes"
	"slices"

	"github.com/kovetskiy/katexify/equation"
	cparser "github.com/kovetskiy/katexify/parser"
	crenderer "github.com/kovetskiy/katexify/renderer"
	"github.com/kovetskiy/katexify/types"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark"

	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

const FeatureAdmonitions = "mkdocsadmonitions"

// MathExtension turns $...$ and $$...$$ into markable elements.
type MathExtension struct {
	InlineClass    string
	DisplayClass   string
	ExpressionAttr string
}

func NewMathExtension(cfg types.KatexifyConfig) *MathExtension {
	ext := &MathExtension{
		InlineClass:    cfg.InlineClass,
		DisplayClass:   cfg.DisplayClass,
		ExpressionAttr: cfg.ExpressionAttr,
	}

	if ext.InlineClass == "" {
		ext.InlineClass = equation.DefaultInlineClass
	}
	if ext.DisplayClass == "" {
		ext.DisplayClass = equation.DefaultDisplayClass
	}
	if ext.ExpressionAttr == "" {
		ext.ExpressionAttr = equation.DefaultExpressionAttr
	}

	return ext
}

func (e *MathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(cparser.NewMathParser(), 100),
	))

	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(crenderer.NewMathRenderer(
			e.InlineClass,
			e.DisplayClass,
			e.ExpressionAttr,
		), 100),
	))
}

// AdmonitionExtension parses fenced !!! admonition blocks.
type AdmonitionExtension struct{}

func (e *AdmonitionExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(admonitions.NewAdmonitionParser(), 100),
		),
	)

	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(crenderer.NewAdmonitionRenderer(), 100),
	))
}

func CompileMarkdown(markdown []byte, cfg types.KatexifyConfig) (string, error) {
	log.Tracef(nil, "rendering markdown:\n%s", string(markdown))

	extensions := []goldmark.Extender{
		extension.Footnote,
		extension.DefinitionList,
		extension.NewTable(
			extension.WithTableCellAlignMethod(extension.TableCellAlignStyle),
		),
		NewMathExtension(cfg),
		extension.GFM,
	}

	if slices.Contains(cfg.Features, FeatureAdmonitions) {
		extensions = append(extensions, &AdmonitionExtension{})
	}

	converter := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		))

	var buf bytes.Buffer
	err := converter.Convert(markdown, &buf)
	if err != nil {
		return "", karma.Format(err, "unable to compile markdown")
	}

	html := buf.String()

	log.Tracef(nil, "rendered markdown to html:\n%s", html)

	return html, nil
}
