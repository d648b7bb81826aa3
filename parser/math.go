package parser

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MathInline is a $...$ span.
type MathInline struct {
	ast.BaseInline

	Expression []byte
}

var KindMathInline = ast.NewNodeKind("MathInline")

func (n *MathInline) Kind() ast.NodeKind {
	return KindMathInline
}

func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Expression": string(n.Expression),
	}, nil)
}

// MathDisplay is a $$...$$ span, which may cover several lines of a
// paragraph.
type MathDisplay struct {
	ast.BaseInline

	Expression []byte
}

var KindMathDisplay = ast.NewNodeKind("MathDisplay")

func (n *MathDisplay) Kind() ast.NodeKind {
	return KindMathDisplay
}

func (n *MathDisplay) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Expression": string(n.Expression),
	}, nil)
}

type MathParser struct {
}

func NewMathParser() parser.InlineParser {
	return &MathParser{}
}

func (p *MathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *MathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 {
		return nil
	}

	if line[1] == '$' {
		return p.parseDisplay(block)
	}

	return p.parseInline(block, line)
}

// parseInline follows the pandoc rule: the opening $ must be followed by a
// non-space and the closing $ preceded by a non-space and not followed by a
// digit, so "costs $5 or $6" stays text.
func (p *MathParser) parseInline(block text.Reader, line []byte) ast.Node {
	if isSpace(line[1]) {
		return nil
	}

	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++

		case '$':
			if isSpace(line[i-1]) {
				return nil
			}

			if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
				return nil
			}

			expression := make([]byte, i-1)
			copy(expression, line[1:i])

			block.Advance(i + 1)

			return &MathInline{Expression: expression}

		case '\n':
			return nil
		}
	}

	return nil
}

func (p *MathParser) parseDisplay(block text.Reader) ast.Node {
	ln, pos := block.Position()

	block.Advance(2)

	var expression []byte
	for {
		line, _ := block.PeekLine()
		if line == nil {
			block.SetPosition(ln, pos)
			return nil
		}

		end := bytes.Index(line, []byte("$$"))
		if end >= 0 {
			expression = append(expression, line[:end]...)
			block.Advance(end + 2)
			break
		}

		expression = append(expression, line...)
		block.AdvanceLine()
	}

	expression = bytes.TrimSpace(expression)
	if len(expression) == 0 {
		block.SetPosition(ln, pos)
		return nil
	}

	return &MathDisplay{Expression: expression}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
