package util

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kovetskiy/katexify/dom"
	"github.com/kovetskiy/katexify/equation"
	"github.com/kovetskiy/katexify/katex"
	mark "github.com/kovetskiy/katexify/markdown"
	"github.com/kovetskiy/katexify/metadata"
	"github.com/kovetskiy/katexify/stdlib"
	"github.com/kovetskiy/katexify/types"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// Processor renders the equations of one file at a time and writes the
// result next to it, under OutputDir or to Stdout.
type Processor struct {
	Config   types.KatexifyConfig
	Renderer katex.Renderer
	Lib      *stdlib.Lib

	// Base is the directory part of the files pattern; output paths keep
	// the file's location relative to it.
	Base      string
	OutputDir string
	Stdout    io.Writer

	Fragment    bool
	ChangesOnly bool
	TitleFromH1 bool

	Handler *FatalErrorHandler
}

func (p *Processor) Process(ctx context.Context, file string) {
	data, err := os.ReadFile(file)
	if err != nil {
		p.Handler.Handle(err, "unable to read file %q", file)
		return
	}

	// A writer that truncates before writing is observed here as an empty
	// file; rendering it would replace the source with an empty page.
	if len(bytes.TrimSpace(data)) == 0 {
		log.Warningf(nil, "%s is empty, skipping", file)
		return
	}

	output, report, err := p.Render(ctx, file, data)
	if output == "" && err != nil {
		p.Handler.Handle(err, "unable to render file %q", file)
		return
	}

	log.Infof(
		nil,
		"%s: rendered %d equation(s), %d inline and %d display",
		file,
		report.Rendered(),
		report.Inline,
		report.Display,
	)

	if p.Stdout != nil {
		fmt.Fprintln(p.Stdout, output)
	} else {
		target := p.Target(file)

		written, err := p.write(target, output)
		if err != nil {
			p.Handler.Handle(err, "unable to write file %q", target)
			return
		}

		if written {
			log.Infof(nil, "file successfully written: %s", target)
		}
	}

	if err != nil {
		p.Handler.Handle(nil, "%d equation(s) failed to render in %q", report.Failed, file)
	}
}

// Render parses the file, runs a render pass over it and serializes the
// result. The output is returned along with equation.Errors when only some
// equations failed.
func (p *Processor) Render(ctx context.Context, file string, data []byte) (string, equation.Report, error) {
	var report equation.Report

	document, macros, err := p.parse(file, data)
	if err != nil {
		return "", report, err
	}

	invoker := equation.New(p.Renderer, equation.Config{
		InlineClass:    p.Config.InlineClass,
		DisplayClass:   p.Config.DisplayClass,
		ExpressionAttr: p.Config.ExpressionAttr,
		Options: katex.Options{
			Macros: p.Config.Macros,
			Output: p.Config.Output,
			Trust:  p.Config.Trust,
		}.WithMacros(macros),
		FailFast: p.Config.FailFast,
	})

	report, renderErr := invoker.RenderAll(ctx, document)

	var errs equation.Errors
	if errors.As(renderErr, &errs) {
		for _, err := range errs {
			log.Errorf(
				karma.
					Describe("element", err.Path).
					Describe("expression", err.Expression).
					Reason(err.Err),
				"unable to render %s #%d in %q",
				err.Class,
				err.Index,
				file,
			)
		}
	} else if renderErr != nil {
		return "", report, renderErr
	}

	output, err := document.String()
	if err != nil {
		return "", report, err
	}

	// The html tokenizer reads CRLF as LF; HTML rewritten in place keeps
	// the line endings it came with.
	if !isMarkdown(file) && bytes.Contains(data, []byte("\r\n")) {
		output = strings.ReplaceAll(output, "\n", "\r\n")
	}

	return output, report, renderErr
}

func (p *Processor) parse(file string, data []byte) (*dom.Document, map[string]string, error) {
	parse := dom.Parse
	if p.Fragment {
		parse = dom.ParseFragment
	}

	if !isMarkdown(file) {
		document, err := parse(bytes.NewReader(data))
		return document, nil, err
	}

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	meta, body, err := metadata.ExtractMeta(data, p.TitleFromH1, p.TitleFromH1, file)
	if err != nil {
		return nil, nil, karma.Format(err, "unable to extract metadata from file %q", file)
	}

	html, err := mark.CompileMarkdown(body, p.Config)
	if err != nil {
		return nil, nil, err
	}

	page := stdlib.Page{
		Stylesheet: p.Config.Stylesheet,
		Body:       html,
	}

	var macros map[string]string
	if meta != nil {
		page.Title = meta.Title
		if meta.Stylesheet != "" {
			page.Stylesheet = meta.Stylesheet
		}

		macros = meta.Macros
	}

	if !p.Fragment {
		html, err = p.Lib.Execute(stdlib.TemplatePage, page)
		if err != nil {
			return nil, nil, err
		}
	}

	document, err := parse(strings.NewReader(html))

	return document, macros, err
}

// Target is the path the rendered file is written to.
func (p *Processor) Target(file string) string {
	target := file
	if isMarkdown(file) {
		target = strings.TrimSuffix(file, filepath.Ext(file)) + ".html"
	}

	if p.OutputDir == "" {
		return target
	}

	relative, err := filepath.Rel(p.Base, target)
	if err != nil || strings.HasPrefix(relative, "..") {
		relative = filepath.Base(target)
	}

	return filepath.Join(p.OutputDir, relative)
}

func (p *Processor) write(target string, output string) (bool, error) {
	if p.ChangesOnly {
		current, err := os.ReadFile(target)
		if err == nil && getSHA1Hash(string(current)) == getSHA1Hash(output) {
			log.Infof(nil, "%s is already up to date", target)
			return false, nil
		}
	}

	err := os.MkdirAll(filepath.Dir(target), 0o755)
	if err != nil {
		return false, err
	}

	err = os.WriteFile(target, []byte(output), 0o644)
	if err != nil {
		return false, err
	}

	return true, nil
}

func isMarkdown(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}
