package util

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kovetskiy/katexify/katex"
	"github.com/kovetskiy/katexify/stdlib"
	"github.com/kovetskiy/katexify/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor(t *testing.T) *Processor {
	t.Helper()

	script, err := os.ReadFile(filepath.Join("..", "katex", "testdata", "katex-stub.js"))
	require.NoError(t, err)

	renderer, err := katex.NewGojaRenderer("katex-stub.js", script)
	require.NoError(t, err)

	lib, err := stdlib.New()
	require.NoError(t, err)

	return &Processor{
		Renderer: renderer,
		Lib:      lib,
		Handler:  NewErrorHandler(true),
	}
}

func TestProcessorTarget(t *testing.T) {
	tests := map[string]struct {
		base      string
		outputDir string
		file      string
		want      string
	}{
		"html in place":        {base: "docs", file: "docs/a/page.html", want: "docs/a/page.html"},
		"markdown next to it":  {base: "docs", file: "docs/a/page.md", want: "docs/a/page.html"},
		"output dir":           {base: "docs", outputDir: "out", file: "docs/a/page.md", want: "out/a/page.html"},
		"outside of base":      {base: "docs", outputDir: "out", file: "other/page.html", want: "out/page.html"},
		"uppercase extension":  {base: ".", outputDir: "out", file: "NOTES.MD", want: "out/NOTES.html"},
		"markdown long suffix": {base: ".", file: "notes.markdown", want: "notes.html"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			processor := &Processor{Base: tt.base, OutputDir: tt.outputDir}
			assert.Equal(t, filepath.FromSlash(tt.want), processor.Target(filepath.FromSlash(tt.file)))
		})
	}
}

func TestProcessorRenderFragment(t *testing.T) {
	processor := newProcessor(t)
	processor.Fragment = true
	processor.Config = types.KatexifyConfig{
		Macros: map[string]string{`\RR`: `\mathbb{R}`},
	}

	output, report, err := processor.Render(
		context.Background(),
		"snippet.html",
		[]byte(`<p><span class="inline-equation" data-expr="x \in \RR"></span></p>`),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inline)
	assert.Equal(t,
		`<p><span class="inline-equation" data-expr="x \in \RR"><span class="katex">x \in \mathbb{R}</span></span></p>`,
		output,
	)
}

func TestProcessorRenderLineEndings(t *testing.T) {
	processor := newProcessor(t)
	processor.Fragment = true

	output, _, err := processor.Render(
		context.Background(),
		"windows.html",
		[]byte("<p>\r\n<span class=\"inline-equation\" data-expr=\"a\"></span>\r\n</p>\r\n"),
	)
	require.NoError(t, err)
	assert.Equal(t,
		"<p>\r\n<span class=\"inline-equation\" data-expr=\"a\"><span class=\"katex\">a</span></span>\r\n</p>\r\n",
		output,
	)

	output, _, err = processor.Render(
		context.Background(),
		"windows.md",
		[]byte("$a$\r\n"),
	)
	require.NoError(t, err)
	assert.NotContains(t, output, "\r")
}

func TestProcessorRenderMarkdownMacrosOverride(t *testing.T) {
	processor := newProcessor(t)
	processor.Fragment = true
	processor.Config = types.KatexifyConfig{
		Macros: map[string]string{`\RR`: `\mathbb{R}`, `\NN`: `\mathbb{N}`},
	}

	output, report, err := processor.Render(
		context.Background(),
		"sets.md",
		[]byte("<!-- Macro: \\RR = \\mathbf{R} -->\n\n$\\RR \\supset \\NN$\n"),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inline)
	assert.Contains(t, output, `<span class="katex">\mathbf{R} \supset \mathbb{N}</span>`)
	assert.NotContains(t, output, "<html>")
}

func TestProcessorRenderMarkdownPage(t *testing.T) {
	processor := newProcessor(t)
	processor.TitleFromH1 = true
	processor.Config = types.KatexifyConfig{
		Stylesheet: "katex.min.css",
	}

	output, _, err := processor.Render(
		context.Background(),
		"page.md",
		[]byte("# Energy\n\n$$E = mc^2$$\n"),
	)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(output, "<!DOCTYPE html>"))
	assert.Contains(t, output, "<title>Energy</title>")
	assert.Contains(t, output, `<link rel="stylesheet" href="katex.min.css"/>`)
	assert.Contains(t, output, `<span class="equation" data-expr="E = mc^2"><span class="katex-display">E = mc^2</span></span>`)
}

func TestProcessorRenderPartialFailure(t *testing.T) {
	processor := newProcessor(t)
	processor.Fragment = true

	data := []byte(
		`<span class="inline-equation" data-expr="\invalid"></span>` +
			`<span class="inline-equation" data-expr="a"></span>`,
	)

	output, report, err := processor.Render(context.Background(), "x.html", data)
	require.Error(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t,
		`<span class="inline-equation" data-expr="\invalid"></span>`+
			`<span class="inline-equation" data-expr="a"><span class="katex">a</span></span>`,
		output,
	)

	processor.Config.FailFast = true

	output, report, err = processor.Render(context.Background(), "x.html", data)
	require.Error(t, err)
	assert.Equal(t, 0, report.Inline)
	assert.NotContains(t, output, "katex")
}

func TestProcessorProcess(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(
		source,
		[]byte("<html><head></head><body><span class=\"equation\" data-expr=\"y\"></span></body></html>"),
		0o644,
	))

	processor := newProcessor(t)
	processor.Base = dir
	processor.ChangesOnly = true

	processor.Process(context.Background(), source)

	rendered, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t,
		`<html><head></head><body><span class="equation" data-expr="y"><span class="katex-display">y</span></span></body></html>`,
		string(rendered),
	)

	info, err := os.Stat(source)
	require.NoError(t, err)

	// rendering an already rendered file yields the same bytes and is not
	// written again
	written, err := processor.write(source, string(rendered))
	require.NoError(t, err)
	assert.False(t, written)

	after, err := os.Stat(source)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())

	assert.Equal(t, 0, processor.Handler.Failures)
}

func TestProcessorProcessStdout(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(source, []byte("$z$\n"), 0o644))

	var stdout bytes.Buffer

	processor := newProcessor(t)
	processor.Fragment = true
	processor.Stdout = &stdout

	processor.Process(context.Background(), source)

	assert.Equal(t,
		"<p><span class=\"inline-equation\" data-expr=\"z\"><span class=\"katex\">z</span></span></p>\n\n",
		stdout.String(),
	)

	_, err := os.Stat(filepath.Join(dir, "page.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestProcessorProcessEmptyFile(t *testing.T) {
	source := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(source, []byte("\n"), 0o644))

	processor := newProcessor(t)
	processor.Process(context.Background(), source)

	rendered, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, "\n", string(rendered))
	assert.Equal(t, 0, processor.Handler.Failures)
}

func TestProcessorProcessMissingFile(t *testing.T) {
	processor := newProcessor(t)

	processor.Process(context.Background(), filepath.Join(t.TempDir(), "missing.html"))

	assert.Equal(t, 1, processor.Handler.Failures)
	assert.EqualError(t, processor.Handler.Err(), "1 file(s) failed to process")
}
