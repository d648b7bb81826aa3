package katex

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/kovetskiy/katexify/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stubScript = "testdata/katex-stub.js"

func newGojaRenderer(t *testing.T) *GojaRenderer {
	t.Helper()

	script, err := os.ReadFile(stubScript)
	require.NoError(t, err)

	renderer, err := NewGojaRenderer(stubScript, script)
	require.NoError(t, err)

	return renderer
}

func TestGojaRenderer(t *testing.T) {
	renderer := newGojaRenderer(t)

	tests := map[string]struct {
		expression string
		opts       Options
		want       string
		wantErr    string
	}{
		"inline": {
			expression: "x^2",
			want:       `<span class="katex">x^2</span>`,
		},
		"display": {
			expression: `\int_0^1 f(x)dx`,
			opts:       Options{DisplayMode: true},
			want:       `<span class="katex-display">\int_0^1 f(x)dx</span>`,
		},
		"escaped": {
			expression: "a<b",
			want:       `<span class="katex">a&lt;b</span>`,
		},
		"macros": {
			expression: `x \in \RR`,
			opts:       Options{Macros: map[string]string{`\RR`: `\mathbb{R}`}},
			want:       `<span class="katex">x \in \mathbb{R}</span>`,
		},
		"parse error": {
			expression: `\invalid{x}`,
			wantErr:    `ParseError: KaTeX parse error: Undefined control sequence: \invalid`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := renderer.Render(context.Background(), tt.expression, tt.opts)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGojaRendererRecoversAfterError(t *testing.T) {
	renderer := newGojaRenderer(t)

	_, err := renderer.Render(context.Background(), `\invalid`, Options{})
	require.Error(t, err)

	got, err := renderer.Render(context.Background(), "y", Options{})
	require.NoError(t, err)
	assert.Equal(t, `<span class="katex">y</span>`, got)
}

func TestGojaRendererCanceled(t *testing.T) {
	renderer := newGojaRenderer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := renderer.Render(ctx, "x", Options{})
	assert.ErrorIs(t, err, context.Canceled)

	got, err := renderer.Render(context.Background(), "x", Options{})
	require.NoError(t, err)
	assert.Equal(t, `<span class="katex">x</span>`, got)
}

func TestNewGojaRendererInvalidScript(t *testing.T) {
	t.Run("no katex", func(t *testing.T) {
		_, err := NewGojaRenderer("empty.js", []byte("var x = 1;"))
		assert.EqualError(t, err, `script "empty.js" does not define katex`)
	})

	t.Run("no renderToString", func(t *testing.T) {
		_, err := NewGojaRenderer("partial.js", []byte("var katex = {};"))
		assert.EqualError(t, err, `script "partial.js" does not define katex.renderToString`)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := NewGojaRenderer("broken.js", []byte("var katex = {"))
		assert.ErrorContains(t, err, `unable to evaluate KaTeX script "broken.js"`)
	})
}

func TestConfluenceRenderer(t *testing.T) {
	renderer, err := New(context.Background(), BackendConfig{Name: BackendConfluence})
	require.NoError(t, err)

	inline, err := renderer.Render(context.Background(), "x^2", Options{})
	require.NoError(t, err)
	assert.Equal(t,
		`<ac:structured-macro ac:name="ppl mathjax inline macro"><ac:parameter ac:name="equation">x^2</ac:parameter></ac:structured-macro>`,
		inline,
	)

	display, err := renderer.Render(context.Background(), "x^2", Options{DisplayMode: true})
	require.NoError(t, err)
	assert.Equal(t,
		`<ac:structured-macro ac:name="ppl mathjax block macro"><ac:plain-text-body><![CDATA[x^2]]></ac:plain-text-body></ac:structured-macro>`,
		display,
	)

	_, err = renderer.Render(context.Background(), "  ", Options{})
	assert.EqualError(t, err, "empty expression")
}

func TestNew(t *testing.T) {
	script, err := os.ReadFile(stubScript)
	require.NoError(t, err)

	opener := vfs.Memory{"katex.min.js": script}

	t.Run("goja", func(t *testing.T) {
		renderer, err := New(context.Background(), BackendConfig{
			Name:       BackendGoja,
			ScriptPath: "katex.min.js",
			Opener:     opener,
		})
		require.NoError(t, err)
		assert.IsType(t, &GojaRenderer{}, renderer)
		assert.NoError(t, Close(renderer))
	})

	t.Run("default backend is goja", func(t *testing.T) {
		renderer, err := New(context.Background(), BackendConfig{
			ScriptPath: "katex.min.js",
			Opener:     opener,
		})
		require.NoError(t, err)
		assert.IsType(t, &GojaRenderer{}, renderer)
	})

	t.Run("missing script path", func(t *testing.T) {
		_, err := New(context.Background(), BackendConfig{Name: BackendGoja})
		assert.EqualError(t, err, `backend "goja" requires a KaTeX script (--katex-script)`)
	})

	t.Run("missing script file", func(t *testing.T) {
		_, err := New(context.Background(), BackendConfig{
			Name:       BackendGoja,
			ScriptPath: "nope.js",
			Opener:     opener,
		})
		assert.ErrorContains(t, err, "unable to load KaTeX script")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New(context.Background(), BackendConfig{Name: "mathjax"})
		assert.EqualError(t, err, "unknown backend: mathjax")
	})
}

func TestOptions(t *testing.T) {
	base := Options{Macros: map[string]string{`\RR`: `\mathbb{R}`, `\NN`: `\mathbb{N}`}}

	merged := base.WithMacros(map[string]string{`\RR`: `\mathbf{R}`})
	assert.Equal(t, `\mathbf{R}`, merged.Macros[`\RR`])
	assert.Equal(t, `\mathbb{N}`, merged.Macros[`\NN`])
	assert.Equal(t, `\mathbb{R}`, base.Macros[`\RR`])

	display := base.WithDisplayMode(true)
	assert.True(t, display.DisplayMode)
	assert.False(t, base.DisplayMode)

	assert.Equal(t, map[string]interface{}{
		"displayMode":  false,
		"throwOnError": true,
	}, Options{}.object())

	assert.Equal(t, map[string]interface{}{
		"displayMode":  true,
		"throwOnError": true,
		"output":       "mathml",
		"trust":        true,
	}, Options{DisplayMode: true, Output: "mathml", Trust: true}.object())
}

func TestLoadMacros(t *testing.T) {
	opener := vfs.Memory{
		"macros.yaml": []byte("\\RR: \\mathbb{R}\n\\abs: \\left|#1\\right|\n"),
		"bad.yaml":    []byte("RR: \\mathbb{R}\n"),
		"broken.yaml": []byte("- a\n- b\n"),
	}

	macros, err := LoadMacros(opener, "macros.yaml")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		`\RR`:  `\mathbb{R}`,
		`\abs`: `\left|#1\right|`,
	}, macros)

	_, err = LoadMacros(opener, "bad.yaml")
	assert.EqualError(t, err, `macro "RR" in "bad.yaml" must start with a backslash`)

	_, err = LoadMacros(opener, "broken.yaml")
	assert.ErrorContains(t, err, `unable to decode macros file "broken.yaml"`)
}

func findChrome() bool {
	for _, name := range []string{
		"headless-shell",
		"chromium",
		"chromium-browser",
		"google-chrome",
		"google-chrome-stable",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}

	return false
}

func TestChromeRenderer(t *testing.T) {
	if testing.Short() || !findChrome() {
		t.Skip("headless chrome is not available")
	}

	script, err := os.ReadFile(stubScript)
	require.NoError(t, err)

	renderer, err := NewChromeRenderer(context.Background(), script, 30*time.Second)
	require.NoError(t, err)
	defer renderer.Close()

	got, err := renderer.Render(context.Background(), "x^2", Options{DisplayMode: true})
	require.NoError(t, err)
	assert.Equal(t, `<span class="katex-display">x^2</span>`, got)

	_, err = renderer.Render(context.Background(), `\invalid`, Options{})
	assert.Error(t, err)
}
