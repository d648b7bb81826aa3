// Package katex wraps the KaTeX typesetting library behind a Renderer and
// provides the backends able to run it: the goja JavaScript VM, a headless
// Chrome instance driven by chromedp, and Confluence math macros.
package katex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kovetskiy/katexify/stdlib"
	"github.com/kovetskiy/katexify/vfs"
	"github.com/reconquest/karma-go"
)

const (
	BackendGoja       = "goja"
	BackendChromedp   = "chromedp"
	BackendConfluence = "confluence"
)

var defaultRenderTimeout = 30 * time.Second

// Renderer typesets a single expression and returns the resulting markup.
type Renderer interface {
	Render(ctx context.Context, expression string, opts Options) (string, error)
}

type BackendConfig struct {
	Name string

	// ScriptPath points at a KaTeX distribution script (katex.min.js) and
	// is required by the goja and chromedp backends.
	ScriptPath string
	Opener     vfs.Opener

	// Lib holds the macro templates used by the confluence backend.
	Lib *stdlib.Lib

	Timeout time.Duration
}

func New(ctx context.Context, config BackendConfig) (Renderer, error) {
	if config.Opener == nil {
		config.Opener = vfs.LocalOS
	}

	if config.Timeout <= 0 {
		config.Timeout = defaultRenderTimeout
	}

	switch config.Name {
	case BackendGoja, "":
		script, err := readScript(config)
		if err != nil {
			return nil, err
		}

		return NewGojaRenderer(config.ScriptPath, script)

	case BackendChromedp:
		script, err := readScript(config)
		if err != nil {
			return nil, err
		}

		return NewChromeRenderer(ctx, script, config.Timeout)

	case BackendConfluence:
		lib := config.Lib
		if lib == nil {
			var err error
			lib, err = stdlib.New()
			if err != nil {
				return nil, err
			}
		}

		return NewConfluenceRenderer(lib), nil

	default:
		return nil, fmt.Errorf("unknown backend: %s", config.Name)
	}
}

// Close releases resources held by the renderer, if any.
func Close(renderer Renderer) error {
	if closer, ok := renderer.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func readScript(config BackendConfig) ([]byte, error) {
	if config.ScriptPath == "" {
		return nil, fmt.Errorf(
			"backend %q requires a KaTeX script (--katex-script)",
			config.Name,
		)
	}

	script, err := vfs.ReadFile(config.Opener, config.ScriptPath)
	if err != nil {
		return nil, karma.Format(err, "unable to load KaTeX script")
	}

	return script, nil
}
