package katex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// ChromeRenderer runs KaTeX inside a headless Chrome tab. The browser is
// started once and reused for every expression until Close.
type ChromeRenderer struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

func NewChromeRenderer(
	ctx context.Context,
	script []byte,
	timeout time.Duration,
) (*ChromeRenderer, error) {
	browser, cancel := chromedp.NewContext(ctx)

	log.Debugf(nil, "starting headless browser for KaTeX")

	var loaded bool
	err := chromedp.Run(browser,
		chromedp.Navigate("about:blank"),
		chromedp.Evaluate(
			string(script)+"\n;typeof katex !== 'undefined'",
			&loaded,
		),
	)
	if err != nil {
		cancel()
		return nil, karma.Format(err, "unable to load KaTeX into browser")
	}

	if !loaded {
		cancel()
		return nil, fmt.Errorf("script does not define katex")
	}

	return &ChromeRenderer{
		ctx:     browser,
		cancel:  cancel,
		timeout: timeout,
	}, nil
}

func (renderer *ChromeRenderer) Render(
	ctx context.Context,
	expression string,
	opts Options,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	args, err := json.Marshal([]interface{}{expression, opts.object()})
	if err != nil {
		return "", err
	}

	run, cancel := context.WithTimeout(renderer.ctx, renderer.timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var markup string
	err = chromedp.Run(run, chromedp.Evaluate(
		fmt.Sprintf("katex.renderToString.apply(katex, %s)", args),
		&markup,
	))
	if err != nil {
		return "", err
	}

	return markup, nil
}

func (renderer *ChromeRenderer) Close() error {
	renderer.cancel()
	return nil
}
