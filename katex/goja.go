package katex

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// GojaRenderer runs KaTeX in an embedded JavaScript VM. A goja runtime is
// not goroutine safe, so renders are serialized.
type GojaRenderer struct {
	mutex  sync.Mutex
	vm     *goja.Runtime
	render goja.Callable
}

func NewGojaRenderer(name string, script []byte) (*GojaRenderer, error) {
	vm := goja.New()

	// The UMD bundle attaches itself to self when it is defined.
	err := vm.GlobalObject().Set("self", vm.GlobalObject())
	if err != nil {
		return nil, err
	}

	log.Debugf(nil, "evaluating KaTeX script: %q", name)

	_, err = vm.RunScript(name, string(script))
	if err != nil {
		return nil, karma.Format(
			exceptionReason(err),
			"unable to evaluate KaTeX script %q",
			name,
		)
	}

	katex := vm.Get("katex")
	if katex == nil || goja.IsUndefined(katex) || goja.IsNull(katex) {
		return nil, fmt.Errorf("script %q does not define katex", name)
	}

	render, ok := goja.AssertFunction(katex.ToObject(vm).Get("renderToString"))
	if !ok {
		return nil, fmt.Errorf("script %q does not define katex.renderToString", name)
	}

	return &GojaRenderer{
		vm:     vm,
		render: render,
	}, nil
}

func (renderer *GojaRenderer) Render(
	ctx context.Context,
	expression string,
	opts Options,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	renderer.mutex.Lock()
	defer renderer.mutex.Unlock()

	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		renderer.vm.Interrupt(ctx.Err())
		close(interrupted)
	})
	defer func() {
		if !stop() {
			<-interrupted
		}
		renderer.vm.ClearInterrupt()
	}()

	value, err := renderer.render(
		goja.Undefined(),
		renderer.vm.ToValue(expression),
		renderer.vm.ToValue(opts.object()),
	)
	if err != nil {
		return "", exceptionReason(err)
	}

	return value.String(), nil
}

// exceptionReason reduces a JavaScript exception to the thrown value's
// message, dropping the VM stack trace.
func exceptionReason(err error) error {
	var exception *goja.Exception
	if errors.As(err, &exception) {
		return errors.New(exception.Value().String())
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if reason, ok := interrupted.Value().(error); ok {
			return reason
		}
	}

	return err
}
