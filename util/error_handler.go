package util

import (
	"fmt"

	"github.com/reconquest/pkg/log"
)

type FatalErrorHandler struct {
	ContinueOnError bool

	// Failures counts errors handled without exiting.
	Failures int
}

func NewErrorHandler(continueOnError bool) *FatalErrorHandler {
	return &FatalErrorHandler{
		ContinueOnError: continueOnError,
	}
}

func (h *FatalErrorHandler) Handle(err error, format string, args ...interface{}) {

	if err == nil {
		if h.ContinueOnError {
			h.Failures++
			log.Error(fmt.Sprintf(format, args...))
			return
		}
		log.Fatal(fmt.Sprintf(format, args...))
	}

	if h.ContinueOnError {
		h.Failures++
		log.Errorf(err, format, args...)
		return
	}
	log.Fatalf(err, format, args...)
}

// Err reports the failures that were let through, so the command still
// exits non-zero after processing every file.
func (h *FatalErrorHandler) Err() error {
	if h.Failures == 0 {
		return nil
	}

	return fmt.Errorf("%d file(s) failed to process", h.Failures)
}
