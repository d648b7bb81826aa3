package vfs

import (
	"bytes"
	"io"
	"os"

	"github.com/reconquest/karma-go"
)

type Opener interface {
	Open(name string) (io.ReadCloser, error)
}

type LocalOSOpener struct {
}

func (o LocalOSOpener) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

var LocalOS = LocalOSOpener{}

// Memory serves files from a map, keyed by the name passed to Open.
type Memory map[string][]byte

func (m Memory) Open(name string) (io.ReadCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func ReadFile(opener Opener, name string) ([]byte, error) {
	file, err := opener.Open(name)
	if err != nil {
		return nil, karma.Format(err, "unable to open file %q", name)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, karma.Format(err, "unable to read file %q", name)
	}

	return data, nil
}
