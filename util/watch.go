package util

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// WatchDelay is how long a file has to stay quiet after an event before it
// is processed.
const WatchDelay = 100 * time.Millisecond

// Watch calls process with the original name of every file that is
// written or recreated, until ctx is done. Directories are watched rather
// than files so editors that replace files on save are noticed. Events are
// coalesced until no watched file has changed for delay, so a save that
// truncates and then writes is processed once, after the write.
func Watch(
	ctx context.Context,
	files []string,
	delay time.Duration,
	process func(file string),
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return karma.Format(err, "unable to create file watcher")
	}
	defer watcher.Close()

	watched := map[string]string{}
	directories := map[string]struct{}{}

	for _, file := range files {
		path, err := filepath.Abs(file)
		if err != nil {
			return err
		}

		watched[path] = file
		directories[filepath.Dir(path)] = struct{}{}
	}

	for directory := range directories {
		err := watcher.Add(directory)
		if err != nil {
			return karma.Format(err, "unable to watch directory %q", directory)
		}
	}

	log.Infof(nil, "watching %d file(s) for changes", len(files))

	pending := map[string]struct{}{}

	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			file, ok := watched[path]
			if !ok {
				continue
			}

			log.Debugf(nil, "%s: %s", file, event.Op)

			pending[file] = struct{}{}
			timer.Reset(delay)

		case <-timer.C:
			for _, file := range files {
				if _, ok := pending[file]; !ok {
					continue
				}

				delete(pending, file)

				log.Infof(nil, "%s changed", file)

				process(file)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Errorf(err, "file watcher error")
		}
	}
}
