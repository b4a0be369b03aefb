package scheduler

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"focusd/internal/config"
)

const debounceInterval = 500 * time.Millisecond

// WatchConfig watches the config file and calls onChange with each freshly
// loaded config. Events are debounced: editors produce bursts of writes for
// one save. Invalid configs are logged and skipped, keeping the last good
// settings. Blocks until ctx is cancelled.
func WatchConfig(ctx context.Context, path string, onChange func(*config.Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: editors replace files on save, which would drop
	// a watch on the file itself.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceInterval, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			cfg, err := config.Load(path)
			if err != nil {
				log.Printf("scheduler: config reload skipped: %v", err)
				continue
			}
			log.Printf("scheduler: config reloaded from %s", path)
			onChange(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("scheduler: watch error: %v", err)
		}
	}
}
