package backend

import (
	"context"
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig watches a JSON config file and invokes apply with the reloaded
// tuning whenever the file is rewritten. Reload errors are logged and the
// previous tuning stays in effect. The watcher stops when ctx is cancelled.
func WatchConfig(ctx context.Context, path string, apply func(Tuning)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed creating config watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed watching %s: %w", path, err)
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					log.Printf("config reload skipped: %v", err)
					continue
				}
				apply(cfg.Tuning())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config watcher: %v", err)
			}
		}
	}()
	return nil
}
