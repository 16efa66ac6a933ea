package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay lets an editor finish writing before the file is read.
const settleDelay = 50 * time.Millisecond

// Watch reloads path whenever it is written or recreated and passes every
// valid result to fn. Invalid edits are logged and skipped, so fn only
// ever sees a config that passed Validate. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Printf("Failed to close config watcher: %v", err)
		}
	}()

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}
	log.Printf("Watching config %s", abs)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			select {
			case <-time.After(settleDelay):
			case <-ctx.Done():
				return nil
			}

			cfg, err := Load(abs)
			if err != nil {
				log.Printf("Ignoring config change: %v", err)
				continue
			}
			log.Printf("Config reloaded from %s", abs)
			fn(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}
