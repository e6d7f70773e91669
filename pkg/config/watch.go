package config

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/neobones/melimep/internal/log"
)

// Watch monitors a YAML configuration file for changes and calls onChange
// with the newly loaded ConfigData each time the file is written. It runs
// until ctx is cancelled.
//
// If a reload fails (e.g. invalid YAML), the error is logged and the
// previous configuration remains active.
func Watch(ctx context.Context, path string, onChange func(*ConfigData)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	log.Infof("watching configuration file %s for changes", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, so catch Create as well.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := NewYAMLProvider(path).LoadConfig()
			if err != nil {
				log.Errorf("config reload failed, keeping previous config: %v", err)
				continue
			}

			log.Infof("configuration reloaded from %s", path)
			onChange(cfg)

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("config watcher error: %v", err)
		}
	}
}
