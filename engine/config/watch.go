package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events editors emit for one save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the file at path whenever it changes and hands every successfully loaded
// configuration to onChange. A file that fails to load is logged and skipped; the previous
// configuration stays in effect. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file, so saves that replace the file are seen.
//
// Parameters:
//   - ctx: cancels the watch
//   - path: the config file
//   - onChange: called from the watch goroutine with each reloaded configuration
//
// Returns:
//   - error: an error if the watcher could not be started, nil once ctx is done
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				timer.Reset(reloadDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			common.Logger().Warn("config watcher error", "err", err)

		case <-timer.C:
			cfg, err := Load(abs)
			if err != nil {
				common.Logger().Warn("config reload rejected", "path", abs, "err", err)
				continue
			}
			common.Logger().Debug("config reloaded", "path", abs)
			onChange(cfg)
		}
	}
}
