package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avalonia-tools/avalint/constants/lipgloss"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 300 * time.Millisecond

// WatchTree watches root recursively and invokes onChange once file-system
// events settle for the debounce window. New directories are picked up as
// they appear. Blocks until ctx is cancelled.
func WatchTree(ctx context.Context, root string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to init watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if rel, relErr := filepath.Rel(root, ev.Name); relErr == nil && IsDefaultIgnored(rel) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, ev.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, onChange)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("watch error: %v", watchErr)))
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." && IsDefaultIgnored(rel) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
