package viewer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/logger"
)

// Watch reloads the model at path whenever it is written or replaced. The
// reload is requested from the next Poll. Watching stops when ctx is done.
func (c *Context) Watch(ctx context.Context, path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding path %s: %w", path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return fmt.Errorf("resolving path %s: %w", expanded, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	// Editors often replace files instead of writing them, so watch the
	// directory and filter by name.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching model", zap.String("path", abs))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				logger.Debug("model changed", zap.String("path", abs), zap.Stringer("op", ev.Op))
				select {
				case c.reloads <- FileSource(abs):
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
