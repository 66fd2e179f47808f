package taxonomy

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/spigell/quote-ranker/internal/utils"
)

// DefaultDebounce is how long Watch waits for an editor to finish writing
// before reloading.
const DefaultDebounce = 300 * time.Millisecond

// Watch reloads the taxonomy in dir every time one of its YAML files changes
// and passes the result to onChange. It blocks until ctx is done.
func Watch(ctx context.Context, dir string, debounce time.Duration, logger *zap.Logger, onChange func(*Taxonomy, error)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce < 0 {
		debounce = 0
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	logger.Info("watching taxonomy", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isTaxonomyEvent(event) {
				continue
			}

			logger.Debug("taxonomy file changed",
				zap.String("file", filepath.Base(event.Name)),
				zap.String("op", event.Op.String()),
			)

			if err := utils.WaitFor(ctx, debounce); err != nil {
				return nil
			}
			drain(watcher.Events)

			onChange(LoadDir(dir))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("taxonomy watcher error", zap.Error(err))
		}
	}
}

func isTaxonomyEvent(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// drain drops events queued while debouncing; one reload covers all of them.
func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
