package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/fsnotify/fsnotify"
)

// imageWatcher reloads an image file whenever it is written or replaced.
type imageWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *slog.Logger

	updates chan common.Bitmap
	done    chan struct{}
	once    sync.Once
}

// watchImage starts watching path. The latest decoded bitmap is delivered on Updates; a
// newer one replaces any bitmap nobody has received yet. Decode failures are logged and skipped.
func watchImage(path string, logger *slog.Logger) (*imageWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors often save by renaming a temp file over the original, which ends a watch on
	// the file itself. Watching the directory survives that.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	iw := &imageWatcher{
		watcher: w,
		path:    filepath.Clean(path),
		logger:  logger,
		updates: make(chan common.Bitmap, 1),
		done:    make(chan struct{}),
	}
	go iw.loop()
	return iw, nil
}

func (iw *imageWatcher) Updates() <-chan common.Bitmap {
	return iw.updates
}

func (iw *imageWatcher) Close() {
	iw.once.Do(func() {
		close(iw.done)
		iw.watcher.Close()
	})
}

func (iw *imageWatcher) loop() {
	for {
		select {
		case <-iw.done:
			return
		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != iw.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			img, err := common.LoadBitmap(iw.path)
			if err != nil {
				// A write is often observed before the file is complete.
				iw.logger.Debug("image reload skipped", "error", err)
				continue
			}
			iw.logger.Info("image reloaded", "path", iw.path, "width", img.Width, "height", img.Height)
			iw.publish(img)
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			iw.logger.Warn("file watcher error", "error", err)
		}
	}
}

// publish keeps only the newest bitmap. loop is the only sender.
func (iw *imageWatcher) publish(img common.Bitmap) {
	select {
	case <-iw.updates:
	default:
	}
	iw.updates <- img
}
