package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeromicro/go-zero/core/logx"
)

// WatchMembers watches the members file for edits and pushes on changed
// whenever a valid new version lands. Invalid edits are logged and skipped.
// Blocks until the watcher fails, so run it in a goroutine.
func WatchMembers(path string, changed chan<- struct{}) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		logx.Errorf("[members]: resolving %s: %v", path, err)
		return
	}

	dirPath := filepath.Dir(absPath)
	fileName := filepath.Base(absPath)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logx.Errorf("[members]: creating watcher: %v", err)
		return
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that rename-on-save would
	// otherwise drop the watch after the first write.
	if err := watcher.Add(dirPath); err != nil {
		logx.Errorf("[members]: watching %s: %v", dirPath, err)
		return
	}

	logx.Infof("[members]: watching %s", absPath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != fileName {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Rename|fsnotify.Create) == 0 {
				continue
			}

			// Give the editor a moment to finish writing.
			time.Sleep(200 * time.Millisecond)
			if _, err := os.Stat(absPath); os.IsNotExist(err) {
				continue
			}

			if _, err := LoadMembers(absPath); err != nil {
				logx.Errorf("[members]: ignoring invalid update: %v", err)
				continue
			}

			logx.Infof("[members]: %s changed", fileName)
			// Coalesce with any pending notification instead of blocking.
			select {
			case changed <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logx.Errorf("[members]: watcher error: %v", err)
		}
	}
}
