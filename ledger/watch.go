package ledger

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever the public store file at path is
// rewritten by another process, signalling each successful reload on
// updates. It blocks until stop is closed or the watcher breaks, so run it
// from the goroutine that owns the store; the store itself does no locking.
func (s *Store) Watch(path string, updates chan<- struct{}, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and atomic writers replace the file,
	// which drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}
	log.Println("Watching", path, "for changes...")

	throttle := time.NewTicker(1 * time.Second)
	defer throttle.Stop()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			<-throttle.C
			loaded, err := s.Load(path)
			if err != nil {
				log.Println("Reload error:", err)
				continue
			}
			if loaded {
				select {
				case updates <- struct{}{}:
				default:
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("Watcher error:", err)
		case <-stop:
			return nil
		}
	}
}
