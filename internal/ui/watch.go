package ui

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch reloads path whenever it is written. The directory is watched
// rather than the file because editors often save by renaming a new
// file over the old one.
func (a *App) watch(path string) (stop func(), err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !reloadable(ev, abs) {
					continue
				}
				a.requestReload(path)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				a.Logf("[WARN] watch: %v", err)
			}
		}
	}()
	return func() { w.Close() }, nil
}

// reloadable reports whether ev changed the contents of the file at abs.
func reloadable(ev fsnotify.Event, abs string) bool {
	if filepath.Clean(ev.Name) != abs {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
