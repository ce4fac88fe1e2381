package metaview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Watch selects media in c as files below its base directory change, until ctx is done.
func Watch(ctx context.Context, c *Catalog) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs, err := watchDirs(c.Base())
	if err != nil {
		return err
	}

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %s", event)
			handleEvent(w, c, event)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}

// handleEvent turns a file system event into a selection change.
func handleEvent(w *fsnotify.Watcher, c *Catalog, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := w.Add(event.Name); err != nil {
				klog.Warningf("unable to watch %s: %v", event.Name, err)
			}
			return
		}
	}

	if !IsImage(event.Name) {
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		m, ok := c.Find(event.Name)
		if !ok {
			return
		}
		if h, ok := c.Active(); ok && h == m.Handle {
			c.Notify()
		}
		return
	}

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
		m, err := c.Add(event.Name)
		if err != nil {
			klog.Warningf("unable to add %s: %v", event.Name, err)
			return
		}
		if err := c.Select(m.Handle); err != nil {
			klog.Warningf("select %s: %v", m.Handle, err)
		}
	}
}

// watchDirs returns base and every non-hidden directory below it.
func watchDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := godirwalk.Walk(base, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() || path == base {
				return nil
			}
			if filepath.Base(path)[0] == '.' {
				return godirwalk.SkipThis
			}
			dirs = append(dirs, path)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", base, err)
	}

	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}
