package viewer

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Watch evicts cached profiles whose files change on disk, until ctx is
// done. Paths name the same files the profiles were loaded from, in any
// form that cleans to the same path, and must live on the OS filesystem.
func (r *Registry) Watch(ctx context.Context, paths ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return errors.Wrapf(err, "watch %s", p)
		}
	}

	logger := r.loader.logger
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				r.Evict(ev.Name)
				level.Debug(logger).Log("msg", "profile changed, evicted", "profile", ev.Name, "op", ev.Op)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			level.Warn(logger).Log("msg", "watch failed", "err", err)
		}
	}
}
