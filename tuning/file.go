package tuning

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"shader-scene/control"
)

// FileSource watches a TOML file laid out like control.State ([mesh],
// [shader.xDisplacement], [bloom], ...) and queues a command for every
// value that differs from the previous read. The file is only read.
//
// Values the file leaves out keep their previous reading, and a value that
// does not change in the file never overrides a keyboard edit.
type FileSource struct {
	path   string
	table  *control.Table
	queue  *control.Queue
	logger *slog.Logger
	last   control.State
}

// NewFileSource diffs the first read against base, normally the state the
// store started from.
func NewFileSource(path string, t *control.Table, q *control.Queue, base control.State, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:   filepath.Clean(path),
		table:  t,
		queue:  q,
		logger: logger.With("tuning", path),
		last:   base,
	}
}

func (s *FileSource) Path() string { return s.path }

// Reload reads the file once and queues the differences. It returns the
// number of commands queued. A file that fails to parse queues nothing.
func (s *FileSource) Reload() (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, err
	}
	next := s.last
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return 0, fmt.Errorf("parse %s: unknown keys:\n%s", s.path, strict.String())
		}
		return 0, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if err := s.table.Check(&next); err != nil {
		return 0, fmt.Errorf("parse %s: %w", s.path, err)
	}
	cmds := control.Diff(s.table, &s.last, &next)
	s.last = next
	if len(cmds) > 0 {
		s.queue.Push(cmds...)
	}
	return len(cmds), nil
}

// Run reads the file, then rereads it on every write until ctx is done.
// The parent directory is watched so editors that replace the file on save
// are still seen. A missing file is not an error; it is picked up when it
// appears. A missing directory is, since there is nothing to watch.
func (s *FileSource) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tuning watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	s.reload()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.reload()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("tuning watcher", "err", err)
		}
	}
}

func (s *FileSource) reload() {
	n, err := s.Reload()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info("tuning file not found, waiting for it")
	case err != nil:
		s.logger.Warn("tuning file rejected", "err", err)
	case n > 0:
		s.logger.Debug("tuning file applied", "commands", n)
	}
}
