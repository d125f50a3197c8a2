// Package watch re-validates the spec graph whenever records change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/papercomputeco/specgraph/pkg/graph"
	"github.com/papercomputeco/specgraph/pkg/logger"
	"github.com/papercomputeco/specgraph/pkg/service"
	"github.com/papercomputeco/specgraph/pkg/validate"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Report is the outcome of one re-validation.
type Report struct {
	Time time.Time

	// Changed lists the record files that triggered the run. It is empty
	// for the initial run.
	Changed []string

	Result validate.Result

	// Summary is set when the graph was exported.
	Summary *graph.Summary

	// Err is set when validation or export failed.
	Err error
}

// Config configures a Watcher.
type Config struct {
	// Service runs validation and export. Required.
	Service *service.Service

	// Dir is the specs directory to watch. Required.
	Dir string

	// ExportPath re-exports the graph after every run when set.
	ExportPath string

	Strict   bool
	Debounce time.Duration

	// OnReport receives every report. Required.
	OnReport func(Report)

	Logger *slog.Logger
}

// Watcher watches a specs directory.
type Watcher struct {
	config Config
	logger *slog.Logger
}

// New creates a Watcher.
func New(c Config) (*Watcher, error) {
	if c.Service == nil {
		return nil, errors.New("service is required")
	}
	if c.Dir == "" {
		return nil, errors.New("specs directory is required")
	}
	if c.OnReport == nil {
		return nil, errors.New("report handler is required")
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}

	l := c.Logger
	if l == nil {
		l = logger.Nop()
	}

	return &Watcher{config: c, logger: l}, nil
}

// Check runs one validation and optional export and reports it.
func (w *Watcher) Check(changed []string) Report {
	r := Report{Time: time.Now().UTC(), Changed: changed}

	res, err := w.config.Service.Validate(nil, w.config.Strict)
	if err != nil {
		r.Err = fmt.Errorf("validating: %w", err)
		w.config.OnReport(r)
		return r
	}
	r.Result = res

	if w.config.ExportPath != "" {
		sum, err := w.config.Service.Export(w.config.ExportPath)
		if err != nil {
			r.Err = fmt.Errorf("exporting: %w", err)
		} else {
			r.Summary = &sum
		}
	}

	w.config.OnReport(r)
	return r
}

// Run reports once, then again after every settled batch of record
// changes, until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.config.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.config.Dir, err)
	}

	w.logger.Info("watching specs", "dir", w.config.Dir)
	w.Check(nil)

	var (
		pending []string
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isRecordEvent(event) {
				continue
			}

			w.logger.Debug("record changed", "path", event.Name, "op", event.Op.String())
			if !slices.Contains(pending, event.Name) {
				pending = append(pending, event.Name)
			}

			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := pending
			pending = nil
			w.Check(changed)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// isRecordEvent reports whether event touches a record file. Temp files
// from atomic writes and chmod-only events are ignored.
func isRecordEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return filepath.Ext(base) == ".json"
}
