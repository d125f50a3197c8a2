package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/natefinch/atomic"

	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/storage"
)

// backupNameLayout sorts lexically in creation order.
const backupNameLayout = "20060102T150405.000000000Z"

// Backup copies every record file into a new timestamp-named snapshot
// directory. Corrupt records are copied as-is. A crash mid-backup leaves a
// partial snapshot behind.
func (s *Store) Backup() (*storage.Snapshot, error) {
	names, err := s.recordFiles(s.SpecsPath())
	if err != nil {
		return nil, err
	}

	created := s.now()
	name := created.UTC().Format(backupNameLayout)
	dir := filepath.Join(s.backupsPath(), name)

	if err := os.MkdirAll(s.backupsPath(), dirPerms); err != nil {
		return nil, fmt.Errorf("creating backup root: %w", err)
	}
	if err := os.Mkdir(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("creating backup %s: %w", name, err)
	}

	for _, file := range names {
		if err := copyFile(filepath.Join(s.SpecsPath(), file), filepath.Join(dir, file)); err != nil {
			return nil, fmt.Errorf("backing up %s: %w", file, err)
		}
	}

	s.logger.Debug("backup created", "name", name, "records", len(names))

	return &storage.Snapshot{
		Name:      name,
		Path:      dir,
		Count:     len(names),
		CreatedAt: created,
	}, nil
}

// Restore copies every record of the named snapshot over the current
// records and returns how many were restored. Records that are not part of
// the snapshot are left in place.
func (s *Store) Restore(name string) (int, error) {
	if err := spec.CheckRecordID(name); err != nil {
		return 0, spec.InvalidArgumentError{Field: "snapshot", Message: fmt.Sprintf("invalid snapshot name %q", name)}
	}

	dir := filepath.Join(s.backupsPath(), name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return 0, spec.NotFoundError{Kind: "backup", ID: name}
		}
		return 0, fmt.Errorf("opening backup %s: %w", name, err)
	}

	names, err := s.recordFiles(dir)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(s.SpecsPath(), dirPerms); err != nil {
		return 0, fmt.Errorf("creating specs directory: %w", err)
	}

	for i, file := range names {
		if err := copyFile(filepath.Join(dir, file), filepath.Join(s.SpecsPath(), file)); err != nil {
			return i, fmt.Errorf("restoring %s: %w", file, err)
		}
	}

	s.logger.Debug("backup restored", "name", name, "records", len(names))
	return len(names), nil
}

// ListBackups returns the available snapshots, newest first.
func (s *Store) ListBackups() ([]storage.Snapshot, error) {
	entries, err := os.ReadDir(s.backupsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	snapshots := make([]storage.Snapshot, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		dir := filepath.Join(s.backupsPath(), e.Name())
		names, err := s.recordFiles(dir)
		if err != nil {
			return nil, err
		}

		created, err := time.Parse(backupNameLayout, e.Name())
		if err != nil {
			// Not one of ours; keep it listed but without a timestamp.
			created = time.Time{}
		}

		snapshots = append(snapshots, storage.Snapshot{
			Name:      e.Name(),
			Path:      dir,
			Count:     len(names),
			CreatedAt: created,
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Name > snapshots[j].Name
	})
	return snapshots, nil
}

func copyFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	return atomic.WriteFile(dst, f)
}
