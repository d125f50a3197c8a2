package service

import (
	"errors"

	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/storage"
)

var errNoSnapshots = errors.New("storage driver does not support backups")

func (s *Service) snapshotter() (storage.Snapshotter, error) {
	snap, ok := s.driver.(storage.Snapshotter)
	if !ok {
		return nil, errNoSnapshots
	}
	return snap, nil
}

// Backup snapshots every record.
func (s *Service) Backup() (*storage.Snapshot, error) {
	snap, err := s.snapshotter()
	if err != nil {
		return nil, err
	}

	b, err := snap.Backup()
	if err != nil {
		return nil, err
	}

	s.logger.Info("created backup", "name", b.Name, "records", b.Count)
	return b, nil
}

// Restore copies the records of the named snapshot back into the store and
// returns how many were restored.
func (s *Service) Restore(name string) (int, error) {
	if name == "" {
		return 0, spec.InvalidArgumentError{Field: "name", Message: "backup name must not be empty"}
	}

	snap, err := s.snapshotter()
	if err != nil {
		return 0, err
	}

	n, err := snap.Restore(name)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		s.cache.Invalidate()
	}
	s.logger.Info("restored backup", "name", name, "records", n)
	return n, nil
}

// ListBackups returns the available snapshots, newest first.
func (s *Service) ListBackups() ([]storage.Snapshot, error) {
	snap, err := s.snapshotter()
	if err != nil {
		return nil, err
	}
	return snap.ListBackups()
}
