// Package filesystem implements storage.Driver with one JSON file per node.
//
// Layout under the store root:
//
//	specs/<id>.json                  one record per node
//	specs/.backups/<timestamp>/      whole-store snapshots
//	evidence/<id>/                   evidence artifacts owned by a node
//	schema_version                   marker written once by Init
package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/papercomputeco/specgraph/pkg/logger"
	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/storage"
)

const (
	SpecsDir     = "specs"
	EvidenceDir  = "evidence"
	BackupDir    = ".backups"
	SchemaMarker = "schema_version"

	recordExt = ".json"

	dirPerms  = 0o755
	filePerms = 0o644
)

// Store is a filesystem-backed record store. It assumes a single writer.
type Store struct {
	root   string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for skipped records and best-effort
// cleanup failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Store rooted at root. Nothing is created on disk until Init
// or the first write.
func New(root string, opts ...Option) *Store {
	s := &Store{
		root:   root,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// SpecsPath returns the directory holding record files.
func (s *Store) SpecsPath() string {
	return filepath.Join(s.root, SpecsDir)
}

// EvidencePath returns the evidence root directory.
func (s *Store) EvidencePath() string {
	return filepath.Join(s.root, EvidenceDir)
}

// EvidenceDir returns the evidence directory owned by the node id.
func (s *Store) EvidenceDir(id string) string {
	return filepath.Join(s.EvidencePath(), id)
}

func (s *Store) backupsPath() string {
	return filepath.Join(s.SpecsPath(), BackupDir)
}

func (s *Store) recordPath(id string) string {
	return filepath.Join(s.SpecsPath(), id+recordExt)
}

// Init ensures the specs and evidence directories exist and writes the
// schema marker if it is missing. It reports whether the marker was written.
func (s *Store) Init() (bool, error) {
	for _, dir := range []string{s.SpecsPath(), s.EvidencePath()} {
		if err := os.MkdirAll(dir, dirPerms); err != nil {
			return false, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	marker := filepath.Join(s.root, SchemaMarker)
	if _, err := os.Stat(marker); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking schema marker: %w", err)
	}

	content := strconv.Itoa(spec.CurrentSchemaVersion) + "\n"
	if err := atomic.WriteFile(marker, strings.NewReader(content)); err != nil {
		return false, fmt.Errorf("writing schema marker: %w", err)
	}
	return true, nil
}

// SchemaVersion reads the schema marker. It returns 0 when the store has not
// been initialized.
func (s *Store) SchemaVersion() (int, error) {
	data, err := os.ReadFile(filepath.Join(s.root, SchemaMarker))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading schema marker: %w", err)
	}

	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing schema marker: %w", err)
	}
	return v, nil
}

// Create stores a new node.
func (s *Store) Create(node *spec.Node) error {
	if node == nil {
		return spec.InvalidArgumentError{Message: "node must not be nil"}
	}
	if err := spec.CheckRecordID(node.ID); err != nil {
		return err
	}

	exists, err := s.Exists(node.ID)
	if err != nil {
		return err
	}
	if exists {
		return spec.DuplicateIDError{ID: node.ID}
	}

	now := s.now()
	node.CreatedAt = now
	node.UpdatedAt = now
	node.Normalize()

	return s.write(node)
}

// Get returns the node stored under id.
func (s *Store) Get(id string) (*spec.Node, error) {
	if err := spec.CheckRecordID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, spec.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("reading %s: %w", id, err)
	}

	node := &spec.Node{}
	if err := json.Unmarshal(data, node); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", id, err)
	}
	return node, nil
}

// List returns every parseable record ordered by file name. Corrupt records
// are logged and skipped; a missing specs directory yields no nodes.
func (s *Store) List() ([]*spec.Node, error) {
	names, err := s.recordFiles(s.SpecsPath())
	if err != nil {
		return nil, err
	}

	nodes := make([]*spec.Node, 0, len(names))
	for _, name := range names {
		path := filepath.Join(s.SpecsPath(), name)

		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable record", "file", name, "error", err)
			continue
		}

		node := &spec.Node{}
		if err := json.Unmarshal(data, node); err != nil {
			s.logger.Warn("skipping unparseable record", "file", name, "error", err)
			continue
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// Update replaces an existing node. The stored createdAt is kept and the
// node type may not change.
func (s *Store) Update(node *spec.Node) error {
	if node == nil {
		return spec.InvalidArgumentError{Message: "node must not be nil"}
	}

	existing, err := s.Get(node.ID)
	if err != nil {
		return err
	}

	if existing.NodeType != "" && node.NodeType != existing.NodeType {
		return spec.InvalidArgumentError{
			ID:      node.ID,
			Field:   "nodeType",
			Message: fmt.Sprintf("node type is immutable (stored %q, got %q)", existing.NodeType, node.NodeType),
		}
	}

	node.CreatedAt = existing.CreatedAt
	node.UpdatedAt = s.now()
	node.Normalize()

	return s.write(node)
}

// Delete removes the record and, best-effort, its evidence directory.
func (s *Store) Delete(id string) (bool, error) {
	if err := spec.CheckRecordID(id); err != nil {
		return false, err
	}

	if err := os.Remove(s.recordPath(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("deleting %s: %w", id, err)
	}

	if err := os.RemoveAll(s.EvidenceDir(id)); err != nil {
		s.logger.Debug("could not remove evidence directory", "id", id, "error", err)
	}

	return true, nil
}

// Exists reports whether a record file exists for id.
func (s *Store) Exists(id string) (bool, error) {
	if err := spec.CheckRecordID(id); err != nil {
		return false, err
	}

	_, err := os.Stat(s.recordPath(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("checking %s: %w", id, err)
	}
}

// NextID returns the first unused F-NNN id.
func (s *Store) NextID() (string, error) {
	return storage.NextID(s.Exists)
}

func (s *Store) write(node *spec.Node) error {
	if err := os.MkdirAll(s.SpecsPath(), dirPerms); err != nil {
		return fmt.Errorf("creating specs directory: %w", err)
	}

	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", node.ID, err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(s.recordPath(node.ID), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", node.ID, err)
	}
	return nil
}

// recordFiles lists the *.json regular files of dir, sorted by name.
func (s *Store) recordFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != recordExt {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}
