package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

// ExportVersion identifies the layout of an exported snapshot.
const ExportVersion = 1

// Snapshot is the serialized form of a graph handed to visualization
// tooling. It is a derived artifact: nothing in specgraph reads it back.
type Snapshot struct {
	Version     int                 `json:"version" yaml:"version"`
	GeneratedAt time.Time           `json:"generatedAt" yaml:"generatedAt"`
	Summary     Summary             `json:"summary" yaml:"summary"`
	Nodes       []SnapshotNode      `json:"nodes" yaml:"nodes"`
	Tree        map[string][]string `json:"tree" yaml:"tree"`
	ReverseDag  map[string][]string `json:"reverseDag" yaml:"reverseDag"`
}

// SnapshotNode carries the structural fields of a node.
type SnapshotNode struct {
	ID           string        `json:"id" yaml:"id"`
	NodeType     spec.NodeType `json:"nodeType" yaml:"nodeType"`
	Title        string        `json:"title" yaml:"title"`
	Status       spec.Status   `json:"status" yaml:"status"`
	Parent       string        `json:"parent,omitempty" yaml:"parent,omitempty"`
	Dependencies []string      `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Tags         []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Conditions   int           `json:"conditions" yaml:"conditions"`
}

// Snapshot captures the graph for export.
func (g *Graph) Snapshot(now time.Time) *Snapshot {
	snap := &Snapshot{
		Version:     ExportVersion,
		GeneratedAt: now,
		Summary:     g.Summary(),
		Nodes:       make([]SnapshotNode, 0, len(g.ids)),
		Tree:        g.Tree,
		ReverseDag:  g.ReverseDag,
	}

	for _, id := range g.ids {
		node := g.Nodes[id]
		snap.Nodes = append(snap.Nodes, SnapshotNode{
			ID:           node.ID,
			NodeType:     node.NodeType,
			Title:        node.Title,
			Status:       node.Status,
			Parent:       node.Parent,
			Dependencies: distinct(node.Dependencies),
			Tags:         node.Tags,
			Conditions:   len(node.Conditions),
		})
	}

	return snap
}

// Encode serializes the snapshot as YAML when format is "yaml" or "yml" and
// as indented JSON otherwise.
func (s *Snapshot) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encoding graph YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding graph YAML: %w", err)
		}
		return buf.Bytes(), nil

	default:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding graph JSON: %w", err)
		}
		return append(data, '\n'), nil
	}
}

// Export writes a snapshot of g to path. The format follows the file
// extension: .yaml/.yml for YAML, anything else for JSON.
func Export(g *Graph, path string, now time.Time) error {
	if path == "" {
		return spec.InvalidArgumentError{Field: "path", Message: "export path must not be empty"}
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	data, err := g.Snapshot(now).Encode(format)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing graph export: %w", err)
	}
	return nil
}
