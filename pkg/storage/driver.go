// Package storage defines the record store contract for spec nodes.
package storage

import (
	"time"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

// Driver persists one spec node per identifier.
//
// Drivers own the createdAt/updatedAt timestamps: whatever the caller sets
// on a node passed to Create or Update is overwritten.
type Driver interface {
	// Create stores a new node. It fails with spec.DuplicateIDError when the
	// id is taken and spec.InvalidArgumentError when the id is unusable.
	Create(node *spec.Node) error

	// Get returns the node with the given id or spec.NotFoundError.
	Get(id string) (*spec.Node, error)

	// List returns every readable node. Records that fail to parse are
	// skipped rather than failing the whole load.
	List() ([]*spec.Node, error)

	// Update replaces an existing node and refreshes its updatedAt.
	Update(node *spec.Node) error

	// Delete removes a node. It returns false, nil when the id is absent.
	Delete(id string) (bool, error)

	// Exists reports whether a record with the id is stored.
	Exists(id string) (bool, error)

	// NextID returns the first unused F-NNN identifier.
	NextID() (string, error)
}

// Snapshotter is implemented by drivers that support whole-store backups.
type Snapshotter interface {
	Backup() (*Snapshot, error)
	Restore(name string) (int, error)
	ListBackups() ([]Snapshot, error)
}

// Fingerprinter is implemented by drivers that can cheaply identify the
// current content of the store. Equal fingerprints mean an unchanged store.
type Fingerprinter interface {
	Fingerprint() (string, error)
}

// Snapshot describes a backup of every record in the store.
type Snapshot struct {
	Name      string    `json:"name"`
	Path      string    `json:"path,omitempty"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
}

// NextID scans F-001 through F-999 and returns the first id for which
// exists reports false. Gaps left by deleted records are reused.
func NextID(exists func(id string) (bool, error)) (string, error) {
	for n := 1; n <= spec.MaxSequentialID; n++ {
		id := spec.FeatureID(n)
		ok, err := exists(id)
		if err != nil {
			return "", err
		}
		if !ok {
			return id, nil
		}
	}

	return "", spec.ResourceExhaustedError{Message: "all feature ids F-001 through F-999 are in use"}
}
