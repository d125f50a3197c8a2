package filesystem

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"
)

// Fingerprint hashes the names and contents of every record file with
// BLAKE3. Any create, update, delete or restore changes the result.
func (s *Store) Fingerprint() (string, error) {
	names, err := s.recordFiles(s.SpecsPath())
	if err != nil {
		return "", err
	}

	h := blake3.New(32, nil)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.SpecsPath(), name))
		if err != nil {
			return "", fmt.Errorf("fingerprinting %s: %w", name, err)
		}

		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(data)
		_, _ = h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
