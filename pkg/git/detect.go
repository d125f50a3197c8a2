// Package git detects the repository a spec store belongs to.
package git

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// RepoName returns the base name of the git work tree containing dir. Outside
// a work tree, or when git is unavailable, it falls back to the base name of
// dir itself.
func RepoName(dir string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err == nil {
		if top := strings.TrimSpace(string(out)); top != "" {
			return filepath.Base(top)
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	return filepath.Base(abs)
}
