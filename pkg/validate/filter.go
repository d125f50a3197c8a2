package validate

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

// Filter keeps the diagnostics of nodes whose id matches one of patterns.
// A pattern is an exact id or a glob such as "F-001*". Graph-level
// diagnostics are always kept. With no patterns the result is returned as-is.
func Filter(res Result, patterns []string) (Result, error) {
	if len(patterns) == 0 {
		return res, nil
	}

	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return Result{}, spec.InvalidArgumentError{Field: "pattern", Message: "malformed id pattern " + p}
		}
	}

	match := func(d Diagnostic) bool {
		if d.NodeID == "" {
			return true
		}
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, d.NodeID); ok {
				return true
			}
		}
		return false
	}

	out := newResult()
	for _, d := range res.Errors {
		if match(d) {
			out.Errors = append(out.Errors, d)
		}
	}
	for _, d := range res.Warnings {
		if match(d) {
			out.Warnings = append(out.Warnings, d)
		}
	}
	return out, nil
}
