package spec

import (
	"encoding/json"
	"maps"
	"slices"
)

// Recommended evidence types. Other types are accepted but flagged by the
// validator.
const (
	EvidenceScreenshot = "screenshot"
	EvidenceLog        = "log"
	EvidenceMetric     = "metric"
	EvidenceTestResult = "test-result"
)

// KnownEvidenceTypes lists the recommended evidence types.
var KnownEvidenceTypes = []string{
	EvidenceScreenshot,
	EvidenceLog,
	EvidenceMetric,
	EvidenceTestResult,
}

// IsKnownEvidenceType reports whether t is a recommended evidence type.
func IsKnownEvidenceType(t string) bool {
	return slices.Contains(KnownEvidenceTypes, t)
}

// Evidence is a typed record attached to a node or condition. Only Type is
// interpreted; every other key is carried through unchanged.
type Evidence struct {
	Type   string
	Fields map[string]any
}

// MarshalJSON flattens Fields next to the "type" key.
func (e Evidence) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Fields)+1)
	maps.Copy(out, e.Fields)
	out["type"] = e.Type
	return json.Marshal(out)
}

// UnmarshalJSON reads "type" and keeps all remaining keys in Fields.
func (e *Evidence) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if t, ok := raw["type"].(string); ok {
		e.Type = t
	}
	delete(raw, "type")

	e.Fields = nil
	if len(raw) > 0 {
		e.Fields = raw
	}
	return nil
}

func cloneEvidence(in []Evidence) []Evidence {
	if in == nil {
		return nil
	}

	out := make([]Evidence, len(in))
	for i, ev := range in {
		out[i] = Evidence{Type: ev.Type, Fields: maps.Clone(ev.Fields)}
	}
	return out
}
