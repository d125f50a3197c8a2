package spec

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxSequentialID is the highest top-level feature number NextID hands out.
	MaxSequentialID = 999
)

var (
	featureIDPattern   = regexp.MustCompile(`^F-\d{3}(-\d{2})?$`)
	conditionIDPattern = regexp.MustCompile(`^F-\d{3}(-\d{2})?-C\d+$`)
)

// IsFeatureID reports whether id matches F-NNN or F-NNN-NN.
func IsFeatureID(id string) bool {
	return featureIDPattern.MatchString(id)
}

// IsConditionID reports whether id matches F-NNN[-NN]-C<k>.
func IsConditionID(id string) bool {
	return conditionIDPattern.MatchString(id)
}

// FeatureID formats the n-th top-level feature id.
func FeatureID(n int) string {
	return fmt.Sprintf("F-%03d", n)
}

// ConditionOwner returns the feature id prefix of a condition id, or "" if
// id is not a condition id.
func ConditionOwner(id string) string {
	if !IsConditionID(id) {
		return ""
	}
	return id[:strings.LastIndex(id, "-C")]
}

// CheckRecordID rejects identifiers that cannot be used as a record file
// name. It does not enforce the id grammar; that is the validator's job.
func CheckRecordID(id string) error {
	if strings.TrimSpace(id) == "" {
		return InvalidArgumentError{Field: "id", Message: "id must not be empty"}
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." || strings.HasPrefix(id, ".") {
		return InvalidArgumentError{ID: id, Field: "id", Message: "id must not contain path separators or start with a dot"}
	}
	return nil
}
