package spec_test

import (
	"encoding/json"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

var _ = Describe("Identifiers", func() {
	DescribeTable("IsFeatureID",
		func(id string, want bool) {
			Expect(spec.IsFeatureID(id)).To(Equal(want))
		},
		Entry("top-level feature", "F-001", true),
		Entry("sub-feature", "F-001-02", true),
		Entry("two digit number", "F-01", false),
		Entry("condition id", "F-001-C1", false),
		Entry("lowercase prefix", "f-001", false),
		Entry("empty", "", false),
	)

	DescribeTable("IsConditionID",
		func(id string, want bool) {
			Expect(spec.IsConditionID(id)).To(Equal(want))
		},
		Entry("feature condition", "F-001-C1", true),
		Entry("sub-feature condition", "F-001-02-C12", true),
		Entry("missing number", "F-001-C", false),
		Entry("feature id", "F-001", false),
	)

	It("formats sequential feature ids", func() {
		Expect(spec.FeatureID(7)).To(Equal("F-007"))
		Expect(spec.FeatureID(999)).To(Equal("F-999"))
	})

	It("extracts the owner of a condition id", func() {
		Expect(spec.ConditionOwner("F-001-02-C3")).To(Equal("F-001-02"))
		Expect(spec.ConditionOwner("F-001")).To(BeEmpty())
	})

	Describe("CheckRecordID", func() {
		It("accepts a plain id", func() {
			Expect(spec.CheckRecordID("F-001")).To(Succeed())
		})

		It("rejects empty and path-like ids", func() {
			for _, id := range []string{"", "  ", "../F-001", "a/b", `a\b`, ".hidden"} {
				err := spec.CheckRecordID(id)
				Expect(err).To(HaveOccurred(), "id %q", id)
				Expect(spec.ErrorCode(err)).To(Equal(spec.CodeInvalidArgument))
			}
		})
	})
})

var _ = Describe("Status", func() {
	It("parses every known status", func() {
		for _, s := range spec.Statuses {
			parsed, err := spec.ParseStatus(string(s))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(s))
		}
	})

	It("rejects unknown statuses", func() {
		_, err := spec.ParseStatus("done")
		Expect(err).To(HaveOccurred())
		Expect(spec.ErrorCode(err)).To(Equal(spec.CodeInvalidArgument))
	})

	It("parses node types", func() {
		t, err := spec.ParseNodeType("condition")
		Expect(err).NotTo(HaveOccurred())
		Expect(t).To(Equal(spec.NodeTypeCondition))

		_, err = spec.ParseNodeType("epic")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Evidence", func() {
	It("keeps unknown keys next to the type", func() {
		raw := []byte(`{"type":"screenshot","path":"shots/login.png","width":1280}`)

		var ev spec.Evidence
		Expect(json.Unmarshal(raw, &ev)).To(Succeed())
		Expect(ev.Type).To(Equal("screenshot"))
		Expect(ev.Fields).To(HaveKeyWithValue("path", "shots/login.png"))
		Expect(ev.Fields).NotTo(HaveKey("type"))

		out, err := json.Marshal(ev)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchJSON(raw))
	})

	It("recognises the recommended types", func() {
		Expect(spec.IsKnownEvidenceType("test-result")).To(BeTrue())
		Expect(spec.IsKnownEvidenceType("video")).To(BeFalse())
	})
})

var _ = Describe("Node", func() {
	It("clones deeply", func() {
		n := &spec.Node{
			ID:           "F-001",
			Dependencies: []string{"F-002"},
			Conditions:   []spec.Condition{{ID: "F-001-C1", CodeRefs: []string{"a.go:1-3"}}},
			Evidence:     []spec.Evidence{{Type: "log", Fields: map[string]any{"path": "x.log"}}},
		}

		c := n.Clone()
		c.Dependencies[0] = "F-999"
		c.Conditions[0].CodeRefs[0] = "b.go"
		c.Evidence[0].Fields["path"] = "y.log"

		Expect(n.Dependencies[0]).To(Equal("F-002"))
		Expect(n.Conditions[0].CodeRefs[0]).To(Equal("a.go:1-3"))
		Expect(n.Evidence[0].Fields["path"]).To(Equal("x.log"))
	})

	It("normalizes duplicate dependencies and tags", func() {
		n := &spec.Node{
			Dependencies: []string{"F-002", "F-003", "F-002"},
			Tags:         []string{"ui", "ui", "auth"},
		}
		n.Normalize()
		Expect(n.Dependencies).To(Equal([]string{"F-002", "F-003"}))
		Expect(n.Tags).To(Equal([]string{"ui", "auth"}))
		Expect(n.HasDependency("F-003")).To(BeTrue())
	})
})

var _ = Describe("ErrorCode", func() {
	DescribeTable("maps wrapped errors to codes",
		func(err error, code string) {
			Expect(spec.ErrorCode(fmt.Errorf("wrapped: %w", err))).To(Equal(code))
		},
		Entry("invalid argument", spec.InvalidArgumentError{Field: "id"}, spec.CodeInvalidArgument),
		Entry("duplicate", spec.DuplicateIDError{ID: "F-001"}, spec.CodeDuplicateID),
		Entry("not found", spec.NotFoundError{ID: "F-001"}, spec.CodeNotFound),
		Entry("cycle", spec.CyclicDependencyError{IDs: []string{"F-001"}}, spec.CodeCyclicDependency),
		Entry("exhausted", spec.ResourceExhaustedError{}, spec.CodeResourceExhausted),
		Entry("other", fmt.Errorf("disk on fire"), spec.CodeInternal),
	)

	It("names the missing kind", func() {
		Expect(spec.NotFoundError{Kind: "backup", ID: "x"}.Error()).To(Equal("backup not found: x"))
		Expect(spec.NotFoundError{ID: "F-001"}.Error()).To(Equal("node not found: F-001"))
		Expect(spec.IsNotFound(fmt.Errorf("get: %w", spec.NotFoundError{}))).To(BeTrue())
	})
})
