package validate_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"

	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/validate"
)

// validNode returns a feature that passes every rule in non-strict and
// strict mode.
func validNode(id string) *spec.Node {
	node := &spec.Node{
		ID:            id,
		NodeType:      spec.NodeTypeFeature,
		Title:         "Feature " + id,
		Description:   "Description of " + id,
		Status:        spec.StatusDraft,
		SchemaVersion: spec.CurrentSchemaVersion,
	}
	for i := 1; i <= validate.DefaultMinConditions; i++ {
		node.Conditions = append(node.Conditions, spec.Condition{
			ID:          fmt.Sprintf("%s-C%d", id, i),
			Description: "condition",
		})
	}
	return node
}

func haveRule(nodeID, rule string) types.GomegaMatcher {
	return ContainElement(And(
		HaveField("NodeID", nodeID),
		HaveField("Rule", rule),
	))
}

var _ = Describe("One", func() {
	It("accepts a well-formed feature", func() {
		res := validate.One(validNode("F-001"), validate.Options{})
		Expect(res.Errors).To(BeEmpty())
		Expect(res.Warnings).To(BeEmpty())
		Expect(res.OK()).To(BeTrue())
	})

	It("reports a nil node", func() {
		res := validate.One(nil, validate.Options{})
		Expect(res.OK()).To(BeFalse())
	})

	It("treats whitespace-only text as missing", func() {
		node := validNode("F-001")
		node.Title = "   "
		node.Description = ""

		res := validate.One(node, validate.Options{})
		Expect(res.Errors).To(ContainElements(
			validate.Diagnostic{NodeID: "F-001", Field: "title", Rule: validate.RuleRequired, Message: "title is required"},
			validate.Diagnostic{NodeID: "F-001", Field: "description", Rule: validate.RuleRequired, Message: "description is required"},
		))
	})

	It("reports an empty id", func() {
		node := validNode("F-001")
		node.ID = ""

		res := validate.One(node, validate.Options{})
		Expect(res.Errors).To(ContainElement(HaveField("Field", "id")))
	})

	It("rejects statuses and node types outside the domain", func() {
		node := validNode("F-001")
		node.Status = "done"
		node.NodeType = "epic"

		res := validate.One(node, validate.Options{})
		Expect(res.Errors).To(ContainElement(And(
			HaveField("Field", "status"),
			HaveField("Rule", validate.RuleDomain),
		)))
		Expect(res.Errors).To(ContainElement(And(
			HaveField("Field", "nodeType"),
			HaveField("Rule", validate.RuleDomain),
		)))
	})

	DescribeTable("id grammar",
		func(id string, nodeType spec.NodeType, ok bool) {
			node := validNode("F-001")
			node.ID = id
			node.NodeType = nodeType
			node.Conditions = nil

			res := validate.One(node, validate.Options{})
			if ok {
				Expect(res.Errors).NotTo(haveRule(id, validate.RuleIDFormat))
			} else {
				Expect(res.Errors).To(haveRule(id, validate.RuleIDFormat))
			}
		},
		Entry("feature", "F-001", spec.NodeTypeFeature, true),
		Entry("sub-feature", "F-001-02", spec.NodeTypeFeature, true),
		Entry("malformed feature", "FEAT-1", spec.NodeTypeFeature, false),
		Entry("condition node", "F-001-C4", spec.NodeTypeCondition, true),
		Entry("condition node with feature id", "F-001", spec.NodeTypeCondition, false),
	)

	Describe("condition count", func() {
		It("warns about too few conditions by default", func() {
			node := validNode("F-001")
			node.Conditions = node.Conditions[:1]

			res := validate.One(node, validate.Options{})
			Expect(res.Errors).To(BeEmpty())
			Expect(res.Warnings).To(haveRule("F-001", validate.RuleMinConditions))
		})

		It("makes too few conditions an error in strict mode", func() {
			node := validNode("F-001")
			node.Conditions = node.Conditions[:1]

			res := validate.One(node, validate.Options{Strict: true})
			Expect(res.Errors).To(haveRule("F-001", validate.RuleMinConditions))
			Expect(res.Warnings).To(BeEmpty())
		})

		It("honours a custom minimum", func() {
			node := validNode("F-001")
			node.Conditions = node.Conditions[:1]

			res := validate.One(node, validate.Options{Strict: true, MinConditions: 1})
			Expect(res.OK()).To(BeTrue())
		})

		It("does not count conditions on condition nodes", func() {
			node := validNode("F-001")
			node.ID = "F-001-C9"
			node.NodeType = spec.NodeTypeCondition
			node.Conditions = nil

			res := validate.One(node, validate.Options{Strict: true})
			Expect(res.OK()).To(BeTrue())
		})
	})

	It("warns about malformed and foreign condition ids", func() {
		node := validNode("F-001")
		node.Conditions[0].ID = "C1"
		node.Conditions[1].ID = "F-002-C2"

		res := validate.One(node, validate.Options{})
		Expect(res.Errors).To(BeEmpty())
		Expect(res.Warnings).To(ContainElement(And(
			HaveField("Field", "conditions[0].id"),
			HaveField("Rule", validate.RuleConditionID),
		)))
		Expect(res.Warnings).To(ContainElement(And(
			HaveField("Field", "conditions[1].id"),
			HaveField("Rule", validate.RuleConditionOwner),
		)))
	})

	It("rejects a condition status outside the domain", func() {
		node := validNode("F-001")
		node.Conditions[2].Status = "passing"

		res := validate.One(node, validate.Options{})
		Expect(res.Errors).To(ConsistOf(And(
			HaveField("Field", "conditions[2].status"),
			HaveField("Rule", validate.RuleConditionStatus),
		)))
	})

	It("warns about unknown and empty evidence types", func() {
		node := validNode("F-001")
		node.Evidence = []spec.Evidence{{Type: spec.EvidenceLog}, {Type: "video"}}
		node.Conditions[0].Evidence = []spec.Evidence{{Fields: map[string]any{"path": "a.png"}}}

		res := validate.One(node, validate.Options{})
		Expect(res.Errors).To(BeEmpty())
		Expect(res.Warnings).To(HaveLen(2))
		Expect(res.Warnings).To(ContainElement(HaveField("Field", "evidence[1].type")))
		Expect(res.Warnings).To(ContainElement(HaveField("Field", "conditions[0].evidence[0].type")))
	})

	It("warns about a missing schema version", func() {
		node := validNode("F-001")
		node.SchemaVersion = 0

		res := validate.One(node, validate.Options{})
		Expect(res.Warnings).To(ConsistOf(HaveField("Rule", validate.RuleSchemaVersion)))
	})

	It("does not modify the node", func() {
		node := validNode("F-001")
		node.Title = " "
		before := node.Clone()

		validate.One(node, validate.Options{Strict: true})
		Expect(node).To(Equal(before))
	})
})

var _ = Describe("All", func() {
	It("accepts a consistent node set", func() {
		child := validNode("F-001-01")
		child.Parent = "F-001"
		child.Dependencies = []string{"F-002"}

		res := validate.All([]*spec.Node{validNode("F-001"), validNode("F-002"), child}, validate.Options{Strict: true})
		Expect(res.Errors).To(BeEmpty())
		Expect(res.Warnings).To(BeEmpty())
	})

	It("reports every node sharing a duplicated id", func() {
		res := validate.All([]*spec.Node{validNode("F-001"), validNode("F-001")}, validate.Options{})

		dups := []validate.Diagnostic{}
		for _, d := range res.Errors {
			if d.Rule == validate.RuleDuplicateID {
				dups = append(dups, d)
			}
		}
		Expect(dups).To(HaveLen(2))
	})

	It("reports unresolved and self references", func() {
		orphan := validNode("F-001")
		orphan.Parent = "F-404"
		orphan.Dependencies = []string{"F-405", "F-405"}

		selfish := validNode("F-002")
		selfish.Parent = "F-002"
		selfish.Dependencies = []string{"F-002"}

		res := validate.All([]*spec.Node{orphan, selfish}, validate.Options{})
		Expect(res.Errors).To(haveRule("F-001", validate.RuleUnresolvedParent))
		Expect(res.Errors).To(haveRule("F-001", validate.RuleUnresolvedDependency))
		Expect(res.Errors).To(haveRule("F-002", validate.RuleSelfParent))
		Expect(res.Errors).To(haveRule("F-002", validate.RuleSelfDependency))
		Expect(res.Errors).To(HaveLen(4))
	})

	It("reports a dependency cycle once at graph level", func() {
		a := validNode("F-001")
		a.Dependencies = []string{"F-002"}
		b := validNode("F-002")
		b.Dependencies = []string{"F-003"}
		c := validNode("F-003")
		c.Dependencies = []string{"F-001"}
		d := validNode("F-004")
		d.Dependencies = []string{"F-001"}

		res := validate.All([]*spec.Node{a, b, c, d}, validate.Options{})
		Expect(res.Errors).To(ConsistOf(validate.Diagnostic{
			Field:   "dependencies",
			Rule:    validate.RuleCycle,
			Message: "dependency cycle among: F-001, F-002, F-003",
		}))
	})
})

var _ = Describe("Filter", func() {
	var res validate.Result

	BeforeEach(func() {
		res = validate.Result{
			Errors: []validate.Diagnostic{
				{NodeID: "F-001", Rule: validate.RuleRequired},
				{NodeID: "F-001-02", Rule: validate.RuleRequired},
				{NodeID: "F-002", Rule: validate.RuleRequired},
				{NodeID: "", Rule: validate.RuleCycle},
			},
			Warnings: []validate.Diagnostic{
				{NodeID: "F-002", Rule: validate.RuleSchemaVersion},
			},
		}
	})

	It("returns everything without patterns", func() {
		out, err := validate.Filter(res, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(res))
	})

	It("keeps exact ids and graph-level diagnostics", func() {
		out, err := validate.Filter(res, []string{"F-002"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Errors).To(HaveLen(2))
		Expect(out.Warnings).To(HaveLen(1))
	})

	It("matches globs", func() {
		out, err := validate.Filter(res, []string{"F-001*"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Errors).To(ConsistOf(
			HaveField("NodeID", "F-001"),
			HaveField("NodeID", "F-001-02"),
			HaveField("NodeID", ""),
		))
		Expect(out.Warnings).To(BeEmpty())
	})

	It("rejects malformed patterns", func() {
		_, err := validate.Filter(res, []string{"F-[001"})
		Expect(spec.ErrorCode(err)).To(Equal(spec.CodeInvalidArgument))
	})
})
