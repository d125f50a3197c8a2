// Package validate checks spec nodes for field, domain and format problems
// and for referential integrity across the whole node set.
//
// Validation never mutates a node and never returns an error: every problem
// becomes a Diagnostic in the Result. Only strict mode changes the severity
// of a rule.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/papercomputeco/specgraph/pkg/graph"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

// DefaultMinConditions is the number of conditions a feature is expected to
// carry when Options.MinConditions is zero.
const DefaultMinConditions = 3

// Rule names reported in Diagnostic.Rule.
const (
	RuleRequired             = "required"
	RuleDomain               = "domain"
	RuleIDFormat             = "id-format"
	RuleMinConditions        = "min-conditions"
	RuleConditionID          = "condition-id"
	RuleConditionOwner       = "condition-owner"
	RuleConditionStatus      = "condition-status"
	RuleEvidenceType         = "evidence-type"
	RuleSchemaVersion        = "schema-version"
	RuleDuplicateID          = "duplicate-id"
	RuleSelfParent           = "self-parent"
	RuleUnresolvedParent     = "unresolved-parent"
	RuleSelfDependency       = "self-dependency"
	RuleUnresolvedDependency = "unresolved-dependency"
	RuleCycle                = "cycle"
)

// Options tune validation.
type Options struct {
	// Strict turns the minimum-conditions warning into an error.
	Strict bool

	// MinConditions is the expected number of conditions per feature.
	// Zero means DefaultMinConditions.
	MinConditions int
}

func (o Options) minConditions() int {
	if o.MinConditions <= 0 {
		return DefaultMinConditions
	}
	return o.MinConditions
}

// Diagnostic is a single validation finding. NodeID is empty for findings
// about the graph as a whole.
type Diagnostic struct {
	NodeID  string `json:"nodeId"`
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if d.NodeID != "" {
		b.WriteString(d.NodeID)
	} else {
		b.WriteString("<graph>")
	}
	if d.Field != "" {
		b.WriteString(" " + d.Field)
	}
	b.WriteString(": " + d.Message)
	return b.String()
}

// Result collects diagnostics by severity.
type Result struct {
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}

func newResult() Result {
	return Result{Errors: []Diagnostic{}, Warnings: []Diagnostic{}}
}

// OK reports whether the result carries no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(nodeID, field, rule, format string, args ...any) {
	r.Errors = append(r.Errors, Diagnostic{NodeID: nodeID, Field: field, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) warnf(nodeID, field, rule, format string, args ...any) {
	r.Warnings = append(r.Warnings, Diagnostic{NodeID: nodeID, Field: field, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// structValidate checks the struct tags on spec.Node.
var structValidate *validator.Validate

func init() {
	structValidate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names.
	structValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = structValidate.RegisterValidation("notblank", validateNotBlank)
}

// validateNotBlank rejects strings made only of whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// One validates a single node in isolation.
func One(node *spec.Node, opts Options) Result {
	res := newResult()
	if node == nil {
		res.errorf("", "", RuleRequired, "node is nil")
		return res
	}

	checkFields(node, &res)
	checkIDFormat(node, &res)
	checkConditions(node, opts, &res)

	checkEvidence(node.ID, "evidence", node.Evidence, &res)

	if node.SchemaVersion < 1 {
		res.warnf(node.ID, "schemaVersion", RuleSchemaVersion, "schemaVersion is missing")
	}

	return res
}

func checkFields(node *spec.Node, res *Result) {
	err := structValidate.Struct(node)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		res.errorf(node.ID, "", RuleRequired, "%v", err)
		return
	}

	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "notblank":
			res.errorf(node.ID, fe.Field(), RuleRequired, "%s is required", fe.Field())
		case "oneof":
			res.errorf(node.ID, fe.Field(), RuleDomain, "%s %q is not one of: %s",
				fe.Field(), fmt.Sprint(fe.Value()), strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			res.errorf(node.ID, fe.Field(), fe.Tag(), "%s failed %s", fe.Field(), fe.Tag())
		}
	}
}

func checkIDFormat(node *spec.Node, res *Result) {
	if strings.TrimSpace(node.ID) == "" {
		return
	}

	switch node.NodeType {
	case spec.NodeTypeFeature:
		if !spec.IsFeatureID(node.ID) {
			res.errorf(node.ID, "id", RuleIDFormat, "feature id %q must match F-NNN or F-NNN-NN", node.ID)
		}
	case spec.NodeTypeCondition:
		if !spec.IsConditionID(node.ID) {
			res.errorf(node.ID, "id", RuleIDFormat, "condition id %q must match F-NNN[-NN]-C<k>", node.ID)
		}
	}
}

func checkConditions(node *spec.Node, opts Options, res *Result) {
	if node.NodeType == spec.NodeTypeFeature {
		want := opts.minConditions()
		if got := len(node.Conditions); got < want {
			if opts.Strict {
				res.errorf(node.ID, "conditions", RuleMinConditions, "feature has %d conditions, expected at least %d", got, want)
			} else {
				res.warnf(node.ID, "conditions", RuleMinConditions, "feature has %d conditions, expected at least %d", got, want)
			}
		}
	}

	for i, cond := range node.Conditions {
		field := fmt.Sprintf("conditions[%d]", i)

		switch {
		case !spec.IsConditionID(cond.ID):
			res.warnf(node.ID, field+".id", RuleConditionID, "condition id %q should match F-NNN[-NN]-C<k>", cond.ID)
		case spec.ConditionOwner(cond.ID) != node.ID:
			res.warnf(node.ID, field+".id", RuleConditionOwner, "condition id %q should be prefixed by %s", cond.ID, node.ID)
		}

		if cond.Status != "" && !cond.Status.Valid() {
			res.errorf(node.ID, field+".status", RuleConditionStatus, "condition status %q is not a valid status", cond.Status)
		}

		checkEvidence(node.ID, field+".evidence", cond.Evidence, res)
	}
}

func checkEvidence(nodeID, field string, evidence []spec.Evidence, res *Result) {
	for i, ev := range evidence {
		f := fmt.Sprintf("%s[%d].type", field, i)
		switch {
		case strings.TrimSpace(ev.Type) == "":
			res.warnf(nodeID, f, RuleEvidenceType, "evidence type is empty")
		case !spec.IsKnownEvidenceType(ev.Type):
			res.warnf(nodeID, f, RuleEvidenceType, "unrecognised evidence type %q", ev.Type)
		}
	}
}

// All validates every node and then checks references across the set:
// duplicate ids, unresolved or self-referencing parents and dependencies,
// and dependency cycles.
func All(nodes []*spec.Node, opts Options) Result {
	res := newResult()

	counts := make(map[string]int, len(nodes))
	for _, node := range nodes {
		res.merge(One(node, opts))
		if node != nil {
			counts[node.ID]++
		}
	}

	for _, node := range nodes {
		if node == nil {
			continue
		}
		if n := counts[node.ID]; n > 1 {
			res.errorf(node.ID, "id", RuleDuplicateID, "id %s is used by %d nodes", node.ID, n)
		}
	}

	for _, node := range nodes {
		if node == nil {
			continue
		}
		checkReferences(node, counts, &res)
	}

	g, _ := graph.Build(nodes)
	if cycle := g.CycleIDs(); len(cycle) > 0 && !selfLoopsOnly(g, cycle) {
		res.errorf("", "dependencies", RuleCycle, "dependency cycle among: %s", strings.Join(cycle, ", "))
	}

	return res
}

func checkReferences(node *spec.Node, known map[string]int, res *Result) {
	switch {
	case node.Parent == "":
	case node.Parent == node.ID:
		res.errorf(node.ID, "parent", RuleSelfParent, "node cannot be its own parent")
	case known[node.Parent] == 0:
		res.errorf(node.ID, "parent", RuleUnresolvedParent, "parent %s does not exist", node.Parent)
	}

	seen := make(map[string]bool, len(node.Dependencies))
	for _, dep := range node.Dependencies {
		if seen[dep] {
			continue
		}
		seen[dep] = true

		switch {
		case dep == node.ID:
			res.errorf(node.ID, "dependencies", RuleSelfDependency, "node cannot depend on itself")
		case known[dep] == 0:
			res.errorf(node.ID, "dependencies", RuleUnresolvedDependency, "dependency %s does not exist", dep)
		}
	}
}

// selfLoopsOnly reports whether every cycle member only reaches another
// member through itself. Those are already reported as self dependencies.
func selfLoopsOnly(g *graph.Graph, cycle []string) bool {
	members := make(map[string]bool, len(cycle))
	for _, id := range cycle {
		members[id] = true
	}

	for _, id := range cycle {
		for _, dep := range g.Get(id).Dependencies {
			if dep != id && members[dep] {
				return false
			}
		}
	}
	return true
}
