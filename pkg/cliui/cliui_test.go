package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

var _ = Describe("Step", func() {
	It("returns the wrapped error and prints a result line", func() {
		var buf bytes.Buffer
		boom := errors.New("boom")

		err := cliui.Step(&buf, "exporting", func() error { return boom })
		Expect(err).To(MatchError(boom))
		Expect(buf.String()).To(ContainSubstring("exporting"))
		Expect(buf.String()).To(HaveSuffix("\n"))
	})
})

var _ = Describe("Truncate", func() {
	It("leaves short titles alone", func() {
		Expect(cliui.Truncate("Login", 5)).To(Equal("Login"))
	})

	It("cuts long titles to the width including the ellipsis", func() {
		Expect(cliui.Truncate("Sign in with OAuth", 8)).To(Equal("Sign in…"))
	})

	It("counts runes rather than bytes", func() {
		Expect(cliui.Truncate("héllo wörld", 6)).To(Equal("héllo…"))
	})

	It("returns nothing for a zero width", func() {
		Expect(cliui.Truncate("Login", 0)).To(BeEmpty())
	})
})

var _ = Describe("FormatDuration", func() {
	It("uses milliseconds below one second", func() {
		Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
	})

	It("uses seconds with one decimal otherwise", func() {
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})

var _ = Describe("StatusBadge", func() {
	It("keeps the status text", func() {
		Expect(cliui.StatusBadge(spec.StatusVerified)).To(ContainSubstring("verified"))
	})
})

var _ = Describe("IsTerminal", func() {
	It("is false for in-memory writers", func() {
		Expect(cliui.IsTerminal(&bytes.Buffer{})).To(BeFalse())
	})
})

var _ = Describe("NodeMarkdown", func() {
	It("lists dependencies, conditions and evidence", func() {
		n := &spec.Node{
			ID:           "F-002",
			NodeType:     spec.NodeTypeFeature,
			Title:        "Checkout",
			Description:  "Pay for the cart.",
			Status:       spec.StatusActive,
			Parent:       "F-001",
			Dependencies: []string{"F-003"},
			Conditions: []spec.Condition{
				{ID: "F-002-C1", Description: "card accepted"},
			},
			Evidence: []spec.Evidence{
				{Type: spec.EvidenceLog, Fields: map[string]any{"path": "logs/pay.txt"}},
			},
			Tags: []string{"payments"},
		}

		md := cliui.NodeMarkdown(n)
		Expect(md).To(HavePrefix("# F-002 Checkout"))
		Expect(md).To(ContainSubstring("parent `F-001`"))
		Expect(md).To(ContainSubstring("- `F-003`"))
		Expect(md).To(ContainSubstring("`F-002-C1` (draft) card accepted"))
		Expect(md).To(ContainSubstring("- log path=logs/pay.txt"))
		Expect(md).To(ContainSubstring("Tags: payments"))
	})
})
