package cliui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

// NodeMarkdown formats a node as a markdown document for RenderMarkdown.
func NodeMarkdown(n *spec.Node) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s %s\n\n", n.ID, n.Title)
	fmt.Fprintf(&b, "**%s** · `%s`", n.NodeType, n.Status)
	if n.Parent != "" {
		fmt.Fprintf(&b, " · parent `%s`", n.Parent)
	}
	b.WriteString("\n\n")

	if n.Description != "" {
		b.WriteString(n.Description)
		b.WriteString("\n\n")
	}

	if len(n.Dependencies) > 0 {
		b.WriteString("## Dependencies\n\n")
		for _, d := range n.Dependencies {
			fmt.Fprintf(&b, "- `%s`\n", d)
		}
		b.WriteString("\n")
	}

	if len(n.Conditions) > 0 {
		b.WriteString("## Conditions\n\n")
		for _, c := range n.Conditions {
			status := c.Status
			if status == "" {
				status = spec.StatusDraft
			}
			fmt.Fprintf(&b, "- `%s` (%s) %s\n", c.ID, status, c.Description)
		}
		b.WriteString("\n")
	}

	if len(n.Evidence) > 0 {
		b.WriteString("## Evidence\n\n")
		for _, e := range n.Evidence {
			fmt.Fprintf(&b, "- %s", e.Type)
			for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
				fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(n.CodeRefs) > 0 {
		b.WriteString("## Code\n\n")
		for _, r := range n.CodeRefs {
			fmt.Fprintf(&b, "- `%s`\n", r)
		}
		b.WriteString("\n")
	}

	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(n.Tags, ", "))
	}

	return b.String()
}
