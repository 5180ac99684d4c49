package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/user/normtree/pkg/tree"
)

var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	dimLabel  = color.New(color.FgHiBlack).SprintFunc()
)

func statusLabel(s tree.Status) string {
	if s == tree.Pass {
		return passLabel("[PASS]")
	}
	return failLabel("[FAIL]")
}

// RenderTree writes the snapshot as an indented tree. Each line shows the
// effective status; the stored status is added when the two differ.
func RenderTree(w io.Writer, s *Snapshot) {
	var walk func(n *tree.Node, prefix string, last, top bool)
	walk = func(n *tree.Node, prefix string, last, top bool) {
		branch, childPrefix := "", ""
		if !top {
			branch = "├── "
			childPrefix = prefix + "│   "
			if last {
				branch = "└── "
				childPrefix = prefix + "    "
			}
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLine(n, s.Effective.Of(n.ID)))
		for i, c := range n.Children {
			walk(c, childPrefix, i == len(n.Children)-1, false)
		}
	}
	walk(s.Root, "", true, true)
}

func nodeLine(n *tree.Node, eff tree.Status) string {
	var sb strings.Builder
	sb.WriteString(statusLabel(eff))
	sb.WriteString(" ")
	sb.WriteString(n.Name)
	if n.Kind != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", n.Kind))
	}
	sb.WriteString(dimLabel(fmt.Sprintf(" #%s", n.ID)))
	if eff != n.Status {
		sb.WriteString(dimLabel(fmt.Sprintf(" stored=%s", n.Status)))
	}
	if r := n.ReasonText(); r != "" {
		sb.WriteString(": " + r)
	}
	return sb.String()
}

// GetReport returns a text summary of the snapshot and why it fails
func (s *Snapshot) GetReport() string {
	var sb strings.Builder
	sum := s.Summary()
	sb.WriteString(fmt.Sprintf("Compliance tree %s: %s (%d nodes, %d failing, %d recorded FAIL)\n",
		s.Root.ID, sum.Root, sum.Nodes, sum.EffectiveFail, sum.StoredFail))
	sb.WriteString("--------------------------------------------------\n")
	paths := FailurePaths(s.Root)
	if len(paths) == 0 {
		sb.WriteString("No failing checks.\n")
		return sb.String()
	}
	for _, p := range paths {
		sb.WriteString(p.GenerateStory())
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderDiff writes a snapshot comparison in the NEW / FIXED / UNCHANGED layout
func RenderDiff(w io.Writer, d SnapshotDiff, baselineName string) {
	fmt.Fprintf(w, "Snapshot Comparison (vs %s):\n", baselineName)
	fmt.Fprintln(w, "--------------------------------------------------")
	section := func(title, mark string, list []StatusChange) {
		fmt.Fprintf(w, "%s: %d\n", title, len(list))
		for _, c := range list {
			before, after := string(c.Before), string(c.After)
			if before == "" {
				before = "absent"
			}
			if after == "" {
				after = "absent"
			}
			fmt.Fprintf(w, "  [%s] #%s %s (%s -> %s)\n", mark, c.NodeID, c.Name, before, after)
		}
		fmt.Fprintln(w)
	}
	section("NEW FAILURES", "+", d.New)
	section("FIXED", "-", d.Fixed)
	section("STILL FAILING", "=", d.Unchanged)
}
