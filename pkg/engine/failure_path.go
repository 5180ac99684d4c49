package engine

import (
	"fmt"
	"strings"

	"github.com/user/normtree/pkg/tree"
)

// FailurePath is the chain of nodes from the snapshot root down to a node
// whose stored status is FAIL. Every node on the chain is effectively FAIL
// because of the last step.
type FailurePath struct {
	Steps []PathStep
}

type PathStep struct {
	NodeID tree.ID
	Name   string
	Kind   tree.Kind
	Reason string
}

// Origin returns the node that carries the stored FAIL
func (p FailurePath) Origin() PathStep {
	return p.Steps[len(p.Steps)-1]
}

// FailurePaths finds every stored FAIL under root, in pre-order
func FailurePaths(root *tree.Node) []FailurePath {
	var paths []FailurePath
	var chain []PathStep
	tree.Walk(root, func(n *tree.Node, depth int) bool {
		chain = append(chain[:depth], PathStep{
			NodeID: n.ID,
			Name:   n.Name,
			Kind:   n.Kind,
			Reason: n.ReasonText(),
		})
		if n.Status == tree.Fail {
			steps := make([]PathStep, len(chain))
			copy(steps, chain)
			paths = append(paths, FailurePath{Steps: steps})
		}
		return true
	})
	return paths
}

// String renders the path as "Root > Check > Sub-check"
func (p FailurePath) String() string {
	parts := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		label := s.Name
		if label == "" {
			label = s.NodeID.String()
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " > ")
}

// GenerateStory returns a human-readable explanation of why the root fails
func (p FailurePath) GenerateStory() string {
	var sb strings.Builder
	origin := p.Origin()
	sb.WriteString(fmt.Sprintf("FAIL recorded on [%s] %s (%s)\n", origin.NodeID, origin.Name, origin.Kind))
	if origin.Reason != "" {
		sb.WriteString(fmt.Sprintf("  Reason: %s\n", origin.Reason))
	}
	if len(p.Steps) > 1 {
		sb.WriteString(fmt.Sprintf("  Propagates to: %s\n", p.String()))
	}
	return sb.String()
}
