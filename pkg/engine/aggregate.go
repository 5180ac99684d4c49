package engine

import (
	"github.com/user/normtree/pkg/tree"
)

// Effective holds the displayed status of every node in one snapshot.
// It is computed once per render pass and shared read-only.
type Effective map[tree.ID]tree.Status

// Of returns the effective status for id. Unknown ids report FAIL so a
// lookup bug can never show a green node.
func (e Effective) Of(id tree.ID) tree.Status {
	if s, ok := e[id]; ok {
		return s
	}
	return tree.Fail
}

// Aggregate computes the effective status of every node under root with a
// single post-order pass: a node is FAIL when it, or any node at any depth
// below it, has stored status FAIL.
func Aggregate(root *tree.Node) Effective {
	eff := make(Effective)
	if root == nil {
		return eff
	}

	type frame struct {
		node    *tree.Node
		visited bool
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if !top.visited {
			top.visited = true
			n := top.node
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: n.Children[i]})
			}
			continue
		}
		n := top.node
		stack = stack[:len(stack)-1]

		status := n.Status
		if status != tree.Fail {
			for _, c := range n.Children {
				if eff[c.ID] == tree.Fail {
					status = tree.Fail
					break
				}
			}
		}
		eff[n.ID] = status
	}
	return eff
}

// EffectiveStatus is Aggregate for a single node. Prefer Aggregate when
// rendering a whole tree.
func EffectiveStatus(n *tree.Node) tree.Status {
	return Aggregate(n).Of(n.ID)
}

// Summary counts nodes of a snapshot by stored and effective status
type Summary struct {
	Nodes         int
	StoredFail    int
	EffectiveFail int
	Root          tree.Status
}

func Summarize(root *tree.Node, eff Effective) Summary {
	var s Summary
	if root == nil {
		return s
	}
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		s.Nodes++
		if n.Status == tree.Fail {
			s.StoredFail++
		}
		if eff.Of(n.ID) == tree.Fail {
			s.EffectiveFail++
		}
		return true
	})
	s.Root = eff.Of(root.ID)
	return s
}
