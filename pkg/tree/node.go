package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Status is the PASS/FAIL verdict recorded for a node
type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
)

var ErrInvalidStatus = errors.New("tree: invalid status")

// ParseStatus accepts exactly "PASS" or "FAIL". It is used on everything
// that arrives over the wire.
func ParseStatus(s string) (Status, error) {
	if st := Status(s); st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ParseOperatorStatus is ParseStatus for typed input: case and surrounding
// space are ignored.
func ParseOperatorStatus(s string) (Status, error) {
	st, err := ParseStatus(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	return s == Pass || s == Fail
}

// Kind categorizes a node for display. It never affects aggregation.
type Kind string

const (
	KindRoot     Kind = "ROOT"
	KindCheck    Kind = "CHECK"
	KindSubCheck Kind = "SUB_CHECK"
)

// ID identifies a node across the whole tree. The store sends integers,
// but nothing here relies on ordering or contiguity.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: null id", ErrMalformed)
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: id %s", ErrMalformed, data)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes canonical integers ("42", "-3") as numbers and every
// other id, "007" and "+5" included, as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Node is one entry of a loaded snapshot. Snapshots are treated as
// read-only once decoded; an override never patches a Node in place.
type Node struct {
	ID       ID      `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Kind     Kind    `json:"type" yaml:"type"`
	Status   Status  `json:"status" yaml:"status"`
	Reason   *string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Children []*Node `json:"children" yaml:"children"`
}

func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// ReasonText returns the reason or "" when absent
func (n *Node) ReasonText() string {
	if n.Reason == nil {
		return ""
	}
	return *n.Reason
}

// Clone returns a deep copy of the subtree rooted at n
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		ID:     n.ID,
		Name:   n.Name,
		Kind:   n.Kind,
		Status: n.Status,
	}
	if n.Reason != nil {
		r := *n.Reason
		c.Reason = &r
	}
	c.Children = make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	type frame struct {
		node  *Node
		depth int
	}
	if n == nil {
		return
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.node, f.depth) {
			continue
		}
		// push in reverse so children are visited in insertion order
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
}

// Index maps every id in the subtree to its node
func Index(root *Node) map[ID]*Node {
	idx := make(map[ID]*Node)
	Walk(root, func(n *Node, _ int) bool {
		idx[n.ID] = n
		return true
	})
	return idx
}

// Find returns the node with the given id, or nil
func Find(root *Node, id ID) *Node {
	var found *Node
	Walk(root, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the subtree
func Count(root *Node) int {
	c := 0
	Walk(root, func(*Node, int) bool {
		c++
		return true
	})
	return c
}

// Depth returns the number of levels below n (0 for a leaf)
func Depth(root *Node) int {
	deepest := 0
	Walk(root, func(_ *Node, d int) bool {
		if d > deepest {
			deepest = d
		}
		return true
	})
	return deepest
}
