package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed is returned when a payload does not have the node shape
// {id, name, type, status, reason?, children:[...]}.
var ErrMalformed = errors.New("tree: malformed payload")

type wireNode struct {
	ID       *ID         `json:"id"`
	Name     string      `json:"name"`
	Kind     Kind        `json:"type"`
	Status   *string     `json:"status"`
	Reason   *string     `json:"reason"`
	Children *[]wireNode `json:"children"`
}

// Decode reads exactly one node (and its subtree) from r and validates it.
func Decode(r io.Reader) (*Node, error) {
	var w wireNode
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		if errors.Is(err, ErrMalformed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after node", ErrMalformed)
	}
	seen := make(map[ID]bool)
	return w.build(nil, seen)
}

// DecodeBytes is Decode over an in-memory payload
func DecodeBytes(data []byte) (*Node, error) {
	return Decode(bytes.NewReader(data))
}

func (w *wireNode) build(path []string, seen map[ID]bool) (*Node, error) {
	if w.ID == nil {
		return nil, malformed(path, "missing id")
	}
	path = append(path, w.ID.String())
	if seen[*w.ID] {
		return nil, malformed(path, "duplicate id")
	}
	seen[*w.ID] = true

	if w.Status == nil {
		return nil, malformed(path, "missing status")
	}
	st, err := ParseStatus(*w.Status)
	if err != nil {
		return nil, malformed(path, err.Error())
	}
	if w.Children == nil {
		return nil, malformed(path, "missing children")
	}

	n := &Node{
		ID:       *w.ID,
		Name:     w.Name,
		Kind:     w.Kind,
		Status:   st,
		Reason:   w.Reason,
		Children: make([]*Node, 0, len(*w.Children)),
	}
	for i := range *w.Children {
		child, err := (*w.Children)[i].build(path, seen)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// Validate applies the same shape rules as Decode to an already built tree
// (for example one read from a YAML seed file).
func Validate(root *Node) error {
	if root == nil {
		return fmt.Errorf("%w: empty tree", ErrMalformed)
	}
	seen := make(map[ID]bool)
	var check func(n *Node, path []string) error
	check = func(n *Node, path []string) error {
		if n.ID == "" {
			return malformed(path, "missing id")
		}
		path = append(path, n.ID.String())
		if seen[n.ID] {
			return malformed(path, "duplicate id")
		}
		seen[n.ID] = true
		if !n.Status.Valid() {
			return malformed(path, fmt.Sprintf("invalid status %q", n.Status))
		}
		for _, c := range n.Children {
			if c == nil {
				return malformed(path, "nil child")
			}
			if err := check(c, path); err != nil {
				return err
			}
		}
		return nil
	}
	return check(root, nil)
}

func malformed(path []string, msg string) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: %s", ErrMalformed, msg)
	}
	return fmt.Errorf("%w: node %s: %s", ErrMalformed, strings.Join(path, "/"), msg)
}
