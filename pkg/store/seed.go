package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/normtree/pkg/tree"
)

// seedNode is the YAML shape of a tree, mirroring the wire format
type seedNode struct {
	ID       interface{} `yaml:"id"`
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Status   string      `yaml:"status"`
	Reason   *string     `yaml:"reason"`
	Children []seedNode  `yaml:"children"`
}

// LoadSeed reads a YAML tree from path
func LoadSeed(path string) (*tree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	root, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return root, nil
}

func ParseSeed(data []byte) (*tree.Node, error) {
	var s seedNode
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	root, err := s.build()
	if err != nil {
		return nil, err
	}
	if err := tree.Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (s seedNode) build() (*tree.Node, error) {
	if s.ID == nil {
		return nil, fmt.Errorf("%w: seed node %q has no id", tree.ErrMalformed, s.Name)
	}
	id := tree.ID(fmt.Sprint(s.ID))
	status, err := tree.ParseOperatorStatus(s.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: node %s: %v", tree.ErrMalformed, id, err)
	}
	n := &tree.Node{
		ID:       id,
		Name:     s.Name,
		Kind:     tree.Kind(s.Type),
		Status:   status,
		Reason:   s.Reason,
		Children: make([]*tree.Node, 0, len(s.Children)),
	}
	for _, c := range s.Children {
		child, err := c.build()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}
