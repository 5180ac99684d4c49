package engine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/user/normtree/pkg/tree"
)

// SaveSnapshot writes the snapshot tree to path as JSON in the store's
// wire format, so a saved file can be decoded like a store response.
func (s *Snapshot) SaveSnapshot(path string) error {
	// Clone normalizes nil children to [] as the decoder requires
	data, err := json.MarshalIndent(s.Root.Clone(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSnapshot reads a snapshot previously written by SaveSnapshot
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	root, err := tree.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return NewSnapshot(root), nil
}

// StatusChange describes one node in a snapshot comparison
type StatusChange struct {
	NodeID tree.ID
	Name   string
	Before tree.Status // "" when the node is absent from the baseline
	After  tree.Status // "" when the node is absent from the current tree
}

// SnapshotDiff groups effectively failing nodes by how they moved between
// a baseline and the current snapshot.
type SnapshotDiff struct {
	New       []StatusChange // failing now, not failing (or absent) before
	Fixed     []StatusChange // failing before, passing (or absent) now
	Unchanged []StatusChange // failing in both
}

// CompareSnapshot diffs s against baseline by effective status.
// Results follow the pre-order of the current tree, then the baseline.
func (s *Snapshot) CompareSnapshot(baseline *Snapshot) SnapshotDiff {
	var d SnapshotDiff

	tree.Walk(s.Root, func(n *tree.Node, _ int) bool {
		after := s.Effective.Of(n.ID)
		var before tree.Status
		if _, ok := baseline.Node(n.ID); ok {
			before = baseline.Effective.Of(n.ID)
		}
		c := StatusChange{NodeID: n.ID, Name: n.Name, Before: before, After: after}
		switch {
		case after == tree.Fail && before == tree.Fail:
			d.Unchanged = append(d.Unchanged, c)
		case after == tree.Fail:
			d.New = append(d.New, c)
		case before == tree.Fail:
			d.Fixed = append(d.Fixed, c)
		}
		return true
	})

	tree.Walk(baseline.Root, func(n *tree.Node, _ int) bool {
		if _, ok := s.Node(n.ID); ok {
			return true
		}
		if baseline.Effective.Of(n.ID) == tree.Fail {
			d.Fixed = append(d.Fixed, StatusChange{NodeID: n.ID, Name: n.Name, Before: tree.Fail})
		}
		return true
	})
	return d
}
