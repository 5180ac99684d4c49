package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/normtree/pkg/tree"
)

// Memory is an in-process store holding one tree. Reads return deep copies
// so callers never share nodes with the store.
type Memory struct {
	mu     sync.RWMutex
	root   *tree.Node
	index  map[tree.ID]*tree.Node
	parent map[tree.ID]*tree.Node
}

// NewMemory validates root and takes a private copy of it
func NewMemory(root *tree.Node) (*Memory, error) {
	m := &Memory{}
	if err := m.Replace(root); err != nil {
		return nil, err
	}
	return m, nil
}

// Replace swaps the whole tree
func (m *Memory) Replace(root *tree.Node) error {
	if err := tree.Validate(root); err != nil {
		return err
	}
	root = root.Clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = root
	m.reindex()
	return nil
}

func (m *Memory) reindex() {
	m.index = make(map[tree.ID]*tree.Node)
	m.parent = make(map[tree.ID]*tree.Node)
	if m.root == nil {
		return
	}
	tree.Walk(m.root, func(n *tree.Node, _ int) bool {
		m.index[n.ID] = n
		for _, c := range n.Children {
			m.parent[c.ID] = n
		}
		return true
	})
}

func (m *Memory) FetchRoot(ctx context.Context) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.root == nil {
		return nil, ErrNoRoot
	}
	return m.root.Clone(), nil
}

func (m *Memory) FetchNode(ctx context.Context, id tree.ID) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return n.Clone(), nil
}

// SetStatus changes only the stored status of id
func (m *Memory) SetStatus(ctx context.Context, id tree.ID, status tree.Status) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %v", ErrRejected, tree.ErrInvalidStatus)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	n.Status = status
	return nil
}

// Delete removes the subtree rooted at id. Deleting the root empties the store.
func (m *Memory) Delete(id tree.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if m.root != nil && m.root.ID == id {
		m.root = nil
		m.reindex()
		return nil
	}
	p := m.parent[id]
	kept := p.Children[:0]
	for _, c := range p.Children {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	p.Children = kept
	m.reindex()
	return nil
}
