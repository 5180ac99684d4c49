package engine

import (
	"context"
	"sync"
	"time"

	"github.com/user/normtree/pkg/logging"
	"github.com/user/normtree/pkg/store"
	"github.com/user/normtree/pkg/tree"
)

// Snapshot is one fully loaded copy of the tree together with its
// effective statuses. It is never modified after construction.
type Snapshot struct {
	Root      *tree.Node
	Effective Effective
	LoadedAt  time.Time
	index     map[tree.ID]*tree.Node
}

// NewSnapshot aggregates root once and indexes it
func NewSnapshot(root *tree.Node) *Snapshot {
	return &Snapshot{
		Root:      root,
		Effective: Aggregate(root),
		LoadedAt:  time.Now(),
		index:     tree.Index(root),
	}
}

func (s *Snapshot) Node(id tree.ID) (*tree.Node, bool) {
	n, ok := s.index[id]
	return n, ok
}

// StoredStatus is the status to pass as "observed" to Override
func (s *Snapshot) StoredStatus(id tree.ID) (tree.Status, bool) {
	n, ok := s.index[id]
	if !ok {
		return "", false
	}
	return n.Status, true
}

func (s *Snapshot) Summary() Summary {
	return Summarize(s.Root, s.Effective)
}

// Session is one operator view over the store. It keeps the last good
// snapshot, the root id it was loaded from, and runs at most one store
// round-trip at a time.
type Session struct {
	store Store

	// Timeout bounds every store round-trip. Zero means no bound beyond
	// the caller's context.
	Timeout time.Duration

	op sync.Mutex

	mu     sync.RWMutex
	snap   *Snapshot
	rootID tree.ID
	stale  bool
}

func NewSession(s Store, timeout time.Duration) *Session {
	return &Session{store: s, Timeout: timeout}
}

// Snapshot returns the last successfully loaded snapshot, or nil
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// RootID is the id the current snapshot was loaded from
func (s *Session) RootID() tree.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootID
}

// Stale reports whether an override has been written since the last load
func (s *Session) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

func (s *Session) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout > 0 {
		return context.WithTimeout(ctx, s.Timeout)
	}
	return context.WithCancel(ctx)
}

// Load fetches the full tree under the store's well-known root
func (s *Session) Load(ctx context.Context) (*Snapshot, error) {
	s.op.Lock()
	defer s.op.Unlock()

	ctx, cancel := s.bound(ctx)
	defer cancel()

	root, err := s.store.FetchRoot(ctx)
	if err != nil {
		logging.Debugf("load failed: %v", err)
		return nil, newError(KindLoad, "", "load failed", err)
	}
	if err := tree.Validate(root); err != nil {
		return nil, newError(KindLoad, "", "load failed", err)
	}
	return s.replace(root), nil
}

// Reload re-fetches the subtree rooted at rootID and makes it the current
// snapshot. On any error the previous snapshot is kept.
func (s *Session) Reload(ctx context.Context, rootID tree.ID) (*Snapshot, error) {
	s.op.Lock()
	defer s.op.Unlock()
	return s.reload(ctx, rootID)
}

// Refresh reloads from the root id of the current snapshot
func (s *Session) Refresh(ctx context.Context) (*Snapshot, error) {
	s.op.Lock()
	defer s.op.Unlock()

	rootID := s.RootID()
	if rootID == "" {
		return nil, newError(KindLoad, "", "nothing loaded yet", nil)
	}
	return s.reload(ctx, rootID)
}

func (s *Session) reload(ctx context.Context, rootID tree.ID) (*Snapshot, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	root, err := s.store.FetchNode(ctx, rootID)
	if err != nil {
		logging.Debugf("reload %s failed: %v", rootID, err)
		if store.IsNotFound(err) {
			return nil, newError(KindNotFound, rootID, "refresh target not found", err)
		}
		return nil, newError(KindLoad, rootID, "reload failed", err)
	}
	if err := tree.Validate(root); err != nil {
		return nil, newError(KindLoad, rootID, "reload failed", err)
	}
	return s.replace(root), nil
}

func (s *Session) replace(root *tree.Node) *Snapshot {
	snap := NewSnapshot(root)
	s.mu.Lock()
	s.snap = snap
	s.rootID = root.ID
	s.stale = false
	s.mu.Unlock()
	logging.Debugf("snapshot %s loaded: %d nodes", root.ID, tree.Count(root))
	return snap
}

// Override writes the toggle of observed for nodeID. The current snapshot
// is left untouched; a reload is required before the next override.
func (s *Session) Override(ctx context.Context, nodeID tree.ID, observed tree.Status) (tree.Status, error) {
	s.op.Lock()
	defer s.op.Unlock()
	return s.override(ctx, nodeID, observed)
}

func (s *Session) override(ctx context.Context, nodeID tree.ID, observed tree.Status) (tree.Status, error) {
	if s.Stale() {
		return "", newError(KindOverride, nodeID, "override refused", ErrStale)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	next, err := Override(ctx, s.store, nodeID, observed)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
	return next, nil
}

// Flip overrides nodeID using its stored status from the current snapshot,
// then reloads from the snapshot root. If the write succeeds but the
// reload fails, the new status is returned along with the reload error.
func (s *Session) Flip(ctx context.Context, nodeID tree.ID) (tree.Status, *Snapshot, error) {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.RLock()
	snap, rootID := s.snap, s.rootID
	s.mu.RUnlock()
	if snap == nil {
		return "", nil, newError(KindOverride, nodeID, "nothing loaded yet", nil)
	}
	observed, ok := snap.StoredStatus(nodeID)
	if !ok {
		return "", nil, newError(KindOverride, nodeID, "node not in current snapshot", store.ErrNotFound)
	}

	next, err := s.override(ctx, nodeID, observed)
	if err != nil {
		return "", nil, err
	}
	fresh, err := s.reload(ctx, rootID)
	if err != nil {
		return next, nil, err
	}
	return next, fresh, nil
}
