package engine

import (
	"context"

	"github.com/user/normtree/pkg/logging"
	"github.com/user/normtree/pkg/tree"
)

// Store is the collaborator that owns the authoritative tree
type Store interface {
	// FetchRoot returns the full tree under the well-known root.
	FetchRoot(ctx context.Context) (*tree.Node, error)
	// FetchNode returns the subtree rooted at id.
	FetchNode(ctx context.Context, id tree.ID) (*tree.Node, error)
	// SetStatus records status as the stored status of id and nothing else.
	SetStatus(ctx context.Context, id tree.ID, status tree.Status) error
}

// Toggle returns the opposite of the observed stored status
func Toggle(observed tree.Status) tree.Status {
	if observed == tree.Pass {
		return tree.Fail
	}
	return tree.Pass
}

// Override flips the stored status of nodeID in the store, starting from
// the status the caller observed. observed must be the stored status, never
// the effective one. The new tree is not returned: callers reload to see it.
func Override(ctx context.Context, store Store, nodeID tree.ID, observed tree.Status) (tree.Status, error) {
	if !observed.Valid() {
		return "", newError(KindOverride, nodeID, "invalid observed status", tree.ErrInvalidStatus)
	}
	next := Toggle(observed)
	logging.Debugf("override node=%s observed=%s new=%s", nodeID, observed, next)
	if err := store.SetStatus(ctx, nodeID, next); err != nil {
		return "", newError(KindOverride, nodeID, "override failed", err)
	}
	return next, nil
}
