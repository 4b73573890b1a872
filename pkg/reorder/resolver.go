package reorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/zfogg/otakulist/pkg/api"
	"github.com/zfogg/otakulist/pkg/logger"
)

// State is where a submission ended up
type State int

const (
	StatePending State = iota
	StateCommitted
	StateConflicted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateConflicted:
		return "conflicted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s != StatePending
}

// User-facing settlement messages
const (
	MessageConflict = "This list was changed in another session. Your move was undone."
	MessageFailed   = "Could not save the new order. Your move was undone."
)

// PendingReorder is one in-flight submission: the order before the moves
// it carries, the order it proposes and the version it was based on.
type PendingReorder struct {
	Previous      []api.ListItem
	Proposed      []api.ListItem
	BaseUpdatedAt time.Time
}

// Outcome describes how a submission settled
type Outcome struct {
	ListID      string
	State       State
	Message     string
	OfferReload bool
	UpdatedAt   time.Time
	Err         error
	Pending     *PendingReorder
}

// Resolver reconciles the store with the server's answer to a submission
type Resolver struct{}

// Resolve applies the result of submitting p to store and returns the
// terminal outcome. Commit keeps the current sequence, which may already
// hold later moves, and adopts the new version. Conflict and failure roll
// the store back to p.Previous.
func (r *Resolver) Resolve(store *Store, p *PendingReorder, resp *api.ReorderResponse, err error) Outcome {
	out := Outcome{ListID: store.ListID(), Pending: p, Err: err}

	if err == nil && resp != nil {
		if resp.UpdatedAt.IsZero() {
			logger.Warn("Reorder accepted without a version", "list_id", out.ListID)
		} else {
			store.SetUpdatedAt(resp.UpdatedAt)
		}
		out.State = StateCommitted
		out.UpdatedAt = store.UpdatedAt()
		return out
	}

	if err == nil {
		err = errors.New("empty reorder response")
		out.Err = err
	}

	store.ApplyOrder(p.Previous)
	out.UpdatedAt = store.UpdatedAt()

	if api.IsConflict(err) {
		out.State = StateConflicted
		out.Message = MessageConflict
		out.OfferReload = true
		logger.Warn("Reorder conflicted, rolled back", "list_id", out.ListID, "base", p.BaseUpdatedAt)
		return out
	}

	out.State = StateFailed
	out.Message = MessageFailed
	logger.Warn("Reorder failed, rolled back", "list_id", out.ListID, "error", err)
	return out
}
