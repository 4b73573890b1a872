package reorder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zfogg/otakulist/pkg/api"
	"github.com/zfogg/otakulist/pkg/logger"
)

var (
	// ErrClosed is returned once the coordinator has been closed
	ErrClosed = errors.New("reorder: coordinator closed")
	// ErrReorderInFlight is returned by Reload while moves are unsettled
	ErrReorderInFlight = errors.New("reorder: submission in flight")
)

// Submitter sends a full list order to the server
type Submitter interface {
	Submit(ctx context.Context, listID string, req api.ReorderRequest) (*api.ReorderResponse, error)
}

// SubmitFunc adapts a function to Submitter
type SubmitFunc func(ctx context.Context, listID string, req api.ReorderRequest) (*api.ReorderResponse, error)

// Submit calls f
func (f SubmitFunc) Submit(ctx context.Context, listID string, req api.ReorderRequest) (*api.ReorderResponse, error) {
	return f(ctx, listID, req)
}

// Loader fetches the authoritative copy of a list
type Loader func(ctx context.Context, listID string) (*api.CustomList, error)

// Config wires a Coordinator to its collaborators. Zero fields fall back
// to the REST API.
type Config struct {
	Submitter Submitter
	Loader    Loader
	// OnSettled is called once per submission, outside the coordinator
	// lock, after the store reflects the outcome. It may call HandleMove
	// or Reload but not Close.
	OnSettled func(Outcome)
}

// Coordinator turns move intents into optimistic store updates and
// serialised submissions. At most one submission per list is in flight;
// moves made meanwhile are folded into a single follow-up submission
// carrying the latest full order.
type Coordinator struct {
	store     *Store
	submitter Submitter
	loader    Loader
	onSettled func(Outcome)
	resolver  Resolver

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	inFlight *PendingReorder
	queued   *PendingReorder
	idle     chan struct{} // closed when inFlight and queued drain
}

// NewCoordinator creates a coordinator for the list held by store
func NewCoordinator(store *Store, cfg Config) *Coordinator {
	if cfg.Submitter == nil {
		cfg.Submitter = SubmitFunc(api.ReorderListItems)
	}
	if cfg.Loader == nil {
		cfg.Loader = api.GetListContext
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		store:     store,
		submitter: cfg.Submitter,
		loader:    cfg.Loader,
		onSettled: cfg.OnSettled,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Store returns the store the coordinator mutates
func (c *Coordinator) Store() *Store {
	return c.store
}

// HandleMove moves sourceID into targetID's slot. Unknown ids and
// sourceID == targetID are ignored and return false. Otherwise the store
// is updated immediately and the new order is submitted, or queued behind
// the submission already in flight.
func (c *Coordinator) HandleMove(sourceID, targetID string) bool {
	c.mu.Lock()
	c.store.hold()
	defer c.store.release()
	defer c.mu.Unlock()

	if c.closed || sourceID == targetID {
		return false
	}

	before := c.store.Items()
	from, to := indexOf(before, sourceID), indexOf(before, targetID)
	if from < 0 || to < 0 {
		logger.Debug("Ignoring move of unknown item", "source", sourceID, "target", targetID)
		return false
	}

	proposed := Move(before, from, to)
	c.store.ApplyOrder(proposed)

	pending := &PendingReorder{
		Previous:      before,
		Proposed:      proposed,
		BaseUpdatedAt: c.store.UpdatedAt(),
	}

	if c.inFlight != nil {
		// Keep the rollback point of the first queued move
		if c.queued == nil {
			c.queued = pending
		} else {
			c.queued.Proposed = proposed
		}
		logger.Debug("Move queued behind in-flight submission", "list_id", c.store.ListID(), "source", sourceID, "target", targetID)
		return true
	}

	c.dispatch(pending)
	return true
}

// InFlight reports whether a submission is pending or queued
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight != nil || c.queued != nil
}

// Flush blocks until every accepted move has settled or ctx is done
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	if idle == nil {
		return nil
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload replaces the store with a fresh copy of the list. It refuses to
// clobber moves that have not settled yet.
func (c *Coordinator) Reload(ctx context.Context) error {
	c.mu.Lock()
	err := c.checkReload()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	list, err := c.loader(ctx, c.store.ListID())
	if err != nil {
		return fmt.Errorf("reload list %s: %w", c.store.ListID(), err)
	}

	c.mu.Lock()
	c.store.hold()
	defer c.store.release()
	defer c.mu.Unlock()

	// a move or Close may have landed during the fetch
	if err := c.checkReload(); err != nil {
		return err
	}

	c.store.Replace(list)
	logger.Debug("List reloaded", "list_id", list.ID, "items", len(list.Items), "updated_at", list.UpdatedAt)
	return nil
}

// checkReload must be called with c.mu held
func (c *Coordinator) checkReload() error {
	if c.closed {
		return ErrClosed
	}
	if c.inFlight != nil || c.queued != nil {
		return ErrReorderInFlight
	}
	return nil
}

// Close abandons interest in unsettled submissions. Their results no
// longer touch the store and OnSettled is not called.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// dispatch must be called with c.mu held
func (c *Coordinator) dispatch(p *PendingReorder) {
	c.inFlight = p
	if c.idle == nil {
		c.idle = make(chan struct{})
	}

	req := api.ReorderRequest{
		Items:       api.PositionsOf(p.Proposed),
		LastUpdated: p.BaseUpdatedAt,
	}

	logger.Debug("Submitting order", "list_id", c.store.ListID(), "items", len(req.Items))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		resp, err := c.submitter.Submit(c.ctx, c.store.ListID(), req)
		c.settle(p, resp, err)
	}()
}

func (c *Coordinator) settle(p *PendingReorder, resp *api.ReorderResponse, err error) {
	c.mu.Lock()

	if c.closed {
		c.inFlight = nil
		c.queued = nil
		c.markIdle()
		c.mu.Unlock()
		return
	}

	c.store.hold()
	outcome := c.resolver.Resolve(c.store, p, resp, err)
	c.inFlight = nil

	if outcome.State == StateCommitted {
		if next := c.queued; next != nil {
			c.queued = nil
			next.Proposed = c.store.Items()
			next.BaseUpdatedAt = c.store.UpdatedAt()
			if sameOrder(next.Proposed, p.Proposed) {
				// moves since the last send cancelled out
				logger.Debug("Queued moves net to the committed order", "list_id", c.store.ListID())
			} else {
				c.dispatch(next)
			}
		}
	} else {
		// the queued moves were built on the order just rejected
		c.queued = nil
	}

	dispatched := c.inFlight != nil
	onSettled := c.onSettled
	c.mu.Unlock()
	c.store.release()

	if onSettled != nil {
		onSettled(outcome)
	}

	// Flush returns only after the last outcome has been handled
	if !dispatched {
		c.mu.Lock()
		if c.inFlight == nil && c.queued == nil {
			c.markIdle()
		}
		c.mu.Unlock()
	}
}

// markIdle must be called with c.mu held
func (c *Coordinator) markIdle() {
	if c.idle != nil {
		close(c.idle)
		c.idle = nil
	}
}
