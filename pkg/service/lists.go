package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/zfogg/otakulist/pkg/api"
	"github.com/zfogg/otakulist/pkg/config"
	clierrors "github.com/zfogg/otakulist/pkg/errors"
	"github.com/zfogg/otakulist/pkg/logger"
	"github.com/zfogg/otakulist/pkg/output"
	"github.com/zfogg/otakulist/pkg/prompter"
	"github.com/zfogg/otakulist/pkg/reorder"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// ListService handles custom list operations
type ListService struct {
	// Confirm asks whether to reload after a conflict
	Confirm func(label string) (bool, error)
}

// NewListService creates a new list service
func NewListService() *ListService {
	return &ListService{Confirm: prompter.PromptConfirm}
}

// ListLists lists the caller's lists
func (ls *ListService) ListLists(page, pageSize int) error {
	logger.Debug("Listing lists", "page", page)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	resp, err := api.GetLists(page, pageSize)
	if err != nil {
		logger.Error("Failed to fetch lists", "error", err)
		return err
	}

	if len(resp.Lists) == 0 && output.GetOutputFormat() == output.FormatText {
		output.Printf("No lists yet. Create one with `list create`.\n")
		return nil
	}

	return renderLists(resp)
}

// ViewList shows a list and its items in order
func (ls *ListService) ViewList(listID string) error {
	logger.Debug("Viewing list", "list_id", listID)

	list, err := api.GetList(listID)
	if err != nil {
		logger.Error("Failed to fetch list", "error", err)
		return err
	}

	return renderList(list, list.Items)
}

// CreateList validates and creates a list
func (ls *ListService) CreateList(name, description string, isPublic bool) (*api.CustomList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, clierrors.ValidationError("name", "cannot be empty")
	}
	if len([]rune(name)) > maxNameLength {
		return nil, clierrors.ValidationError("name", fmt.Sprintf("exceeds maximum length (%d characters)", maxNameLength))
	}
	if len([]rune(description)) > maxDescriptionLength {
		return nil, clierrors.ValidationError("description", fmt.Sprintf("exceeds maximum length (%d characters)", maxDescriptionLength))
	}

	list, err := api.CreateList(name, description, isPublic)
	if err != nil {
		logger.Error("Failed to create list", "error", err)
		return nil, err
	}

	logger.Debug("List created", "list_id", list.ID)
	output.PrintSuccess("List '%s' created (%s)", list.Name, list.ID)
	return list, nil
}

// DeleteList deletes a list
func (ls *ListService) DeleteList(listID string) error {
	if err := api.DeleteList(listID); err != nil {
		logger.Error("Failed to delete list", "error", err)
		return err
	}
	output.PrintSuccess("List deleted")
	return nil
}

// AddItem appends a catalog entry to a list
func (ls *ListService) AddItem(listID, mediaID, notes string) (*api.ListItem, error) {
	if strings.TrimSpace(mediaID) == "" {
		return nil, clierrors.ValidationError("media", "cannot be empty")
	}

	item, err := api.AddListItem(listID, api.AddItemRequest{MediaID: mediaID, Notes: notes})
	if err != nil {
		logger.Error("Failed to add item", "error", err)
		return nil, err
	}

	output.PrintSuccess("Added '%s' at position %d", item.Title, item.Position+1)
	return item, nil
}

// RemoveItem removes the referenced item from a list
func (ls *ListService) RemoveItem(listID, itemRef string) error {
	list, err := api.GetList(listID)
	if err != nil {
		return err
	}

	itemID, err := resolveItemRef(list.Items, itemRef)
	if err != nil {
		return clierrors.ValidationError("item", err.Error())
	}

	if err := api.RemoveListItem(listID, itemID); err != nil {
		logger.Error("Failed to remove item", "error", err)
		return err
	}

	output.PrintSuccess("Item removed")
	return nil
}

// FollowList follows another user's list
func (ls *ListService) FollowList(listID string) error {
	if err := api.FollowList(listID); err != nil {
		return err
	}
	output.PrintSuccess("Following list %s", listID)
	return nil
}

// UnfollowList stops following a list
func (ls *ListService) UnfollowList(listID string) error {
	if err := api.UnfollowList(listID); err != nil {
		return err
	}
	output.PrintSuccess("Unfollowed list %s", listID)
	return nil
}

// MoveItem moves one item into another item's slot and waits for the
// server to settle the new order.
func (ls *ListService) MoveItem(ctx context.Context, listID, sourceRef, targetRef string) error {
	list, err := api.GetListContext(ctx, listID)
	if err != nil {
		return err
	}

	sourceID, err := resolveItemRef(list.Items, sourceRef)
	if err != nil {
		return clierrors.ValidationError("source", err.Error())
	}
	targetID, err := resolveItemRef(list.Items, targetRef)
	if err != nil {
		return clierrors.ValidationError("target", err.Error())
	}

	session := ls.newSession(list, config.ConflictPolicy())
	defer session.coord.Close()

	if !session.coord.HandleMove(sourceID, targetID) {
		output.PrintInfo("Nothing to move.")
		return nil
	}

	if err := session.coord.Flush(ctx); err != nil {
		return err
	}

	if err := session.err(); err != nil {
		return err
	}

	output.PrintSuccess("Order saved")
	return renderList(list, session.store.Items())
}

// Arrange reads move commands from r and applies each one immediately,
// without waiting for earlier moves to be saved. Lines look like
// "move <from> <to>"; "show" prints the current order.
func (ls *ListService) Arrange(ctx context.Context, listID string, r io.Reader) error {
	list, err := api.GetListContext(ctx, listID)
	if err != nil {
		return err
	}

	// stdin carries the moves, so a prompt cannot be answered here
	policy := config.ConflictPolicy()
	if policy == config.ConflictPrompt {
		policy = config.ConflictKeep
	}

	session := ls.newSession(list, policy)
	defer session.coord.Close()

	renderItems(session.store.Items())

	scanner := bufio.NewScanner(r)
read:
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "move", "mv":
			if len(fields) != 3 {
				output.PrintWarning("usage: move <from> <to>")
				continue
			}
			items := session.store.Items()
			src, err := resolveItemRef(items, fields[1])
			if err != nil {
				output.PrintWarning("%v", err)
				continue
			}
			dst, err := resolveItemRef(items, fields[2])
			if err != nil {
				output.PrintWarning("%v", err)
				continue
			}
			session.coord.HandleMove(src, dst)
		case "show":
			renderItems(session.store.Items())
		case "quit", "exit":
			break read
		default:
			output.PrintWarning("unknown command %q", fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := session.coord.Flush(ctx); err != nil {
		return err
	}

	output.Printf("\nFinal order:\n")
	renderItems(session.store.Items())

	committed, rolledBack := session.counts()
	logger.Debug("Arrange finished", "list_id", listID, "committed", committed, "rolled_back", rolledBack)
	if rolledBack > 0 {
		return session.err()
	}
	output.PrintSuccess("%d submission%s saved", committed, pluralize(committed))
	return nil
}

// moveSession wires a coordinator to terminal feedback for one command
type moveSession struct {
	store  *reorder.Store
	coord  *reorder.Coordinator
	policy string
	ls     *ListService

	mu       sync.Mutex
	outcomes []reorder.Outcome
}

func (ls *ListService) newSession(list *api.CustomList, policy string) *moveSession {
	s := &moveSession{store: reorder.NewStore(list), policy: policy, ls: ls}
	s.coord = reorder.NewCoordinator(s.store, reorder.Config{OnSettled: s.onSettled})
	s.store.Subscribe(func(items []api.ListItem) {
		logger.Debug("Order changed", "list_id", list.ID, "items", len(items))
	})
	return s
}

func (s *moveSession) onSettled(o reorder.Outcome) {
	s.mu.Lock()
	s.outcomes = append(s.outcomes, o)
	s.mu.Unlock()

	switch o.State {
	case reorder.StateCommitted:
		logger.Debug("Order committed", "list_id", o.ListID, "updated_at", o.UpdatedAt)
	case reorder.StateConflicted:
		output.PrintWarning("%s", o.Message)
		if o.OfferReload && s.wantsReload() {
			if err := s.coord.Reload(context.Background()); err != nil {
				output.PrintError("reload failed: %v", err)
				return
			}
			output.PrintInfo("Reloaded the list from the server:")
			renderItems(s.store.Items())
		}
	case reorder.StateFailed:
		output.PrintWarning("%s", o.Message)
	}
}

func (s *moveSession) wantsReload() bool {
	switch s.policy {
	case config.ConflictReload:
		return true
	case config.ConflictKeep:
		return false
	}
	if s.ls.Confirm == nil {
		return false
	}
	ok, err := s.ls.Confirm("Reload the list from the server?")
	return err == nil && ok
}

func (s *moveSession) counts() (committed, rolledBack int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.outcomes {
		if o.State == reorder.StateCommitted {
			committed++
		} else {
			rolledBack++
		}
	}
	return committed, rolledBack
}

// err reports the last rollback as a CLI error
func (s *moveSession) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.outcomes) - 1; i >= 0; i-- {
		o := s.outcomes[i]
		switch o.State {
		case reorder.StateConflicted:
			e := clierrors.ConflictError(o.Message)
			e.Cause = o.Err
			return e
		case reorder.StateFailed:
			// a rejected order is a server failure whatever its status
			errType := clierrors.ErrorTypeServer
			var apiErr *api.APIError
			if o.Err != nil && !errors.As(o.Err, &apiErr) {
				errType = clierrors.CategorizeError(o.Err).Type
			}
			return clierrors.NewCLIError(errType, o.Message, o.Err).WithSuggestion("Try the move again.")
		}
	}
	return nil
}
