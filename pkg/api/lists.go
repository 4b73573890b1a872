package api

import (
	"context"
	"fmt"
	"sort"

	"github.com/zfogg/otakulist/pkg/client"
	"github.com/zfogg/otakulist/pkg/logger"
)

// GetLists retrieves the caller's custom lists with pagination
func GetLists(page int, pageSize int) (*ListsResponse, error) {
	logger.Debug("Fetching lists", "page", page)

	var response ListsResponse
	resp, err := client.GetClient().
		R().
		SetQueryParam("page", fmt.Sprintf("%d", page)).
		SetQueryParam("page_size", fmt.Sprintf("%d", pageSize)).
		SetResult(&response).
		Get("/api/v1/lists")

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch lists: %w", err)
	}

	return &response, nil
}

// GetList retrieves a list with its items sorted by position
func GetList(listID string) (*CustomList, error) {
	return GetListContext(context.Background(), listID)
}

// GetListContext is GetList bound to ctx
func GetListContext(ctx context.Context, listID string) (*CustomList, error) {
	logger.Debug("Fetching list", "list_id", listID)

	var response struct {
		List CustomList `json:"list"`
	}

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&response).
		Get(fmt.Sprintf("/api/v1/lists/%s", listID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch list: %w", err)
	}

	list := response.List
	sort.SliceStable(list.Items, func(i, j int) bool {
		return list.Items[i].Position < list.Items[j].Position
	})
	return &list, nil
}

// CreateList creates a new custom list
func CreateList(name string, description string, isPublic bool) (*CustomList, error) {
	logger.Debug("Creating list", "name", name)

	req := CreateListRequest{
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
	}

	var response struct {
		List CustomList `json:"list"`
	}

	resp, err := client.GetClient().
		R().
		SetBody(req).
		SetResult(&response).
		Post("/api/v1/lists")

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	return &response.List, nil
}

// DeleteList deletes a list
func DeleteList(listID string) error {
	logger.Debug("Deleting list", "list_id", listID)

	resp, err := client.GetClient().
		R().
		Delete(fmt.Sprintf("/api/v1/lists/%s", listID))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// AddListItem appends a catalog entry to the end of a list
func AddListItem(listID string, req AddItemRequest) (*ListItem, error) {
	logger.Debug("Adding item to list", "list_id", listID, "media_id", req.MediaID)

	var response struct {
		Item ListItem `json:"item"`
	}

	resp, err := client.GetClient().
		R().
		SetBody(req).
		SetResult(&response).
		Post(fmt.Sprintf("/api/v1/lists/%s/items", listID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	return &response.Item, nil
}

// RemoveListItem removes an item; the server closes the gap in positions
func RemoveListItem(listID string, itemID string) error {
	logger.Debug("Removing item from list", "list_id", listID, "item_id", itemID)

	resp, err := client.GetClient().
		R().
		Delete(fmt.Sprintf("/api/v1/lists/%s/items/%s", listID, itemID))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

// FollowList subscribes the caller to another user's public list
func FollowList(listID string) error {
	logger.Debug("Following list", "list_id", listID)

	resp, err := client.GetClient().
		R().
		Post(fmt.Sprintf("/api/v1/lists/%s/follow", listID))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to follow list: %w", err)
	}
	return nil
}

// UnfollowList removes the caller's subscription to a list
func UnfollowList(listID string) error {
	logger.Debug("Unfollowing list", "list_id", listID)

	resp, err := client.GetClient().
		R().
		Delete(fmt.Sprintf("/api/v1/lists/%s/follow", listID))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to unfollow list: %w", err)
	}
	return nil
}

// ReorderListItems submits the full order of a list. A 409 carrying the
// conflict flag is returned as *ConflictError; any other failure as
// *APIError or the transport error.
func ReorderListItems(ctx context.Context, listID string, req ReorderRequest) (*ReorderResponse, error) {
	logger.Debug("Submitting list order", "list_id", listID, "items", len(req.Items), "last_updated", req.LastUpdated)

	var response ReorderResponse
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&response).
		Put(fmt.Sprintf("/api/v1/lists/%s/reorder", listID))

	if err != nil {
		return nil, err
	}

	if conflict := parseConflict(listID, resp); conflict != nil {
		return nil, conflict
	}

	if !resp.IsSuccess() {
		return nil, ParseError(resp)
	}

	return &response, nil
}
