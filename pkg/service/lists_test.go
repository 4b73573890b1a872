package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/otakulist/pkg/api"
	"github.com/zfogg/otakulist/pkg/config"
	clierrors "github.com/zfogg/otakulist/pkg/errors"
	"github.com/zfogg/otakulist/pkg/reorder"
)

func TestMoveItem_CommitsNewOrder(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	listID := e.listID(demoListName)

	err := NewListService().MoveItem(context.Background(), listID, "1", "3")
	require.NoError(t, err)

	want := []string{seededTitles[1], seededTitles[2], seededTitles[0], seededTitles[3], seededTitles[4]}
	assert.Equal(t, want, titles(t, listID))
	assert.Equal(t, 1, e.reorderCount())
	assert.Contains(t, e.out.String(), "Order saved")
}

func TestMoveItem_ByItemID(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	listID := e.listID(demoListName)

	list, err := api.GetList(listID)
	require.NoError(t, err)

	svc := NewListService()
	require.NoError(t, svc.MoveItem(context.Background(), listID, list.Items[4].ID, "#1"))

	want := []string{seededTitles[4], seededTitles[0], seededTitles[1], seededTitles[2], seededTitles[3]}
	assert.Equal(t, want, titles(t, listID))
}

func TestMoveItem_SameSlotSendsNothing(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	listID := e.listID(demoListName)

	require.NoError(t, NewListService().MoveItem(context.Background(), listID, "2", "2"))

	assert.Zero(t, e.reorderCount())
	assert.Equal(t, seededTitles, titles(t, listID))
	assert.Contains(t, e.out.String(), "Nothing to move")
}

func TestMoveItem_UnknownReference(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	listID := e.listID(demoListName)

	err := NewListService().MoveItem(context.Background(), listID, "9", "1")
	require.Error(t, err)
	assert.Equal(t, clierrors.ErrorTypeValidation, clierrors.CategorizeError(err).Type)
	assert.Zero(t, e.reorderCount())
}

func TestMoveItem_ConflictRollsBack(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	listID := e.listID(demoListName)
	e.competeOnNextReorder(listID)

	err := NewListService().MoveItem(context.Background(), listID, "1", "3")
	require.Error(t, err)

	cliErr := clierrors.CategorizeError(err)
	assert.Equal(t, clierrors.ErrorTypeConflict, cliErr.Type)
	assert.Equal(t, reorder.MessageConflict, cliErr.Message)
	assert.Contains(t, e.out.String(), reorder.MessageConflict)
	assert.NotContains(t, e.out.String(), "Reloaded")

	// the other session's order stands
	assert.Equal(t, reversed(seededTitles), titles(t, listID))
}

func TestMoveItem_ConflictReloadPolicy(t *testing.T) {
	e := newEnv(t, config.ConflictReload)
	listID := e.listID(demoListName)
	e.competeOnNextReorder(listID)

	err := NewListService().MoveItem(context.Background(), listID, "1", "3")
	require.Error(t, err)

	out := e.out.String()
	idx := strings.Index(out, "Reloaded the list from the server")
	require.GreaterOrEqual(t, idx, 0, out)
	assert.Contains(t, out[idx:], " 1. [anime] "+seededTitles[4])
}

func TestMoveItem_ConflictPromptAsksBeforeReloading(t *testing.T) {
	e := newEnv(t, config.ConflictPrompt)
	listID := e.listID(demoListName)
	e.competeOnNextReorder(listID)

	var asked []string
	svc := NewListService()
	svc.Confirm = func(label string) (bool, error) {
		asked = append(asked, label)
		return false, nil
	}

	err := svc.MoveItem(context.Background(), listID, "2", "1")
	require.Error(t, err)
	assert.Len(t, asked, 1)
	assert.NotContains(t, e.out.String(), "Reloaded")
}

func TestMoveItem_ServerRejectionIsGenericFailure(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusConflict} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			e := newEnv(t, config.ConflictReload)
			listID := e.listID(demoListName)
			e.rejectReorders(status)

			err := NewListService().MoveItem(context.Background(), listID, "1", "2")
			require.Error(t, err)

			cliErr := clierrors.CategorizeError(err)
			assert.NotEqual(t, clierrors.ErrorTypeConflict, cliErr.Type)
			assert.Equal(t, reorder.MessageFailed, cliErr.Message)
			assert.Contains(t, e.out.String(), reorder.MessageFailed)
			assert.NotContains(t, e.out.String(), "Reloaded")
			assert.Equal(t, seededTitles, titles(t, listID))
		})
	}
}

func TestMoveItem_MissingList(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)

	err := NewListService().MoveItem(context.Background(), "no-such-list", "1", "2")
	require.Error(t, err)
	assert.Equal(t, clierrors.ErrorTypeNotFound, clierrors.CategorizeError(err).Type)
	assert.Zero(t, e.reorderCount())
}

func TestArrange_AppliesMovesWithoutWaiting(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	listID := e.listID(demoListName)

	input := strings.NewReader("# reshuffle\nmove 1 3\nmv 1 2\nshow\nbogus\nquit\nmove 1 5\n")
	err := NewListService().Arrange(context.Background(), listID, input)
	require.NoError(t, err)

	want := []string{seededTitles[2], seededTitles[1], seededTitles[0], seededTitles[3], seededTitles[4]}
	assert.Equal(t, want, titles(t, listID))
	assert.Equal(t, 2, e.reorderCount())

	out := e.out.String()
	assert.Contains(t, out, "Final order")
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "2 submissions saved")
}

func TestArrange_ConflictNeverPrompts(t *testing.T) {
	e := newEnv(t, config.ConflictPrompt)
	listID := e.listID(demoListName)
	e.competeOnNextReorder(listID)

	svc := NewListService()
	svc.Confirm = func(label string) (bool, error) {
		t.Errorf("unexpected prompt %q", label)
		return false, nil
	}

	err := svc.Arrange(context.Background(), listID, strings.NewReader("move 1 2\n"))
	require.Error(t, err)
	assert.Equal(t, clierrors.ErrorTypeConflict, clierrors.CategorizeError(err).Type)
	assert.Equal(t, reversed(seededTitles), titles(t, listID))
}

func TestArrange_BadReferencesAreSkipped(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	listID := e.listID(demoListName)

	err := NewListService().Arrange(context.Background(), listID, strings.NewReader("move 1\nmove 1 42\nmove x 1\n"))
	require.NoError(t, err)
	assert.Zero(t, e.reorderCount())
	assert.Contains(t, e.out.String(), "usage: move <from> <to>")
	assert.Contains(t, e.out.String(), "0 submissions saved")
}

func TestCreateList_Validation(t *testing.T) {
	newEnv(t, config.ConflictKeep)
	svc := NewListService()

	tests := []struct {
		name        string
		listName    string
		description string
		field       string
	}{
		{"blank name", "   ", "", "name"},
		{"long name", strings.Repeat("n", 101), "", "name"},
		{"long description", "ok", strings.Repeat("d", 501), "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateList(tt.listName, tt.description, false)
			require.Error(t, err)
			cliErr := clierrors.CategorizeError(err)
			assert.Equal(t, clierrors.ErrorTypeValidation, cliErr.Type)
			assert.Contains(t, cliErr.Message, tt.field)
		})
	}
}

func TestCreateAddRemoveList(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	svc := NewListService()

	list, err := svc.CreateList("Seasonal", "airing now", true)
	require.NoError(t, err)
	assert.Equal(t, "Seasonal", list.Name)

	_, err = svc.AddItem(list.ID, "frieren", "")
	require.NoError(t, err)
	item, err := svc.AddItem(list.ID, "mob-psycho-100", "rewatch")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Position)

	_, err = svc.AddItem(list.ID, "", "")
	require.Error(t, err)

	require.NoError(t, svc.RemoveItem(list.ID, "1"))
	assert.Equal(t, []string{"Mob Psycho 100"}, titles(t, list.ID))

	require.Error(t, svc.RemoveItem(list.ID, "7"))

	e.out.Reset()
	require.NoError(t, svc.ListLists(1, 20))
	assert.Contains(t, e.out.String(), "Seasonal")
	assert.Contains(t, e.out.String(), demoListName)

	require.NoError(t, svc.DeleteList(list.ID))
	err = svc.ViewList(list.ID)
	require.Error(t, err)
	assert.Equal(t, clierrors.ErrorTypeNotFound, clierrors.CategorizeError(err).Type)
}

func TestViewList_JSON(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	config.Set("output.format", "json")
	t.Cleanup(func() { config.Set("output.format", "text") })

	require.NoError(t, NewListService().ViewList(e.listID(demoListName)))
	assert.Contains(t, e.out.String(), `"name": "`+demoListName+`"`)
	assert.Contains(t, e.out.String(), `"media_id": "cowboy-bebop"`)
}

func TestFollowAndUnfollow(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	svc := NewListService()
	rivalID := e.listID(rivalListName)

	require.NoError(t, svc.FollowList(rivalID))
	require.NoError(t, svc.UnfollowList(rivalID))

	err := svc.FollowList(e.listID(demoListName))
	require.Error(t, err)
	assert.Equal(t, clierrors.ErrorTypeValidation, clierrors.CategorizeError(err).Type)
}
