package reorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/otakulist/pkg/api"
)

func items(ids ...string) []api.ListItem {
	out := make([]api.ListItem, len(ids))
	for i, id := range ids {
		out[i] = api.ListItem{ID: id, Position: i, Title: "Title " + id}
	}
	return out
}

func ids(items []api.ListItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func newList(updatedAt time.Time, idList ...string) *api.CustomList {
	return &api.CustomList{ID: "l1", Name: "Seasonal picks", Items: items(idList...), UpdatedAt: updatedAt}
}

func TestNewStore_SortsAndDensifies(t *testing.T) {
	list := &api.CustomList{
		ID: "l1",
		Items: []api.ListItem{
			{ID: "c", Position: 9},
			{ID: "a", Position: 2},
			{ID: "b", Position: 5},
		},
	}

	s := NewStore(list)

	got := s.Items()
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	assert.True(t, IsDense(got))
	assert.Equal(t, "l1", s.ListID())
	assert.Equal(t, 3, s.Len())
}

func TestStore_ApplyOrderRenumbers(t *testing.T) {
	s := NewStore(newList(time.Time{}, "a", "b", "c"))

	s.ApplyOrder([]api.ListItem{{ID: "c", Position: 2}, {ID: "a", Position: 0}, {ID: "b", Position: 1}})

	got := s.Items()
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
	assert.True(t, IsDense(got))
	assert.Equal(t, 0, s.IndexOf("c"))
	assert.Equal(t, -1, s.IndexOf("zzz"))
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	s := NewStore(newList(time.Time{}, "a", "b"))

	got := s.Items()
	got[0].ID = "mutated"

	assert.Equal(t, []string{"a", "b"}, ids(s.Items()))
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore(newList(time.Time{}, "a", "b"))

	var seen [][]string
	unsubscribe := s.Subscribe(func(items []api.ListItem) {
		seen = append(seen, ids(items))
	})

	s.ApplyOrder(items("b", "a"))
	unsubscribe()
	s.ApplyOrder(items("a", "b"))

	require.Len(t, seen, 1)
	assert.Equal(t, []string{"b", "a"}, seen[0])
}

func TestStore_ReplaceAdoptsVersion(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	s := NewStore(newList(t0, "a", "b"))

	s.Replace(newList(t1, "x", "y", "z"))

	assert.Equal(t, []string{"x", "y", "z"}, ids(s.Items()))
	assert.True(t, s.UpdatedAt().Equal(t1))
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		from, to int
		want     []string
	}{
		{"forward", []string{"A", "B", "C", "D"}, 1, 3, []string{"A", "C", "D", "B"}},
		{"backward", []string{"A", "B", "C", "D"}, 3, 0, []string{"D", "A", "B", "C"}},
		{"first to last", []string{"A", "B", "C"}, 0, 2, []string{"B", "C", "A"}},
		{"adjacent", []string{"A", "B", "C"}, 1, 2, []string{"A", "C", "B"}},
		{"same slot", []string{"A", "B"}, 1, 1, []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := items(tt.in...)
			got := Move(in, tt.from, tt.to)

			assert.Equal(t, tt.want, ids(got))
			assert.True(t, IsDense(got))
			assert.Equal(t, tt.in, ids(in), "input must not be modified")
		})
	}
}
