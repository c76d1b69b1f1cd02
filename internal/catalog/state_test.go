package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleItems() []types.MenuItem {
	return []types.MenuItem{
		{ID: "1", Name: "Borscht", Category: "Soups", Price: price(450), IsAvailable: true, Description: "With beef and sour cream"},
		{ID: "2", Name: "Solyanka", Category: "Soups", Price: price(520), IsAvailable: false},
		{ID: "3", Name: "Caesar salad", Category: "Salads", Price: price(680), IsAvailable: true},
		{ID: "4", Name: "Greek salad", Category: "Salads", Price: price(590), IsAvailable: true},
		{ID: "5", Name: "Beef steak", Category: "Mains", Price: price(1850), IsAvailable: false},
		{ID: "6", Name: "Salmon fillet", Category: "Mains", Price: price(1420), IsAvailable: true},
	}
}

func newSampleState(t *testing.T) State {
	t.Helper()
	s, err := NewState(sampleItems(), nil)
	require.NoError(t, err)
	return s
}

func availability(s State) map[string]bool {
	out := make(map[string]bool)
	for _, it := range s.Items() {
		out[it.ID] = it.IsAvailable
	}
	return out
}

func TestNewState(t *testing.T) {
	tests := []struct {
		name    string
		items   []types.MenuItem
		wantErr error
	}{
		{name: "sample catalog is accepted", items: sampleItems()},
		{name: "empty catalog is accepted", items: nil},
		{
			name:    "duplicate id rejected",
			items:   []types.MenuItem{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}},
			wantErr: types.ErrDuplicateID,
		},
		{
			name:    "negative price rejected",
			items:   []types.MenuItem{{ID: "1", Name: "A", Price: price(-5)}},
			wantErr: types.ErrInvalidPrice,
		},
		{
			name:    "missing id rejected",
			items:   []types.MenuItem{{Name: "A"}},
			wantErr: types.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewState(tt.items, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, s.Dirty(), "new state must be clean")
			assert.Equal(t, s.Items(), s.Baseline())
		})
	}
}

func TestNewStateCopiesInput(t *testing.T) {
	items := sampleItems()
	cats := []types.CustomCategory{{ID: "c1", Name: "Lunch", ItemIDs: []string{"1"}}}
	s, err := NewState(items, cats)
	require.NoError(t, err)

	items[0].IsAvailable = false
	cats[0].ItemIDs[0] = "6"

	it, _ := s.Item("1")
	assert.True(t, it.IsAvailable, "caller slice must not alias state")
	c, _ := s.CustomCategory("c1")
	assert.Equal(t, []string{"1"}, c.ItemIDs)
}

func TestStateToggleItem(t *testing.T) {
	s := newSampleState(t)
	before := availability(s)

	for _, it := range sampleItems() {
		t.Run(it.ID, func(t *testing.T) {
			once, err := s.ToggleItem(it.ID)
			require.NoError(t, err)
			assert.True(t, once.Dirty())

			got, _ := once.Item(it.ID)
			assert.Equal(t, !before[it.ID], got.IsAvailable)
			for id, avail := range availability(once) {
				if id != it.ID {
					assert.Equal(t, before[id], avail, "item %s must not change", id)
				}
			}

			twice, err := once.ToggleItem(it.ID)
			require.NoError(t, err)
			assert.Equal(t, before, availability(twice), "double toggle restores availability")
		})
	}

	assert.Equal(t, before, availability(s), "transitions must not modify the receiver")
	assert.False(t, s.Dirty())
}

func TestStateToggleItemUnknown(t *testing.T) {
	s := newSampleState(t)
	next, err := s.ToggleItem("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.False(t, next.Dirty())
	assert.Equal(t, s.Items(), next.Items())
}

func TestStateToggleCategoryMixedDoesNotRoundTrip(t *testing.T) {
	s, err := NewState([]types.MenuItem{
		{ID: "A", Name: "A", Category: "Soups", IsAvailable: true},
		{ID: "B", Name: "B", Category: "Soups", IsAvailable: false},
		{ID: "C", Name: "C", Category: "Mains", IsAvailable: false},
	}, nil)
	require.NoError(t, err)

	first, err := s.ToggleCategory(types.PrimaryRef("Soups"))
	require.NoError(t, err)
	assert.True(t, first.Dirty())
	assert.Equal(t, map[string]bool{"A": false, "B": false, "C": false}, availability(first))

	second, err := first.ToggleCategory(types.PrimaryRef("Soups"))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": false}, availability(second))
	assert.NotEqual(t, availability(s), availability(second), "mixed pattern is not restored")
}

func TestStateToggleCategory(t *testing.T) {
	tests := []struct {
		name    string
		cats    []types.CustomCategory
		ref     types.CategoryRef
		want    map[string]bool
		wantErr error
	}{
		{
			name: "mixed primary category is stopped",
			ref:  types.PrimaryRef("Mains"),
			want: map[string]bool{"1": true, "2": false, "3": true, "4": true, "5": false, "6": false},
		},
		{
			name: "fully stopped custom category is restored",
			cats: []types.CustomCategory{{ID: "c1", Name: "Kitchen closed", ItemIDs: []string{"2", "5"}}},
			ref:  types.CustomRef("c1"),
			want: map[string]bool{"1": true, "2": true, "3": true, "4": true, "5": true, "6": true},
		},
		{
			name: "fully available primary category is stopped",
			ref:  types.PrimaryRef("Salads"),
			want: map[string]bool{"1": true, "2": false, "3": false, "4": false, "5": false, "6": true},
		},
		{
			name: "custom category uses membership across primaries",
			cats: []types.CustomCategory{{ID: "c1", Name: "Power Outage", ItemIDs: []string{"1", "6"}}},
			ref:  types.CustomRef("c1"),
			want: map[string]bool{"1": false, "2": false, "3": true, "4": true, "5": false, "6": false},
		},
		{
			name: "custom category ignores dangling member ids",
			cats: []types.CustomCategory{{ID: "c1", Name: "Gone", ItemIDs: []string{"99", "2"}}},
			ref:  types.CustomRef("c1"),
			want: map[string]bool{"1": true, "2": true, "3": true, "4": true, "5": false, "6": true},
		},
		{
			name:    "unknown primary label",
			ref:     types.PrimaryRef("Drinks"),
			wantErr: types.ErrNotFound,
		},
		{
			name:    "unknown custom id",
			ref:     types.CustomRef("nope"),
			wantErr: types.ErrNotFound,
		},
		{
			name:    "custom category with only dangling ids",
			cats:    []types.CustomCategory{{ID: "c1", Name: "Gone", ItemIDs: []string{"99"}}},
			ref:     types.CustomRef("c1"),
			wantErr: types.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewState(sampleItems(), tt.cats)
			require.NoError(t, err)

			next, err := s.ToggleCategory(tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, next.Dirty())
				return
			}
			require.NoError(t, err)
			assert.True(t, next.Dirty())
			assert.Equal(t, tt.want, availability(next))
		})
	}
}

func TestStateCreateCustomCategory(t *testing.T) {
	tests := []struct {
		name      string
		catName   string
		ids       []string
		wantErr   error
		wantName  string
		wantItems []string
	}{
		{
			name:      "name is trimmed",
			catName:   "  Power Outage ",
			ids:       []string{"1", "5"},
			wantName:  "Power Outage",
			wantItems: []string{"1", "5"},
		},
		{
			name:      "duplicate and blank ids are dropped",
			catName:   "Lunch",
			ids:       []string{"3", "", "3", "4"},
			wantName:  "Lunch",
			wantItems: []string{"3", "4"},
		},
		{
			name:    "empty name rejected",
			catName: "",
			ids:     []string{"1"},
			wantErr: types.ErrInvalidName,
		},
		{
			name:    "whitespace name rejected",
			catName: "   ",
			ids:     []string{"1"},
			wantErr: types.ErrInvalidName,
		},
		{
			name:    "empty member set rejected",
			catName: "X",
			ids:     nil,
			wantErr: types.ErrNoMembers,
		},
		{
			name:    "blank members only rejected",
			catName: "X",
			ids:     []string{" ", ""},
			wantErr: types.ErrNoMembers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSampleState(t)
			next, cat, err := s.CreateCustomCategory("c1", tt.catName, tt.ids)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, types.ErrValidation)
				assert.Empty(t, next.CustomCategories())
				assert.False(t, next.Dirty())
				return
			}
			require.NoError(t, err)
			assert.True(t, next.Dirty())
			assert.Equal(t, tt.wantName, cat.Name)
			assert.Equal(t, tt.wantItems, cat.ItemIDs)
			assert.Equal(t, []types.CustomCategory{cat}, next.CustomCategories())
			assert.Empty(t, s.CustomCategories(), "receiver must not change")
		})
	}
}

func TestStateCreateCustomCategoryAllowsDuplicateNames(t *testing.T) {
	s := newSampleState(t)
	s, _, err := s.CreateCustomCategory("c1", "Lunch", []string{"1"})
	require.NoError(t, err)
	s, _, err = s.CreateCustomCategory("c2", "Lunch", []string{"2"})
	require.NoError(t, err)
	assert.Len(t, s.CustomCategories(), 2)

	_, _, err = s.CreateCustomCategory("c2", "Dinner", []string{"3"})
	assert.ErrorIs(t, err, types.ErrDuplicateID)
}

func TestStateDeleteCustomCategory(t *testing.T) {
	s := newSampleState(t)
	s, _, err := s.CreateCustomCategory("c1", "Power Outage", []string{"1", "3"})
	require.NoError(t, err)
	s, err = s.ToggleCategory(types.CustomRef("c1"))
	require.NoError(t, err)
	s = s.Commit()
	before := availability(s)

	next, err := s.DeleteCustomCategory("c1")
	require.NoError(t, err)
	assert.True(t, next.Dirty())
	assert.Empty(t, next.CustomCategories())
	assert.Equal(t, before, availability(next), "delete must not touch availability")

	_, err = next.DeleteCustomCategory("c1")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestStateCommitAndRollback(t *testing.T) {
	s := newSampleState(t)
	initial := s.Items()

	s, _ = s.ToggleItem("1")
	s, _ = s.ToggleItem("2")
	s, _ = s.ToggleCategory(types.PrimaryRef("Salads"))
	require.True(t, s.Dirty())

	rolled := s.Rollback()
	assert.False(t, rolled.Dirty())
	assert.Equal(t, initial, rolled.Items(), "rollback restores the initial snapshot")

	committed := s.Commit()
	assert.False(t, committed.Dirty())
	assert.Equal(t, committed.Items(), committed.Baseline())

	after, _ := committed.ToggleItem("4")
	assert.Equal(t, committed.Items(), committed.Baseline(), "baseline is a copy, not a shared slice")
	assert.Equal(t, committed.Items(), after.Rollback().Items())
}

func TestStateRollbackKeepsCustomCategories(t *testing.T) {
	s := newSampleState(t)
	s, _, err := s.CreateCustomCategory("c1", "Power Outage", []string{"1"})
	require.NoError(t, err)
	s, _ = s.ToggleItem("1")

	rolled := s.Rollback()
	assert.Equal(t, sampleItems(), rolled.Items())
	require.Len(t, rolled.CustomCategories(), 1)
	assert.Equal(t, "Power Outage", rolled.CustomCategories()[0].Name)
}
