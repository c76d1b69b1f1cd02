// Package catalog implements the availability and dirty-state engine for a
// restaurant menu. State is an immutable value whose transition methods
// return a new State; Engine serializes transitions and talks to the
// notification and persistence collaborators.
package catalog

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

// State is the catalog aggregate: the working items, the last committed
// baseline, the custom categories and the dirty flag.
//
// A State is never modified in place. Transitions copy what they change, so a
// State handed out by an accessor stays valid after further transitions.
// When Dirty is false, items equal baseline by value.
type State struct {
	items      []types.MenuItem
	index      map[string]int // Item ID to position in items; read-only after NewState.
	baseline   []types.MenuItem
	categories []types.CustomCategory
	dirty      bool
}

// NewState builds a clean State from a loaded catalog.
// Items keep their order. Returns an error wrapping ErrDuplicateID or an item
// validation error if the catalog is malformed.
func NewState(items []types.MenuItem, categories []types.CustomCategory) (State, error) {
	index := make(map[string]int, len(items))
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return State{}, fmt.Errorf("item %d: %w", i, err)
		}
		if _, dup := index[it.ID]; dup {
			return State{}, fmt.Errorf("item %s: %w", it.ID, types.ErrDuplicateID)
		}
		index[it.ID] = i
	}
	return State{
		items:      cloneItems(items),
		index:      index,
		baseline:   cloneItems(items),
		categories: cloneCategories(categories),
	}, nil
}

// Dirty reports whether there are changes since the last commit or rollback.
func (s State) Dirty() bool { return s.dirty }

// Items returns a copy of the working items in catalog order.
func (s State) Items() []types.MenuItem { return cloneItems(s.items) }

// Baseline returns a copy of the last committed items.
func (s State) Baseline() []types.MenuItem { return cloneItems(s.baseline) }

// CustomCategories returns a deep copy of the custom categories in creation order.
func (s State) CustomCategories() []types.CustomCategory { return cloneCategories(s.categories) }

// Item returns the working copy of the item with the given ID.
func (s State) Item(id string) (types.MenuItem, bool) {
	i, ok := s.index[id]
	if !ok {
		return types.MenuItem{}, false
	}
	return s.items[i], true
}

// CustomCategory returns the custom category with the given ID.
func (s State) CustomCategory(id string) (types.CustomCategory, bool) {
	i := s.categoryIndex(id)
	if i < 0 {
		return types.CustomCategory{}, false
	}
	return s.categories[i].Clone(), true
}

// Members returns the items that belong to the referenced category, in
// catalog order. Custom members that do not resolve to an item are skipped.
func (s State) Members(ref types.CategoryRef) []types.MenuItem {
	idx := s.memberIndexes(ref)
	out := make([]types.MenuItem, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.items[i])
	}
	return out
}

// ToggleItem flips the availability of one item.
// Returns ErrNotFound, and the unchanged State, if the ID is unknown.
func (s State) ToggleItem(id string) (State, error) {
	i, ok := s.index[id]
	if !ok {
		return s, fmt.Errorf("item %q: %w", id, types.ErrNotFound)
	}
	next := s.withItems()
	next.items[i].IsAvailable = !next.items[i].IsAvailable
	next.dirty = true
	return next, nil
}

// ToggleCategory applies the bulk stop/restore policy to a category: if any
// member is available every member is stopped, otherwise every member is
// restored. Prior per-item states are not remembered.
// Returns ErrNotFound if the category has no resolvable members.
func (s State) ToggleCategory(ref types.CategoryRef) (State, error) {
	idx := s.memberIndexes(ref)
	if len(idx) == 0 {
		return s, fmt.Errorf("category %q: %w", ref.String(), types.ErrNotFound)
	}
	anyAvailable := false
	for _, i := range idx {
		if s.items[i].IsAvailable {
			anyAvailable = true
			break
		}
	}
	next := s.withItems()
	for _, i := range idx {
		next.items[i].IsAvailable = !anyAvailable
	}
	next.dirty = true
	return next, nil
}

// CreateCustomCategory appends a custom category with the given ID.
// The name is trimmed and member IDs are de-duplicated with blanks dropped.
// An empty name or member set returns an error wrapping both ErrValidation
// and ErrInvalidName or ErrNoMembers.
func (s State) CreateCustomCategory(id, name string, itemIDs []string) (State, types.CustomCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, types.CustomCategory{}, fmt.Errorf("%w: %w", types.ErrValidation, types.ErrInvalidName)
	}
	members := uniqueIDs(itemIDs)
	if len(members) == 0 {
		return s, types.CustomCategory{}, fmt.Errorf("%w: %w", types.ErrValidation, types.ErrNoMembers)
	}
	if id == "" {
		return s, types.CustomCategory{}, types.ErrInvalidID
	}
	if s.categoryIndex(id) >= 0 {
		return s, types.CustomCategory{}, fmt.Errorf("category %s: %w", id, types.ErrDuplicateID)
	}

	cat := types.CustomCategory{ID: id, Name: name, ItemIDs: members}
	next := s
	next.categories = make([]types.CustomCategory, 0, len(s.categories)+1)
	next.categories = append(next.categories, s.categories...)
	next.categories = append(next.categories, cat)
	next.dirty = true
	return next, cat.Clone(), nil
}

// DeleteCustomCategory removes a custom category. Member availability is not
// touched. Returns ErrNotFound if the ID is unknown.
func (s State) DeleteCustomCategory(id string) (State, error) {
	i := s.categoryIndex(id)
	if i < 0 {
		return s, fmt.Errorf("category %q: %w", id, types.ErrNotFound)
	}
	next := s
	next.categories = make([]types.CustomCategory, 0, len(s.categories)-1)
	next.categories = append(next.categories, s.categories[:i]...)
	next.categories = append(next.categories, s.categories[i+1:]...)
	next.dirty = true
	return next, nil
}

// Commit makes the working items the new baseline and clears the dirty flag.
func (s State) Commit() State {
	s.baseline = cloneItems(s.items)
	s.dirty = false
	return s
}

// Rollback replaces the working items with the baseline and clears the dirty
// flag. Custom categories are structural and are not rolled back.
func (s State) Rollback() State {
	s.items = cloneItems(s.baseline)
	s.dirty = false
	return s
}

// withItems returns a copy of s that owns a private items slice.
func (s State) withItems() State {
	s.items = cloneItems(s.items)
	return s
}

func (s State) categoryIndex(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s State) memberIndexes(ref types.CategoryRef) []int {
	var idx []int
	if !ref.IsCustom() {
		for i, it := range s.items {
			if it.Category == ref.Key {
				idx = append(idx, i)
			}
		}
		return idx
	}
	ci := s.categoryIndex(ref.Key)
	if ci < 0 {
		return nil
	}
	members := memberSet(s.categories[ci])
	for i, it := range s.items {
		if members[it.ID] {
			idx = append(idx, i)
		}
	}
	return idx
}

func memberSet(c types.CustomCategory) map[string]bool {
	set := make(map[string]bool, len(c.ItemIDs))
	for _, id := range c.ItemIDs {
		set[id] = true
	}
	return set
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func cloneItems(items []types.MenuItem) []types.MenuItem {
	out := make([]types.MenuItem, len(items))
	copy(out, items)
	return out
}

func cloneCategories(cats []types.CustomCategory) []types.CustomCategory {
	out := make([]types.CustomCategory, len(cats))
	for i, c := range cats {
		out[i] = c.Clone()
	}
	return out
}
