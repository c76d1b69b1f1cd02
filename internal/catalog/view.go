package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

// Grouped returns the catalog view for a search term.
//
// Items whose name contains search (case-insensitive; empty matches all) are
// grouped by primary category in the order each label is first seen. Custom
// category groups follow in creation order. A custom group holds its member
// items that also match the search, in catalog order, and is omitted when
// empty.
func (s State) Grouped(search string) []types.Group {
	match := newMatcher(search)

	var groups []types.Group
	pos := make(map[string]int)
	for _, it := range s.items {
		if !match(it.Name) {
			continue
		}
		g, ok := pos[it.Category]
		if !ok {
			g = len(groups)
			pos[it.Category] = g
			groups = append(groups, types.Group{Ref: types.PrimaryRef(it.Category), Label: it.Category})
		}
		groups[g].Items = append(groups[g].Items, it)
	}

	for _, c := range s.categories {
		members := memberSet(c)
		var items []types.MenuItem
		for _, it := range s.items {
			if members[it.ID] && match(it.Name) {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		groups = append(groups, types.Group{Ref: types.CustomRef(c.ID), Label: c.Name, Items: items})
	}
	return groups
}

// Counts returns the number of available items and the catalog size.
func (s State) Counts() (available, total int) {
	for _, it := range s.items {
		if it.IsAvailable {
			available++
		}
	}
	return available, len(s.items)
}

// newMatcher returns the search predicate for item names.
func newMatcher(search string) func(name string) bool {
	if search == "" {
		return func(string) bool { return true }
	}
	fold := cases.Fold()
	needle := fold.String(search)
	return func(name string) bool {
		return strings.Contains(fold.String(name), needle)
	}
}
