package types

import "strings"

// CategoryKind distinguishes primary categories from custom ones.
type CategoryKind int

// Category kinds.
const (
	CategoryPrimary CategoryKind = iota
	CategoryCustom
)

// CustomLabelPrefix marks custom category labels in rendered output.
const CustomLabelPrefix = "🔥 "

// customRefPrefix is the textual form of a custom CategoryRef.
const customRefPrefix = "custom:"

// CustomCategory is a user-defined overlay grouping that references items by
// ID. An item may belong to any number of custom categories in addition to
// its primary category. ItemIDs is a snapshot taken at creation and may refer
// to items that no longer exist.
type CustomCategory struct {
	ID      string   `json:"category_id"`
	Name    string   `json:"name"`
	ItemIDs []string `json:"item_ids"`
}

// Clone returns a deep copy of the category.
func (c CustomCategory) Clone() CustomCategory {
	ids := make([]string, len(c.ItemIDs))
	copy(ids, c.ItemIDs)
	c.ItemIDs = ids
	return c
}

// CategoryRef identifies a category for bulk operations: either a primary
// category label or a custom category ID.
type CategoryRef struct {
	Kind CategoryKind
	Key  string // Label for primary categories, ID for custom ones.
}

// PrimaryRef returns a reference to the primary category with the given label.
func PrimaryRef(label string) CategoryRef {
	return CategoryRef{Kind: CategoryPrimary, Key: label}
}

// CustomRef returns a reference to the custom category with the given ID.
func CustomRef(id string) CategoryRef {
	return CategoryRef{Kind: CategoryCustom, Key: id}
}

// ParseCategoryRef parses the textual form produced by CategoryRef.String.
// "custom:<id>" yields a custom reference; anything else is a primary label.
func ParseCategoryRef(s string) CategoryRef {
	if id, ok := strings.CutPrefix(s, customRefPrefix); ok && id != "" {
		return CustomRef(id)
	}
	return PrimaryRef(s)
}

// IsCustom reports whether the reference points at a custom category.
func (r CategoryRef) IsCustom() bool {
	return r.Kind == CategoryCustom
}

func (r CategoryRef) String() string {
	if r.IsCustom() {
		return customRefPrefix + r.Key
	}
	return r.Key
}

// Group is one section of the grouped catalog view.
type Group struct {
	Ref   CategoryRef
	Label string // Primary label or custom category name.
	Items []MenuItem
}

// IsCustom reports whether the group comes from a custom category.
func (g Group) IsCustom() bool {
	return g.Ref.IsCustom()
}

// DisplayLabel returns the label with custom groups visually tagged.
func (g Group) DisplayLabel() string {
	if g.IsCustom() {
		return CustomLabelPrefix + g.Label
	}
	return g.Label
}

// AvailableCount returns the number of available items in the group.
func (g Group) AvailableCount() int {
	n := 0
	for _, it := range g.Items {
		if it.IsAvailable {
			n++
		}
	}
	return n
}

// HasAvailable reports whether at least one item in the group is available.
func (g Group) HasAvailable() bool {
	return g.AvailableCount() > 0
}
