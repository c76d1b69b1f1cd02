package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

// groupView is the JSON shape of one catalog group.
type groupView struct {
	Ref       string           `json:"ref"`
	Label     string           `json:"label"`
	Custom    bool             `json:"custom"`
	Available int              `json:"available"`
	Total     int              `json:"total"`
	Items     []types.MenuItem `json:"items"`
}

// menuView is the JSON shape of the menu command.
type menuView struct {
	Restaurant types.Restaurant `json:"restaurant"`
	Available  int              `json:"available"`
	Total      int              `json:"total"`
	Dirty      bool             `json:"dirty"`
	Groups     []groupView      `json:"groups"`
}

func newMenuView(r types.Restaurant, groups []types.Group, available, total int, dirty bool) menuView {
	v := menuView{Restaurant: r, Available: available, Total: total, Dirty: dirty, Groups: []groupView{}}
	for _, g := range groups {
		v.Groups = append(v.Groups, groupView{
			Ref:       g.Ref.String(),
			Label:     g.Label,
			Custom:    g.IsCustom(),
			Available: g.AvailableCount(),
			Total:     len(g.Items),
			Items:     g.Items,
		})
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeMenu prints the grouped menu as text.
func writeMenu(w io.Writer, v menuView) {
	fmt.Fprintf(w, "%s: %d/%d available", v.Restaurant.Name, v.Available, v.Total)
	if v.Dirty {
		fmt.Fprint(w, " (unsaved changes)")
	}
	fmt.Fprintln(w)
	if len(v.Groups) == 0 {
		fmt.Fprintln(w, "\nNothing found")
		return
	}
	for _, g := range v.Groups {
		label := g.Label
		if g.Custom {
			label = types.CustomLabelPrefix + label
		}
		fmt.Fprintf(w, "\n%s [%s] %d/%d\n", label, g.Ref, g.Available, g.Total)
		for _, it := range g.Items {
			mark := " "
			if it.IsAvailable {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %-4s %s  %s\n", mark, it.ID, it.Name, it.Price.StringFixed(2))
		}
	}
}

func writeRestaurants(w io.Writer, restaurants []types.Restaurant) {
	if len(restaurants) == 0 {
		fmt.Fprintln(w, "No restaurants")
		return
	}
	for _, r := range restaurants {
		status := "active"
		if !r.IsActive {
			status = "inactive"
		}
		fmt.Fprintf(w, "%-4s %s, %s (%s)\n", r.ID, r.Name, r.Address, status)
	}
}

func writeCategories(w io.Writer, categories []types.CustomCategory) {
	if len(categories) == 0 {
		fmt.Fprintln(w, "No custom categories")
		return
	}
	for _, c := range categories {
		fmt.Fprintf(w, "%s %s%s %v\n", c.ID, types.CustomLabelPrefix, c.Name, c.ItemIDs)
	}
}
