package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stoplist/internal/notify"
	"github.com/mesh-intelligence/stoplist/pkg/types"
)

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <item-id>...",
		Short: "Flip the availability of menu items and save",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutateAndSave(cmd, func(s *session) error {
				st := s.engine.State()
				for _, id := range args {
					if _, ok := st.Item(id); !ok {
						return userErrorf("item %q: %w", id, types.ErrNotFound)
					}
				}
				for _, id := range args {
					s.engine.ToggleItem(id)
				}
				return nil
			})
		},
	}
}

func newToggleCategoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-category <category>",
		Short: "Stop or restore every item of a category and save",
		Long: `Toggle-category stops every item of the category when at least one of
them is available, and restores them all otherwise.

A primary category is named by its label; a custom category by
"custom:<id>".

Example:
  stoplist toggle-category Soups
  stoplist toggle-category custom:0190a3b2-...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := types.ParseCategoryRef(args[0])
			return a.mutateAndSave(cmd, func(s *session) error {
				if !s.engine.ToggleCategory(ref) {
					return userErrorf("category %q: %w", args[0], types.ErrNotFound)
				}
				return nil
			})
		},
	}
}

// mutateAndSave opens a session, applies fn and saves, waiting for the
// persister to finish.
func (a *app) mutateAndSave(cmd *cobra.Command, fn func(*session) error) error {
	backend, err := a.attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	s, err := a.openSession(cmd.Context(), backend, notify.NewWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	if err := <-s.engine.Save(cmd.Context()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
