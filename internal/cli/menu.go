package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stoplist/internal/notify"
)

func newMenuCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the menu grouped by category",
		Long: `Menu prints the selected restaurant's items grouped by primary category,
followed by the custom categories. --search keeps only items whose name
contains the term, ignoring case.

Example:
  stoplist menu
  stoplist menu --search soup
  stoplist menu --restaurant 2 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			s, err := a.openSession(cmd.Context(), backend, notify.NewWriter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			st := s.engine.State()
			available, total := st.Counts()
			view := newMenuView(s.restaurant, st.Grouped(search), available, total, st.Dirty())
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			writeMenu(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "show only items whose name contains this term")
	return cmd
}
