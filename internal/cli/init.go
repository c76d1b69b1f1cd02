package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stoplist/internal/demo"
	"github.com/mesh-intelligence/stoplist/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	var withDemo bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize stoplist storage",
		Long:  "Create the configuration directory and initialize the storage backend.\nWith --demo, load the sample restaurants and menu, replacing their current data.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if withDemo {
				for _, r := range demo.Restaurants() {
					if err := backend.Seed(cmd.Context(), r, demo.Menu()); err != nil {
						return fmt.Errorf("seed restaurant %s: %w", r.ID, err)
					}
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Stoplist initialized successfully")
			fmt.Fprintln(out, "  config: ", a.configDir)
			if a.cfg.GetString(cfgKeyBackend) == types.BackendSQLite {
				dataDir, err := a.dataDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "  data:   ", dataDir)
			}
			if withDemo {
				fmt.Fprintf(out, "  demo:    %d restaurants\n", len(demo.Restaurants()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withDemo, "demo", false, "load the sample restaurants and menu")
	return cmd
}
