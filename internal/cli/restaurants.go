package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

func newRestaurantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restaurants",
		Short: "List restaurants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			restaurants, err := backend.Restaurants(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				if restaurants == nil {
					restaurants = []types.Restaurant{}
				}
				return writeJSON(cmd.OutOrStdout(), restaurants)
			}
			writeRestaurants(cmd.OutOrStdout(), restaurants)
			return nil
		},
	}
}
