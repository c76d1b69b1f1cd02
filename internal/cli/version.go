package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stoplist/pkg/stoplist"
)

const modulePath = "github.com/mesh-intelligence/stoplist"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stoplist version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "stoplist v%s\nmodule: %s\n", stoplist.Version, modulePath)
			return nil
		},
	}
}
