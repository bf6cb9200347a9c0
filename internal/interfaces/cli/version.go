package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd prints build information.  It needs no configuration.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "lawsuit-monitor %s\n", versionString())
			return err
		},
	}
}

//Personal.AI order the ending
