package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pylon/pkg/config"
)

func (c *CLI) exampleCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example design file",
		Long:  `Example prints a commented TOML design for a 5 MW monopile tower with two load cases. Use it as a starting point for your own designs.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), config.Example())
				return nil
			}
			if err := os.WriteFile(output, []byte(config.Example()), 0o644); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote example design")
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the example to a file instead of stdout")
	return cmd
}
