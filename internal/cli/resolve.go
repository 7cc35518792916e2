package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the model file and sequence length that score would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, err := a.resolver()
			if err != nil {
				return err
			}
			cfg, err := resolver.Resolve(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "%s\t%d\n", cfg.Path, cfg.ExpectedLength)
			return err
		},
	}
}
