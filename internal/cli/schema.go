package cli

import (
	"fmt"

	"github.com/apex-x/predictkit/internal/predictor"
	"github.com/spf13/cobra"
)

func newSchemaCommand(opts *options, registry *predictor.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [predictor]",
		Short: "print the input and output schema of a predictor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				cfg, err := loadConfig(opts)
				if err != nil {
					return err
				}
				name = cfg.Predict
			}
			p, err := registry.New(name)
			if err != nil {
				return err
			}
			doc, err := p.Signature().Document()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
			return err
		},
	}
}

func newListCommand(registry *predictor.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list registered predictors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range registry.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
