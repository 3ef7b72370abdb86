package cli

import (
	"fmt"

	"github.com/apex-x/predictkit/internal/config"
	"github.com/apex-x/predictkit/internal/hello"
	"github.com/apex-x/predictkit/internal/predictor"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

type options struct {
	configPath string
	envPath    string
}

func NewRootCommand() (*cobra.Command, error) {
	registry, err := defaultRegistry()
	if err != nil {
		return nil, err
	}
	return newRootCommand(registry), nil
}

func defaultRegistry() (*predictor.Registry, error) {
	registry := predictor.NewRegistry()
	if err := registry.Register(hello.Name, hello.Factory); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", hello.Name, err)
	}
	return registry, nil
}

func newRootCommand(registry *predictor.Registry) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "predictkit",
		Short:         "set up and run predictors locally",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&opts.envPath, "env-file", ".env", "dotenv file loaded before the config")

	rootCmd.AddCommand(
		newPredictCommand(opts, registry),
		newSchemaCommand(opts, registry),
		newListCommand(registry),
	)
	return rootCmd
}

func loadConfig(opts *options) (config.Config, error) {
	if err := config.LoadDotEnv(opts.envPath); err != nil {
		return config.Config{}, err
	}
	return config.Load(opts.configPath)
}
