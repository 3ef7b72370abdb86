package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apex-x/predictkit/internal/logging"
	"github.com/apex-x/predictkit/internal/predictor"
	"github.com/apex-x/predictkit/internal/schema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPredictCommand(opts *options, registry *predictor.Registry) *cobra.Command {
	var rawInputs []string
	var asJSON bool
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "set up the configured predictor and run one prediction",
		Example: "  predictkit predict -i name=Ada\n" +
			"  predictkit predict -i name=Ada --json\n" +
			"  predictkit predict -i name=Ada --metrics",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPredict(cmd, opts, registry, rawInputs, asJSON, showMetrics)
		},
	}
	cmd.Flags().StringArrayVarP(&rawInputs, "input", "i", nil, "input as key=value, repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full prediction record as JSON")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "write runner metrics in Prometheus text format to stderr")
	return cmd
}

func runPredict(
	cmd *cobra.Command,
	opts *options,
	registry *predictor.Registry,
	rawInputs []string,
	asJSON bool,
	showMetrics bool,
) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closeLogger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLogger()

	p, err := registry.New(cfg.Predict)
	if err != nil {
		return err
	}
	inputs, err := parseInputs(rawInputs, p.Signature())
	if err != nil {
		return err
	}
	runner, err := predictor.NewRunner(p, predictor.RunnerConfig{
		Name:           cfg.Predict,
		SetupTimeout:   cfg.SetupTimeout,
		PredictTimeout: cfg.PredictTimeout,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := runner.Setup(ctx); err != nil {
		return err
	}
	prediction, predictErr := runner.Predict(ctx, inputs)
	snapshot := runner.Metrics()
	logger.Debug("predictor_metrics",
		zap.Float64("setup_ms", snapshot.SetupMillis),
		zap.Float64("predict_ms_max", snapshot.MaxPredictMillis),
		zap.Int64("predictions_failed", snapshot.PredictionsFailed),
	)
	if showMetrics {
		if _, err := fmt.Fprint(cmd.ErrOrStderr(), snapshot.PrometheusText()); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(prediction); err != nil {
			return err
		}
		return predictErr
	}
	if predictErr != nil {
		return predictErr
	}
	_, err = fmt.Fprintln(out, prediction.Output)
	return err
}

// parseInputs turns key=value pairs into text inputs. Keys must name an input
// of the signature; values are passed through unchanged.
func parseInputs(raw []string, signature schema.Signature) (predictor.Inputs, error) {
	known := lo.Map(signature.Inputs, func(field schema.Field, _ int) string {
		return field.Name
	})
	inputs := make(predictor.Inputs, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid input %q, expected key=value", pair)
		}
		if !lo.Contains(known, key) {
			return nil, fmt.Errorf("unknown input %q (inputs: %s)", key, strings.Join(known, ", "))
		}
		if _, dup := inputs[key]; dup {
			return nil, fmt.Errorf("input %q given more than once", key)
		}
		inputs[key] = value
	}
	return inputs, nil
}
