package predictor

import (
	"context"
	"time"
)

type TelemetryHooks interface {
	OnSetupDone(ctx context.Context, predictor string, duration time.Duration, err error)
	OnPredictStart(ctx context.Context, predictor string, predictionID string)
	OnPredictDone(
		ctx context.Context,
		predictor string,
		predictionID string,
		duration time.Duration,
		err error,
	)
}

type NopTelemetryHooks struct{}

func (NopTelemetryHooks) OnSetupDone(
	_ context.Context,
	_ string,
	_ time.Duration,
	_ error,
) {
}

func (NopTelemetryHooks) OnPredictStart(
	_ context.Context,
	_ string,
	_ string,
) {
}

func (NopTelemetryHooks) OnPredictDone(
	_ context.Context,
	_ string,
	_ string,
	_ time.Duration,
	_ error,
) {
}
