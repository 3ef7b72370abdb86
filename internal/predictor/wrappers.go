package predictor

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/apex-x/predictkit/internal/schema"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type contextKey string

const predictionIDKey contextKey = "prediction_id"

// WithPredictionID attaches a prediction ID to ctx.
func WithPredictionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, predictionIDKey, id)
}

func PredictionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(predictionIDKey).(string)
	return id
}

// Wrapper decorates a Predictor.
type Wrapper func(Predictor) Predictor

// Chain applies wrappers to p.
// The first wrapper in the list is the outer-most one (executed first).
func Chain(p Predictor, wrappers ...Wrapper) Predictor {
	for i := len(wrappers) - 1; i >= 0; i-- {
		p = wrappers[i](p)
	}
	return p
}

// RecoveryWrapper converts panics in Setup and Predict into errors.
func RecoveryWrapper(logger *zap.Logger) Wrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next Predictor) Predictor {
		return &recoveringPredictor{next: next, logger: logger}
	}
}

type recoveringPredictor struct {
	next   Predictor
	logger *zap.Logger
}

func (p *recoveringPredictor) Setup(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("setup_panic_recovered",
				zap.String("panic", fmt.Sprintf("%v", r)),
				zap.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("setup panicked: %v", r)
		}
	}()
	return p.next.Setup(ctx)
}

func (p *recoveringPredictor) Predict(ctx context.Context, inputs Inputs) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("predict_panic_recovered",
				zap.String("panic", fmt.Sprintf("%v", r)),
				zap.String("stack", string(debug.Stack())),
				zap.String("prediction_id", PredictionIDFromContext(ctx)),
			)
			out = nil
			err = fmt.Errorf("%w: %v", ErrPredictPanic, r)
		}
	}()
	return p.next.Predict(ctx, inputs)
}

func (p *recoveringPredictor) Signature() schema.Signature {
	return p.next.Signature()
}

// LoggingWrapper logs every Setup and Predict call with its duration.
func LoggingWrapper(logger *zap.Logger) Wrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next Predictor) Predictor {
		return &loggingPredictor{next: next, logger: logger}
	}
}

type loggingPredictor struct {
	next   Predictor
	logger *zap.Logger
}

func (p *loggingPredictor) Setup(ctx context.Context) error {
	start := time.Now()
	err := p.next.Setup(ctx)
	if err != nil {
		p.logger.Error("setup_failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	p.logger.Info("setup_done", zap.Duration("duration", time.Since(start)))
	return nil
}

func (p *loggingPredictor) Predict(ctx context.Context, inputs Inputs) (any, error) {
	start := time.Now()
	keys := lo.Keys(inputs)
	sort.Strings(keys)
	out, err := p.next.Predict(ctx, inputs)
	fields := []zap.Field{
		zap.String("prediction_id", PredictionIDFromContext(ctx)),
		zap.Strings("inputs", keys),
		zap.Float64("duration_ms", float64(time.Since(start))/float64(time.Millisecond)),
	}
	if err != nil {
		p.logger.Error("predict_failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	p.logger.Info("predict_done", fields...)
	return out, nil
}

func (p *loggingPredictor) Signature() schema.Signature {
	return p.next.Signature()
}
