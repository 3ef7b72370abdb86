package predictor

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex-x/predictkit/internal/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RunnerConfig struct {
	Name           string
	SetupTimeout   time.Duration
	PredictTimeout time.Duration
	Logger         *zap.Logger
	Hooks          TelemetryHooks
	// Wrappers decorate the predictor, outer-most first. Nil selects
	// recovery followed by logging; an empty slice disables wrapping.
	Wrappers []Wrapper
}

// Runner hosts a single Predictor: it runs Setup exactly once and then
// serves any number of concurrent Predict calls.
type Runner struct {
	name      string
	predictor Predictor
	signature schema.Signature
	metrics   *Metrics

	setupTimeout   time.Duration
	predictTimeout time.Duration
	logger         *zap.Logger
	hooks          TelemetryHooks
	newID          func() string

	state     atomic.Int32
	setupOnce sync.Once
	setupErr  error
}

func NewRunner(p Predictor, cfg RunnerConfig) (*Runner, error) {
	if p == nil {
		return nil, errors.New("predictor must not be nil")
	}
	if cfg.SetupTimeout < 0 {
		return nil, errors.New("setup timeout must be >= 0")
	}
	if cfg.PredictTimeout < 0 {
		return nil, errors.New("predict timeout must be >= 0")
	}
	signature := p.Signature()
	if err := signature.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "predictor"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("predictor", name))
	hooks := cfg.Hooks
	if hooks == nil {
		hooks = NopTelemetryHooks{}
	}
	wrappers := cfg.Wrappers
	if wrappers == nil {
		wrappers = []Wrapper{RecoveryWrapper(logger), LoggingWrapper(logger)}
	}
	return &Runner{
		name:           name,
		predictor:      Chain(p, wrappers...),
		signature:      signature,
		metrics:        &Metrics{},
		setupTimeout:   cfg.SetupTimeout,
		predictTimeout: cfg.PredictTimeout,
		logger:         logger,
		hooks:          hooks,
		newID:          uuid.NewString,
	}, nil
}

func (r *Runner) Name() string {
	return r.name
}

func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) Signature() schema.Signature {
	return r.signature
}

func (r *Runner) Metrics() MetricsSnapshot {
	return r.metrics.Snapshot()
}

// Setup runs the predictor's Setup once. Later calls, including concurrent
// ones, wait for and return the first result.
func (r *Runner) Setup(ctx context.Context) error {
	r.setupOnce.Do(func() {
		r.state.Store(int32(StateSettingUp))
		setupCtx := ctx
		if r.setupTimeout > 0 {
			var cancel context.CancelFunc
			setupCtx, cancel = context.WithTimeout(ctx, r.setupTimeout)
			defer cancel()
		}

		start := time.Now()
		_, err := await(setupCtx, func() (_ struct{}, callErr error) {
			defer func() {
				if rec := recover(); rec != nil {
					callErr = fmt.Errorf("setup panicked: %v", rec)
				}
			}()
			return struct{}{}, r.predictor.Setup(setupCtx)
		})
		duration := time.Since(start)
		r.metrics.RecordSetup(duration, err == nil)
		r.hooks.OnSetupDone(ctx, r.name, duration, err)

		if err != nil {
			r.setupErr = fmt.Errorf("%w: %w", ErrSetupFailed, err)
			r.state.Store(int32(StateFailed))
			return
		}
		r.state.Store(int32(StateReady))
	})
	return r.setupErr
}

// Predict runs one prediction. The returned Prediction is populated on
// failure too, with Status set to StatusFailed.
func (r *Runner) Predict(ctx context.Context, inputs Inputs) (Prediction, error) {
	switch r.State() {
	case StateReady:
	case StateFailed:
		return Prediction{}, r.setupErr
	default:
		return Prediction{}, ErrNotSetUp
	}

	id := r.newID()
	ctx = WithPredictionID(ctx, id)
	if r.predictTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.predictTimeout)
		defer cancel()
	}

	prediction := Prediction{
		ID:        id,
		Input:     maps.Clone(inputs),
		StartedAt: time.Now().UTC(),
	}
	r.metrics.RecordPredictStart()
	r.hooks.OnPredictStart(ctx, r.name, id)

	start := time.Now()
	out, err := await(ctx, func() (value any, callErr error) {
		defer func() {
			if rec := recover(); rec != nil {
				value = nil
				callErr = fmt.Errorf("%w: %v", ErrPredictPanic, rec)
			}
		}()
		return r.predictor.Predict(ctx, inputs)
	})
	duration := time.Since(start)

	prediction.CompletedAt = time.Now().UTC()
	prediction.Metrics.PredictTime = duration.Seconds()
	r.metrics.RecordPredictDone(duration, err == nil)
	r.hooks.OnPredictDone(ctx, r.name, id, duration, err)

	if err != nil {
		prediction.Status = StatusFailed
		prediction.Error = err.Error()
		return prediction, err
	}
	prediction.Status = StatusSucceeded
	prediction.Output = out
	return prediction, nil
}

// await runs fn and returns early with ctx.Err() once ctx is done. fn keeps
// running in the background in that case.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	if ctx.Done() == nil {
		return fn()
	}
	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := fn()
		done <- result{value: value, err: err}
	}()
	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
