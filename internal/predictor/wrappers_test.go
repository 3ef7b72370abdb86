package predictor

import (
	"context"
	"errors"
	"testing"

	"github.com/apex-x/predictkit/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type tracePredictor struct {
	label string
	next  Predictor
	trace *[]string
}

func (p *tracePredictor) Setup(ctx context.Context) error {
	*p.trace = append(*p.trace, p.label)
	return p.next.Setup(ctx)
}

func (p *tracePredictor) Predict(ctx context.Context, inputs Inputs) (any, error) {
	*p.trace = append(*p.trace, p.label)
	return p.next.Predict(ctx, inputs)
}

func (p *tracePredictor) Signature() schema.Signature {
	return p.next.Signature()
}

func traceWrapper(label string, trace *[]string) Wrapper {
	return func(next Predictor) Predictor {
		return &tracePredictor{label: label, next: next, trace: trace}
	}
}

type panickingSetup struct {
	echoPredictor
}

func (p *panickingSetup) Setup(context.Context) error {
	panic("setup exploded")
}

func TestChainOrder(t *testing.T) {
	var trace []string
	p := Chain(&echoPredictor{}, traceWrapper("outer", &trace), traceWrapper("inner", &trace))

	_, err := p.Predict(context.Background(), Inputs{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, trace)
}

func TestChainWithoutWrappers(t *testing.T) {
	base := &echoPredictor{}
	assert.Same(t, base, Chain(base))
}

func TestRecoveryWrapper(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	p := RecoveryWrapper(zap.New(core))(&echoPredictor{panicWith: "boom"})

	out, err := p.Predict(WithPredictionID(context.Background(), "pred-1"), Inputs{"text": "hi"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrPredictPanic)
	assert.Contains(t, err.Error(), "boom")

	entries := logs.FilterMessage("predict_panic_recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pred-1", entries[0].ContextMap()["prediction_id"])
}

func TestRecoveryWrapperSetupPanic(t *testing.T) {
	p := RecoveryWrapper(nil)(&panickingSetup{})

	err := p.Setup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup exploded")
}

func TestLoggingWrapper(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := LoggingWrapper(zap.New(core))(&echoPredictor{})

	require.NoError(t, p.Setup(context.Background()))
	_, err := p.Predict(WithPredictionID(context.Background(), "pred-2"), Inputs{"text": "hi"})
	require.NoError(t, err)
	_, err = p.Predict(context.Background(), Inputs{})
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("setup_done").Len())

	done := logs.FilterMessage("predict_done").All()
	require.Len(t, done, 1)
	assert.Equal(t, "pred-2", done[0].ContextMap()["prediction_id"])
	assert.Equal(t, []interface{}{"text"}, done[0].ContextMap()["inputs"])

	assert.Equal(t, 1, logs.FilterMessage("predict_failed").Len())
}

func TestLoggingWrapperSetupFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := LoggingWrapper(zap.New(core))(&echoPredictor{setupErr: errors.New("no weights")})

	assert.Error(t, p.Setup(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("setup_failed").Len())
}

func TestWrappersKeepSignature(t *testing.T) {
	p := Chain(&echoPredictor{}, RecoveryWrapper(nil), LoggingWrapper(nil))
	assert.Equal(t, textSignature, p.Signature())
}

func TestPredictionIDFromContext(t *testing.T) {
	assert.Empty(t, PredictionIDFromContext(context.Background()))
	assert.Equal(t, "abc", PredictionIDFromContext(WithPredictionID(context.Background(), "abc")))
}
