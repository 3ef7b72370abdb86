package predictor

import (
	"context"

	"github.com/apex-x/predictkit/internal/schema"
)

// Predictor is the lifecycle contract a host drives: Setup once, then any
// number of Predict calls, possibly concurrent.
type Predictor interface {
	Setup(ctx context.Context) error
	Predict(ctx context.Context, inputs Inputs) (any, error)
	Signature() schema.Signature
}
