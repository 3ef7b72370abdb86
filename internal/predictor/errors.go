package predictor

import "errors"

var (
	ErrNotSetUp         = errors.New("predictor is not set up")
	ErrSetupFailed      = errors.New("predictor setup failed")
	ErrPredictPanic     = errors.New("predictor panicked")
	ErrMissingInput     = errors.New("missing required input")
	ErrInputType        = errors.New("input has unexpected type")
	ErrUnknownPredictor = errors.New("unknown predictor")
)
