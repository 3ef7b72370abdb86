package predictor

import (
	"fmt"
	"time"
)

type State int32

const (
	StateUninitialized State = iota
	StateSettingUp
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSettingUp:
		return "setting_up"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Inputs holds the named values of a single predict call.
type Inputs map[string]any

// String returns the text input stored under key.
func (in Inputs) String(key string) (string, error) {
	raw, ok := in[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingInput, key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T, want string", ErrInputType, key, raw)
	}
	return value, nil
}

type PredictionMetrics struct {
	PredictTime float64 `json:"predict_time"`
}

type Prediction struct {
	ID          string            `json:"id"`
	Input       Inputs            `json:"input"`
	Output      any               `json:"output"`
	Status      Status            `json:"status"`
	Error       string            `json:"error,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
	Metrics     PredictionMetrics `json:"metrics"`
}
