package predictor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputsString(t *testing.T) {
	inputs := Inputs{"name": "Ada", "count": 3}

	value, err := inputs.String("name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", value)

	_, err = inputs.String("missing")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = inputs.String("count")
	assert.ErrorIs(t, err, ErrInputType)
	assert.Contains(t, err.Error(), "int")
}

func TestPredictionJSON(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	raw, err := json.Marshal(Prediction{
		ID:          "p1",
		Input:       Inputs{"name": "Ada"},
		Output:      "hello Ada",
		Status:      StatusSucceeded,
		StartedAt:   started,
		CompletedAt: started.Add(time.Second),
		Metrics:     PredictionMetrics{PredictTime: 1},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "p1",
		"input": {"name": "Ada"},
		"output": "hello Ada",
		"status": "succeeded",
		"started_at": "2026-01-02T03:04:05Z",
		"completed_at": "2026-01-02T03:04:06Z",
		"metrics": {"predict_time": 1}
	}`, string(raw))
}
