package predictor

import (
	"fmt"
	"sync/atomic"
	"time"
)

type Metrics struct {
	setupsTotal        atomic.Int64
	setupFailuresTotal atomic.Int64
	setupNanos         atomic.Int64
	predictionsTotal   atomic.Int64
	predictionsFailed  atomic.Int64
	predictionsDone    atomic.Int64
	inflight           atomic.Int64
	predictNanos       atomic.Int64
	predictNanosMax    atomic.Int64
}

type MetricsSnapshot struct {
	SetupsTotal        int64
	SetupFailuresTotal int64
	SetupMillis        float64
	PredictionsTotal   int64
	PredictionsFailed  int64
	InFlight           int64
	AvgPredictMillis   float64
	MaxPredictMillis   float64
}

func (m *Metrics) RecordSetup(duration time.Duration, success bool) {
	m.setupsTotal.Add(1)
	m.setupNanos.Store(nonNegativeNanos(duration))
	if !success {
		m.setupFailuresTotal.Add(1)
	}
}

func (m *Metrics) RecordPredictStart() {
	m.predictionsTotal.Add(1)
	m.inflight.Add(1)
}

func (m *Metrics) RecordPredictDone(latency time.Duration, success bool) {
	m.inflight.Add(-1)
	m.predictionsDone.Add(1)
	nanos := nonNegativeNanos(latency)
	m.predictNanos.Add(nanos)
	updateAtomicMax(&m.predictNanosMax, nanos)
	if !success {
		m.predictionsFailed.Add(1)
	}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.predictionsTotal.Load()
	done := m.predictionsDone.Load()
	avgMillis := 0.0
	if done > 0 {
		avgMillis = float64(m.predictNanos.Load()) / float64(done) / float64(time.Millisecond)
	}
	return MetricsSnapshot{
		SetupsTotal:        m.setupsTotal.Load(),
		SetupFailuresTotal: m.setupFailuresTotal.Load(),
		SetupMillis:        float64(m.setupNanos.Load()) / float64(time.Millisecond),
		PredictionsTotal:   count,
		PredictionsFailed:  m.predictionsFailed.Load(),
		InFlight:           m.inflight.Load(),
		AvgPredictMillis:   avgMillis,
		MaxPredictMillis:   float64(m.predictNanosMax.Load()) / float64(time.Millisecond),
	}
}

func (s MetricsSnapshot) PrometheusText() string {
	return fmt.Sprintf(
		"predictkit_setups_total %d\n"+
			"predictkit_setup_failures_total %d\n"+
			"predictkit_setup_duration_ms %.6f\n"+
			"predictkit_predictions_total %d\n"+
			"predictkit_predictions_failed_total %d\n"+
			"predictkit_inflight %d\n"+
			"predictkit_predict_latency_ms_avg %.6f\n"+
			"predictkit_predict_latency_ms_max %.6f\n",
		s.SetupsTotal,
		s.SetupFailuresTotal,
		s.SetupMillis,
		s.PredictionsTotal,
		s.PredictionsFailed,
		s.InFlight,
		s.AvgPredictMillis,
		s.MaxPredictMillis,
	)
}

func nonNegativeNanos(value time.Duration) int64 {
	if value < 0 {
		return 0
	}
	return value.Nanoseconds()
}

func updateAtomicMax(target *atomic.Int64, value int64) {
	for {
		current := target.Load()
		if value <= current {
			return
		}
		if target.CompareAndSwap(current, value) {
			return
		}
	}
}
