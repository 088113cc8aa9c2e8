package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordRun("batch", 16)
	r.RecordRun("batch", 4)
	r.RecordRun("single", 1)
	r.RecordPositions("batch", 3, 7)
	r.RecordError("invalid_input")
	r.RecordLatency("engine", 0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("batch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("single")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.positions.WithLabelValues("batch", "open")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.positions.WithLabelValues("batch", "executed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("invalid_input")))

	n, err := testutil.GatherAndCount(reg, "nycalc_operation_duration_seconds", "nycalc_run_actors")
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}
