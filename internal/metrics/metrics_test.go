package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "error", statusClass(0))
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "4xx", statusClass(401))
	assert.Equal(t, "5xx", statusClass(503))
}

func TestObserveUpstream(t *testing.T) {
	before := counterValue(t, upstreamRequests.WithLabelValues("GET", "test.endpoint", "2xx"))
	ObserveUpstream("GET", "test.endpoint", 200, 15*time.Millisecond)
	after := counterValue(t, upstreamRequests.WithLabelValues("GET", "test.endpoint", "2xx"))
	assert.Equal(t, before+1, after)
}

func TestObserveSidebarFailure(t *testing.T) {
	ObserveSidebarFailure("test-resource")
	assert.Equal(t, float64(1), counterValue(t, sidebarFailures.WithLabelValues("test-resource")))
}
