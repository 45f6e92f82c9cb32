package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveScores(t *testing.T) {
	before := testutil.CollectAndCount(Scores)

	ObserveScores("metrics_test", map[string]int{"quality": 95, "influence": 10})

	assert.Equal(t, before+2, testutil.CollectAndCount(Scores))
}

func TestCounters(t *testing.T) {
	EventsPublished.WithLabelValues("test.event", ResultOK).Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(EventsPublished.WithLabelValues("test.event", ResultOK)), 1e-9)
}
