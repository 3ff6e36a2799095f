package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestScheduleRequestsCountsByLabel(t *testing.T) {
	before := testutil.ToFloat64(ScheduleRequests.WithLabelValues("text", OutcomeOK))
	ScheduleRequests.WithLabelValues("text", OutcomeOK).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ScheduleRequests.WithLabelValues("text", OutcomeOK)))
}

func TestExtractorFallbacks(t *testing.T) {
	before := testutil.ToFloat64(ExtractorFallbacks)
	ExtractorFallbacks.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ExtractorFallbacks))
}
