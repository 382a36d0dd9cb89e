package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(compatibilityChecks.WithLabelValues("false"))
	CompatibilityChecked(false)
	assert.Equal(t, before+1, testutil.ToFloat64(compatibilityChecks.WithLabelValues("false")))

	before = testutil.ToFloat64(overdueBirths)
	OverdueNotified(0)
	OverdueNotified(2)
	assert.Equal(t, before+2, testutil.ToFloat64(overdueBirths))

	AlertGenerated("Birth Expected", "destructive")
	assert.GreaterOrEqual(t, testutil.ToFloat64(alertsGenerated.WithLabelValues("Birth Expected", "destructive")), 1.0)

	ObserveHTTP("", "GET", 404, time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("unmatched", "GET", "404")), 1.0)
}

func TestHandlerExposesCollectors(t *testing.T) {
	CompatibilityChecked(true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pigfarm_compatibility_checks_total"))
}
