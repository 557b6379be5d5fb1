package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAPICall(t *testing.T) {
	c := New()
	c.ObserveAPICall("GET", "events", "ok", 20*time.Millisecond)
	c.ObserveAPICall("GET", "events", "ok", 30*time.Millisecond)
	c.ObserveAPICall("DELETE", "events", "error_response", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.APICalls.WithLabelValues("GET", "events", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.APICalls.WithLabelValues("DELETE", "events", "error_response")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.APIDuration))
}

func TestObservePageAndProbe(t *testing.T) {
	c := New()
	c.ObservePage("GET", "QuotePage", 200, time.Millisecond)
	c.ObservePage("GET", "PageNotFound", 404, time.Millisecond)
	c.ObserveProbe(true)
	c.ObserveProbe(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.PageViews.WithLabelValues("PageNotFound", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.BackendUp))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ProbeRuns.WithLabelValues("up")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ProbeRuns.WithLabelValues("down")))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveProbe(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.BackendUp))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BackendUp))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.ObserveAPICall("GET", "quotes", "no_response", time.Second)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `eventgo_api_calls_total{method="GET",outcome="no_response",resource="quotes"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
