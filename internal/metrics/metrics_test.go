package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("zerde-web")

	m.ObserveAPI("module_detail", "200", 120*time.Millisecond)
	m.ObserveAPI("module_detail", "200", 80*time.Millisecond)
	m.CacheLookup("hit")
	m.Search("superseded")
	m.Handoff("take")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("module_detail", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchRequests.WithLabelValues("superseded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.handoffs.WithLabelValues("take")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveAPI("modules", "error", time.Second)
		m.CacheLookup("miss")
		m.Search("applied")
		m.Handoff("put")
		m.GitHubEnrich("ok")
		m.SetSearchSessions(3)
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("zerde-web")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `zerde_web_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}
