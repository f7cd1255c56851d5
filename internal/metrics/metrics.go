package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 汇总前端服务的 Prometheus 指标
// 所有方法对 nil 接收者安全，测试和 CLI 可以不采集
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	apiRequests     *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	searchRequests  *prometheus.CounterVec
	handoffs        *prometheus.CounterVec
	githubEnrich    *prometheus.CounterVec
	activeSearchers prometheus.Gauge
}

// New 在独立的 registry 上注册指标，前缀为服务名
func New(serviceName string) *Metrics {
	prefix := strings.ReplaceAll(serviceName, "-", "_")
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests served",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_api_requests_total",
			Help: "Upstream content API calls by endpoint and outcome",
		}, []string{"endpoint", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_api_request_duration_seconds",
			Help:    "Upstream content API latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_query_cache_lookups_total",
			Help: "Query cache lookups by result (hit, miss, shared, error)",
		}, []string{"result"}),
		searchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_search_requests_total",
			Help: "Debounced searches by outcome (applied, superseded, failed, skipped)",
		}, []string{"outcome"}),
		handoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_handoffs_total",
			Help: "Search result handoffs by operation (put, take, miss)",
		}, []string{"op"}),
		githubEnrich: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_github_enrich_total",
			Help: "GitHub repository enrichment attempts by outcome",
		}, []string{"outcome"}),
		activeSearchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_search_sessions",
			Help: "Search controllers currently held in memory",
		}),
	}

	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.apiRequests, m.apiDuration,
		m.cacheLookups, m.searchRequests, m.handoffs, m.githubEnrich,
		m.activeSearchers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry 用于测试断言
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware 记录每个路由的请求数和耗时
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveAPI 上游 API 调用；status 为 HTTP 状态码或 "error"
func (m *Metrics) ObserveAPI(endpoint, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(endpoint, status).Inc()
	m.apiDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// CacheLookup result: hit / miss / shared / error
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Search outcome: applied / superseded / failed / skipped
func (m *Metrics) Search(outcome string) {
	if m == nil {
		return
	}
	m.searchRequests.WithLabelValues(outcome).Inc()
}

// Handoff op: put / take / miss
func (m *Metrics) Handoff(op string) {
	if m == nil {
		return
	}
	m.handoffs.WithLabelValues(op).Inc()
}

func (m *Metrics) GitHubEnrich(outcome string) {
	if m == nil {
		return
	}
	m.githubEnrich.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetSearchSessions(n int) {
	if m == nil {
		return
	}
	m.activeSearchers.Set(float64(n))
}
