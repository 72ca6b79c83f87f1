// Package metrics expone métricas Prometheus del servidor y de las llamadas
// salientes a PayPal y OpenAI.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// New registers every collector on its own registry, so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Peticiones HTTP atendidas por ruta y código",
		}, []string{"method", "path", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		upstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Llamadas salientes por servicio externo, método y código",
		}, []string{"upstream", "method", "code"}),
		upstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duración de las llamadas salientes",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"upstream", "method", "code"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware counts requests by route template, not raw path, so ids in
// /crear_plan/:product_id do not blow up the label set.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// HTTPClient returns a client bounded by timeout whose transport records
// upstream_* metrics under the given upstream label.
func (m *Metrics) HTTPClient(upstream string, timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout, Transport: m.instrument(upstream, http.DefaultTransport)}
}

// StreamingHTTPClient is HTTPClient for responses whose body may take longer
// than any fixed timeout. Only the wait for the response headers is bounded;
// the body is bounded by the request context.
func (m *Metrics) StreamingHTTPClient(upstream string, headerTimeout time.Duration) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.ResponseHeaderTimeout = headerTimeout
	return &http.Client{Transport: m.instrument(upstream, tr)}
}

func (m *Metrics) instrument(upstream string, next http.RoundTripper) http.RoundTripper {
	labels := prometheus.Labels{"upstream": upstream}
	return promhttp.InstrumentRoundTripperCounter(
		m.upstreamRequests.MustCurryWith(labels),
		promhttp.InstrumentRoundTripperDuration(
			m.upstreamDuration.MustCurryWith(labels),
			next,
		),
	)
}
