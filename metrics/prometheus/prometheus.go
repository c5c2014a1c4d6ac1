package prometheus

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "telegram"

type Config struct {
	Namespace                 string
	Buckets                   []float64
	EnabledGoCollector        bool
	EnabledBuildInfoCollector bool
}

// Prometheus records outbound Bot API requests into its own registry.
type Prometheus struct {
	Config   Config
	Registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

func NewPrometheus(c Config) *Prometheus {
	if c.Namespace == "" {
		c.Namespace = defaultNamespace
	}
	if len(c.Buckets) == 0 {
		c.Buckets = prometheus.DefBuckets
	}

	p := &Prometheus{
		Config:   c,
		Registry: prometheus.NewRegistry(),
	}

	p.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.Namespace,
		Name:      "requests_total",
		Help:      "Bot API requests by method, path and response code.",
	}, []string{"method", "path", "code"})

	p.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.Namespace,
		Name:      "request_duration_seconds",
		Help:      "Bot API request latency.",
		Buckets:   c.Buckets,
	}, []string{"method", "path"})

	p.inflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: c.Namespace,
		Name:      "requests_in_flight",
		Help:      "Bot API requests currently waiting for a response.",
	})

	p.Registry.MustRegister(p.requests, p.duration, p.inflight)

	if c.EnabledGoCollector {
		p.WithGoCollectorRuntimeMetrics()
	}
	if c.EnabledBuildInfoCollector {
		p.WithBuildInfoCollector()
	}

	return p
}

// Begin marks a request as in flight and returns the func that completes it.
// code 0 means the request never got an HTTP answer.
func (p *Prometheus) Begin(method, path string) func(code int) {
	start := time.Now()
	p.inflight.Inc()

	return func(code int) {
		p.inflight.Dec()
		p.duration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		p.requests.WithLabelValues(method, path, codeLabel(code)).Inc()
	}
}

func codeLabel(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{Registry: p.Registry})
}

// WriteToTextfile dumps the registry in the node_exporter textfile format.
func (p *Prometheus) WriteToTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, p.Registry)
}

func (p *Prometheus) WithGoCollectorRuntimeMetrics() {
	p.Registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
}

func (p *Prometheus) WithBuildInfoCollector() {
	p.Registry.MustRegister(collectors.NewBuildInfoCollector())
}
