package metrics

/* adapted from https://github.com/zsais/go-gin-prometheus
edits:
- collectors are registered on an injected registry
- metrics are served from a dedicated *http.Server owned by the caller
- push gateway and basic auth variants removed
*/

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var reqCnt = &Metric{
	Name:        "req_total",
	Description: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	Type:        "counter_vec",
	Args:        []string{"code", "method", "url"},
}

var reqDur = &Metric{
	Name:        "req_dur_ms",
	Description: "The HTTP request latencies in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"code", "method", "url"},
}

var resSz = &Metric{
	Name:        "resp_sz_bytes",
	Description: "The HTTP response sizes in bytes.",
	Type:        "summary_vec",
	Args:        []string{"code", "method", "url"},
}

var reqSz = &Metric{
	Name:        "req_sz_bytes",
	Description: "The HTTP request sizes in bytes.",
	Type:        "summary_vec",
	Args:        []string{"code", "method", "url"},
}

const defaultMetricPath = "/metrics"

type Logger interface {
	Errorf(format string, v ...interface{})
}

// URLLabelMappingFn controls the cardinality of the "url" label. Route
// templates (c.FullPath()) keep one series per route.
type URLLabelMappingFn func(c *gin.Context) string

// Prometheus records HTTP metrics for a gin engine.
type Prometheus struct {
	reqCnt       *prometheus.CounterVec
	reqDur       *prometheus.HistogramVec
	reqSz, resSz *prometheus.SummaryVec

	registry prometheus.Registerer
	gatherer prometheus.Gatherer

	MetricsPath       string
	URLLabelMappingFn URLLabelMappingFn

	logger Logger
}

type NewPrometheusOptions struct {
	Subsystem         string
	MetricsPath       string
	URLLabelMappingFn URLLabelMappingFn
	Registerer        prometheus.Registerer
	Gatherer          prometheus.Gatherer
	Logger            Logger
}

func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		MetricsPath:       options.MetricsPath,
		URLLabelMappingFn: options.URLLabelMappingFn,
		registry:          options.Registerer,
		gatherer:          options.Gatherer,
		logger:            options.Logger,
	}
	if p.MetricsPath == "" {
		p.MetricsPath = defaultMetricPath
	}
	if p.URLLabelMappingFn == nil {
		p.URLLabelMappingFn = func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return "unmatched"
		}
	}
	if p.registry == nil {
		p.registry = prometheus.DefaultRegisterer
	}
	if p.gatherer == nil {
		p.gatherer = prometheus.DefaultGatherer
	}
	p.registerMetrics(options.Subsystem)
	return p
}

func (p *Prometheus) registerMetrics(subsystem string) {
	register := func(def *Metric) prometheus.Collector {
		c := NewMetric(def, subsystem)
		if err := p.registry.Register(c); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				return already.ExistingCollector
			}
			if p.logger != nil {
				p.logger.Errorf("%s could not be registered in Prometheus, err=%v", def.Name, err)
			}
		}
		return c
	}
	p.reqCnt = register(reqCnt).(*prometheus.CounterVec)
	p.reqDur = register(reqDur).(*prometheus.HistogramVec)
	p.resSz = register(resSz).(*prometheus.SummaryVec)
	p.reqSz = register(reqSz).(*prometheus.SummaryVec)
}

// Use adds the recording middleware to a gin engine.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
}

// Server returns an *http.Server exposing MetricsPath on addr. Keeping
// metrics on their own listener keeps GET /metrics out of the access log.
func (p *Prometheus) Server(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(p.MetricsPath, promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{}))
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// HandlerFunc defines handler function for middleware
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqSize := computeApproximateRequestSize(c.Request)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.URLLabelMappingFn(c)
		method := c.Request.Method

		p.reqDur.WithLabelValues(status, method, url).Observe(MillisecondsSince(start))
		p.reqCnt.WithLabelValues(status, method, url).Inc()
		p.reqSz.WithLabelValues(status, method, url).Observe(float64(reqSize))
		p.resSz.WithLabelValues(status, method, url).Observe(float64(c.Writer.Size()))
	}
}

func MillisecondsSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}

func computeApproximateRequestSize(r *http.Request) int {
	s := 0
	if r.URL != nil {
		s = len(r.URL.Path)
	}
	s += len(r.Method) + len(r.Proto) + len(r.Host)
	for name, values := range r.Header {
		s += len(name)
		for _, v := range values {
			s += len(v)
		}
	}
	if r.ContentLength > 0 {
		s += int(r.ContentLength)
	}
	return s
}
