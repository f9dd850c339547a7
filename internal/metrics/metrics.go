package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	uploadBytes     prometheus.Counter
	downloadBytes   prometheus.Counter
)

// InitMetrics registers the application collectors. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filevault_http_requests_total",
			Help: "HTTP requests processed, partitioned by method, route and status.",
		}, []string{"method", "route", "status"})

		requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "filevault_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

		uploadBytes = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filevault_upload_bytes_total",
			Help: "Bytes accepted through file uploads.",
		})

		downloadBytes = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filevault_download_bytes_total",
			Help: "Bytes served through file downloads.",
		})

		prometheus.MustRegister(requestsTotal, requestDuration, uploadBytes, downloadBytes)
	})
}

// Middleware records request counts and latencies per route.
func Middleware() gin.HandlerFunc {
	InitMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// ObserveUpload accounts for bytes accepted by an upload.
func ObserveUpload(size int64) {
	InitMetrics()
	if size > 0 {
		uploadBytes.Add(float64(size))
	}
}

// ObserveDownload accounts for bytes served by a download.
func ObserveDownload(size int64) {
	InitMetrics()
	if size > 0 {
		downloadBytes.Add(float64(size))
	}
}
