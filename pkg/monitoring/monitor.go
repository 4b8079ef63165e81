package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	VideoCompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillify_video_completions_total",
			Help: "Videos that crossed the completion threshold",
		},
		[]string{"course"},
	)

	XPAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillify_xp_awarded_total",
			Help: "XP granted for video completions",
		},
	)

	ProgressRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillify_progress_retries_total",
			Help: "Progress transactions retried after losing a race",
		},
	)

	OTPSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillify_otp_sent_total",
			Help: "One-time passwords generated, by delivery result",
		},
		[]string{"result"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillify_ws_connections",
			Help: "Open notification websocket connections",
		},
	)

	WSMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillify_ws_messages_total",
			Help: "Notification messages pushed to clients",
		},
		[]string{"type"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(VideoCompletions)
	prometheus.MustRegister(XPAwarded)
	prometheus.MustRegister(ProgressRetries)
	prometheus.MustRegister(OTPSent)
	prometheus.MustRegister(WSConnections)
	prometheus.MustRegister(WSMessages)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
