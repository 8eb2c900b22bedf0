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

	// SequencerState counts learn requests by the state the sequencer
	// resolved them to (first_visit, in_progress, question_detail, complete).
	SequencerState = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_sequencer_state_total",
			Help: "Learn requests by resolved sequencer state",
		},
		[]string{"state"},
	)

	ContentCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "learning_content_completions_total",
			Help: "Content nodes marked finished",
		},
	)

	CoursesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "courses_generated_total",
			Help: "Courses generated and imported into the graph",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SequencerState)
	prometheus.MustRegister(ContentCompletions)
	prometheus.MustRegister(CoursesGenerated)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
