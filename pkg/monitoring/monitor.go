package monitoring

import (
	"strconv"
	"sync"
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
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "endpoint"},
	)

	QuizSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Number of graded quiz submissions",
		},
	)

	QuizScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_score",
			Help:    "Distribution of quiz scores (0-100)",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ForbiddenRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_forbidden_total",
			Help: "Requests rejected by the role gate",
		},
		[]string{"endpoint"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, QuizSubmissions, QuizScore, ForbiddenRequests)
	})
}

// ObserveSubmission records one graded quiz.
func ObserveSubmission(score int) {
	QuizSubmissions.Inc()
	QuizScore.Observe(float64(score))
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
