package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	submissionsGraded   *prometheus.CounterVec
	submissionScores    prometheus.Histogram
	examCacheLookups    *prometheus.CounterVec
	eventPublishFailure prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		submissionsGraded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_submissions_graded_total",
			Help: "Graded exam submissions by outcome.",
		}, []string{"outcome"})

		submissionScores = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "exam_submission_percentage",
			Help:    "Distribution of graded submission percentages.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		})

		examCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_cache_lookups_total",
			Help: "Exam cache lookups by result.",
		}, []string{"result"})

		eventPublishFailure = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "event_publish_failures_total",
			Help: "Domain events that could not be published.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, submissionsGraded,
			submissionScores, examCacheLookups, eventPublishFailure)
	})
}

// ObserveSubmission records the outcome of one graded submission.
func ObserveSubmission(percentage int, passed, noGradablePoints bool) {
	RegisterMetrics()
	outcome := "failed"
	switch {
	case noGradablePoints:
		outcome = "ungradable"
	case passed:
		outcome = "passed"
	}
	submissionsGraded.WithLabelValues(outcome).Inc()
	submissionScores.Observe(float64(percentage))
}

func ObserveExamCache(hit bool) {
	RegisterMetrics()
	result := "miss"
	if hit {
		result = "hit"
	}
	examCacheLookups.WithLabelValues(result).Inc()
}

func ObserveEventPublishFailure() {
	RegisterMetrics()
	eventPublishFailure.Inc()
}

// HTTPMetrics records request counts and latency per matched route.
func HTTPMetrics() gin.HandlerFunc {
	RegisterMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatencySeconds.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
