package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	ResearchTotal    *prometheus.CounterVec
	ResearchDuration *prometheus.HistogramVec
	ResearchRounds   prometheus.Histogram
	ResearchInFlight prometheus.Gauge

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration prometheus.Histogram

	AnalysisRequestsTotal   *prometheus.CounterVec
	AnalysisRequestDuration prometheus.Histogram

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitHitsTotal *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		ResearchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deepresearch_runs_total",
				Help: "Total number of research runs",
			},
			[]string{"status"},
		),
		ResearchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deepresearch_run_duration_seconds",
				Help:    "Research run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"status"},
		),
		ResearchRounds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "deepresearch_run_rounds",
				Help:    "Number of rounds per research run",
				Buckets: []float64{2, 3, 4, 5, 6, 8, 10},
			},
		),
		ResearchInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "deepresearch_runs_in_flight",
				Help: "Number of research runs currently executing",
			},
		),

		SearchRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deepresearch_search_requests_total",
				Help: "Total number of search API calls",
			},
			[]string{"status"},
		),
		SearchRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "deepresearch_search_request_duration_seconds",
				Help:    "Search call duration in seconds, retries included",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
		),

		AnalysisRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deepresearch_analysis_requests_total",
				Help: "Total number of LLM analysis calls",
			},
			[]string{"status"},
		),
		AnalysisRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "deepresearch_analysis_request_duration_seconds",
				Help:    "Analysis call duration in seconds, retries included",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "deepresearch_cache_hits_total",
				Help: "Total number of report cache hits",
			},
		),
		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "deepresearch_cache_misses_total",
				Help: "Total number of report cache misses",
			},
		),

		RateLimitHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deepresearch_rate_limit_hits_total",
				Help: "Total number of rate limit rejections",
			},
			[]string{"source"},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordResearch(status string, rounds int, duration time.Duration) {
	m.ResearchTotal.WithLabelValues(status).Inc()
	m.ResearchDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.ResearchRounds.Observe(float64(rounds))
}

func (m *Metrics) RecordSearch(status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(status).Inc()
	m.SearchRequestDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordAnalysis(status string, duration time.Duration) {
	m.AnalysisRequestsTotal.WithLabelValues(status).Inc()
	m.AnalysisRequestDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheHit()  { m.CacheHitsTotal.Inc() }
func (m *Metrics) RecordCacheMiss() { m.CacheMissesTotal.Inc() }

func (m *Metrics) RecordRateLimitHit(source string) {
	m.RateLimitHitsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) IncResearchInFlight() { m.ResearchInFlight.Inc() }
func (m *Metrics) DecResearchInFlight() { m.ResearchInFlight.Dec() }
