// Package metrics exposes quiz activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kyoto-kentei/internal/domain"
)

// Recorder implements app.Metrics on a dedicated registry.
type Recorder struct {
	registry *prometheus.Registry

	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
	accuracy *prometheus.HistogramVec
	reported prometheus.Counter
	requests *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kentei",
			Name:      "quizzes_started_total",
			Help:      "Quizzes started, by level.",
		}, []string{"level"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kentei",
			Name:      "quizzes_finished_total",
			Help:      "Quizzes scored and saved to history, by level.",
		}, []string{"level"}),
		accuracy: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kentei",
			Name:      "quiz_accuracy_percent",
			Help:      "Accuracy of finished quizzes.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"level"}),
		reported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kentei",
			Name:      "questions_reported_total",
			Help:      "Question reports received.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kentei",
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route pattern and status code.",
		}, []string{"route", "code"}),
	}
	r.registry.MustRegister(
		r.started, r.finished, r.accuracy, r.reported, r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) QuizStarted(level domain.Level) {
	r.started.WithLabelValues(level.String()).Inc()
}

func (r *Recorder) QuizFinished(level domain.Level, accuracy domain.Accuracy) {
	r.finished.WithLabelValues(level.String()).Inc()
	r.accuracy.WithLabelValues(level.String()).Observe(float64(accuracy.Value()))
}

func (r *Recorder) QuestionReported() {
	r.reported.Inc()
}

// ObserveRequest counts one served HTTP request.
func (r *Recorder) ObserveRequest(route, code string) {
	r.requests.WithLabelValues(route, code).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
