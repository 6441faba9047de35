// Package metrics exposes Prometheus collectors for the answer pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	questions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docqa_questions_total",
		Help: "Questions handled, by outcome and detected language",
	}, []string{"outcome", "language"})

	fallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docqa_fallback_total",
		Help: "Web fallback results by kind",
	}, []string{"result"})

	modelLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docqa_model_latency_ms",
		Help:    "Latency of model capability calls in milliseconds",
		Buckets: []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	}, []string{"capability", "status"})

	answerScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "docqa_answer_score",
		Help:    "Confidence score returned by extractive QA",
		Buckets: []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.4, 0.5, 0.7, 0.9, 1.0},
	})

	documentsLoaded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docqa_documents_loaded_total",
		Help: "Documents loaded, by whether any text was extracted",
	}, []string{"state"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(questions, fallbacks, modelLatency, answerScore, documentsLoaded)
	})
}

// ObserveQuestion counts one handled question.
func ObserveQuestion(outcome, language string) {
	ensureRegistered()
	questions.WithLabelValues(outcome, language).Inc()
}

// ObserveFallback counts one fallback fetch result.
func ObserveFallback(result string) {
	ensureRegistered()
	fallbacks.WithLabelValues(result).Inc()
}

// ObserveModelCall records the latency of a capability call.
func ObserveModelCall(capability string, start time.Time, err error) {
	ensureRegistered()
	status := "ok"
	if err != nil {
		status = "error"
	}
	modelLatency.WithLabelValues(capability, status).Observe(float64(time.Since(start).Milliseconds()))
}

// ObserveAnswerScore records a QA confidence score.
func ObserveAnswerScore(score float64) {
	ensureRegistered()
	answerScore.Observe(score)
}

// ObserveDocument counts a document load.
func ObserveDocument(empty bool) {
	ensureRegistered()
	state := "text"
	if empty {
		state = "empty"
	}
	documentsLoaded.WithLabelValues(state).Inc()
}

// Register makes sure collectors are registered before the first scrape.
func Register() {
	ensureRegistered()
}
