package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_sessions_created_total",
		Help:      "Interview sessions created, by mode",
	}, []string{"mode"})

	answersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_answers_submitted_total",
		Help:      "Answers accepted, by round type and whether the evaluation is a placeholder",
	}, []string{"round_type", "placeholder"})

	providerFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_provider_fallbacks_total",
		Help:      "Provider failures replaced by placeholder content",
	}, []string{"operation"})

	sessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_sessions_completed_total",
		Help:      "Sessions moved to completed, by whether questions were left unanswered",
	}, []string{"partial"})
)

// Recorder reports interview domain events as Prometheus counters.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (*Recorder) SessionCreated(mode string) {
	sessionsCreated.WithLabelValues(mode).Inc()
}

func (*Recorder) AnswerSubmitted(roundType string, placeholder bool) {
	answersSubmitted.WithLabelValues(roundType, strconv.FormatBool(placeholder)).Inc()
}

func (*Recorder) ProviderFallback(operation string) {
	providerFallbacks.WithLabelValues(operation).Inc()
}

func (*Recorder) SessionCompleted(partial bool) {
	sessionsCompleted.WithLabelValues(strconv.FormatBool(partial)).Inc()
}
