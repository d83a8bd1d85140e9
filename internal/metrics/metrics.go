package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "guesswise"

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	RoundsStarted     prometheus.Counter
	RoundsFinished    *prometheus.CounterVec
	Guesses           *prometheus.CounterVec
	GradeCalculations *prometheus.CounterVec
	HistoryFlushed    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_started_total",
			Help:      "Guessing-game rounds started.",
		}),
		RoundsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_finished_total",
			Help:      "Guessing-game rounds that reached a terminal state.",
		}, []string{"status"}),
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Guess submissions by outcome.",
		}, []string{"outcome"}),
		GradeCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grade_calculations_total",
			Help:      "Grade calculations by letter grade.",
		}, []string{"grade"}),
		HistoryFlushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_rounds_flushed_total",
			Help:      "Finished rounds written to the history tables, by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.RoundsStarted,
			m.RoundsFinished,
			m.Guesses,
			m.GradeCalculations,
			m.HistoryFlushed,
		)
	}
	return m
}

// Guess outcome labels.
const (
	OutcomeHint     = "hint"
	OutcomeWon      = "won"
	OutcomeLost     = "lost"
	OutcomeInvalid  = "invalid"
	OutcomeFinished = "finished"
	OutcomeNotOwned = "not_owned"
)
