// Package gamemetrics records game module metrics in Prometheus.
package gamemetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GameMetrics is implemented by every game metrics recorder.
type GameMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)

	RecordGameCreated(ctx context.Context)
	RecordRoundAdded(ctx context.Context, contract string)
	RecordRoundRejected(ctx context.Context, reason string)
	RecordRoundUndone(ctx context.Context)
	RecordGameRestarted(ctx context.Context)
	RecordVictory(ctx context.Context, team int)
}

type prometheusMetrics struct {
	operations     *prometheus.CounterVec
	durations      *prometheus.HistogramVec
	gamesCreated   prometheus.Counter
	roundsAdded    *prometheus.CounterVec
	roundsRejected *prometheus.CounterVec
	roundsUndone   prometheus.Counter
	gamesRestarted prometheus.Counter
	victories      *prometheus.CounterVec
}

// NewPrometheus registers the game collectors on reg.
func NewPrometheus(reg prometheus.Registerer) (GameMetrics, error) {
	m := &prometheusMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinche",
			Name:      "operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"service", "operation", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coinche",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		gamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coinche",
			Name:      "games_created_total",
			Help:      "Games created.",
		}),
		roundsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinche",
			Name:      "rounds_added_total",
			Help:      "Rounds committed to a ledger, by contract.",
		}, []string{"contract"}),
		roundsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinche",
			Name:      "rounds_rejected_total",
			Help:      "Rounds refused before scoring, by reason.",
		}, []string{"reason"}),
		roundsUndone: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coinche",
			Name:      "rounds_undone_total",
			Help:      "Rounds removed by undo.",
		}),
		gamesRestarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coinche",
			Name:      "games_restarted_total",
			Help:      "Games cleared by restart.",
		}),
		victories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinche",
			Name:      "victories_total",
			Help:      "Victory thresholds reached, by team.",
		}, []string{"team"}),
	}

	for _, c := range []prometheus.Collector{
		m.operations, m.durations, m.gamesCreated, m.roundsAdded,
		m.roundsRejected, m.roundsUndone, m.gamesRestarted, m.victories,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "attempt").Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "success").Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "failure").Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.durations.WithLabelValues(service, operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordGameCreated(context.Context) { m.gamesCreated.Inc() }

func (m *prometheusMetrics) RecordRoundAdded(_ context.Context, contract string) {
	m.roundsAdded.WithLabelValues(contract).Inc()
}

func (m *prometheusMetrics) RecordRoundRejected(_ context.Context, reason string) {
	m.roundsRejected.WithLabelValues(reason).Inc()
}

func (m *prometheusMetrics) RecordRoundUndone(context.Context) { m.roundsUndone.Inc() }

func (m *prometheusMetrics) RecordGameRestarted(context.Context) { m.gamesRestarted.Inc() }

func (m *prometheusMetrics) RecordVictory(_ context.Context, team int) {
	m.victories.WithLabelValues(teamLabel(team)).Inc()
}

func teamLabel(team int) string {
	if team == 1 {
		return "team2"
	}
	return "team1"
}

type noop struct{}

// NewNoop returns a recorder that discards everything.
func NewNoop() GameMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordGameCreated(context.Context)                                      {}
func (noop) RecordRoundAdded(context.Context, string)                               {}
func (noop) RecordRoundRejected(context.Context, string)                            {}
func (noop) RecordRoundUndone(context.Context)                                      {}
func (noop) RecordGameRestarted(context.Context)                                    {}
func (noop) RecordVictory(context.Context, int)                                     {}
