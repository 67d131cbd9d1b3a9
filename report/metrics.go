package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sw965/tdttt/selfplay"
)

const metricsNamespace = "tdttt"

// Metrics holds the Prometheus collectors of one training run on a private
// registry, meant to be dumped with WriteTextfile for node_exporter's
// textfile collector.
type Metrics struct {
	Registry   *prometheus.Registry
	Games      *prometheus.CounterVec
	GameLength prometheus.Histogram
	TableSize  prometheus.Gauge
}

func NewMetrics(runID string) *Metrics {
	constLabels := prometheus.Labels{"run_id": runID}
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "games_total",
			Help:        "Self-play games by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		GameLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   metricsNamespace,
			Name:        "game_length_moves",
			Help:        "Half-turns per self-play game.",
			ConstLabels: constLabels,
			Buckets:     prometheus.LinearBuckets(5, 1, 5),
		}),
		TableSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "value_table_entries",
			Help:        "Number of states stored in the value table.",
			ConstLabels: constLabels,
		}),
	}
	m.Registry.MustRegister(m.Games, m.GameLength, m.TableSize)
	return m
}

// Observe records one finished game. It fits selfplay.Trainer.OnGame.
func (m *Metrics) Observe(_ int, g selfplay.Game) {
	m.Games.WithLabelValues(g.Outcome.String()).Inc()
	m.GameLength.Observe(float64(len(g.Moves)))
}

func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
