package word2vec

import "github.com/prometheus/client_golang/prometheus"

// Sample outcomes recorded by Metrics.
const (
	resultApplied      = "applied"
	resultEmptyContext = "empty_context"
	resultOutOfRange   = "out_of_range"
)

// Metrics collects training statistics for Prometheus.
type Metrics struct {
	Samples *prometheus.CounterVec
	Words   prometheus.Counter
	Rate    prometheus.Gauge
}

// NewMetrics creates Metrics and registers them with reg.
// If reg is nil, the metrics are not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	res := &Metrics{
		Samples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cbow_samples_total",
				Help: "CBOW samples handled by the trainer, by result",
			},
			[]string{"result"},
		),
		Words: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cbow_words_processed_total",
			Help: "corpus positions read by the trainer, including subsampled words",
		}),
		Rate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cbow_learning_rate",
			Help: "most recent decayed learning rate",
		}),
	}
	if reg != nil {
		reg.MustRegister(res.Samples, res.Words, res.Rate)
	}
	return res
}

func (m *Metrics) sample(result string) {
	if m != nil {
		m.Samples.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) progress(words int64, rate float32) {
	if m != nil {
		m.Words.Add(float64(words))
		m.Rate.Set(float64(rate))
	}
}
