package metrics

import "github.com/prometheus/client_golang/prometheus"

// ImportMetrics counts licensing and roster import runs.
type ImportMetrics struct {
	runs    *prometheus.CounterVec
	records *prometheus.CounterVec
}

// NewImportMetrics registers the import counters on the provided registerer.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "import_runs_total",
		Help:      "Import runs by kind and outcome.",
	}, []string{"kind", "outcome"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "import_records_total",
		Help:      "Records written by import runs.",
	}, []string{"kind", "entity"})
	reg.MustRegister(runs, records)
	return &ImportMetrics{runs: runs, records: records}
}

// ObserveRun records one finished run. A nil err counts as success.
func (m *ImportMetrics) ObserveRun(kind string, err error) {
	if m == nil || m.runs == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.runs.WithLabelValues(normalizeLabel(kind), outcome).Inc()
}

// AddRecords adds n written records of entity for kind.
func (m *ImportMetrics) AddRecords(kind, entity string, n int) {
	if m == nil || m.records == nil || n <= 0 {
		return
	}
	m.records.WithLabelValues(normalizeLabel(kind), normalizeLabel(entity)).Add(float64(n))
}
