package pipeline

import "github.com/prometheus/client_golang/prometheus"

// runsTotal counts scheduled run outcomes. Results: "ok",
// "generation_failed", "save_failed", "notify_failed", "panic".
var runsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "word_pipeline_runs_total",
		Help: "Total number of scheduled word pipeline runs by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(runsTotal)
}

// result classifies an outcome for the runs counter. A run can fail in more
// than one way; the first failure in step order wins.
func (o Outcome) result() string {
	switch {
	case o.Err != nil && o.Generated == nil:
		return "generation_failed"
	case o.Err != nil:
		return "panic"
	case !o.Saved:
		return "save_failed"
	case !o.Notified:
		return "notify_failed"
	default:
		return "ok"
	}
}
