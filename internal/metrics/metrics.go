package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline counters, exposed on /metrics. Names follow the
// <namespace>_<what>_total convention.
var (
	ExtractSkips = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bulletin",
		Name:      "extract_blocks_skipped_total",
		Help:      "Blocks dropped during extraction (missing marker or title)",
	})
	NormalizeDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bulletin",
		Name:      "normalize_candidates_dropped_total",
		Help:      "Candidates dropped by the normalizer (unparsable date/time)",
	})
	Classified = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bulletin",
		Name:      "classified_candidates_total",
		Help:      "Candidates per classifier bucket",
	}, []string{"bucket"})
	CommitOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bulletin",
		Name:      "commit_records_total",
		Help:      "Commit results per record",
	}, []string{"outcome"})
	ContactOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bulletin",
		Name:      "contact_import_records_total",
		Help:      "Bulk contact import results per record",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		ExtractSkips, NormalizeDrops, Classified, CommitOutcomes, ContactOutcomes,
	)
}
