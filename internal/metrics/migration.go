package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/migrate"
	"github.com/yaroslav/dpmigrate/pkg/rules"
)

var (
	// PassRuns counts pass executions by pass name and whether they changed the tree.
	PassRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dpmigrate_pass_runs_total",
			Help: "Total number of migration pass runs",
		},
		[]string{"pass", "changed"},
	)

	// FoldersTouched counts the objects reported by each pass.
	FoldersTouched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dpmigrate_folders_touched_total",
			Help: "Total number of folders and parameters touched by a pass",
		},
		[]string{"pass"},
	)

	// ClusterAssociations counts migrated cluster associations.
	ClusterAssociations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dpmigrate_cluster_associations_total",
			Help: "Total number of cluster associations migrated",
		},
		[]string{"kind", "direction"},
	)

	// Pushes counts payloads by stage and outcome.
	Pushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dpmigrate_pushes_total",
			Help: "Total number of configuration pushes",
		},
		[]string{"stage", "status"},
	)

	// RunDuration measures a whole invocation.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dpmigrate_run_duration_seconds",
			Help:    "Duration of a migration run in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)

// registerMigrationMetrics registers the migration metrics.
func registerMigrationMetrics() error {
	return register(PassRuns, FoldersTouched, ClusterAssociations, Pushes, RunDuration)
}

// Recorder feeds runner statistics into the package metrics.
type Recorder struct{}

var _ migrate.Metrics = Recorder{}

// ObservePass is defined on the migrate.Metrics interface.
func (Recorder) ObservePass(pass string, changed bool, touched int) {
	PassRuns.WithLabelValues(pass, strconv.FormatBool(changed)).Inc()
	FoldersTouched.WithLabelValues(pass).Add(float64(touched))
}

// ObserveClusters is defined on the migrate.Metrics interface.
func (Recorder) ObserveClusters(kind models.AssociationKind, d rules.Direction, n int) {
	ClusterAssociations.WithLabelValues(kind.String(), d.String()).Add(float64(n))
}

// ObservePush is defined on the migrate.Metrics interface.
func (Recorder) ObservePush(stage, status string) {
	Pushes.WithLabelValues(stage, status).Inc()
}

// ObserveRun records the duration of a run that started at start.
func ObserveRun(start time.Time) {
	RunDuration.Observe(time.Since(start).Seconds())
}
