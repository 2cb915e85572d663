package migrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/apic"
	"github.com/yaroslav/dpmigrate/pkg/rules"
)

// Push stages.
const (
	StageCheckpoint = "checkpoint"
	StageFinal      = "final"
)

// Push statuses.
const (
	StatusPushed = "pushed"
	StatusFailed = "failed"
	StatusDryRun = "dry-run"
)

// Controller is the part of the APIC the runner talks to.
type Controller interface {
	// Tenants lists the tenant names.
	Tenants(ctx context.Context) ([]string, error)

	// AppProfiles lists the application profile names of a tenant.
	AppProfiles(ctx context.Context, tenant string) ([]string, error)

	// FetchTenant returns the tenant's configuration tree down to the
	// device package folders.
	FetchTenant(ctx context.Context, tenant string) (*models.Tenant, error)

	// ClusterAssociations returns the device package, device manager and
	// chassis associations. An empty tenant queries the whole fabric.
	ClusterAssociations(ctx context.Context, tenant string) ([]models.ClusterAssociation, error)

	// Push posts a payload to the policy universe.
	Push(ctx context.Context, payload apic.Object) error
}

// PushRecord describes one push, or one payload that a dry run would have
// pushed.
type PushRecord struct {
	RunID   string
	Tenant  string
	App     string
	Actions string
	Stage   string
	DryRun  bool
	Status  string
	Error   string
	Payload apic.Object
}

// Journal keeps a record of the payloads sent to the controller.
type Journal interface {
	Record(ctx context.Context, rec PushRecord) error
}

// Metrics receives run statistics.
type Metrics interface {
	ObservePass(pass string, changed bool, touched int)
	ObserveClusters(kind models.AssociationKind, d rules.Direction, n int)
	ObservePush(stage, status string)
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Controller is required.
	Controller Controller

	// Reporter receives an event per touched object.
	Reporter Reporter

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Journal and Metrics are optional.
	Journal Journal
	Metrics Metrics

	// RunID tags journal records.
	RunID string
}

// Runner resolves an invocation against a controller, runs the selected
// passes and pushes the result.
type Runner struct {
	controller Controller
	reporter   Reporter
	logger     *zap.Logger
	journal    Journal
	metrics    Metrics
	runID      string
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Controller == nil {
		return nil, errors.New("runner requires a controller")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		controller: cfg.Controller,
		reporter:   cfg.Reporter,
		logger:     logger,
		journal:    cfg.Journal,
		metrics:    cfg.Metrics,
		runID:      cfg.RunID,
	}, nil
}

// Options select what a run does.
type Options struct {
	Tenant  string
	App     string
	Actions Actions
	DryRun  bool
}

// Plan is a validated invocation whose tenant, and application profile when
// needed, exist on the controller.
type Plan struct {
	Options
}

// Result is the outcome of Execute.
type Result struct {
	// Changed reports whether any pass or cluster migration changed something.
	Changed bool

	// Pushes counts the payloads posted to the controller.
	Pushes int

	// Touched counts the objects reported by the passes.
	Touched int

	// Clusters are the migrated cluster associations.
	Clusters []models.ClusterAssociation

	// Payload is the final tenant object, pushed or not.
	Payload apic.Object
}

// Plan validates opts and resolves the tenant and application profile.
//
// A missing or unknown name yields a *SelectionError carrying the names the
// controller offers. Nothing is fetched when the actions are invalid.
func (r *Runner) Plan(ctx context.Context, opts Options) (*Plan, error) {
	if err := opts.Actions.Validate(); err != nil {
		return nil, err
	}

	tenants, err := r.controller.Tenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	if err := selectName(SelectTenant, opts.Tenant, tenants, models.ErrTenantNotFound); err != nil {
		return nil, err
	}

	if opts.Actions.NeedsApp() {
		apps, err := r.controller.AppProfiles(ctx, opts.Tenant)
		if err != nil {
			return nil, fmt.Errorf("failed to list application profiles: %w", err)
		}
		if err := selectName(SelectAppProfile, opts.App, apps, models.ErrAppProfileNotFound); err != nil {
			return nil, err
		}
	}

	return &Plan{Options: opts}, nil
}

func selectName(kind, name string, available []string, notFound error) error {
	if name == "" {
		return &SelectionError{Kind: kind, Available: available, err: ErrSelectionRequired}
	}
	for _, n := range available {
		if n == name {
			return nil
		}
	}
	return &SelectionError{Kind: kind, Name: name, Available: available, err: notFound}
}

// Execute runs a plan.
//
// The tree is fetched only when the actions operate on an application
// profile; a clusters-only run pushes an otherwise empty tenant carrying the
// cluster fragments. Checkpoint steps push as soon as they change something,
// and the final payload is pushed when anything changed. A dry run pushes
// nothing.
//
// Once the tree is fetched every error is returned along with the result so
// far, so callers can report a checkpoint that was already pushed.
func (r *Runner) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	opts := plan.Options
	logger := r.logger.With(
		zap.String("tenant", opts.Tenant),
		zap.String("app_profile", opts.App),
		zap.Stringer("actions", opts.Actions),
		zap.Bool("dry_run", opts.DryRun),
	)

	tenant := models.NewTenant(opts.Tenant)
	if opts.Actions.NeedsApp() {
		start := time.Now()
		fetched, err := r.controller.FetchTenant(ctx, opts.Tenant)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tenant %s: %w", opts.Tenant, err)
		}
		tenant = fetched
		logger.Debug("fetched tenant tree", zap.Duration("duration", time.Since(start)))
	}

	c := &Context{
		Tenant:   tenant,
		AppName:  opts.App,
		Reporter: r.reporter,
		Logger:   logger,
	}
	result := &Result{}

	for _, step := range opts.Actions.Steps() {
		changed, err := step.Run(c)
		if err != nil {
			logPartial(logger, result)
			return result, &stepError{description: step.Description(), err: err}
		}
		touched := c.Touched()
		result.Touched += touched
		result.Changed = result.Changed || changed
		if r.metrics != nil {
			r.metrics.ObservePass(step.Name(), changed, touched)
		}
		logger.Debug("ran step",
			zap.String("pass", step.Name()),
			zap.Bool("changed", changed),
			zap.Int("touched", touched))

		if step.Checkpoint() && result.Changed {
			if err := r.push(ctx, opts, StageCheckpoint, apic.EncodeTenant(tenant), result); err != nil {
				return result, err
			}
		}
	}

	if opts.Actions.Clusters {
		clusters, err := r.migrateClusters(ctx, opts)
		if err != nil {
			logPartial(logger, result)
			return result, err
		}
		result.Clusters = clusters
		if len(clusters) > 0 {
			result.Changed = true
		}
	}

	payload := apic.EncodeTenant(tenant)
	for _, a := range result.Clusters {
		payload.AddChild(apic.EncodeClusterAssociation(a))
	}
	result.Payload = payload

	if result.Changed {
		if err := r.push(ctx, opts, StageFinal, payload, result); err != nil {
			return result, err
		}
	}
	logger.Info("run finished",
		zap.Bool("changed", result.Changed),
		zap.Int("pushes", result.Pushes),
		zap.Int("touched", result.Touched),
		zap.Int("clusters", len(result.Clusters)))
	return result, nil
}

func logPartial(logger *zap.Logger, result *Result) {
	if result.Pushes > 0 {
		logger.Warn("run failed after configuration was pushed", zap.Int("pushes", result.Pushes))
	}
}

// Run is Plan followed by Execute.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	plan, err := r.Plan(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, plan)
}

func (r *Runner) migrateClusters(ctx context.Context, opts Options) ([]models.ClusterAssociation, error) {
	d := rules.Forward
	if opts.Actions.Revert {
		d = rules.Reverse
	}
	records, err := r.controller.ClusterAssociations(ctx, opts.Tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to query cluster associations: %w", err)
	}
	migrated := MigrateClusters(records, d, r.reporter)
	if r.metrics != nil {
		counts := make(map[models.AssociationKind]int)
		for _, a := range migrated {
			counts[a.Kind]++
		}
		for _, kind := range models.AssociationKinds {
			r.metrics.ObserveClusters(kind, d, counts[kind])
		}
	}
	r.logger.Debug("migrated cluster associations",
		zap.Stringer("direction", d),
		zap.Int("found", len(records)),
		zap.Int("migrated", len(migrated)))
	return migrated, nil
}

func (r *Runner) push(ctx context.Context, opts Options, stage string, payload apic.Object, result *Result) error {
	rec := PushRecord{
		RunID:   r.runID,
		Tenant:  opts.Tenant,
		App:     opts.App,
		Actions: opts.Actions.String(),
		Stage:   stage,
		DryRun:  opts.DryRun,
		Payload: payload,
	}

	var pushErr error
	switch {
	case opts.DryRun:
		rec.Status = StatusDryRun
	default:
		pushErr = r.controller.Push(ctx, payload)
		if pushErr != nil {
			rec.Status = StatusFailed
			rec.Error = pushErr.Error()
		} else {
			rec.Status = StatusPushed
			result.Pushes++
		}
	}

	if r.metrics != nil {
		r.metrics.ObservePush(stage, rec.Status)
	}
	if r.journal != nil {
		// Journal errors are logged only.
		if err := r.journal.Record(ctx, rec); err != nil {
			r.logger.Warn("failed to record push", zap.String("stage", stage), zap.Error(err))
		}
	}
	if pushErr != nil {
		return fmt.Errorf("%s push failed: %w", stage, pushErr)
	}
	r.logger.Debug("push complete", zap.String("stage", stage), zap.String("status", rec.Status))
	return nil
}
