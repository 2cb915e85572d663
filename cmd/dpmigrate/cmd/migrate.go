package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yaroslav/dpmigrate/internal/config"
	"github.com/yaroslav/dpmigrate/internal/journal"
	"github.com/yaroslav/dpmigrate/internal/logging"
	"github.com/yaroslav/dpmigrate/internal/metrics"
	"github.com/yaroslav/dpmigrate/pkg/apic"
	"github.com/yaroslav/dpmigrate/pkg/migrate"
	"github.com/yaroslav/dpmigrate/pkg/report"
	"github.com/yaroslav/dpmigrate/sdk"
)

type migrateOptions struct {
	global *globalOptions

	tenant  string
	app     string
	actions migrate.Actions
	dryRun  bool

	// Connection and output flags; applied over the config file only when
	// given on the command line.
	url         string
	login       string
	password    string
	insecure    bool
	timeout     time.Duration
	rps         float64
	journalPath string
	metricsFile string
}

func newMigrateCmd(g *globalOptions) *cobra.Command {
	cmd, _ := newMigrateCommand(g)
	return cmd
}

func newMigrateCommand(g *globalOptions) (*cobra.Command, *migrateOptions) {
	o := &migrateOptions{global: g}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate a tenant's device package configuration",
		Long: `Fetch a tenant from the APIC, rewrite it in memory and push the result.

Without --tenant the tenants on the APIC are listed. Without --app, when
--parameters or --cleanup need one, the tenant's application profiles are
listed.

Actions (at least one is required):
  --parameters   rewrite folder keys, zones, VLANs and default gateways
  --clusters     point clusters, device managers and chassis at 1.3
  --cleanup      delete the 1.2 backups (cannot be reverted)
  --revert       with --parameters and/or --clusters, go back to 1.2`,
		Args: cobra.NoArgs,
		RunE: o.run,
	}

	flags := cmd.Flags()
	flags.StringVar(&o.tenant, "tenant", "", "Name of tenant to migrate (displays choices if not provided)")
	flags.StringVar(&o.app, "app", "", "Name of application profile to migrate (displays choices if not provided)")
	flags.BoolVar(&o.actions.Parameters, "parameters", false, "Prepare parameters for migration")
	flags.BoolVar(&o.actions.Clusters, "clusters", false, "Trigger migration of clusters using migrated parameters")
	flags.BoolVar(&o.actions.Revert, "revert", false, "Switch parameters and/or clusters back to device package 1.2")
	flags.BoolVar(&o.actions.Cleanup, "cleanup", false,
		"Clean up old 1.2 parameters after a migration. WARNING: cannot revert after a cleanup")
	flags.BoolVarP(&o.dryRun, "dry-run", "n", false, "Do not make any changes to APIC, only print what would happen")

	flags.StringVarP(&o.url, "url", "u", "", "APIC URL (env "+config.EnvURL+")")
	flags.StringVarP(&o.login, "login", "l", "", "APIC login (env "+config.EnvLogin+")")
	flags.StringVarP(&o.password, "password", "p", "", "APIC password (env "+config.EnvPassword+")")
	flags.BoolVar(&o.insecure, "insecure", false, "Skip TLS certificate verification (env "+config.EnvInsecure+")")
	flags.DurationVar(&o.timeout, "timeout", 0, "Per-request timeout, overriding the config file (0 means no timeout)")
	flags.Float64Var(&o.rps, "requests-per-second", 0, "Limit requests to the APIC (0 means unlimited)")
	flags.StringVar(&o.journalPath, "journal", "", "Record every push in this SQLite journal")
	flags.StringVar(&o.metricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format")

	return cmd, o
}

// apply copies the flags that were set over cfg.
func (o *migrateOptions) apply(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("url") {
			cfg.APIC.URL = o.url
		}
		if flags.Changed("login") {
			cfg.APIC.Login = o.login
		}
		if flags.Changed("password") {
			cfg.APIC.Password = o.password
		}
		if flags.Changed("insecure") {
			cfg.APIC.Insecure = o.insecure
		}
		if flags.Changed("timeout") {
			cfg.APIC.Timeout = o.timeout
		}
		if flags.Changed("requests-per-second") {
			cfg.APIC.RequestsPerSecond = o.rps
		}
		if flags.Changed("journal") {
			cfg.JournalPath = o.journalPath
		}
		if flags.Changed("metrics-file") {
			cfg.MetricsFile = o.metricsFile
		}
	}
}

func (o *migrateOptions) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := report.NewConsole(cmd.OutOrStdout(), colorEnabled(cmd.OutOrStdout()))

	if err := o.actions.Validate(); err != nil {
		out.Notice("%s", err)
		return exitWith(1)
	}
	for flag, name := range map[string]string{"--tenant": o.tenant, "--app": o.app} {
		if name == "" {
			continue
		}
		if err := apic.ValidateName(name); err != nil {
			return fmt.Errorf("%s: %w", flag, err)
		}
	}

	cfg, err := o.global.loadConfig(true, o.apply(cmd))
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	runID := logging.NewRunID()
	ctx, logger = logging.WithRun(ctx, logger, runID)

	if cfg.MetricsFile != "" {
		if err := metrics.Init(); err != nil {
			return err
		}
		start := time.Now()
		defer func() {
			metrics.ObserveRun(start)
			if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
				logger.Warn("Failed to write metrics", zap.String("path", cfg.MetricsFile), zap.Error(err))
			}
		}()
	}

	client, err := sdk.NewClient(sdk.ClientConfig{
		BaseURL:           cfg.APIC.URL,
		Username:          cfg.APIC.Login,
		Password:          cfg.APIC.Password,
		Insecure:          cfg.APIC.Insecure,
		Timeout:           cfg.APIC.Timeout,
		RequestsPerSecond: cfg.APIC.RequestsPerSecond,
	})
	if err != nil {
		return err
	}

	if err := client.Login(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Debug("Login failed", zap.Error(err))
		out.Failure("Could not login to APIC")
		return exitWith(1)
	}

	var jrnl migrate.Journal
	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer store.Close()
		jrnl = store
	}

	runner, err := migrate.NewRunner(migrate.RunnerConfig{
		Controller: client,
		Reporter:   out,
		Logger:     logger,
		Journal:    jrnl,
		Metrics:    metrics.Recorder{},
		RunID:      runID,
	})
	if err != nil {
		return err
	}

	plan, err := runner.Plan(ctx, migrate.Options{
		Tenant:  o.tenant,
		App:     o.app,
		Actions: o.actions,
		DryRun:  o.dryRun,
	})
	if err != nil {
		return planError(out, err)
	}
	ctx = logging.WithTarget(ctx, plan.Tenant, plan.App)

	if o.dryRun {
		out.Notice("This is a dry-run, so none of the following is actually happening...")
	}

	res, err := runner.Execute(ctx, plan)
	if res != nil {
		if o.global.debug && res.Payload != nil {
			if dump, derr := res.Payload.Indent(); derr == nil {
				out.Raw(dump)
			}
		}
		for i := 0; i < res.Pushes; i++ {
			out.Success("Pushed changes to APIC")
		}
	}
	if err != nil {
		if res != nil && res.Pushes > 0 {
			out.Warning("Configuration was partially applied; re-run the same command once the error is fixed")
		}
		return executeError(ctx, out, err)
	}

	switch {
	case o.dryRun:
		out.Notice("Skipping push to APIC due to dry-run mode")
	case !res.Changed:
		out.Notice("No changes made")
	}
	return nil
}

// planError prints the outcome of a failed selection. Listing the available
// names because none was given is not a failure.
func planError(out *report.Console, err error) error {
	var sel *migrate.SelectionError
	if !errors.As(err, &sel) {
		return err
	}

	prompt, title := "Please specify a tenant with --tenant TENANT_NAME", "Tenants"
	if sel.Kind == migrate.SelectAppProfile {
		prompt, title = "Please specify an AppProfile with --app APP_NAME", "AppProfiles"
	}

	if sel.Missing() {
		out.Notice("\n%s", prompt)
		out.List(title, sel.Available)
		return nil
	}
	out.Notice("%s %s not found on APIC", sel.Kind, sel.Name)
	return exitWith(1)
}

func executeError(ctx context.Context, out *report.Console, err error) error {
	var pushErr *sdk.PushError
	if errors.As(err, &pushErr) {
		logging.FromContext(ctx).Error("Push failed", zap.Int(logging.FieldStatusCode, pushErr.StatusCode))
		out.Failure("Error: Could not push configuration to APIC")
		out.Raw(pushErr.Body)
		return exitWith(1)
	}
	if errors.Is(err, migrate.ErrNoBackups) {
		out.Failure("%s", err)
		return exitWith(1)
	}
	return err
}
