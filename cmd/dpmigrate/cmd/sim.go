package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yaroslav/dpmigrate/internal/apicsim"
	"github.com/yaroslav/dpmigrate/internal/logging"
	"github.com/yaroslav/dpmigrate/internal/metrics"
)

type simOptions struct {
	global *globalOptions

	listen     string
	seed       string
	user       string
	password   string
	sessionTTL time.Duration
	lockout    int
}

func newSimCmd(g *globalOptions) *cobra.Command {
	o := &simOptions{global: g}

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run an in-memory APIC for rehearsing migrations",
		Long: `Serve the subset of the APIC REST API that migrate uses, backed by an
in-memory object store. Seed it with an imdata document such as the output of
an APIC subtree query. Pushed payloads are merged into the store, so migrate,
revert and cleanup runs can be rehearsed against it.`,
		Args: cobra.NoArgs,
		RunE: o.run,
	}

	flags := cmd.Flags()
	flags.StringVar(&o.listen, "listen", "127.0.0.1:8080", "Address to listen on")
	flags.StringVar(&o.seed, "seed", "", "JSON imdata document to load at startup")
	flags.StringVar(&o.user, "user", "admin", "Login name accepted by the simulator")
	flags.StringVar(&o.password, "password", "", "Password for --user (required)")
	flags.DurationVar(&o.sessionTTL, "session-ttl", 10*time.Minute, "Session lifetime (0 for no expiry)")
	flags.IntVar(&o.lockout, "login-failures-per-min", 10, "Failed logins per client before a lockout (0 disables)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (o *simOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.global.loadConfig(false, nil)
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger = logger.With(zap.String(logging.FieldComponent, "apicsim"))

	if err := metrics.Init(); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := apicsim.New(apicsim.Config{
		Logger:              logger,
		Users:               map[string]string{o.user: o.password},
		SessionTTL:          o.sessionTTL,
		LoginFailuresPerMin: o.lockout,
	})
	if err != nil {
		return err
	}

	if o.seed != "" {
		f, err := os.Open(o.seed)
		if err != nil {
			return fmt.Errorf("failed to open seed: %w", err)
		}
		err = srv.Seed(f)
		f.Close()
		if err != nil {
			return err
		}
		logger.Info("Loaded seed", zap.String("path", o.seed))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "APIC simulator listening on http://%s\n", o.listen)
	return srv.Serve(cmd.Context(), o.listen, 5*time.Second)
}
