// Package apicsim is a small in-memory stand-in for the APIC REST API. It
// serves the login, class query, object query and configuration post
// endpoints that dpmigrate uses, which is enough to run a migration end to
// end without a controller.
package apicsim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yaroslav/dpmigrate/internal/metrics"
	"github.com/yaroslav/dpmigrate/pkg/apic"
	"github.com/yaroslav/dpmigrate/pkg/token"
)

// CookieName is the session cookie set by aaaLogin.
const CookieName = "APIC-cookie"

// Config holds simulator settings.
type Config struct {
	// Logger receives request logs. Defaults to a no-op logger.
	Logger *zap.Logger

	// Users maps login names to passwords. At least one is required.
	Users map[string]string

	// Secret keys the password and session hashes. A random secret is used
	// when empty.
	Secret string

	// SessionTTL bounds session lifetime; 0 means sessions never expire.
	SessionTTL time.Duration

	// LoginFailuresPerMin locks a client address out of aaaLogin after this
	// many failed logins, refilling at the same rate. 0 disables the lockout.
	LoginFailuresPerMin int
}

// Server is the simulated controller.
type Server struct {
	store  *Store
	issuer   *token.Issuer
	throttle *loginThrottle
	secret   string
	users  map[string]string // name -> password hash
	logger *zap.Logger
	engine *gin.Engine

	mu     sync.Mutex
	pushes []apic.Object
	reject *apic.Response
}

// New creates a simulator with an empty tree.
func New(cfg Config) (*Server, error) {
	if len(cfg.Users) == 0 {
		return nil, errors.New("at least one user is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Secret == "" {
		secret, err := token.Generate()
		if err != nil {
			return nil, err
		}
		cfg.Secret = secret
	}

	s := &Server{
		store:  NewStore(),
		issuer:   token.NewIssuer(cfg.Secret, cfg.SessionTTL),
		throttle: newLoginThrottle(cfg.LoginFailuresPerMin),
		secret:   cfg.Secret,
		users:    make(map[string]string, len(cfg.Users)),
		logger:   cfg.Logger,
	}
	for name, pwd := range cfg.Users {
		s.users[name] = token.Hash(pwd, cfg.Secret)
	}
	s.engine = s.setupRouter()
	return s, nil
}

// setupRouter wires middleware and routes.
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(MetricsMiddleware())
	router.Use(RequestLogger(s.logger))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	router.POST("/api/aaaLogin.json", s.login)

	api := router.Group("/api", s.requireSession())
	{
		api.POST("/aaaLogout.json", s.logout)
		api.GET("/class/:class", s.getClass)
		api.GET("/mo/*dn", s.getObject)
		api.POST("/mo/*dn", s.postObject)
	}
	return router
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store returns the simulator's object tree.
func (s *Server) Store() *Store {
	return s.store
}

// Pushes returns copies of every accepted configuration post, oldest first.
func (s *Server) Pushes() []apic.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return apic.Slice(s.pushes).Copy()
}

// RejectNextPush makes the next configuration post fail with an APIC error
// document carrying code and text.
func (s *Server) RejectNextPush(code, text string) {
	resp := apic.NewError(code, text)
	s.mu.Lock()
	s.reject = &resp
	s.mu.Unlock()
}

// Seed loads objects from an APIC query response document
// ({"imdata": [...]}). Objects carrying a dn are placed below their parent,
// others below uni.
func (s *Server) Seed(r io.Reader) error {
	var resp apic.Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return fmt.Errorf("failed to decode seed: %w", err)
	}
	for _, o := range resp.Imdata {
		parent := "uni"
		if dn := o.GetDn(); dn != "" {
			parent = parentDN(dn)
		}
		if err := s.store.Apply(parent, o); err != nil {
			return fmt.Errorf("failed to seed %s: %w", o.Class(), err)
		}
	}
	return nil
}

// Serve listens on addr until ctx is cancelled, then shuts down within
// shutdownTimeout.
func (s *Server) Serve(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("APIC simulator listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down APIC simulator", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func parentDN(dn string) string {
	if i := strings.LastIndex(dn, "/"); i > 0 {
		return dn[:i]
	}
	return dn
}
