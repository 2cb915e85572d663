// Package config loads dpmigrate settings from a YAML file and the
// environment. Command line flags are applied on top by the cmd package.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvURL      = "APIC_URL"
	EnvLogin    = "APIC_LOGIN"
	EnvPassword = "APIC_PASSWORD"
	EnvInsecure = "APIC_INSECURE"
)

// defaultRelPath is the config location below the user's home directory.
var defaultRelPath = filepath.Join(".config", "dpmigrate", "config.yaml")

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete tool configuration.
type Config struct {
	APIC APIC `yaml:"apic"`

	// JournalPath enables the push journal when set.
	JournalPath string `yaml:"journal_path"`

	// MetricsFile receives the run metrics in text exposition format when set.
	MetricsFile string `yaml:"metrics_file"`

	Log Log `yaml:"log"`
}

// APIC holds the controller connection settings.
type APIC struct {
	URL      string `yaml:"url" validate:"required,url,startswith=http"`
	Login    string `yaml:"login" validate:"required"`
	Password string `yaml:"password" validate:"required"`

	// Insecure skips TLS certificate verification. Lab controllers commonly
	// run with self-signed certificates.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each request; 0 means none.
	Timeout           time.Duration `yaml:"timeout" validate:"gte=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gte=0"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=auto json console"`
}

// Default returns the built-in defaults. APIC requests have no timeout
// unless one is configured.
func Default() Config {
	return Config{
		Log: Log{
			Level:  "warn",
			Format: "auto",
		},
	}
}

// DefaultPath returns $HOME/.config/dpmigrate/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, defaultRelPath), nil
}

// Load returns the defaults overlaid with the YAML file at path. A missing
// file is an error only when explicit is true; the default location is
// optional.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := decode(bytes.NewReader(data), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// decode reads YAML into cfg, rejecting unknown keys. An empty document
// leaves cfg unchanged.
func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides the connection settings with the APIC_* variables that
// are set and non-empty. lookup is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvURL); ok && v != "" {
		c.APIC.URL = v
	}
	if v, ok := lookup(EnvLogin); ok && v != "" {
		c.APIC.Login = v
	}
	if v, ok := lookup(EnvPassword); ok && v != "" {
		c.APIC.Password = v
	}
	if v, ok := lookup(EnvInsecure); ok && v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, EnvInsecure, v)
		}
		c.APIC.Insecure = insecure
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration. The connection settings are skipped
// unless needAPIC is set, so commands that never talk to a controller work
// without credentials.
func (c *Config) Validate(needAPIC bool) error {
	var err error
	if needAPIC {
		err = validate.Struct(c)
	} else {
		err = validate.StructExcept(c, "APIC")
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// describe renders one validation failure using the YAML key path.
func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "url", "startswith":
		return field + " must be an http:// or https:// URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return field + " must not be negative"
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
