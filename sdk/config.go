package sdk

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ClientConfig contains the configuration for creating a new APIC client.
type ClientConfig struct {
	// BaseURL is the APIC URL (e.g., "https://apic1.example.com").
	BaseURL string

	// Username is the APIC login name.
	Username string

	// Password is the APIC password.
	Password string

	// Insecure skips TLS certificate verification. APICs commonly run with
	// self-signed certificates.
	Insecure bool

	// HTTPClient is the HTTP client to use for requests.
	// Optional: if nil, a default client is created from Timeout and Insecure.
	HTTPClient *http.Client

	// Timeout is the HTTP request timeout.
	// Default: none
	Timeout time.Duration

	// RequestsPerSecond paces requests to the controller.
	// Default: 0 (unlimited)
	RequestsPerSecond float64
}

// Validate checks if the client configuration is valid and sets defaults.
func (c *ClientConfig) Validate() error {
	url := strings.TrimSpace(c.BaseURL)
	if url == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	// Ensure URL doesn't end with a slash
	url = strings.TrimSuffix(url, "/")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%w: base URL must start with http:// or https://", ErrInvalidConfig)
	}
	c.BaseURL = url

	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidConfig)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", ErrInvalidConfig)
	}

	// Create default HTTP client if not provided
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Timeout: c.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig:     &tls.Config{InsecureSkipVerify: c.Insecure}, //nolint:gosec // opt-in for self-signed APICs
			},
		}
	}

	return nil
}
