package sdk

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config with all fields",
			config: ClientConfig{
				BaseURL:           "https://apic1.example.com",
				Username:          "admin",
				Password:          "secret",
				Insecure:          true,
				Timeout:           10 * time.Second,
				RequestsPerSecond: 5,
			},
			wantErr: false,
		},
		{
			name: "valid config with minimal fields",
			config: ClientConfig{
				BaseURL:  "http://apic1.example.com",
				Username: "admin",
			},
			wantErr: false,
		},
		{
			name:    "missing base URL",
			config:  ClientConfig{Username: "admin"},
			wantErr: true,
			errMsg:  "base URL is required",
		},
		{
			name:    "invalid URL format",
			config:  ClientConfig{BaseURL: "apic1.example.com", Username: "admin"},
			wantErr: true,
			errMsg:  "base URL must start with http:// or https://",
		},
		{
			name:    "missing username",
			config:  ClientConfig{BaseURL: "https://apic1.example.com"},
			wantErr: true,
			errMsg:  "username is required",
		},
		{
			name:    "negative timeout",
			config:  ClientConfig{BaseURL: "https://apic1.example.com", Username: "admin", Timeout: -time.Second},
			wantErr: true,
			errMsg:  "timeout must not be negative",
		},
		{
			name:    "negative rate",
			config:  ClientConfig{BaseURL: "https://apic1.example.com", Username: "admin", RequestsPerSecond: -1},
			wantErr: true,
			errMsg:  "requests per second must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error but got nil")
					return
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestClientConfig_Defaults(t *testing.T) {
	config := ClientConfig{
		BaseURL:  " https://apic1.example.com/ ",
		Username: "admin",
		Insecure: true,
	}

	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if config.BaseURL != "https://apic1.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash and spaces removed", config.BaseURL)
	}
	if config.HTTPClient == nil {
		t.Fatal("HTTPClient should be created")
	}
	if config.HTTPClient.Timeout != 0 {
		t.Errorf("HTTPClient.Timeout = %v, want no timeout by default", config.HTTPClient.Timeout)
	}
	transport, ok := config.HTTPClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport = %T, want *http.Transport", config.HTTPClient.Transport)
	}
	if !transport.TLSClientConfig.InsecureSkipVerify {
		t.Error("InsecureSkipVerify should follow Insecure")
	}
}

func TestClientConfig_KeepsHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 3 * time.Second}
	config := ClientConfig{
		BaseURL:    "https://apic1.example.com",
		Username:   "admin",
		HTTPClient: custom,
	}

	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if config.HTTPClient != custom {
		t.Error("Validate() replaced a provided HTTPClient")
	}
}
