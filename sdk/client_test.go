package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/apic"
)

const testToken = "tok-123"

// newTestServer serves aaaLogin and hands every other request to handler
// after checking the session cookie.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/aaaLogin.json" {
			var body apic.Object
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode login body: %v", err)
			}
			if body.GetAttrStr(apic.AttrPwd) != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"totalCount":"1","imdata":[{"error":{"attributes":{"code":"401","text":"bad password"}}}]}`))
				return
			}
			writeObjects(w, apic.NewObject(apic.ClassAaaLogin, map[string]interface{}{apic.AttrToken: testToken}))
			return
		}

		cookie, err := r.Cookie(CookieToken)
		if err != nil || cookie.Value != testToken {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func writeObjects(w http.ResponseWriter, objs ...apic.Object) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apic.NewResponse(objs...))
}

func newLoggedInClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		BaseURL:  server.URL,
		Username: "admin",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  ClientConfig{BaseURL: "https://apic1.example.com", Username: "admin"},
			wantErr: false,
		},
		{
			name:    "invalid config - missing base URL",
			config:  ClientConfig{Username: "admin"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewClient() expected error but got nil")
				}
			} else {
				if err != nil {
					t.Errorf("NewClient() unexpected error = %v", err)
				}
				if client == nil {
					t.Error("NewClient() returned nil client")
				}
			}
		})
	}
}

func TestClient_Login(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	t.Run("bad password", func(t *testing.T) {
		client, err := NewClient(ClientConfig{BaseURL: server.URL, Username: "admin", Password: "nope"})
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		err = client.Login(context.Background())
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Login() error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("request before login", func(t *testing.T) {
		client, err := NewClient(ClientConfig{BaseURL: server.URL, Username: "admin", Password: "secret"})
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		_, err = client.Tenants(context.Background())
		if !errors.Is(err, ErrNotLoggedIn) {
			t.Errorf("Tenants() error = %v, want ErrNotLoggedIn", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		client := newLoggedInClient(t, server)
		if got := client.getToken(); got != testToken {
			t.Errorf("token = %q, want %q", got, testToken)
		}
	})
}

func TestClient_Tenants(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/class/fvTenant.json" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeObjects(w,
			apic.NewObject(apic.ClassTenant, map[string]interface{}{apic.AttrName: "common"}),
			apic.NewObject(apic.ClassTenant, map[string]interface{}{apic.AttrName: "acme"}),
		)
	})
	client := newLoggedInClient(t, server)

	tenants, err := client.Tenants(context.Background())
	if err != nil {
		t.Fatalf("Tenants() error = %v", err)
	}
	if strings.Join(tenants, ",") != "common,acme" {
		t.Errorf("Tenants() = %v, want [common acme]", tenants)
	}
}

func TestClient_AppProfiles(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/mo/uni/tn-acme.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query-target") != "children" || q.Get("target-subtree-class") != "fvAp" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		writeObjects(w, apic.NewObject(apic.ClassAppProfile, map[string]interface{}{apic.AttrName: "shop"}))
	})
	client := newLoggedInClient(t, server)

	apps, err := client.AppProfiles(context.Background(), "acme")
	if err != nil {
		t.Fatalf("AppProfiles() error = %v", err)
	}
	if len(apps) != 1 || apps[0] != "shop" {
		t.Errorf("AppProfiles() = %v, want [shop]", apps)
	}
}

func TestClient_FetchTenant(t *testing.T) {
	tenant := apic.NewObject(apic.ClassTenant, map[string]interface{}{apic.AttrName: "acme", apic.AttrDn: "uni/tn-acme"})
	app := apic.NewObject(apic.ClassAppProfile, map[string]interface{}{apic.AttrName: "shop"})
	epg := apic.NewObject(apic.ClassEPG, map[string]interface{}{apic.AttrName: "web"})
	epg.AddChild(apic.NewObject(apic.ClassFolder, map[string]interface{}{
		apic.AttrName: "ext_premigration", apic.AttrKey: "InterfaceConfig",
	}))
	app.AddChild(epg)
	tenant.AddChild(app)

	tests := []struct {
		name    string
		objs    []apic.Object
		wantErr error
	}{
		{name: "found", objs: []apic.Object{tenant}},
		{name: "missing", objs: nil, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("query-target") != "self" ||
					q.Get("rsp-subtree") != "full" ||
					q.Get("rsp-subtree-class") != "fvAp,fvAEPg,vnsFolderInst,vnsParamInst,vnsCfgRelInst" ||
					q.Get("rsp-prop-include") != "config-only" {
					t.Errorf("query = %s", r.URL.RawQuery)
				}
				writeObjects(w, tt.objs...)
			})
			client := newLoggedInClient(t, server)

			got, err := client.FetchTenant(context.Background(), "acme")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FetchTenant() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchTenant() error = %v", err)
			}
			folder := got.AppProfile("shop").LiveEPGs()[0].Folder("ext_premigration")
			if folder == nil || !folder.IsBackup() {
				t.Errorf("FetchTenant() backup folder = %+v, want decoded backup", folder)
			}
		})
	}
}

func TestClient_ClusterAssociations(t *testing.T) {
	var gotPath string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if got := r.URL.Query().Get("target-subtree-class"); got != "vnsRsMDevAtt,vnsRsDevMgrToMDevMgr,vnsRsChassisToMChassis" {
			t.Errorf("target-subtree-class = %q", got)
		}
		writeObjects(w,
			apic.NewObject(apic.ClassRsMDevAtt, map[string]interface{}{
				apic.AttrDn:  "uni/tn-acme/lDevVip-FW1/rsmDevAtt",
				apic.AttrTDn: "uni/infra/mDev-PaloAltoNetworks-PANOS-1.2",
			}),
			apic.NewObject(apic.ClassRsChassisToMChassis, map[string]interface{}{
				apic.AttrDn:  "uni/tn-acme/chassis-CH1/rsChassisToMChassis",
				apic.AttrTDn: "uni/infra/mChassis-PaloAltoNetworks-Chassis-1.2",
			}),
		)
	})
	client := newLoggedInClient(t, server)

	records, err := client.ClusterAssociations(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ClusterAssociations() error = %v", err)
	}
	if gotPath != "/api/mo/uni/tn-acme.json" {
		t.Errorf("path = %s, want tenant scoped query", gotPath)
	}
	if len(records) != 2 {
		t.Fatalf("ClusterAssociations() returned %d records, want 2", len(records))
	}
	if records[0].Kind != models.KindDevicePackage || records[0].Owner != "FW1" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].Kind != models.KindChassis || records[1].Owner != "CH1" {
		t.Errorf("records[1] = %+v", records[1])
	}

	if _, err := client.ClusterAssociations(context.Background(), ""); err != nil {
		t.Fatalf("ClusterAssociations(\"\") error = %v", err)
	}
	if gotPath != "/api/mo/uni.json" {
		t.Errorf("path = %s, want fabric wide query", gotPath)
	}
}

func TestClient_Push(t *testing.T) {
	tests := []struct {
		name         string
		serverStatus int
		serverBody   string
		wantErr      bool
		wantUnauth   bool
	}{
		{
			name:         "accepted",
			serverStatus: http.StatusOK,
			serverBody:   `{"totalCount":"0","imdata":[]}`,
		},
		{
			name:         "rejected",
			serverStatus: http.StatusBadRequest,
			serverBody:   `{"totalCount":"1","imdata":[{"error":{"attributes":{"code":"103","text":"Property key of vnsFolderInst is invalid"}}}]}`,
			wantErr:      true,
		},
		{
			name:         "session expired",
			serverStatus: http.StatusForbidden,
			serverBody:   `{"totalCount":"1","imdata":[{"error":{"attributes":{"code":"403","text":"Token was invalid (Error: Token timeout)"}}}]}`,
			wantErr:      true,
			wantUnauth:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got apic.Object
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/mo/uni.json" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				data, _ := io.ReadAll(r.Body)
				if err := json.Unmarshal(data, &got); err != nil {
					t.Errorf("decode payload: %v", err)
				}
				w.WriteHeader(tt.serverStatus)
				w.Write([]byte(tt.serverBody))
			})
			client := newLoggedInClient(t, server)

			payload := apic.NewObject(apic.ClassTenant, map[string]interface{}{apic.AttrName: "acme"})
			err := client.Push(context.Background(), payload)

			if got.GetAttrStr(apic.AttrName) != "acme" {
				t.Errorf("server received %v", got)
			}
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Push() unexpected error = %v", err)
				}
				return
			}

			var pushErr *PushError
			if !errors.As(err, &pushErr) {
				t.Fatalf("Push() error = %v, want *PushError", err)
			}
			if pushErr.StatusCode != tt.serverStatus || pushErr.Body != tt.serverBody {
				t.Errorf("PushError = %+v", pushErr)
			}
			if !errors.Is(err, ErrRequestFailed) {
				t.Error("PushError should match ErrRequestFailed")
			}
			if errors.Is(err, ErrUnauthorized) != tt.wantUnauth {
				t.Errorf("errors.Is(err, ErrUnauthorized) = %v, want %v", !tt.wantUnauth, tt.wantUnauth)
			}
		})
	}
}

func TestClient_APIError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"totalCount":"1","imdata":[{"error":{"attributes":{"code":"122","text":"unknown managed object class"}}}]}`))
	})
	client := newLoggedInClient(t, server)

	_, err := client.Tenants(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Tenants() error = %v, want *APIError", err)
	}
	if apiErr.Code != "122" || apiErr.Text != "unknown managed object class" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Error("APIError should match ErrRequestFailed")
	}
}

func TestClient_RateLimit(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeObjects(w)
	})
	client, err := NewClient(ClientConfig{
		BaseURL:           server.URL,
		Username:          "admin",
		Password:          "secret",
		RequestsPerSecond: 20,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Login used the burst; three more requests wait at least ~100ms.
	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.Tenants(context.Background()); err != nil {
			t.Fatalf("Tenants() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("3 paced requests took %v, want >= 100ms", elapsed)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeObjects(w)
	})
	client := newLoggedInClient(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Tenants(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Tenants() error = %v, want context.Canceled", err)
	}
}
