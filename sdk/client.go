package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/apic"
)

// Client talks to one APIC over its REST API. Call Login before any other
// method.
type Client struct {
	// BaseURL is the APIC URL.
	BaseURL string

	// Username is the APIC login name.
	Username string

	// HTTPClient is the HTTP client used for requests.
	HTTPClient *http.Client

	password string
	limiter  *rate.Limiter

	// token is the session token (protected by mu).
	token string
	mu    sync.RWMutex
}

// NewClient creates a new APIC client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	// Validate and set defaults
	if err := config.Validate(); err != nil {
		return nil, err
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &Client{
		BaseURL:    config.BaseURL,
		Username:   config.Username,
		HTTPClient: config.HTTPClient,
		password:   config.Password,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// parseJSONResponse parses a JSON response body into the provided destination.
func (c *Client) parseJSONResponse(resp *http.Response, dest interface{}) error {
	defer drainAndCloseBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}

// parseErrorResponse turns a failed response into an *APIError when the body
// carries an APIC error object.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	status := resp.StatusCode
	var apiResp apic.Response
	if err := c.parseJSONResponse(resp, &apiResp); err != nil {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, status)
	}

	if code, text, ok := apic.ErrorDetail(apiResp); ok {
		return &APIError{StatusCode: status, Code: code, Text: text}
	}

	return fmt.Errorf("%w: status %d", ErrRequestFailed, status)
}

// doJSONRequest is a convenience method that performs a request with JSON body and parses the JSON response.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, reqBody, respBody interface{}, auth bool) error {
	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	resp, err := c.doRequest(ctx, method, path, body, auth)
	if err != nil {
		return err
	}

	// Check for success status codes
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseErrorResponse(resp)
	}

	// Parse response if a destination was provided
	if respBody != nil {
		return c.parseJSONResponse(resp, respBody)
	}

	// No response body expected, just close
	drainAndCloseBody(resp)
	return nil
}

// get performs an authenticated GET and returns the objects in imdata.
func (c *Client) get(ctx context.Context, path string) ([]apic.Object, error) {
	var resp apic.Response
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Imdata, nil
}

// names returns the name attribute of every object of class in objs.
func names(objs []apic.Object, class string) []string {
	var out []string
	for _, o := range objs {
		if o.Class() == class {
			out = append(out, o.GetAttrStr(apic.AttrName))
		}
	}
	return out
}

// Tenants lists the names of all tenants.
func (c *Client) Tenants(ctx context.Context) ([]string, error) {
	objs, err := c.get(ctx, classPath(apic.ClassTenant))
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return names(objs, apic.ClassTenant), nil
}

// AppProfiles lists the application profile names of a tenant.
func (c *Client) AppProfiles(ctx context.Context, tenant string) ([]string, error) {
	path := moPath(TenantDN(tenant), Query{
		Target:        "children",
		TargetClasses: []string{apic.ClassAppProfile},
	})
	objs, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list application profiles of %s: %w", tenant, err)
	}
	return names(objs, apic.ClassAppProfile), nil
}

// FetchTenant retrieves a tenant's configuration down to the device package
// folders, parameters and relations, and decodes it into a tree.
//
// Parameters:
//   - ctx: Request context for cancellation and timeouts
//   - tenant: The tenant name
//
// Returns:
//   - *models.Tenant: The decoded configuration tree
//   - error: ErrNotFound if the tenant does not exist, ErrUnauthorized if the
//     session expired, or a decoding error for an unexpected response
func (c *Client) FetchTenant(ctx context.Context, tenant string) (*models.Tenant, error) {
	path := moPath(TenantDN(tenant), Query{
		Target:         "self",
		Subtree:        "full",
		SubtreeClasses: apic.TreeClasses,
		ConfigOnly:     true,
	})
	objs, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tenant %s: %w", tenant, err)
	}

	for _, o := range objs {
		if o.Class() == apic.ClassTenant {
			t, err := apic.DecodeTenant(o)
			if err != nil {
				return nil, fmt.Errorf("failed to decode tenant %s: %w", tenant, err)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: tenant %s", ErrNotFound, tenant)
}

// ClusterAssociations queries the device package, device manager and
// chassis references below a tenant. An empty tenant queries the whole
// policy universe.
func (c *Client) ClusterAssociations(ctx context.Context, tenant string) ([]models.ClusterAssociation, error) {
	dn := "uni"
	if tenant != "" {
		dn = TenantDN(tenant)
	}
	objs, err := c.get(ctx, moPath(dn, Query{
		Target:        "subtree",
		TargetClasses: apic.AssociationClasses(),
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to query cluster associations: %w", err)
	}

	records, err := apic.DecodeClusterAssociations(objs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cluster associations: %w", err)
	}
	return records, nil
}

// Push posts a configuration payload to the policy universe.
//
// Parameters:
//   - ctx: Request context for cancellation and timeouts
//   - payload: The object to post, normally an fvTenant
//
// Returns:
//   - error: *PushError with the APIC's response body if the push was
//     rejected (an expired session included, whose PushError matches
//     ErrUnauthorized), ErrNotLoggedIn, or a network error
func (c *Client) Push(ctx context.Context, payload apic.Object) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	// The body of a rejected push is always returned, including for an
	// expired session, so the operator sees what the APIC said.
	resp, err := c.send(ctx, http.MethodPost, moPath("uni", Query{}), bytes.NewReader(data), true)
	if err != nil {
		return err
	}
	defer drainAndCloseBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &PushError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
