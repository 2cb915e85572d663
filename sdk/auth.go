package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yaroslav/dpmigrate/pkg/apic"
)

// CookieToken is the cookie carrying the APIC session token.
const CookieToken = "APIC-cookie"

// Login authenticates with aaaLogin and keeps the session token for later
// requests. It returns ErrUnauthorized when the APIC rejects the credentials.
func (c *Client) Login(ctx context.Context) error {
	user := apic.NewObject(apic.ClassAaaUser, map[string]interface{}{
		apic.AttrName: c.Username,
		apic.AttrPwd:  c.password,
	})

	var resp apic.Response
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/aaaLogin.json", user, &resp, false); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	for _, o := range resp.Imdata {
		if o.Class() == apic.ClassAaaLogin {
			if token := o.GetAttrStr(apic.AttrToken); token != "" {
				c.setToken(token)
				return nil
			}
		}
	}
	return fmt.Errorf("failed to log in: %w: no token in response", ErrUnauthorized)
}

// addAuthCookie adds the session cookie to the request.
// Returns ErrNotLoggedIn if there is no session yet.
func (c *Client) addAuthCookie(req *http.Request) error {
	token := c.getToken()
	if token == "" {
		return ErrNotLoggedIn
	}
	req.AddCookie(&http.Cookie{Name: CookieToken, Value: token})
	return nil
}

func (c *Client) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}
