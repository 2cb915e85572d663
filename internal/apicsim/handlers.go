package apicsim

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yaroslav/dpmigrate/pkg/apic"
	"github.com/yaroslav/dpmigrate/pkg/token"
)

// respondError sends an APIC error document.
func respondError(c *gin.Context, status int, code, text string) {
	c.JSON(status, apic.NewError(code, text))
}

// mapErrorToResponse converts a store error to an APIC error document.
func mapErrorToResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownClass):
		respondError(c, http.StatusBadRequest, "122", err.Error())
	case errors.Is(err, ErrMissingName), errors.Is(err, apic.ErrInvalidName):
		respondError(c, http.StatusBadRequest, "103", err.Error())
	case errors.Is(err, ErrParentNotFound):
		respondError(c, http.StatusBadRequest, "102", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "500", "internal error")
	}
}

// login handles POST /api/aaaLogin.json.
func (s *Server) login(c *gin.Context) {
	var req apic.Object
	if err := c.ShouldBindJSON(&req); err != nil || req.Class() != apic.ClassAaaUser {
		respondError(c, http.StatusBadRequest, "400", "expected an aaaUser object")
		return
	}

	addr := c.ClientIP()
	if blocked, wait := s.throttle.Blocked(addr); blocked {
		retry := int(math.Ceil(wait.Seconds()))
		c.Header("Retry-After", strconv.Itoa(retry))
		respondError(c, http.StatusTooManyRequests, "429",
			fmt.Sprintf("too many failed logins, retry in %d seconds", retry))
		return
	}

	name := req.GetAttrStr(apic.AttrName)
	hash, ok := s.users[name]
	if !ok || !token.Validate(req.GetAttrStr(apic.AttrPwd), s.secret, hash) {
		s.throttle.Fail(addr)
		respondError(c, http.StatusUnauthorized, "401", "FAILED local authentication")
		return
	}

	tok, err := s.issuer.Issue(name)
	if err != nil {
		GetLogger(c).Error("failed to issue session", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "500", "internal error")
		return
	}

	c.SetCookie(CookieName, tok, 0, "/", "", false, true)
	c.Set(contextKeyUser, name)
	c.JSON(http.StatusOK, apic.NewResponse(apic.NewObject(apic.ClassAaaLogin, map[string]interface{}{
		apic.AttrToken:          tok,
		"userName":              name,
		"refreshTimeoutSeconds": "600",
	})))
}

// logout handles POST /api/aaaLogout.json.
func (s *Server) logout(c *gin.Context) {
	if cookie, err := c.Cookie(CookieName); err == nil {
		s.issuer.Revoke(cookie)
	}
	c.JSON(http.StatusOK, apic.NewResponse())
}

// getClass handles GET /api/class/<class>.json.
func (s *Server) getClass(c *gin.Context) {
	class := strings.TrimSuffix(c.Param("class"), ".json")
	c.JSON(http.StatusOK, apic.NewResponse(s.store.Class(class, queryFrom(c))...))
}

// getObject handles GET /api/mo/<dn>.json.
func (s *Server) getObject(c *gin.Context) {
	c.JSON(http.StatusOK, apic.NewResponse(s.store.Get(dnParam(c), queryFrom(c))...))
}

// postObject handles POST /api/mo/<dn>.json. Posting to uni merges the body
// below the root; posting to any other dn merges the body as that object.
func (s *Server) postObject(c *gin.Context) {
	var body apic.Object
	if err := c.ShouldBindJSON(&body); err != nil || len(body) != 1 {
		respondError(c, http.StatusBadRequest, "400", "malformed request body")
		return
	}

	if resp := s.takeReject(); resp != nil {
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	dn := dnParam(c)
	parent := dn
	if dn != "uni" {
		rn, err := rnFor(body)
		if err != nil {
			mapErrorToResponse(c, err)
			return
		}
		if parentDN(dn)+"/"+rn != dn {
			respondError(c, http.StatusBadRequest, "400", "object does not match "+dn)
			return
		}
		parent = parentDN(dn)
	}

	if err := s.store.Apply(parent, body); err != nil {
		GetLogger(c).Warn("rejected configuration", zap.Error(err))
		mapErrorToResponse(c, err)
		return
	}

	s.mu.Lock()
	s.pushes = append(s.pushes, body.Copy())
	s.mu.Unlock()

	c.JSON(http.StatusOK, apic.NewResponse())
}

func (s *Server) takeReject() *apic.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := s.reject
	s.reject = nil
	return resp
}

func dnParam(c *gin.Context) string {
	return strings.TrimSuffix(strings.TrimPrefix(c.Param("dn"), "/"), ".json")
}

func queryFrom(c *gin.Context) Query {
	return Query{
		Target:         c.Query("query-target"),
		TargetClasses:  splitClasses(c.Query("target-subtree-class")),
		Subtree:        c.Query("rsp-subtree"),
		SubtreeClasses: splitClasses(c.Query("rsp-subtree-class")),
	}
}

func splitClasses(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
