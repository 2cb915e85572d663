package sdk

import (
	"net/url"
	"strings"
)

// Query holds the APIC query options used by the client.
type Query struct {
	// Target is query-target: "self", "children" or "subtree".
	Target string

	// TargetClasses filters the returned objects (target-subtree-class).
	TargetClasses []string

	// Subtree is rsp-subtree: "no", "children" or "full".
	Subtree string

	// SubtreeClasses filters the subtree below each object (rsp-subtree-class).
	SubtreeClasses []string

	// ConfigOnly restricts attributes to configurable ones (rsp-prop-include=config-only).
	ConfigOnly bool
}

// Encode returns the query string, without the leading "?". Class lists are
// comma separated.
func (q Query) Encode() string {
	v := url.Values{}
	if q.Target != "" {
		v.Set("query-target", q.Target)
	}
	if len(q.TargetClasses) > 0 {
		v.Set("target-subtree-class", strings.Join(q.TargetClasses, ","))
	}
	if q.Subtree != "" {
		v.Set("rsp-subtree", q.Subtree)
	}
	if len(q.SubtreeClasses) > 0 {
		v.Set("rsp-subtree-class", strings.Join(q.SubtreeClasses, ","))
	}
	if q.ConfigOnly {
		v.Set("rsp-prop-include", "config-only")
	}
	return v.Encode()
}

// TenantDN returns the distinguished name of a tenant.
func TenantDN(tenant string) string {
	return "uni/tn-" + tenant
}

// moPath returns the REST path of a managed object with an optional query.
func moPath(dn string, q Query) string {
	path := "/api/mo/" + dn + ".json"
	if qs := q.Encode(); qs != "" {
		path += "?" + qs
	}
	return path
}

// classPath returns the REST path of a class query.
func classPath(class string) string {
	return "/api/class/" + class + ".json"
}
