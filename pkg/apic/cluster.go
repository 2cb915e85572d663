package apic

import (
	"fmt"
	"strings"

	"github.com/yaroslav/dpmigrate/models"
)

// DecodeClusterAssociation reads a reference object returned by a subtree
// class query. The second result is false for classes that are not cluster
// associations.
//
// The owner name comes from the third element of the distinguished name,
// for example "FW1" in "uni/tn-T/lDevVip-FW1/rsmDevAtt".
func DecodeClusterAssociation(o Object) (models.ClusterAssociation, bool, error) {
	kind, ok := KindForClass(o.Class())
	if !ok {
		return models.ClusterAssociation{}, false, nil
	}

	dn := o.GetDn()
	parts := strings.Split(dn, "/")
	if len(parts) < 3 || parts[0] != "uni" || !strings.HasPrefix(parts[1], "tn-") {
		return models.ClusterAssociation{}, true, fmt.Errorf("%w: %s %q", models.ErrMalformedDN, o.Class(), dn)
	}
	prefix := associationClasses[kind].ownerPrefix
	if !strings.HasPrefix(parts[2], prefix) || len(parts[2]) == len(prefix) {
		return models.ClusterAssociation{}, true, fmt.Errorf("%w: %s %q has no %s owner", models.ErrMalformedDN, o.Class(), dn, OwnerClass(kind))
	}

	return models.ClusterAssociation{
		Kind:     kind,
		DN:       dn,
		Tenant:   strings.TrimPrefix(parts[1], "tn-"),
		Owner:    parts[2][len(prefix):],
		TargetDN: o.GetAttrStr(AttrTDn),
	}, true, nil
}

// DecodeClusterAssociations decodes every association in a query response,
// skipping objects of other classes.
func DecodeClusterAssociations(objs []Object) ([]models.ClusterAssociation, error) {
	var out []models.ClusterAssociation
	for _, o := range objs {
		a, ok, err := DecodeClusterAssociation(o)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// EncodeClusterAssociation renders an association as a fragment that can be
// attached under fvTenant:
//
//	{"vnsLDevVip": {"attributes": {"name": "FW1"},
//	  "children": [{"vnsRsMDevAtt": {"attributes": {"tDn": "..."}}}]}}
func EncodeClusterAssociation(a models.ClusterAssociation) Object {
	owner := NewObject(OwnerClass(a.Kind), map[string]interface{}{AttrName: a.Owner})
	owner.AddChild(NewObject(RelationClass(a.Kind), map[string]interface{}{AttrTDn: a.TargetDN}))
	return owner
}
