package apic

import (
	"fmt"
	"strings"

	"github.com/yaroslav/dpmigrate/models"
)

// EncodeTenant serializes a configuration tree into a tenant object ready to
// be posted to /api/mo/uni.json.
//
// Nodes pending deletion are written with their naming attributes and
// status "deleted" and without children, so the controller removes the whole
// subtree. Unmodelled attributes are written back for live nodes only.
func EncodeTenant(t *models.Tenant) Object {
	o := nodeObject(ClassTenant, t.State, t.Attrs, AttrName, t.Name)
	if t.IsDeleted() {
		return o
	}
	for _, app := range t.AppProfiles {
		o.AddChild(encodeAppProfile(app))
	}
	return o
}

func encodeAppProfile(app *models.AppProfile) Object {
	o := nodeObject(ClassAppProfile, app.State, app.Attrs, AttrName, app.Name)
	if app.IsDeleted() {
		return o
	}
	for _, epg := range app.EPGs {
		o.AddChild(encodeEPG(epg))
	}
	return o
}

func encodeEPG(epg *models.EPG) Object {
	o := nodeObject(ClassEPG, epg.State, epg.Attrs, AttrName, epg.Name)
	if epg.IsDeleted() {
		return o
	}
	for _, f := range epg.Folders {
		o.AddChild(EncodeFolder(f))
	}
	return o
}

// EncodeFolder serializes a folder and its subtree.
func EncodeFolder(f *models.Folder) Object {
	o := nodeObject(ClassFolder, f.State, f.Attrs,
		AttrName, f.Name,
		AttrKey, f.Key,
		AttrCtrctNameOrLbl, f.CtrctNameOrLbl,
		AttrDevCtxLbl, f.DevCtxLbl,
		AttrGraphNameOrLbl, f.GraphNameOrLbl,
		AttrNodeNameOrLbl, f.NodeNameOrLbl,
		AttrScopedBy, f.ScopedBy,
	)
	if f.IsDeleted() {
		return o
	}
	for _, child := range f.Folders {
		o.AddChild(EncodeFolder(child))
	}
	for _, p := range f.Parameters {
		o.AddChild(nodeObject(ClassParameter, p.State, p.Attrs,
			AttrName, p.Name,
			AttrKey, p.Key,
			AttrValue, p.Value,
		))
	}
	for _, r := range f.Relations {
		o.AddChild(nodeObject(ClassRelation, r.State, r.Attrs,
			AttrName, r.Name,
			AttrKey, r.Key,
			AttrTargetName, r.TargetName,
		))
	}
	return o
}

// nodeObject builds an object from alternating attribute names and values.
func nodeObject(class string, state models.NodeState, extra models.Attributes, pairs ...string) Object {
	attrs := make(map[string]interface{}, len(extra)+len(pairs)/2+1)
	if state != models.StatePendingDelete {
		for k, v := range extra {
			attrs[k] = v
		}
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs[pairs[i]] = pairs[i+1]
	}
	if state == models.StatePendingDelete {
		attrs[AttrStatus] = StatusDeleted
	}
	return NewObject(class, attrs)
}

// DecodeTenant builds a configuration tree from a deep tenant fetch. Classes
// outside the tree are skipped along with their subtrees.
func DecodeTenant(o Object) (*models.Tenant, error) {
	if o.Class() != ClassTenant {
		return nil, fmt.Errorf("%w: expected %s, got %q", models.ErrMalformedObject, ClassTenant, o.Class())
	}
	name := o.GetAttrStr(AttrName)
	if name == "" {
		return nil, fmt.Errorf("%w: %s without name", models.ErrMalformedObject, ClassTenant)
	}

	t := models.NewTenant(name)
	t.State = decodeState(o)
	t.Attrs = extraAttrs(o, AttrName)

	for _, child := range o.Children() {
		if child.Class() != ClassAppProfile {
			continue
		}
		app, err := decodeAppProfile(child)
		if err != nil {
			return nil, fmt.Errorf("tenant %s: %w", name, err)
		}
		t.AddAppProfile(app)
	}
	return t, nil
}

func decodeAppProfile(o Object) (*models.AppProfile, error) {
	name := o.GetAttrStr(AttrName)
	if name == "" {
		return nil, fmt.Errorf("%w: %s without name", models.ErrMalformedObject, ClassAppProfile)
	}

	app := models.NewAppProfile(name)
	app.State = decodeState(o)
	app.Attrs = extraAttrs(o, AttrName)

	for _, child := range o.Children() {
		if child.Class() != ClassEPG {
			continue
		}
		epg, err := decodeEPG(child)
		if err != nil {
			return nil, fmt.Errorf("app profile %s: %w", name, err)
		}
		app.AddEPG(epg)
	}
	return app, nil
}

func decodeEPG(o Object) (*models.EPG, error) {
	name := o.GetAttrStr(AttrName)
	if name == "" {
		return nil, fmt.Errorf("%w: %s without name", models.ErrMalformedObject, ClassEPG)
	}

	epg := models.NewEPG(name)
	epg.State = decodeState(o)
	epg.Attrs = extraAttrs(o, AttrName)

	for _, child := range o.Children() {
		if child.Class() != ClassFolder {
			continue
		}
		f, err := DecodeFolder(child)
		if err != nil {
			return nil, fmt.Errorf("epg %s: %w", name, err)
		}
		epg.AddFolder(f)
	}
	return epg, nil
}

// DecodeFolder builds a folder subtree from a vnsFolderInst object. A name
// ending in the backup suffix marks the folder as a backup.
func DecodeFolder(o Object) (*models.Folder, error) {
	if o.Class() != ClassFolder {
		return nil, fmt.Errorf("%w: expected %s, got %q", models.ErrMalformedObject, ClassFolder, o.Class())
	}
	name := o.GetAttrStr(AttrName)
	if name == "" {
		return nil, fmt.Errorf("%w: %s without name", models.ErrMalformedObject, ClassFolder)
	}

	f := models.NewFolder(name, o.GetAttrStr(AttrKey))
	f.State = decodeState(o)
	f.CtrctNameOrLbl = o.GetAttrStr(AttrCtrctNameOrLbl)
	f.DevCtxLbl = o.GetAttrStr(AttrDevCtxLbl)
	f.GraphNameOrLbl = o.GetAttrStr(AttrGraphNameOrLbl)
	f.NodeNameOrLbl = o.GetAttrStr(AttrNodeNameOrLbl)
	f.ScopedBy = o.GetAttrStr(AttrScopedBy)
	f.Backup = strings.HasSuffix(name, models.BackupSuffix)
	f.Attrs = extraAttrs(o, AttrName, AttrKey, AttrCtrctNameOrLbl, AttrDevCtxLbl,
		AttrGraphNameOrLbl, AttrNodeNameOrLbl, AttrScopedBy)

	for _, child := range o.Children() {
		switch child.Class() {
		case ClassFolder:
			sub, err := DecodeFolder(child)
			if err != nil {
				return nil, fmt.Errorf("folder %s: %w", name, err)
			}
			f.AddFolder(sub)
		case ClassParameter:
			p := models.NewParameter(child.GetAttrStr(AttrName), child.GetAttrStr(AttrKey), child.GetAttrStr(AttrValue))
			p.State = decodeState(child)
			p.Attrs = extraAttrs(child, AttrName, AttrKey, AttrValue)
			f.AddParameter(p)
		case ClassRelation:
			r := models.NewRelation(child.GetAttrStr(AttrName), child.GetAttrStr(AttrKey), child.GetAttrStr(AttrTargetName))
			r.State = decodeState(child)
			r.Attrs = extraAttrs(child, AttrName, AttrKey, AttrTargetName)
			f.AddRelation(r)
		}
	}
	return f, nil
}

func decodeState(o Object) models.NodeState {
	if o.IsDeleted() {
		return models.StatePendingDelete
	}
	return models.StateActive
}

// extraAttrs collects every attribute that is neither modelled (named in
// known) nor controller bookkeeping. It returns nil when nothing is left.
func extraAttrs(o Object, known ...string) models.Attributes {
	body := o.Body()
	if body == nil {
		return nil
	}
	skip := make(map[string]bool, len(known))
	for _, k := range known {
		skip[k] = true
	}

	var out models.Attributes
	for k := range body.Attributes {
		if skip[k] || runtimeAttrs[k] {
			continue
		}
		if out == nil {
			out = make(models.Attributes)
		}
		out[k] = o.GetAttrStr(k)
	}
	return out
}
