package models

// Tenant is the root of a fetched configuration tree.
type Tenant struct {
	// State is the node's lifecycle state.
	State NodeState

	// Name is the tenant name (the "tn-" part of its distinguished name).
	Name string

	// Attrs holds unmodelled wire attributes.
	Attrs Attributes

	// AppProfiles are the tenant's application profiles in wire order.
	AppProfiles []*AppProfile
}

// NewTenant returns an empty active tenant.
func NewTenant(name string) *Tenant {
	return &Tenant{Name: name}
}

// AddAppProfile attaches an application profile to the tenant.
func (t *Tenant) AddAppProfile(app *AppProfile) {
	app.parent = t
	t.AppProfiles = append(t.AppProfiles, app)
}

// AppProfile returns the live application profile with the given name, or nil.
func (t *Tenant) AppProfile(name string) *AppProfile {
	for _, app := range t.AppProfiles {
		if !app.IsDeleted() && app.Name == name {
			return app
		}
	}
	return nil
}

// AppProfileNames lists the names of all live application profiles.
func (t *Tenant) AppProfileNames() []string {
	names := make([]string, 0, len(t.AppProfiles))
	for _, app := range t.AppProfiles {
		if !app.IsDeleted() {
			names = append(names, app.Name)
		}
	}
	return names
}

// DeepCopy returns an independent copy of the whole tree.
func (t *Tenant) DeepCopy() *Tenant {
	out := &Tenant{
		State: t.State,
		Name:  t.Name,
		Attrs: t.Attrs.Clone(),
	}
	for _, app := range t.AppProfiles {
		out.AddAppProfile(app.DeepCopy())
	}
	return out
}

// AppProfile is an application profile inside a tenant.
type AppProfile struct {
	// State is the node's lifecycle state.
	State NodeState

	// Name is the application profile name.
	Name string

	// Attrs holds unmodelled wire attributes.
	Attrs Attributes

	// EPGs are the profile's endpoint groups in wire order.
	EPGs []*EPG

	parent *Tenant
}

// NewAppProfile returns an empty active application profile.
func NewAppProfile(name string) *AppProfile {
	return &AppProfile{Name: name}
}

// Parent returns the owning tenant, or nil for a detached profile.
func (a *AppProfile) Parent() *Tenant {
	return a.parent
}

// AddEPG attaches an endpoint group to the profile.
func (a *AppProfile) AddEPG(epg *EPG) {
	epg.parent = a
	a.EPGs = append(a.EPGs, epg)
}

// LiveEPGs returns the endpoint groups that are not pending deletion.
func (a *AppProfile) LiveEPGs() []*EPG {
	out := make([]*EPG, 0, len(a.EPGs))
	for _, epg := range a.EPGs {
		if !epg.IsDeleted() {
			out = append(out, epg)
		}
	}
	return out
}

// DeepCopy returns a detached copy of the profile and everything below it.
func (a *AppProfile) DeepCopy() *AppProfile {
	out := &AppProfile{
		State: a.State,
		Name:  a.Name,
		Attrs: a.Attrs.Clone(),
	}
	for _, epg := range a.EPGs {
		out.AddEPG(epg.DeepCopy())
	}
	return out
}

// EPG is an endpoint group. Device-package folders hang directly off it.
type EPG struct {
	// State is the node's lifecycle state.
	State NodeState

	// Name is the endpoint group name.
	Name string

	// Attrs holds unmodelled wire attributes.
	Attrs Attributes

	// Folders are the top-level device folders in wire order.
	Folders []*Folder

	parent *AppProfile
}

// NewEPG returns an empty active endpoint group.
func NewEPG(name string) *EPG {
	return &EPG{Name: name}
}

// Parent returns the owning application profile, or nil for a detached EPG.
func (e *EPG) Parent() *AppProfile {
	return e.parent
}

// AddFolder attaches a top-level folder to the endpoint group.
func (e *EPG) AddFolder(f *Folder) {
	f.parent = e
	f.parentFolder = nil
	e.Folders = append(e.Folders, f)
}

// RemoveFolder unlinks f from the endpoint group. Unlike MarkDeleted, a
// removed folder is no longer serialized.
func (e *EPG) RemoveFolder(f *Folder) bool {
	for i, child := range e.Folders {
		if child == f {
			e.Folders = append(e.Folders[:i], e.Folders[i+1:]...)
			f.parent = nil
			return true
		}
	}
	return false
}

// LiveFolders returns the top-level folders that are not pending deletion.
// The returned slice is fresh, so callers may add folders while ranging.
func (e *EPG) LiveFolders() []*Folder {
	return liveFolders(e.Folders, nil)
}

// FoldersWithKey returns the live top-level folders whose key is one of keys.
func (e *EPG) FoldersWithKey(keys ...string) []*Folder {
	return liveFolders(e.Folders, keys)
}

// Folder returns the live top-level folder with the given name, or nil.
func (e *EPG) Folder(name string) *Folder {
	for _, f := range e.Folders {
		if !f.IsDeleted() && f.Name == name {
			return f
		}
	}
	return nil
}

// DeepCopy returns a detached copy of the endpoint group and its folders.
func (e *EPG) DeepCopy() *EPG {
	out := &EPG{
		State: e.State,
		Name:  e.Name,
		Attrs: e.Attrs.Clone(),
	}
	for _, f := range e.Folders {
		out.AddFolder(f.DeepCopy())
	}
	return out
}
