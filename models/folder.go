package models

import "strings"

// BackupSuffix is appended to the name and contract label of a folder backup.
// It is the only marker a backup carries on the wire.
const BackupSuffix = "_premigration"

// Folder is a device-package configuration folder (vnsFolderInst).
type Folder struct {
	// State is the node's lifecycle state.
	State NodeState

	// Name identifies the folder among its siblings.
	Name string

	// Key is the folder's semantic type in the device package schema
	// (for example "InterfaceConfig" or "Zone"). Rules match on Key, never Name.
	Key string

	// CtrctNameOrLbl is the contract name or label the folder is scoped to.
	CtrctNameOrLbl string

	// DevCtxLbl is the device context label.
	DevCtxLbl string

	// GraphNameOrLbl is the service graph name or label.
	GraphNameOrLbl string

	// NodeNameOrLbl is the service graph node name or label.
	NodeNameOrLbl string

	// ScopedBy names the attribute the folder is scoped by.
	ScopedBy string

	// Backup marks a pre-migration copy. Set by the codec when a fetched name
	// carries BackupSuffix and by the rename pass when it creates a backup.
	Backup bool

	// Attrs holds unmodelled wire attributes.
	Attrs Attributes

	// Folders are nested sub-folders in wire order.
	Folders []*Folder

	// Parameters are the folder's key/value leaves in wire order.
	Parameters []*Parameter

	// Relations are the folder's references to other folders in wire order.
	Relations []*Relation

	parent       *EPG
	parentFolder *Folder
}

// NewFolder returns an empty active folder.
func NewFolder(name, key string) *Folder {
	return &Folder{Name: name, Key: key}
}

// Parent returns the endpoint group that owns the folder, walking up through
// enclosing folders. It returns nil for a detached folder.
func (f *Folder) Parent() *EPG {
	for cur := f; cur != nil; cur = cur.parentFolder {
		if cur.parent != nil {
			return cur.parent
		}
	}
	return nil
}

// ParentFolder returns the enclosing folder, or nil for a top-level folder.
func (f *Folder) ParentFolder() *Folder {
	return f.parentFolder
}

// Path returns the slash separated folder names from the top-level folder
// down to f, each preceded by a slash.
func (f *Folder) Path() string {
	var parts []string
	for cur := f; cur != nil; cur = cur.parentFolder {
		parts = append(parts, cur.Name)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

// IsBackup reports whether the folder is a pre-migration backup.
func (f *Folder) IsBackup() bool {
	return f.Backup
}

// CopyScope copies the five schema scoping fields from src. Name and Key are
// left alone.
func (f *Folder) CopyScope(src *Folder) {
	f.CtrctNameOrLbl = src.CtrctNameOrLbl
	f.DevCtxLbl = src.DevCtxLbl
	f.GraphNameOrLbl = src.GraphNameOrLbl
	f.NodeNameOrLbl = src.NodeNameOrLbl
	f.ScopedBy = src.ScopedBy
}

// AddFolder attaches a nested folder.
func (f *Folder) AddFolder(child *Folder) {
	child.parent = nil
	child.parentFolder = f
	f.Folders = append(f.Folders, child)
}

// AddParameter attaches a parameter.
func (f *Folder) AddParameter(p *Parameter) {
	p.parent = f
	f.Parameters = append(f.Parameters, p)
}

// AddRelation attaches a relation.
func (f *Folder) AddRelation(r *Relation) {
	r.parent = f
	f.Relations = append(f.Relations, r)
}

// SubfoldersWithKey returns the live direct sub-folders whose key is one of
// keys. With no keys every live sub-folder is returned.
func (f *Folder) SubfoldersWithKey(keys ...string) []*Folder {
	return liveFolders(f.Folders, keys)
}

// ParametersWithKey returns the live parameters whose key is one of keys.
// With no keys every live parameter is returned.
func (f *Folder) ParametersWithKey(keys ...string) []*Parameter {
	out := make([]*Parameter, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		if !p.IsDeleted() && matchKey(p.Key, keys) {
			out = append(out, p)
		}
	}
	return out
}

// Parameter returns the live parameter with the given key, or nil.
func (f *Folder) Parameter(key string) *Parameter {
	for _, p := range f.Parameters {
		if !p.IsDeleted() && p.Key == key {
			return p
		}
	}
	return nil
}

// LiveRelations returns the relations that are not pending deletion.
func (f *Folder) LiveRelations() []*Relation {
	out := make([]*Relation, 0, len(f.Relations))
	for _, r := range f.Relations {
		if !r.IsDeleted() {
			out = append(out, r)
		}
	}
	return out
}

// DeepCopy returns a detached copy of the folder and everything below it,
// including state, backup flag and unmodelled attributes.
func (f *Folder) DeepCopy() *Folder {
	out := &Folder{
		State:          f.State,
		Name:           f.Name,
		Key:            f.Key,
		CtrctNameOrLbl: f.CtrctNameOrLbl,
		DevCtxLbl:      f.DevCtxLbl,
		GraphNameOrLbl: f.GraphNameOrLbl,
		NodeNameOrLbl:  f.NodeNameOrLbl,
		ScopedBy:       f.ScopedBy,
		Backup:         f.Backup,
		Attrs:          f.Attrs.Clone(),
	}
	for _, child := range f.Folders {
		out.AddFolder(child.DeepCopy())
	}
	for _, p := range f.Parameters {
		out.AddParameter(p.DeepCopy())
	}
	for _, r := range f.Relations {
		out.AddRelation(r.DeepCopy())
	}
	return out
}

// Parameter is a key/value leaf inside a folder (vnsParamInst).
type Parameter struct {
	// State is the node's lifecycle state.
	State NodeState

	// Name identifies the parameter among its siblings.
	Name string

	// Key is the parameter's semantic type in the device package schema.
	Key string

	// Value is the configured value.
	Value string

	// Attrs holds unmodelled wire attributes.
	Attrs Attributes

	parent *Folder
}

// NewParameter returns an active parameter.
func NewParameter(name, key, value string) *Parameter {
	return &Parameter{Name: name, Key: key, Value: value}
}

// Parent returns the owning folder, or nil for a detached parameter.
func (p *Parameter) Parent() *Folder {
	return p.parent
}

// DeepCopy returns a detached copy of the parameter.
func (p *Parameter) DeepCopy() *Parameter {
	return &Parameter{
		State: p.State,
		Name:  p.Name,
		Key:   p.Key,
		Value: p.Value,
		Attrs: p.Attrs.Clone(),
	}
}

// Relation is a named reference from a folder to another folder
// (vnsCfgRelInst).
type Relation struct {
	// State is the node's lifecycle state.
	State NodeState

	// Name identifies the relation among its siblings.
	Name string

	// Key is the relation's semantic type in the device package schema.
	Key string

	// TargetName is the name of the referenced folder.
	TargetName string

	// Attrs holds unmodelled wire attributes.
	Attrs Attributes

	parent *Folder
}

// NewRelation returns an active relation.
func NewRelation(name, key, targetName string) *Relation {
	return &Relation{Name: name, Key: key, TargetName: targetName}
}

// Parent returns the owning folder, or nil for a detached relation.
func (r *Relation) Parent() *Folder {
	return r.parent
}

// DeepCopy returns a detached copy of the relation.
func (r *Relation) DeepCopy() *Relation {
	return &Relation{
		State:      r.State,
		Name:       r.Name,
		Key:        r.Key,
		TargetName: r.TargetName,
		Attrs:      r.Attrs.Clone(),
	}
}

func liveFolders(folders []*Folder, keys []string) []*Folder {
	out := make([]*Folder, 0, len(folders))
	for _, f := range folders {
		if !f.IsDeleted() && matchKey(f.Key, keys) {
			out = append(out, f)
		}
	}
	return out
}

func matchKey(key string, keys []string) bool {
	if len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if key == k {
			return true
		}
	}
	return false
}
