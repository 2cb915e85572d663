package models

// NodeState is the lifecycle state of a node in the configuration tree.
type NodeState int

const (
	// StateActive is a node that is part of the live configuration.
	StateActive NodeState = iota

	// StatePendingDelete is a node that will be removed by the next push.
	// It stays in the tree until then so the deletion is serialized.
	StatePendingDelete
)

// String returns the state name used in logs.
func (s NodeState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePendingDelete:
		return "pending-delete"
	default:
		return "unknown"
	}
}

// Attributes holds wire attributes that the tree does not model explicitly
// (for example "descr", "cardinality" or "locked"). They are carried through
// copies and written back unchanged.
type Attributes map[string]string

// Clone returns an independent copy of the attributes. A nil map stays nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// MarkDeleted flags the tenant for deletion on the next push.
func (t *Tenant) MarkDeleted() { t.State = StatePendingDelete }

// IsDeleted reports whether the tenant is pending deletion.
func (t *Tenant) IsDeleted() bool { return t.State == StatePendingDelete }

// MarkDeleted flags the application profile for deletion on the next push.
func (a *AppProfile) MarkDeleted() { a.State = StatePendingDelete }

// IsDeleted reports whether the application profile is pending deletion.
func (a *AppProfile) IsDeleted() bool { return a.State == StatePendingDelete }

// MarkDeleted flags the endpoint group for deletion on the next push.
func (e *EPG) MarkDeleted() { e.State = StatePendingDelete }

// IsDeleted reports whether the endpoint group is pending deletion.
func (e *EPG) IsDeleted() bool { return e.State == StatePendingDelete }

// MarkDeleted flags the folder for deletion on the next push. Its children
// go with it, so they are not marked individually.
func (f *Folder) MarkDeleted() { f.State = StatePendingDelete }

// IsDeleted reports whether the folder is pending deletion.
func (f *Folder) IsDeleted() bool { return f.State == StatePendingDelete }

// MarkDeleted flags the parameter for deletion on the next push.
func (p *Parameter) MarkDeleted() { p.State = StatePendingDelete }

// IsDeleted reports whether the parameter is pending deletion.
func (p *Parameter) IsDeleted() bool { return p.State == StatePendingDelete }

// MarkDeleted flags the relation for deletion on the next push.
func (r *Relation) MarkDeleted() { r.State = StatePendingDelete }

// IsDeleted reports whether the relation is pending deletion.
func (r *Relation) IsDeleted() bool { return r.State == StatePendingDelete }
