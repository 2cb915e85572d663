package apicsim

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yaroslav/dpmigrate/pkg/apic"
)

var (
	// ErrUnknownClass indicates a posted object of a class the simulator
	// cannot name.
	ErrUnknownClass = errors.New("unknown class")

	// ErrMissingName indicates a posted object without its naming attribute.
	ErrMissingName = errors.New("missing naming property")

	// ErrParentNotFound indicates a post below an object that does not exist.
	ErrParentNotFound = errors.New("parent object not found")
)

// ClassUni is the class of the policy universe root.
const ClassUni = "polUni"

// fixedRn holds the relative names of singleton reference classes.
var fixedRn = map[string]string{
	apic.ClassRsMDevAtt:           "rsmDevAtt",
	apic.ClassRsDevMgrToMDevMgr:   "rsdevMgrToMDevMgr",
	apic.ClassRsChassisToMChassis: "rschassisToMChassis",
}

// namedRn holds the relative name prefix of classes named by "name".
var namedRn = map[string]string{
	apic.ClassTenant:     "tn-",
	apic.ClassAppProfile: "ap-",
	apic.ClassEPG:        "epg-",
	apic.ClassParameter:  "param-",
	apic.ClassRelation:   "CR-",
	apic.ClassLDevVip:    "lDevVip-",
	apic.ClassDevMgr:     "devMgr-",
	apic.ClassChassis:    "chassis-",
}

// rnFor derives an object's relative name from its class and naming
// attributes.
func rnFor(o apic.Object) (string, error) {
	class := o.Class()
	if rn, ok := fixedRn[class]; ok {
		return rn, nil
	}

	name := o.GetAttrStr(apic.AttrName)
	if class == apic.ClassFolder {
		if name == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingName, class)
		}
		return fmt.Sprintf("FI_C-%s-G-%s-F-%s-%s",
			o.GetAttrStr(apic.AttrCtrctNameOrLbl),
			o.GetAttrStr(apic.AttrGraphNameOrLbl),
			o.GetAttrStr(apic.AttrNodeNameOrLbl),
			name), nil
	}

	prefix, ok := namedRn[class]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	if name == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingName, class)
	}
	if err := apic.ValidateName(name); err != nil {
		return "", fmt.Errorf("%s: %w", class, err)
	}
	return prefix + name, nil
}

// node is one stored managed object. Children keep insertion order.
type node struct {
	class    string
	rn       string
	attrs    map[string]interface{}
	children []*node
}

func (n *node) child(rn string) (int, *node) {
	for i, c := range n.children {
		if c.rn == rn {
			return i, c
		}
	}
	return -1, nil
}

// Store is an in-memory management information tree rooted at "uni".
type Store struct {
	mu   sync.RWMutex
	root *node
}

// NewStore returns an empty tree.
func NewStore() *Store {
	return &Store{root: &node{class: ClassUni, rn: "uni", attrs: map[string]interface{}{}}}
}

// Apply merges o below the object at parentDN. Objects with status
// "deleted" are removed with their subtree. Nothing is changed when any
// object in the payload cannot be named.
func (s *Store) Apply(parentDN string, o apic.Object) error {
	if err := checkNames(o); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parent := s.find(parentDN)
	if parent == nil {
		return fmt.Errorf("%w: %s", ErrParentNotFound, parentDN)
	}
	merge(parent, o)
	return nil
}

func checkNames(o apic.Object) error {
	if _, err := rnFor(o); err != nil {
		return err
	}
	for _, c := range o.Children() {
		if err := checkNames(c); err != nil {
			return err
		}
	}
	return nil
}

func merge(parent *node, o apic.Object) {
	rn, _ := rnFor(o)
	i, existing := parent.child(rn)

	if o.IsDeleted() {
		if existing != nil {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
		}
		return
	}

	if existing == nil {
		existing = &node{class: o.Class(), rn: rn, attrs: map[string]interface{}{}}
		parent.children = append(parent.children, existing)
	}
	if body := o.Body(); body != nil {
		for k, v := range body.Attributes {
			switch k {
			case apic.AttrDn, apic.AttrRn, apic.AttrStatus:
				continue
			}
			existing.attrs[k] = v
		}
	}
	for _, c := range o.Children() {
		merge(existing, c)
	}
}

// find returns the node at dn or nil. Callers hold the lock.
func (s *Store) find(dn string) *node {
	parts := strings.Split(dn, "/")
	if len(parts) == 0 || parts[0] != s.root.rn {
		return nil
	}
	n := s.root
	for _, rn := range parts[1:] {
		if _, n = n.child(rn); n == nil {
			return nil
		}
	}
	return n
}

// Query describes a read. The zero value returns the object alone.
type Query struct {
	// Target is "self", "children" or "subtree".
	Target string

	// TargetClasses filters the returned objects.
	TargetClasses []string

	// Subtree is "no", "children" or "full".
	Subtree string

	// SubtreeClasses filters the objects nested under each result.
	SubtreeClasses []string
}

// Get runs q against the object at dn. A missing object yields no results.
func (s *Store) Get(dn string, q Query) []apic.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.find(dn)
	if n == nil {
		return nil
	}

	var out []apic.Object
	emit := func(n *node, dn string) {
		if classIn(n.class, q.TargetClasses) {
			out = append(out, render(n, dn, q))
		}
	}

	switch q.Target {
	case "children":
		for _, c := range n.children {
			emit(c, dn+"/"+c.rn)
		}
	case "subtree":
		walk(n, dn, emit)
	default:
		out = append(out, render(n, dn, q))
	}
	return out
}

// Class returns every object of class in the tree.
func (s *Store) Class(class string, q Query) []apic.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []apic.Object
	walk(s.root, s.root.rn, func(n *node, dn string) {
		if n.class == class {
			out = append(out, render(n, dn, q))
		}
	})
	return out
}

func walk(n *node, dn string, fn func(*node, string)) {
	fn(n, dn)
	for _, c := range n.children {
		walk(c, dn+"/"+c.rn, fn)
	}
}

func render(n *node, dn string, q Query) apic.Object {
	attrs := make(map[string]interface{}, len(n.attrs)+1)
	for k, v := range n.attrs {
		attrs[k] = v
	}
	attrs[apic.AttrDn] = dn
	o := apic.NewObject(n.class, attrs)

	switch q.Subtree {
	case "children":
		for _, c := range n.children {
			if classIn(c.class, q.SubtreeClasses) {
				o.AddChild(render(c, dn+"/"+c.rn, Query{}))
			}
		}
	case "full":
		for _, c := range n.children {
			if classIn(c.class, q.SubtreeClasses) {
				o.AddChild(render(c, dn+"/"+c.rn, Query{Subtree: "full", SubtreeClasses: q.SubtreeClasses}))
			}
		}
	}
	return o
}

func classIn(class string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == class {
			return true
		}
	}
	return false
}
