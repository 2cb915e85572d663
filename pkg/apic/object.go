// Package apic converts between the configuration tree in models and the JSON
// object format spoken by the APIC REST API.
package apic

import (
	"encoding/json"
	"fmt"
)

// Body holds an object's attributes and children.
type Body struct {
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Children   Slice                  `json:"children,omitempty"`
}

// Object is a single managed object keyed by its class name. A well formed
// object has exactly one key.
type Object map[string]*Body

// Slice is a list of objects, as found in children and imdata.
type Slice []Object

// Response is the envelope of every APIC query and push reply.
type Response struct {
	TotalCount interface{} `json:"totalCount"`
	Imdata     []Object    `json:"imdata"`
}

// NewObject returns an object of the given class with attrs.
func NewObject(class string, attrs map[string]interface{}) Object {
	if attrs == nil {
		attrs = make(map[string]interface{})
	}
	return Object{class: &Body{Attributes: attrs}}
}

// Class returns the object's class name, or "" for an empty object.
func (o Object) Class() string {
	for class := range o {
		return class
	}
	return ""
}

// Body returns the object's body, or nil for an empty object.
func (o Object) Body() *Body {
	for _, body := range o {
		return body
	}
	return nil
}

// GetDn returns the object's distinguished name.
func (o Object) GetDn() string {
	return o.GetAttrStr("dn")
}

// GetAttrStr returns the named attribute as a string, or "" when unset.
func (o Object) GetAttrStr(name string) string {
	body := o.Body()
	if body == nil || body.Attributes == nil {
		return ""
	}
	switch res := body.Attributes[name].(type) {
	case string:
		return res
	case nil:
		return ""
	default:
		return fmt.Sprint(res)
	}
}

// SetAttr sets the named attribute and returns o for chaining.
func (o Object) SetAttr(name string, value interface{}) Object {
	body := o.Body()
	if body == nil {
		return o
	}
	if body.Attributes == nil {
		body.Attributes = make(map[string]interface{})
	}
	body.Attributes[name] = value
	return o
}

// AddChild appends c to the object's children.
func (o Object) AddChild(c Object) {
	if body := o.Body(); body != nil {
		body.Children = append(body.Children, c)
	}
}

// Children returns the object's children.
func (o Object) Children() Slice {
	if body := o.Body(); body != nil {
		return body.Children
	}
	return nil
}

// IsDeleted reports whether the object is marked for deletion.
func (o Object) IsDeleted() bool {
	return o.GetAttrStr(AttrStatus) == StatusDeleted
}

// String renders the object as compact JSON.
func (o Object) String() string {
	data, err := json.Marshal(&o)
	if err != nil {
		return "[invalid]"
	}
	return string(data)
}

// Copy returns a deep copy of the object.
func (o Object) Copy() Object {
	res := make(Object)
	for class, body := range o {
		attrs := make(map[string]interface{}, len(body.Attributes))
		for k, v := range body.Attributes {
			attrs[k] = v
		}
		res[class] = &Body{
			Attributes: attrs,
			Children:   body.Children.Copy(),
		}
	}
	return res
}

// Copy returns a deep copy of every object in s.
func (s Slice) Copy() Slice {
	var result Slice
	for _, o := range s {
		result = append(result, o.Copy())
	}
	return result
}

// Walk calls fn for o and every descendant, depth first. Returning false from
// fn skips the object's children.
func (o Object) Walk(fn func(Object) bool) {
	if !fn(o) {
		return
	}
	for _, c := range o.Children() {
		c.Walk(fn)
	}
}

// Indent renders the object as indented JSON, the format printed by --debug.
func (o Object) Indent() (string, error) {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode object: %w", err)
	}
	return string(data), nil
}
