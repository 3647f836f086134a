package animcore

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Properties is an unordered set of property names to values, used to tag Joints (i.e. "ik_target", "twist") or to carry
// data exported along with them.
type Properties struct {
	props map[string]*Property
}

// NewProperties returns a new, empty Properties object.
func NewProperties() *Properties {
	return &Properties{map[string]*Property{}}
}

// Clone returns a copy of the Properties object. Values are copied shallowly.
func (props *Properties) Clone() *Properties {
	newProps := NewProperties()
	for k, v := range props.props {
		newProps.Get(k).Set(v.Value)
	}
	return newProps
}

// Clear removes all properties.
func (props *Properties) Clear() {
	props.props = map[string]*Property{}
}

// Remove removes the property with the given name.
func (props *Properties) Remove(propName string) {
	delete(props.props, propName)
}

// Has returns true if the Properties object has properties by all of the names specified, and false otherwise.
func (props *Properties) Has(propNames ...string) bool {
	for _, name := range propNames {
		if _, exists := props.props[name]; !exists {
			return false
		}
	}
	return true
}

// Get returns the property with the given name. If it doesn't exist yet, an empty Property is created and returned.
func (props *Properties) Get(propName string) *Property {
	if _, ok := props.props[propName]; !ok {
		props.props[propName] = &Property{}
	}
	return props.props[propName]
}

// Lookup returns the property with the given name and true, or nil and false if it doesn't exist. Unlike Get, Lookup
// never creates a property.
func (props *Properties) Lookup(propName string) (*Property, bool) {
	prop, ok := props.props[propName]
	return prop, ok
}

// Names returns the property names in sorted order.
func (props *Properties) Names() []string {
	names := make([]string, 0, len(props.props))
	for name := range props.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of properties.
func (props *Properties) Len() int {
	return len(props.props)
}

// Property is a single named value in a Properties object.
type Property struct {
	Value any
}

// Set sets the property's value.
func (prop *Property) Set(value any) {
	prop.Value = value
}

// IsBool returns true if the Property is a boolean value.
func (prop *Property) IsBool() bool {
	_, ok := prop.Value.(bool)
	return ok
}

// AsBool returns the value associated with the Property as a bool.
// Note that this does not sanity check to ensure the Property is a bool first.
func (prop *Property) AsBool() bool {
	return prop.Value.(bool)
}

// IsString returns true if the Property is a string.
func (prop *Property) IsString() bool {
	_, ok := prop.Value.(string)
	return ok
}

// AsString returns the value associated with the Property as a string.
// Note that this does not sanity check to ensure the Property is a string first.
func (prop *Property) AsString() string {
	return prop.Value.(string)
}

// IsFloat64 returns true if the Property is a float64. Numbers decoded from JSON (i.e. glTF extras) are float64s.
func (prop *Property) IsFloat64() bool {
	_, ok := prop.Value.(float64)
	return ok
}

// AsFloat64 returns the value associated with the Property as a float64.
// Note that this does not sanity check to ensure the Property is a float64 first.
func (prop *Property) AsFloat64() float64 {
	return prop.Value.(float64)
}

// IsInt returns true if the Property is an int.
func (prop *Property) IsInt() bool {
	_, ok := prop.Value.(int)
	return ok
}

// AsInt returns the value associated with the Property as an int.
// Note that this does not sanity check to ensure the Property is an int first.
func (prop *Property) AsInt() int {
	return prop.Value.(int)
}

// IsVec3 returns true if the Property is a 3D vector.
func (prop *Property) IsVec3() bool {
	_, ok := prop.Value.(mgl64.Vec3)
	return ok
}

// AsVec3 returns the value associated with the Property as a 3D vector.
// Note that this does not sanity check to ensure the Property is a vector first.
func (prop *Property) AsVec3() mgl64.Vec3 {
	return prop.Value.(mgl64.Vec3)
}
