package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// PropertyKind discriminates the scalar kinds a property value can hold.
type PropertyKind int

const (
	KindString PropertyKind = iota
	KindNumber
	KindBool
)

// PropertyValue is a tagged scalar: string, number, or boolean.
type PropertyValue struct {
	Kind PropertyKind
	Str  string
	Num  float64
	Bool bool
}

// StringValue wraps a string in a PropertyValue.
func StringValue(s string) PropertyValue { return PropertyValue{Kind: KindString, Str: s} }

// NumberValue wraps a float64 in a PropertyValue.
func NumberValue(n float64) PropertyValue { return PropertyValue{Kind: KindNumber, Num: n} }

// BoolValue wraps a bool in a PropertyValue.
func BoolValue(b bool) PropertyValue { return PropertyValue{Kind: KindBool, Bool: b} }

// Number returns the numeric value, or false if the value is not a number.
func (v PropertyValue) Number() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// String renders the value for display.
func (v PropertyValue) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// MarshalJSON renders the underlying scalar, not the tag wrapper.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

// PropertyMap is an insertion-ordered mapping from property name to a
// tagged scalar value. Iteration order is the order keys were first set,
// which keeps popup rendering and ranking deterministic.
type PropertyMap struct {
	keys   []string
	values map[string]PropertyValue
}

// NewPropertyMap returns an empty PropertyMap.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{values: make(map[string]PropertyValue)}
}

// PropertiesFromRaw converts a raw JSON property object into a PropertyMap.
// Keys are inserted in sorted order since Go maps carry no ordering.
// Non-scalar values (arrays, nested objects) are stringified.
func PropertiesFromRaw(raw map[string]any) *PropertyMap {
	pm := NewPropertyMap()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch val := raw[k].(type) {
		case string:
			pm.Set(k, StringValue(val))
		case float64:
			pm.Set(k, NumberValue(val))
		case bool:
			pm.Set(k, BoolValue(val))
		case json.Number:
			if n, err := val.Float64(); err == nil {
				pm.Set(k, NumberValue(n))
			} else {
				pm.Set(k, StringValue(val.String()))
			}
		case nil:
			pm.Set(k, StringValue(""))
		default:
			pm.Set(k, StringValue(fmt.Sprintf("%v", val)))
		}
	}
	return pm
}

// Set stores a value, appending the key on first insertion.
func (m *PropertyMap) Set(key string, v PropertyValue) {
	if m.values == nil {
		m.values = make(map[string]PropertyValue)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value for key and whether it was present.
func (m *PropertyMap) Get(key string) (PropertyValue, bool) {
	if m == nil || m.values == nil {
		return PropertyValue{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *PropertyMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *PropertyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a deep copy preserving insertion order.
func (m *PropertyMap) Clone() *PropertyMap {
	out := NewPropertyMap()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// MarshalJSON emits a JSON object. Key order in the output follows
// encoding/json's map handling; ordering matters for iteration, not wire.
func (m *PropertyMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	plain := make(map[string]PropertyValue, len(m.keys))
	for _, k := range m.keys {
		plain[k] = m.values[k]
	}
	return json.Marshal(plain)
}
