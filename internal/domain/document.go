package domain

import (
	"sort"
	"time"
)

// Kind identifies the shape of a plist value.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindReal
	KindBoolean
	KindData
	KindDate
	KindArray
	KindDictionary
)

// String returns the plist type name as used in manifests and issue messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	case KindData:
		return "data"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindDictionary:
		return "dictionary"
	}
	return "unknown"
}

// Value is one node of a parsed profile: a tagged union over the plist
// scalar and container types. Immutable after construction.
type Value struct {
	Kind Kind

	Str   string
	Int   int64
	Real  float64
	Bool  bool
	Bytes []byte
	Time  time.Time

	Items []Value // KindArray

	// KindDictionary. Keys holds the deterministic iteration order.
	Keys []string
	Dict map[string]Value
}

func String(s string) Value   { return Value{Kind: KindString, Str: s} }
func Integer(i int64) Value   { return Value{Kind: KindInteger, Int: i} }
func Real(f float64) Value    { return Value{Kind: KindReal, Real: f} }
func Boolean(b bool) Value    { return Value{Kind: KindBoolean, Bool: b} }
func Data(b []byte) Value     { return Value{Kind: KindData, Bytes: b} }
func Date(t time.Time) Value  { return Value{Kind: KindDate, Time: t} }
func Array(vs ...Value) Value { return Value{Kind: KindArray, Items: vs} }

// Dict builds a dictionary value with keys sorted for deterministic
// iteration. Plist dictionaries are unordered; sorting makes validation
// output identical across runs.
func Dict(m map[string]Value) Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Value{Kind: KindDictionary, Keys: keys, Dict: m}
}

// Get looks up a key in a dictionary value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindDictionary {
		return Value{}, false
	}
	child, ok := v.Dict[key]
	return child, ok
}

// GetString returns the string under key, or "" if absent or not a string.
func (v Value) GetString(key string) string {
	child, ok := v.Get(key)
	if !ok || child.Kind != KindString {
		return ""
	}
	return child.Str
}

// IsNumeric reports whether the value carries an integer or real.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindReal
}

// Float returns the numeric value as a float64. Only meaningful for
// numeric kinds.
func (v Value) Float() float64 {
	if v.Kind == KindInteger {
		return float64(v.Int)
	}
	return v.Real
}

// Equal compares two values for enum-membership purposes. Scalars of the
// same kind compare by value; integers and reals compare numerically
// across kinds, matching plist semantics where 2 and 2.0 are the same
// allowed value. Containers never compare equal.
func (v Value) Equal(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		return v.Float() == o.Float()
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindBoolean:
		return v.Bool == o.Bool
	case KindDate:
		return v.Time.Equal(o.Time)
	}
	return false
}

// Display renders a scalar for issue expected/actual fields. Containers
// and data blobs render as a short description rather than their contents.
func (v Value) Display() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInteger:
		return v.Int
	case KindReal:
		return v.Real
	case KindBoolean:
		return v.Bool
	case KindDate:
		return v.Time.Format(time.RFC3339)
	case KindData:
		return "<data>"
	}
	return "<" + v.Kind.String() + ">"
}
