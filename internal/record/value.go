package record

import (
	"encoding/json"
	"strings"
)

type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindScalar
	kindList
)

// ListSeparator joins list values when a Value is rendered as a single string.
const ListSeparator = ", "

// Value is a field value: absent, a scalar string, or an ordered list of strings.
// The zero Value is absent.
type Value struct {
	kind   valueKind
	scalar string
	list   []string
}

// Absent returns the explicit absent value.
func Absent() Value { return Value{} }

// Scalar returns a scalar value.
func Scalar(s string) Value { return Value{kind: kindScalar, scalar: s} }

// List returns a list value. The slice is copied.
func List(items ...string) Value {
	return Value{kind: kindList, list: append([]string{}, items...)}
}

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.kind == kindAbsent }

// IsList reports whether the value is a list.
func (v Value) IsList() bool { return v.kind == kindList }

// IsEmpty reports whether the value carries no data: absent, an empty scalar,
// or a list without non-empty items.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case kindScalar:
		return v.scalar == ""
	case kindList:
		for _, s := range v.list {
			if s != "" {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Items returns a copy of the list items, or the scalar as a one-element slice.
// Absent values yield nil.
func (v Value) Items() []string {
	switch v.kind {
	case kindScalar:
		return []string{v.scalar}
	case kindList:
		return append([]string{}, v.list...)
	default:
		return nil
	}
}

// String renders the value for flat outputs. Lists are joined with ListSeparator,
// absent values render as "".
func (v Value) String() string {
	switch v.kind {
	case kindScalar:
		return v.scalar
	case kindList:
		return strings.Join(v.list, ListSeparator)
	default:
		return ""
	}
}

// MarshalJSON renders absent as null, scalars as strings and lists as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindScalar:
		return json.Marshal(v.scalar)
	case kindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}
