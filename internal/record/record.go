// Package record provides the sparse, ordered key/value record that both
// registry response shapes are normalized into.
package record

import (
	"bytes"
	"encoding/json"
)

// QueryKey is the field every record carries: the original lookup item.
const QueryKey = "query"

// Record is an ordered mapping from field name to Value. Keys keep their
// insertion order; setting an existing key replaces its value in place.
// The key set is not fixed: consumers derive their schema from the data.
type Record struct {
	keys   []string
	values map[string]Value
}

// New returns a record holding query under QueryKey.
func New(query string) *Record {
	r := &Record{values: make(map[string]Value)}
	r.Set(QueryKey, Scalar(query))
	return r
}

// Set stores v under key.
func (r *Record) Set(key string, v Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key and whether the key is present.
// A present key may still hold an absent value.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Query returns the original lookup item.
func (r *Record) Query() string {
	return r.values[QueryKey].String()
}

// Keys returns a copy of the keys in insertion order.
func (r *Record) Keys() []string {
	return append([]string{}, r.keys...)
}

// Len returns the number of keys.
func (r *Record) Len() int { return len(r.keys) }

// Each calls fn for every field in insertion order.
func (r *Record) Each(fn func(key string, v Value)) {
	for _, k := range r.keys {
		fn(k, r.values[k])
	}
}

// MarshalJSON renders the record as a JSON object with keys in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
