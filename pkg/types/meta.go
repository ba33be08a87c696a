package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Meta is an ordered, string-keyed map of JSON-compatible values. The engine
// stores it verbatim and reads only its own engine-owned keys; all other
// semantics belong to callers. Top-level key order is preserved across a
// marshal/unmarshal round trip. Nested objects decode as plain maps.
//
// The zero value is an empty, usable Meta.
type Meta struct {
	keys   []string
	values map[string]any
}

// NewMeta returns an empty Meta.
func NewMeta() Meta {
	return Meta{}
}

// Get returns the value stored under key and whether it was present.
func (m Meta) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Bool returns true when key holds a JSON true value.
func (m Meta) Bool(key string) bool {
	v, ok := m.values[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// String returns the string stored under key, or "" when absent or not a
// string.
func (m Meta) String(key string) string {
	v, ok := m.values[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Set stores value under key, appending the key to the order on first use.
func (m *Meta) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key and its order entry. Deleting an absent key is a no-op.
func (m *Meta) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m Meta) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m Meta) Len() int {
	return len(m.keys)
}

// Clone returns a shallow copy with an independent key order and value map.
func (m Meta) Clone() Meta {
	out := Meta{}
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// Equal reports whether two Meta values marshal to identical JSON, which
// covers both content and top-level key order.
func (m Meta) Equal(other Meta) bool {
	a, err := m.MarshalJSON()
	if err != nil {
		return false
	}
	b, err := other.MarshalJSON()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m Meta) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("meta key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, recording top-level keys in document
// order. JSON null decodes to an empty Meta.
func (m *Meta) UnmarshalJSON(data []byte) error {
	*m = Meta{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("meta: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("meta: expected object key, got %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("meta key %q: %w", key, err)
		}
		m.Set(key, value)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
