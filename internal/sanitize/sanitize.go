// Package sanitize parses an API response and strips fields that may echo
// credentials back to the caller.
package sanitize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SensitiveKeys are removed from the top level of every response object.
var SensitiveKeys = []string{"user", "password", "credentials"}

// ParseError reports malformed JSON with its position in the input.
type ParseError struct {
	Offset int64
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("JSON parse error on line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

type member struct {
	key   string
	value json.RawMessage
}

// Document is a parsed response. Top-level object members keep their
// original order and nested values are held verbatim.
type Document struct {
	members []member
	index   map[string]int  // key to position in members
	raw     json.RawMessage // set when the top-level value is not an object
}

// Sanitize parses raw as a single JSON document and removes SensitiveKeys
// from it if it is an object. Missing keys are not an error.
func Sanitize(raw []byte) (*Document, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	Strip(doc)
	return doc, nil
}

// Strip removes SensitiveKeys from doc in place.
func Strip(doc *Document) {
	for _, k := range SensitiveKeys {
		doc.Delete(k)
	}
}

// Parse parses raw without removing anything.
func Parse(raw []byte) (*Document, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, newParseError(raw, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &Document{raw: append(json.RawMessage(nil), trimmed...)}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return nil, newParseError(raw, err)
	}

	doc := &Document{members: []member{}, index: map[string]int{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, newParseError(raw, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &ParseError{Line: 1, Column: 1, Msg: "object key is not a string"}
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, newParseError(raw, err)
		}
		doc.set(key, value)
	}
	return doc, nil
}

// set replaces an existing member in place or appends a new one.
func (d *Document) set(key string, value json.RawMessage) {
	if i, ok := d.index[key]; ok {
		d.members[i].value = value
		return
	}
	d.index[key] = len(d.members)
	d.members = append(d.members, member{key: key, value: value})
}

// Delete removes key from a top-level object. It is a no-op for missing
// keys and for non-object documents.
func (d *Document) Delete(key string) {
	i, ok := d.index[key]
	if !ok {
		return
	}
	d.members = append(d.members[:i], d.members[i+1:]...)
	delete(d.index, key)
	for j := i; j < len(d.members); j++ {
		d.index[d.members[j].key] = j
	}
}

// IsObject reports whether the top-level value is a JSON object.
func (d *Document) IsObject() bool {
	return d.raw == nil
}

// Keys returns the top-level object keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.members))
	for _, m := range d.members {
		keys = append(keys, m.key)
	}
	return keys
}

// Has reports whether the top-level object contains key.
func (d *Document) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Get returns the raw value stored under key.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.members[i].value, true
}

// MarshalJSON renders the document compactly without HTML escaping.
func (d *Document) MarshalJSON() ([]byte, error) {
	if !d.IsObject() {
		var out bytes.Buffer
		if err := json.Compact(&out, d.raw); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}

	var out bytes.Buffer
	out.WriteByte('{')
	for i, m := range d.members {
		if i > 0 {
			out.WriteByte(',')
		}
		if err := writeKey(&out, m.key); err != nil {
			return nil, err
		}
		out.WriteByte(':')
		if err := json.Compact(&out, m.value); err != nil {
			return nil, err
		}
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

func writeKey(out *bytes.Buffer, key string) error {
	var kb bytes.Buffer
	enc := json.NewEncoder(&kb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return err
	}
	out.Write(bytes.TrimRight(kb.Bytes(), "\n"))
	return nil
}

func newParseError(raw []byte, err error) *ParseError {
	var offset int64
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	default:
		offset = int64(len(raw))
	}
	line, col := position(raw, offset)
	return &ParseError{Offset: offset, Line: line, Column: col, Msg: err.Error()}
}

// position converts a byte offset into a 1-based line and column.
func position(raw []byte, offset int64) (int, int) {
	if offset > int64(len(raw)) {
		offset = int64(len(raw))
	}
	line, col := 1, 1
	for _, c := range raw[:offset] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
