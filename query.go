package wyvern

import (
	"net/url"
	"strconv"
)

// Query is a multi-valued query-string parameter container. Insertion
// order is preserved per key, and values are percent-decoded on parse.
type Query struct {
	values map[string][]string
	order  []string
	bare   map[string]bool // keys seen at least once as a bare flag (no "=")
}

// NewQuery returns an empty Query container.
func NewQuery() *Query {
	return &Query{values: map[string][]string{}, bare: map[string]bool{}}
}

// ParseQuery parses a raw query string (without the leading "?") into a
// Query container.
//
// A key present without "=" (a bare flag, e.g. "?debug") is recorded as an
// empty-string value and is truthy, per the framework's resolution of the
// query-flag Open Question.
func ParseQuery(raw string) *Query {
	q := NewQuery()
	if raw == "" {
		return q
	}

	for _, pair := range splitAmp(raw) {
		if pair == "" {
			continue
		}

		key, value, hasEq := cutFirst(pair, '=')
		key = queryUnescape(key)
		if hasEq {
			value = queryUnescape(value)
		} else {
			value = ""
			q.bare[key] = true
		}

		q.add(key, value)
	}

	return q
}

func (q *Query) add(key, value string) {
	if _, ok := q.values[key]; !ok {
		q.order = append(q.order, key)
	}
	q.values[key] = append(q.values[key], value)
}

// Get returns the first value associated with key, and whether key was
// present at all.
func (q *Query) Get(key string) (string, bool) {
	vs, ok := q.values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// GetAll returns every value associated with key, in arrival order.
func (q *Query) GetAll(key string) []string {
	return q.values[key]
}

// Has reports whether key was present in the query string at all (including
// as a bare flag).
func (q *Query) Has(key string) bool {
	_, ok := q.values[key]
	return ok
}

// Each calls fn once per key, in first-seen order, with every value
// associated with it.
func (q *Query) Each(fn func(key string, values []string)) {
	for _, key := range q.order {
		fn(key, q.values[key])
	}
}

// Int parses the first value for key as an int64.
func (q *Query) Int(key string) (int64, error) {
	v, ok := q.Get(key)
	if !ok {
		return 0, &NotFoundError{What: "query param " + key}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &ParseError{Field: key, Err: err}
	}
	return n, nil
}

// Uint parses the first value for key as a uint64.
func (q *Query) Uint(key string) (uint64, error) {
	v, ok := q.Get(key)
	if !ok {
		return 0, &NotFoundError{What: "query param " + key}
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, &ParseError{Field: key, Err: err}
	}
	return n, nil
}

// Float parses the first value for key as a float64.
func (q *Query) Float(key string) (float64, error) {
	v, ok := q.Get(key)
	if !ok {
		return 0, &NotFoundError{What: "query param " + key}
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ParseError{Field: key, Err: err}
	}
	return n, nil
}

// Bool parses the first value for key as a bool.
//
// {"true","1","yes","on"} map to true; {"false","0","no","off",""} map to
// false; any other token is a ParseError.
func (q *Query) Bool(key string) (bool, error) {
	v, ok := q.Get(key)
	if !ok {
		return false, &NotFoundError{What: "query param " + key}
	}
	return parseBoolToken(v, key)
}

// Truthy reports whether key is present and its first value is truthy, per
// the Bool mapping. A bare flag (no "=") is always truthy, regardless of
// the Bool mapping's usual empty-string-is-false rule.
func (q *Query) Truthy(key string) bool {
	if !q.Has(key) {
		return false
	}
	if q.bare[key] {
		return true
	}
	b, err := q.Bool(key)
	return err == nil && b
}

func parseBoolToken(v, field string) (bool, error) {
	switch v {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off", "":
		return false, nil
	default:
		return false, &ParseError{
			Field: field,
			Err:   errInvalidBoolToken(v),
		}
	}
}

type errInvalidBoolToken string

func (e errInvalidBoolToken) Error() string {
	return "invalid boolean token: " + string(e)
}

func splitAmp(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '&' || s[i] == ';' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func cutFirst(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func queryUnescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
