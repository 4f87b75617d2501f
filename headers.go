package wyvern

import "strings"

// Headers is a case-insensitive, multi-valued HTTP header container.
//
// Names are lower-cased on insertion and on lookup. Order of insertion is
// preserved, both across distinct header names and across repeated values
// for the same name, which matters for headers such as Set-Cookie where
// wire serialization must emit one line per value in arrival order.
type Headers struct {
	values map[string][]string
	order  []string
}

// NewHeaders returns an empty Headers container.
func NewHeaders() *Headers {
	return &Headers{values: map[string][]string{}}
}

func lowerHeader(key string) string {
	return strings.ToLower(key)
}

// Insert replaces all values associated with key with the single value.
//
// The key is case insensitive and will be canonicalized by
// strings.ToLower().
func (h *Headers) Insert(key, value string) {
	k := lowerHeader(key)
	if _, ok := h.values[k]; !ok {
		h.order = append(h.order, k)
	}
	h.values[k] = []string{value}
}

// Append appends value to the entries associated with key.
//
// The key is case insensitive and will be canonicalized by
// strings.ToLower().
func (h *Headers) Append(key, value string) {
	k := lowerHeader(key)
	if _, ok := h.values[k]; !ok {
		h.order = append(h.order, k)
	}
	h.values[k] = append(h.values[k], value)
}

// Get returns the first value associated with key, or "" if there is none.
func (h *Headers) Get(key string) string {
	vs := h.values[lowerHeader(key)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// GetAll returns every value associated with key, in arrival order.
func (h *Headers) GetAll(key string) []string {
	return h.values[lowerHeader(key)]
}

// Has reports whether key has at least one value.
func (h *Headers) Has(key string) bool {
	return len(h.values[lowerHeader(key)]) > 0
}

// Remove deletes every value associated with key.
func (h *Headers) Remove(key string) {
	k := lowerHeader(key)
	if _, ok := h.values[k]; !ok {
		return
	}
	delete(h.values, k)
	for i, n := range h.order {
		if n == k {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Each calls fn once per header name, in insertion order, with its first
// value.
func (h *Headers) Each(fn func(name, firstValue string)) {
	for _, name := range h.order {
		if vs := h.values[name]; len(vs) > 0 {
			fn(name, vs[0])
		}
	}
}

// EachAll calls fn once per header name, in insertion order, with every
// value associated with it.
func (h *Headers) EachAll(fn func(name string, allValues []string)) {
	for _, name := range h.order {
		fn(name, h.values[name])
	}
}

// Clone returns a deep copy of h. Extractors that hand out an owned Headers
// value (the Headers extractor) clone rather than alias the request's
// headers.
func (h *Headers) Clone() *Headers {
	c := NewHeaders()
	for _, name := range h.order {
		vs := h.values[name]
		cp := make([]string, len(vs))
		copy(cp, vs)
		c.values[name] = cp
		c.order = append(c.order, name)
	}
	return c
}

// ContentType returns the Content-Type header's first value.
func (h *Headers) ContentType() string { return h.Get("content-type") }

// Authorization returns the Authorization header's first value.
func (h *Headers) Authorization() string { return h.Get("authorization") }

// Host returns the Host header's first value.
func (h *Headers) Host() string { return h.Get("host") }

// UserAgent returns the User-Agent header's first value.
func (h *Headers) UserAgent() string { return h.Get("user-agent") }

// AcceptsJSON reports whether the Accept header mentions application/json
// or the wildcard */*, or is absent (the common default for API clients).
func (h *Headers) AcceptsJSON() bool {
	accept := h.Get("accept")
	return accept == "" ||
		strings.Contains(accept, "application/json") ||
		strings.Contains(accept, "*/*")
}
