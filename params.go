package wyvern

import "strconv"

// Params is the ordered name-to-value mapping populated by the router when
// a route pattern with placeholders matches a request path. It is empty
// for routes with no placeholders.
type Params struct {
	values map[string]string
	order  []string
}

// NewParams returns an empty Params container.
func NewParams() *Params {
	return &Params{values: map[string]string{}}
}

func (p *Params) set(name, value string) {
	if _, ok := p.values[name]; !ok {
		p.order = append(p.order, name)
	}
	p.values[name] = value
}

// Get returns the captured value for name, and whether name was captured at
// all.
func (p *Params) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Each calls fn once per captured param, in capture order.
func (p *Params) Each(fn func(name, value string)) {
	for _, name := range p.order {
		fn(name, p.values[name])
	}
}

// Map returns a plain map snapshot of the captured params, used by the
// binder to project Params into an arbitrary struct type.
func (p *Params) Map() map[string]string {
	m := make(map[string]string, len(p.values))
	for k, v := range p.values {
		m[k] = v
	}
	return m
}

// String returns the captured value for name. Missing keys yield
// NotFoundError.
func (p *Params) String(name string) (string, error) {
	v, ok := p.Get(name)
	if !ok {
		return "", &NotFoundError{What: "route param " + name}
	}
	return v, nil
}

// Int parses the captured value for name as an int64. Missing keys yield
// NotFoundError; unparsable values yield ParseError.
func (p *Params) Int(name string) (int64, error) {
	v, ok := p.Get(name)
	if !ok {
		return 0, &NotFoundError{What: "route param " + name}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &ParseError{Field: name, Err: err}
	}
	return n, nil
}

// Uint parses the captured value for name as a uint64. Missing keys yield
// NotFoundError; unparsable values yield ParseError.
func (p *Params) Uint(name string) (uint64, error) {
	v, ok := p.Get(name)
	if !ok {
		return 0, &NotFoundError{What: "route param " + name}
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, &ParseError{Field: name, Err: err}
	}
	return n, nil
}

// Float parses the captured value for name as a float64. Missing keys yield
// NotFoundError; unparsable values yield ParseError.
func (p *Params) Float(name string) (float64, error) {
	v, ok := p.Get(name)
	if !ok {
		return 0, &NotFoundError{What: "route param " + name}
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ParseError{Field: name, Err: err}
	}
	return n, nil
}

// Bool parses the captured value for name as a bool, using the same token
// mapping as Query.Bool.
func (p *Params) Bool(name string) (bool, error) {
	v, ok := p.Get(name)
	if !ok {
		return false, &NotFoundError{What: "route param " + name}
	}
	return parseBoolToken(v, name)
}
