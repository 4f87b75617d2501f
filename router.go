package wyvern

import "strings"

// Handler processes a decoded Request against a fresh Response and returns
// the Response to send (or one built anew), or an error which the
// dispatcher renders as an internal error.
type Handler func(*Request, *Response) (*Response, error)

// segmentKind discriminates a single path-pattern segment.
type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentParam
	segmentWildcard
)

type segment struct {
	kind  segmentKind
	value string // literal text, or the placeholder name
}

// route is a (method, pattern) pair owning a handler, stored under its
// normalized segment form.
type route struct {
	method   string
	pattern  string
	segments []segment
	handler  Handler
}

// precedenceClass returns the route's matching precedence: lower sorts
// first. Exact-literal patterns match before placeholder patterns, which
// match before wildcard patterns.
func (rt *route) precedenceClass() int {
	class := 0
	for _, s := range rt.segments {
		switch s.kind {
		case segmentWildcard:
			return 2
		case segmentParam:
			class = 1
		}
	}
	return class
}

// router is the registry of all registered routes, bucketed per HTTP
// method and scanned in precedence-class order, then in registration
// order within a class. This is a flat table rather than a compressed
// trie: it makes the exact precedence and first-registration-wins rules
// spec.md demands for route resolution directly verifiable, at the cost
// of O(routes) lookup instead of O(path length).
type router struct {
	routesByMethod map[string][]*route
}

// newRouter returns an empty router.
func newRouter() *router {
	return &router{routesByMethod: map[string][]*route{}}
}

// add registers a new route for method and pattern with handler h. It
// panics on a malformed pattern or an ambiguous duplicate, mirroring the
// construction-time validation of the framework's route table.
func (rt *router) add(method, pattern string, h Handler) {
	if pattern == "" {
		panic("wyvern: route pattern cannot be empty")
	}
	if pattern[0] != '/' {
		panic("wyvern: route pattern must start with /")
	}
	if pattern != "/" && strings.HasSuffix(pattern, "/") {
		panic("wyvern: route pattern cannot end with /, except the root path")
	}
	if strings.Contains(pattern, "//") {
		panic("wyvern: route pattern cannot contain //")
	}

	segs, err := parsePattern(pattern)
	if err != nil {
		panic("wyvern: " + err.Error())
	}

	for _, existing := range rt.routesByMethod[method] {
		if existing.pattern == pattern {
			panic("wyvern: route [" + method + " " + pattern + "] is already registered")
		}
	}

	rt.routesByMethod[method] = append(rt.routesByMethod[method], &route{
		method:   method,
		pattern:  pattern,
		segments: segs,
		handler:  h,
	})
}

// parsePattern splits pattern at "/" into literal, named-placeholder
// (":name"), or wildcard ("*" / ":name*") segments.
func parsePattern(pattern string) ([]segment, error) {
	parts := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	segs := make([]segment, 0, len(parts))
	names := map[string]bool{}

	for i, p := range parts {
		switch {
		case p == "*":
			if i != len(parts)-1 {
				return nil, errPatternMsg("* must be the last segment")
			}
			segs = append(segs, segment{kind: segmentWildcard, value: "*"})
		case strings.HasPrefix(p, ":") && strings.HasSuffix(p, "*"):
			name := p[1 : len(p)-1]
			if names[name] {
				return nil, errPatternMsg("duplicate param name " + name)
			}
			names[name] = true
			if i != len(parts)-1 {
				return nil, errPatternMsg("wildcard param must be the last segment")
			}
			segs = append(segs, segment{kind: segmentWildcard, value: name})
		case strings.HasPrefix(p, ":"):
			name := p[1:]
			if name == "" {
				return nil, errPatternMsg("empty param name")
			}
			if names[name] {
				return nil, errPatternMsg("duplicate param name " + name)
			}
			names[name] = true
			segs = append(segs, segment{kind: segmentParam, value: name})
		default:
			segs = append(segs, segment{kind: segmentLiteral, value: p})
		}
	}

	return segs, nil
}

type errPatternMsg string

func (e errPatternMsg) Error() string { return string(e) }

// match looks up a handler for method and path, returning the handler and
// captured params, or (nil, nil, false) if nothing matches. Candidates are
// tried in precedence-class order (static, param, wildcard) and, within a
// class, in registration order — the first match wins.
func (rt *router) match(method, path string) (Handler, *Params, bool) {
	candidates := rt.routesByMethod[method]
	if len(candidates) == 0 {
		return nil, nil, false
	}

	reqSegs := splitPath(path)

	for class := 0; class <= 2; class++ {
		for _, rte := range candidates {
			if rte.precedenceClass() != class {
				continue
			}
			if params, ok := matchSegments(rte.segments, reqSegs); ok {
				return rte.handler, params, true
			}
		}
	}

	return nil, nil, false
}

// hasAnyRoute reports whether any route at all is registered for path,
// regardless of method — used to distinguish 404 from 405.
func (rt *router) hasAnyRoute(path string) bool {
	reqSegs := splitPath(path)
	for _, candidates := range rt.routesByMethod {
		for _, rte := range candidates {
			if _, ok := matchSegments(rte.segments, reqSegs); ok {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchSegments(pattern []segment, req []string) (*Params, bool) {
	params := NewParams()

	i := 0
	for i < len(pattern) {
		seg := pattern[i]

		if seg.kind == segmentWildcard {
			rest := ""
			if i < len(req) {
				rest = strings.Join(req[i:], "/")
			}
			params.set(seg.value, rest)
			return params, true
		}

		if i >= len(req) {
			return nil, false
		}

		switch seg.kind {
		case segmentLiteral:
			if req[i] != seg.value {
				return nil, false
			}
		case segmentParam:
			params.set(seg.value, req[i])
		}

		i++
	}

	if i != len(req) {
		return nil, false
	}

	return params, true
}
