package wyvern

import "strings"

// MiddlewareKind distinguishes the Pre and Post middleware lists.
type MiddlewareKind int

const (
	// Pre middlewares run before routing and may short-circuit the
	// request.
	Pre MiddlewareKind = iota
	// Post middlewares run after the handler and may replace the
	// response, but cannot prevent later Post middlewares from running.
	Post
)

// PreFunc runs before routing. It returns the (possibly replaced) request
// and, if non-nil, a response that short-circuits the remaining Pre chain,
// the handler, and jumps straight to the Post chain.
type PreFunc func(*Request, *Response) (*Request, *Response)

// PostFunc runs after the handler. It returns, if non-nil, a response that
// replaces the current one; a nil return leaves the response unchanged.
type PostFunc func(*Request, *Response) *Response

// middlewareEntry is (kind, path_prefix, function). An empty or "/" prefix
// matches every path; otherwise the entry applies iff the request path
// starts with the prefix followed by end-of-path or "/".
type middlewareEntry struct {
	kind   MiddlewareKind
	prefix string
	pre    PreFunc
	post   PostFunc

	// tag optionally identifies the entry's origin (e.g. bodyLimitMarker),
	// letting callers like App.ApplyConfig find and replace a specific
	// previously-registered middleware without affecting others.
	tag interface{}
}

// matches reports whether the entry's path-prefix condition holds for
// path.
func (m *middlewareEntry) matches(path string) bool {
	if m.prefix == "" || m.prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, m.prefix) {
		return false
	}
	rest := path[len(m.prefix):]
	return rest == "" || rest[0] == '/'
}

// middlewareChain holds the Pre and Post entries of an App, in registration
// order.
type middlewareChain struct {
	pre  []*middlewareEntry
	post []*middlewareEntry
}

func (c *middlewareChain) addPre(prefix string, fn PreFunc) {
	c.pre = append(c.pre, &middlewareEntry{kind: Pre, prefix: prefix, pre: fn})
}

func (c *middlewareChain) addPreTagged(prefix string, fn PreFunc, tag interface{}) {
	c.pre = append(c.pre, &middlewareEntry{kind: Pre, prefix: prefix, pre: fn, tag: tag})
}

func (c *middlewareChain) addPost(prefix string, fn PostFunc) {
	c.post = append(c.post, &middlewareEntry{kind: Post, prefix: prefix, post: fn})
}

// runPre executes the Pre chain against path. It returns the (possibly
// replaced) request, a short-circuit response if one fired, and whether a
// short-circuit occurred at all.
func (c *middlewareChain) runPre(req *Request, path string) (*Request, *Response, bool) {
	for _, entry := range c.pre {
		if !entry.matches(path) {
			continue
		}

		newReq, shortCircuit := entry.pre(req, NewResponse())
		if newReq != nil {
			req = newReq
		}
		if shortCircuit != nil {
			return req, shortCircuit, true
		}
	}
	return req, nil, false
}

// runPost executes the Post chain against path, threading resp through
// every matching entry regardless of whether earlier entries replaced it.
func (c *middlewareChain) runPost(req *Request, resp *Response, path string) *Response {
	for _, entry := range c.post {
		if !entry.matches(path) {
			continue
		}
		if replaced := entry.post(req, resp); replaced != nil {
			resp = replaced
		}
	}
	return resp
}
