package wyvern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterLiteralMatch(t *testing.T) {
	r := newRouter()
	r.add("GET", "/users", noopHandler)

	h, params, ok := r.match("GET", "/users")
	assert.True(t, ok)
	assert.NotNil(t, h)
	assert.Equal(t, 0, len(params.Map()))
}

func TestRouterParamMatch(t *testing.T) {
	r := newRouter()
	r.add("GET", "/users/:id", noopHandler)

	_, params, ok := r.match("GET", "/users/42")
	assert.True(t, ok)
	v, found := params.Get("id")
	assert.True(t, found)
	assert.Equal(t, "42", v)
}

func TestRouterWildcardMatch(t *testing.T) {
	r := newRouter()
	r.add("GET", "/files/*", noopHandler)

	_, params, ok := r.match("GET", "/files/a/b/c.txt")
	assert.True(t, ok)
	v, _ := params.Get("*")
	assert.Equal(t, "a/b/c.txt", v)
}

func TestRouterNamedWildcardMatch(t *testing.T) {
	r := newRouter()
	r.add("GET", "/files/:rest*", noopHandler)

	_, params, ok := r.match("GET", "/files/a/b/c.txt")
	assert.True(t, ok)
	v, _ := params.Get("rest")
	assert.Equal(t, "a/b/c.txt", v)
}

func TestRouterStaticBeatsParamBeatsWildcard(t *testing.T) {
	r := newRouter()

	var which string
	r.add("GET", "/users/:id", func(req *Request, res *Response) (*Response, error) {
		which = "param"
		return res, nil
	})
	r.add("GET", "/users/me", func(req *Request, res *Response) (*Response, error) {
		which = "static"
		return res, nil
	})
	r.add("GET", "/users/*", func(req *Request, res *Response) (*Response, error) {
		which = "wildcard"
		return res, nil
	})

	h, _, ok := r.match("GET", "/users/me")
	assert.True(t, ok)
	_, _ = h(nil, NewResponse())
	assert.Equal(t, "static", which)
}

func TestRouterFirstRegistrationWinsWithinClass(t *testing.T) {
	r := newRouter()

	var which string
	r.add("GET", "/a/:x", func(req *Request, res *Response) (*Response, error) {
		which = "first"
		return res, nil
	})
	r.add("GET", "/:y/b", func(req *Request, res *Response) (*Response, error) {
		which = "second"
		return res, nil
	})

	h, _, ok := r.match("GET", "/a/b")
	assert.True(t, ok)
	_, _ = h(nil, NewResponse())
	assert.Equal(t, "first", which)
}

func TestRouterNoMatch(t *testing.T) {
	r := newRouter()
	r.add("GET", "/users", noopHandler)

	_, _, ok := r.match("GET", "/other")
	assert.False(t, ok)

	_, _, ok = r.match("POST", "/users")
	assert.False(t, ok)
}

func TestRouterHasAnyRouteDistinguishesMethodFromPath(t *testing.T) {
	r := newRouter()
	r.add("POST", "/users", noopHandler)

	assert.True(t, r.hasAnyRoute("/users"))
	assert.False(t, r.hasAnyRoute("/other"))
}

func TestRouterAddPanicsOnDuplicate(t *testing.T) {
	r := newRouter()
	r.add("GET", "/users", noopHandler)

	assert.Panics(t, func() {
		r.add("GET", "/users", noopHandler)
	})
}

func TestRouterAddPanicsOnMalformedPattern(t *testing.T) {
	r := newRouter()

	assert.Panics(t, func() { r.add("GET", "users", noopHandler) })
	assert.Panics(t, func() { r.add("GET", "/users/", noopHandler) })
	assert.Panics(t, func() { r.add("GET", "/users//profile", noopHandler) })
}

func TestParsePatternRejectsWildcardNotLast(t *testing.T) {
	_, err := parsePattern("/*/users")
	assert.Error(t, err)
}

func TestParsePatternRejectsDuplicateParamName(t *testing.T) {
	_, err := parsePattern("/:id/sub/:id")
	assert.Error(t, err)
}
