package wyvern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddlewareEntryMatches(t *testing.T) {
	e := &middlewareEntry{prefix: "/api"}
	assert.True(t, e.matches("/api"))
	assert.True(t, e.matches("/api/users"))
	assert.False(t, e.matches("/apiextra"))
	assert.False(t, e.matches("/other"))
}

func TestMiddlewareEntryMatchesEverythingWithEmptyPrefix(t *testing.T) {
	e := &middlewareEntry{prefix: ""}
	assert.True(t, e.matches("/anything"))
}

func TestMiddlewareChainRunPreShortCircuits(t *testing.T) {
	c := &middlewareChain{}
	var secondRan bool
	c.addPre("/", func(req *Request, res *Response) (*Request, *Response) {
		return req, res.StatusCode(StatusForbidden)
	})
	c.addPre("/", func(req *Request, res *Response) (*Request, *Response) {
		secondRan = true
		return req, nil
	})

	req := &Request{Path: "/x"}
	_, resp, stopped := c.runPre(req, "/x")
	assert.True(t, stopped)
	assert.Equal(t, StatusForbidden, resp.Status())
	assert.False(t, secondRan)
}

func TestMiddlewareChainRunPreScopedByPrefix(t *testing.T) {
	c := &middlewareChain{}
	ran := false
	c.addPre("/admin", func(req *Request, res *Response) (*Request, *Response) {
		ran = true
		return req, nil
	})

	req := &Request{Path: "/public"}
	_, _, stopped := c.runPre(req, "/public")
	assert.False(t, stopped)
	assert.False(t, ran)
}

func TestMiddlewareChainRunPostThreadsAllEntries(t *testing.T) {
	c := &middlewareChain{}
	var seen []Status
	c.addPost("/", func(req *Request, res *Response) *Response {
		seen = append(seen, res.Status())
		return res.StatusCode(StatusAccepted)
	})
	c.addPost("/", func(req *Request, res *Response) *Response {
		seen = append(seen, res.Status())
		return nil
	})

	req := &Request{Path: "/y"}
	resp := c.runPost(req, NewResponse().StatusCode(StatusOk), "/y")

	assert.Equal(t, []Status{StatusOk, StatusAccepted}, seen)
	assert.Equal(t, StatusAccepted, resp.Status())
}
