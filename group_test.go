package wyvern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func noopHandler(req *Request, res *Response) (*Response, error) {
	return res, nil
}

func TestGroupRegistersUnderPrefix(t *testing.T) {
	app := New()
	g := app.Group("/api")

	g.Get("/users", noopHandler)
	g.Post("/users", noopHandler)

	_, _, ok := app.router.match("GET", "/api/users")
	assert.True(t, ok)

	_, _, ok = app.router.match("POST", "/api/users")
	assert.True(t, ok)

	_, _, ok = app.router.match("GET", "/users")
	assert.False(t, ok)
}

func TestGroupNesting(t *testing.T) {
	app := New()
	g := app.Group("/api").Group("/v1")

	g.Get("/ping", noopHandler)

	_, _, ok := app.router.match("GET", "/api/v1/ping")
	assert.True(t, ok)
}

func TestGroupRootPrefix(t *testing.T) {
	app := New()
	g := app.Group("")

	g.Get("/", noopHandler)

	_, _, ok := app.router.match("GET", "/")
	assert.True(t, ok)
}
