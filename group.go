package wyvern

// Group is a sub-router that composes routes under a common base path,
// inheriting the parent App's dispatcher and middleware chains while
// letting call sites register routes relative to prefix.
type Group struct {
	prefix string
	app    *App
}

// Group returns a nested Group whose prefix is this group's prefix followed
// by prefix.
func (g *Group) Group(prefix string) *Group {
	return &Group{prefix: g.prefix + prefix, app: g.app}
}

// Get registers a GET route under the group's prefix.
func (g *Group) Get(path string, h Handler) { g.add("GET", path, h) }

// Post registers a POST route under the group's prefix.
func (g *Group) Post(path string, h Handler) { g.add("POST", path, h) }

// Put registers a PUT route under the group's prefix.
func (g *Group) Put(path string, h Handler) { g.add("PUT", path, h) }

// Delete registers a DELETE route under the group's prefix.
func (g *Group) Delete(path string, h Handler) { g.add("DELETE", path, h) }

// Patch registers a PATCH route under the group's prefix.
func (g *Group) Patch(path string, h Handler) { g.add("PATCH", path, h) }

// Head registers a HEAD route under the group's prefix.
func (g *Group) Head(path string, h Handler) { g.add("HEAD", path, h) }

// Options registers an OPTIONS route under the group's prefix.
func (g *Group) Options(path string, h Handler) { g.add("OPTIONS", path, h) }

func (g *Group) add(method, path string, h Handler) {
	full := g.prefix + path
	if full == "" {
		full = "/"
	}
	g.app.addRoute(method, full, h)
}
