/*
Package wyvern implements a request-pipeline HTTP application server: a
value-model request/response pair, a precedence-ordered router, a typed
extractor framework, and a Pre/Post middleware chain, dispatched over
HTTP/1.1 and HTTP/2 (including h2c).

Registering a route takes a method, a pattern, and a Handler:

	app := wyvern.New()
	app.Get("/users/:id", func(req *wyvern.Request, res *wyvern.Response) (*wyvern.Response, error) {
		id, err := req.Params.String("id")
		if err != nil {
			return nil, err
		}
		return res.Text("user " + id), nil
	})
	app.Listen(8080, nil)

A pattern is split at "/" into literal, named-placeholder (":id"), or
wildcard ("*" / ":rest*") segments. Route resolution tries exact-literal
patterns, then placeholder patterns, then wildcard patterns, and within
each class the first registered match wins.
*/
package wyvern

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ProtocolMode selects how a listener negotiates the HTTP protocol.
type ProtocolMode int

const (
	// ProtocolHTTP1Only serves HTTP/1.1 exclusively.
	ProtocolHTTP1Only ProtocolMode = iota
	// ProtocolHTTP2Only serves HTTP/2 over cleartext (h2c), by prior
	// knowledge or by the h2c Upgrade header. Requests that arrive as plain
	// HTTP/1.x without an h2c upgrade are not refused; they are passed to
	// the App like any other request.
	ProtocolHTTP2Only
	// ProtocolNegotiated configures the server to offer HTTP/2 through
	// ALPN, which takes place only on TLS connections. Listen serves a
	// plain TCP listener, so connections in this mode are served as
	// HTTP/1.1.
	ProtocolNegotiated
)

// App is the top-level struct of the framework: route table, middleware
// chains, and dispatcher configuration. New instances are created only by
// New.
type App struct {
	Protocol ProtocolMode
	HTTP2    HTTP2Config

	TrustProxy bool

	// DecodeOptions is threaded into every NewRequest call made by the
	// dispatcher.
	DecodeOptions DecodeOptions

	// ConfigFile, if set before Listen is called, is loaded via
	// LoadConfigFile and applied over the App's current settings,
	// mirroring the teacher's Air.ConfigFile mechanism.
	ConfigFile string

	Logger *Logger

	router     *router
	middleware *middlewareChain
	shutdown   *shutdownJobs

	server       *http.Server
	httpListener net.Listener

	requestPool sync.Pool

	// listenAddr is set by ApplyConfig from cfg.Listener.Address. Listen
	// falls back to it when called with port 0 and no explicit address
	// has been set another way.
	listenAddr string
}

// New returns an App with default field values: HTTP/1.1-only protocol
// negotiation, trusted proxy disabled, and a stdout zerolog Logger. The
// default body limit is registered as a Pre middleware scoped to every
// path.
func New() *App {
	a := &App{
		Protocol:   ProtocolHTTP1Only,
		Logger:     NewLogger("wyvern", nil),
		router:     newRouter(),
		middleware: &middlewareChain{},
		shutdown:   newShutdownJobs(),
	}
	a.requestPool.New = func() interface{} { return &Request{} }
	a.UseBodyLimit(DefaultBodyLimit)
	return a
}

// NewAppFromConfig returns an App with cfg applied via ApplyConfig.
func NewAppFromConfig(cfg *Config) *App {
	a := New()
	a.ApplyConfig(cfg)
	return a
}

// ApplyConfig copies cfg's listener, trusted-proxy, and body-limit settings
// onto a, replacing the current body-limit Pre middleware with one built
// from cfg.BodyLimit.MaxBytes.
func (a *App) ApplyConfig(cfg *Config) {
	if cfg.Listener.HTTP2Only {
		a.Protocol = ProtocolHTTP2Only
	}
	a.HTTP2 = cfg.Listener.HTTP2
	a.listenAddr = cfg.Listener.Address

	a.TrustProxy = cfg.TrustedProxy.Enabled
	a.DecodeOptions.TrustProxy = cfg.TrustedProxy.Enabled

	if cfg.AppName != "" {
		a.Logger = NewLogger(cfg.AppName, nil)
	}

	a.middleware.pre = removeBodyLimitEntries(a.middleware.pre)
	a.UseBodyLimit(cfg.BodyLimit.MaxBytes)
}

// loadConfigFileIfSet loads and applies a.ConfigFile, if set, before Listen
// starts serving.
func (a *App) loadConfigFileIfSet() error {
	if a.ConfigFile == "" {
		return nil
	}
	cfg, err := LoadConfigFile(a.ConfigFile)
	if err != nil {
		return err
	}
	a.ApplyConfig(cfg)
	return nil
}

// bodyLimitMarker tags the Pre entries UseBodyLimit installs, so
// ApplyConfig can replace a prior body-limit middleware instead of
// stacking a second one.
type bodyLimitMarker struct{}

func removeBodyLimitEntries(entries []*middlewareEntry) []*middlewareEntry {
	kept := entries[:0:0]
	for _, e := range entries {
		if _, marked := e.tag.(bodyLimitMarker); marked {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// addRoute registers method/pattern with handler h. Used directly by the
// method-named registration helpers and by Group.
func (a *App) addRoute(method, pattern string, h Handler) {
	a.router.add(method, pattern, h)
}

// Get registers a GET route.
func (a *App) Get(pattern string, h Handler) { a.addRoute(http.MethodGet, pattern, h) }

// Post registers a POST route.
func (a *App) Post(pattern string, h Handler) { a.addRoute(http.MethodPost, pattern, h) }

// Put registers a PUT route.
func (a *App) Put(pattern string, h Handler) { a.addRoute(http.MethodPut, pattern, h) }

// Delete registers a DELETE route.
func (a *App) Delete(pattern string, h Handler) { a.addRoute(http.MethodDelete, pattern, h) }

// Patch registers a PATCH route.
func (a *App) Patch(pattern string, h Handler) { a.addRoute(http.MethodPatch, pattern, h) }

// Head registers a HEAD route.
func (a *App) Head(pattern string, h Handler) { a.addRoute(http.MethodHead, pattern, h) }

// Options registers an OPTIONS route.
func (a *App) Options(pattern string, h Handler) { a.addRoute(http.MethodOptions, pattern, h) }

// Group returns a sub-router rooted at prefix, inheriting this App's
// dispatcher and middleware chains.
func (a *App) Group(prefix string) *Group {
	return &Group{prefix: prefix, app: a}
}

// UsePre registers a Pre middleware scoped to pathPrefix ("" or "/"
// matches every path).
func (a *App) UsePre(pathPrefix string, fn PreFunc) {
	a.middleware.addPre(pathPrefix, fn)
}

// UsePost registers a Post middleware scoped to pathPrefix ("" or "/"
// matches every path).
func (a *App) UsePost(pathPrefix string, fn PostFunc) {
	a.middleware.addPost(pathPrefix, fn)
}

// UseBodyLimit registers the body-limit Pre middleware with maxBytes (or
// DefaultBodyLimit when maxBytes <= 0), scoped to every path. A later call
// does not remove an earlier one; use ApplyConfig to replace the
// config-driven body limit.
func (a *App) UseBodyLimit(maxBytes int64) {
	a.middleware.addPreTagged("/", BodyLimit(maxBytes), bodyLimitMarker{})
}

// AddShutdownJob registers a ShutdownJob under name, run concurrently by
// Shutdown.
func (a *App) AddShutdownJob(name string, job ShutdownJob) {
	a.shutdown.Add(name, job)
}

// RemoveShutdownJob deregisters the shutdown job under name.
func (a *App) RemoveShutdownJob(name string) {
	a.shutdown.Remove(name)
}

// ReadyFunc is invoked once the listener is bound and before Serve blocks,
// receiving the address actually listened on (useful when port 0 was
// requested).
type ReadyFunc func(addr string)

// Listen starts the server on port, applying a's configured ProtocolMode,
// and blocks until the listener is closed or an unrecoverable error
// occurs. If onReady is non-nil, it is called with the bound address
// immediately before the serve loop begins.
//
// If a.ConfigFile is set, it is loaded and applied before binding. A
// non-zero port always wins; port 0 falls back to the address from the
// config file (cfg.Listener.Address), then to an OS-assigned port.
func (a *App) Listen(port int, onReady ReadyFunc) error {
	if err := a.loadConfigFileIfSet(); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", port)
	if port == 0 && a.listenAddr != "" {
		addr = a.listenAddr
	}

	l, err := newListener(addr)
	if err != nil {
		return err
	}
	a.httpListener = l

	var handler http.Handler = http.HandlerFunc(a.ServeHTTP)
	srv := &http.Server{Addr: addr}

	switch a.Protocol {
	case ProtocolHTTP2Only:
		h2s := &http2.Server{
			MaxConcurrentStreams:         a.HTTP2.MaxConcurrentStreams,
			MaxReadFrameSize:             a.HTTP2.MaxFrameSize,
			MaxUploadBufferPerStream:     a.HTTP2.InitialStreamWindowSize,
			MaxUploadBufferPerConnection: a.HTTP2.InitialConnectionWindowSize,
			IdleTimeout:                  a.HTTP2.KeepAliveTimeout,
		}
		handler = h2c.NewHandler(handler, h2s)
	case ProtocolNegotiated:
		h2s := &http2.Server{
			MaxConcurrentStreams:         a.HTTP2.MaxConcurrentStreams,
			MaxReadFrameSize:             a.HTTP2.MaxFrameSize,
			MaxUploadBufferPerStream:     a.HTTP2.InitialStreamWindowSize,
			MaxUploadBufferPerConnection: a.HTTP2.InitialConnectionWindowSize,
			IdleTimeout:                  a.HTTP2.KeepAliveTimeout,
		}
		if err := http2.ConfigureServer(srv, h2s); err != nil {
			return err
		}
	}

	srv.Handler = handler
	a.server = srv

	if onReady != nil {
		onReady(l.Addr().String())
	}

	return a.server.Serve(l)
}

// Close closes the server immediately without waiting for active
// connections.
func (a *App) Close() error {
	if a.server == nil {
		return nil
	}
	return a.server.Close()
}

// Shutdown gracefully shuts down the server: it stops accepting new
// connections, runs every registered ShutdownJob concurrently, and waits
// for both to finish (or ctx to expire).
func (a *App) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}

	shutdownErr := a.server.Shutdown(ctx)
	jobErr := a.shutdown.RunAll(ctx)

	if shutdownErr != nil {
		return shutdownErr
	}
	return jobErr
}

// ServeHTTP implements http.Handler: it decodes the wire request, runs the
// Pre chain, resolves and invokes the handler (via the Post chain either
// way), and serializes the resulting Response.
func (a *App) ServeHTTP(hw http.ResponseWriter, hr *http.Request) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("panic recovered", fmt.Errorf("%v", r), map[string]interface{}{
				"path": hr.URL.Path,
			})
			hw.WriteHeader(http.StatusInternalServerError)
		}
	}()

	req, err := NewRequest(hr, a.DecodeOptions)
	if err != nil {
		a.Logger.Warn("request decode error", map[string]interface{}{"error": err.Error()})
	}

	resp := a.dispatch(hw, hr, req)
	if resp == nil {
		return
	}
	writeResponse(hw, resp, req.Method)
}

// dispatch runs the per-request pipeline: Pre chain (with short-circuit and
// the WebSocket-upgrade handoff), route resolution and handler invocation,
// then the Post chain. If a Pre middleware stashes a *WebSocketUpgrade onto
// req.Data (see websocket.go), dispatch performs the handshake directly
// against hw/hr and returns nil, skipping both the handler and the Post
// chain, per spec.md §4.C. hw/hr may be nil when no Pre middleware in the
// chain can request an upgrade.
func (a *App) dispatch(hw http.ResponseWriter, hr *http.Request, req *Request) *Response {
	reqLog := a.Logger.RequestLogger(req.ID)

	req, shortCircuit, stopped := a.middleware.runPre(req, req.Path)

	if upgrade, ok := websocketUpgradeFrom(req); ok {
		if _, err := upgrade.Upgrade(hw, hr, nil); err != nil {
			reqLog.Error("websocket upgrade failed", err, map[string]interface{}{"path": req.Path})
		}
		return nil
	}

	if stopped {
		return a.middleware.runPost(req, shortCircuit, req.Path)
	}

	handler, params, ok := a.router.match(req.Method, req.Path)

	var resp *Response
	if !ok {
		if a.router.hasAnyRoute(req.Path) {
			resp = NewResponse().StatusCode(StatusMethodNotAllowed).Text("Method Not Allowed")
		} else {
			resp = NewResponse().StatusCode(StatusNotFound).Text("Not Found")
		}
	} else {
		req.Params = params
		handled, herr := handler(req, NewResponse())
		if herr != nil {
			reqLog.Error("handler error", herr, map[string]interface{}{"path": req.Path})
			resp = NewResponse().StatusCode(StatusInternalServerError)
		} else {
			resp = handled
		}
	}

	return a.middleware.runPost(req, resp, req.Path)
}

// writeResponse serializes resp onto hw, following the value model's
// buffered-vs-streaming body distinction.
func writeResponse(hw http.ResponseWriter, resp *Response, method string) {
	header := hw.Header()
	resp.Headers().EachAll(func(name string, values []string) {
		for _, v := range values {
			header.Add(name, v)
		}
	})
	for _, v := range resp.cookieHeaderValues() {
		header.Add("Set-Cookie", v)
	}

	if resp.IsStream() {
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", "text/event-stream")
		}
		if header.Get("Connection") == "" {
			header.Set("Connection", "keep-alive")
		}
	}

	hw.WriteHeader(int(resp.Status()))

	if method == http.MethodHead {
		return
	}

	if resp.IsStream() {
		flusher, _ := hw.(http.Flusher)
		for {
			chunk, done, err := resp.stream()
			if err != nil {
				return
			}
			if len(chunk) > 0 {
				hw.Write(chunk)
				if flusher != nil {
					flusher.Flush()
				}
			}
			if done {
				return
			}
		}
	}

	hw.Write(resp.Body())
}
