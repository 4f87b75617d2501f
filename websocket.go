package wyvern

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketUpgrade carries the "surrender the connection to the upgrade
// handler" signal described by spec.md's WebSocket upgrade exception: a
// Pre middleware that wants to hand the connection off to a WebSocket peer
// records one on the request with Stash, and the Dispatcher, which checks
// for it once the Pre chain has run, skips both the handler and the Post
// chain.
//
// Full WebSocket framing (text/binary/ping/pong/close frame handling) is an
// explicit non-goal of the core; Upgrade is a thin collaborator over
// gorilla/websocket for establishing the connection, not a framing layer.
type WebSocketUpgrade struct {
	Subprotocols     []string
	CheckOrigin      func(*http.Request) bool
	HandshakeTimeout int64 // milliseconds; 0 selects gorilla/websocket's default
}

// Upgrade performs the WebSocket handshake against hr/hw using u's
// configuration and returns the established connection.
func (u *WebSocketUpgrade) Upgrade(hw http.ResponseWriter, hr *http.Request, respHeader http.Header) (*websocket.Conn, error) {
	upgrader := websocket.Upgrader{
		Subprotocols:     u.Subprotocols,
		CheckOrigin:      u.CheckOrigin,
		HandshakeTimeout: time.Duration(u.HandshakeTimeout) * time.Millisecond,
	}
	if upgrader.CheckOrigin == nil {
		upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	return upgrader.Upgrade(hw, hr, respHeader)
}

// websocketUpgradeDataKey is the Request.Data key a Pre middleware stashes a
// *WebSocketUpgrade under to signal the upgrade exception described by
// spec.md §4.C: the dispatcher checks this key after running the Pre chain
// and, if present, surrenders the connection instead of running the handler
// and Post chain.
const websocketUpgradeDataKey = "wyvern.websocket_upgrade"

// Stash records u onto req.Data under the key the dispatcher inspects after
// running the Pre chain.
func (u *WebSocketUpgrade) Stash(req *Request) {
	req.Data[websocketUpgradeDataKey] = u
}

// websocketUpgradeFrom reports whether a Pre middleware stashed a
// *WebSocketUpgrade onto req, and returns it.
func websocketUpgradeFrom(req *Request) (*WebSocketUpgrade, bool) {
	u, ok := req.Data[websocketUpgradeDataKey].(*WebSocketUpgrade)
	return u, ok
}
