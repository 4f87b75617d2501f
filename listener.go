package wyvern

import (
	"net"
	"time"
)

// listener implements net.Listener with TCP keep-alive enabled on every
// accepted connection.
//
// The teacher's listener also speaks the PROXY protocol (v1 and v2) ahead
// of the HTTP layer; the spec's trusted-proxy model instead authorizes the
// ordinary X-Forwarded-For header (see resolveIP in request.go), so that
// machinery has no home here and was dropped rather than adapted.
type listener struct {
	*net.TCPListener
}

// newListener listens on address and returns a listener with TCP
// keep-alive enabled.
func newListener(address string) (*listener, error) {
	nl, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	return &listener{TCPListener: nl.(*net.TCPListener)}, nil
}

// Accept implements net.Listener, enabling TCP keep-alive on every accepted
// connection.
func (l *listener) Accept() (net.Conn, error) {
	tc, err := l.AcceptTCP()
	if err != nil {
		return nil, err
	}

	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)

	return tc, nil
}
