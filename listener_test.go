package wyvern

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewListenerBindsAndAccepts(t *testing.T) {
	l, err := newListener("127.0.0.1:0")
	assert.NoError(t, err)
	defer l.Close()

	addr := l.Addr().(*net.TCPAddr)
	assert.NotZero(t, addr.Port)

	done := make(chan error, 1)
	go func() {
		conn, err := net.Dial("tcp", addr.String())
		if err == nil {
			conn.Close()
		}
		done <- err
	}()

	accepted, err := l.Accept()
	assert.NoError(t, err)
	assert.NotNil(t, accepted)
	accepted.Close()

	assert.NoError(t, <-done)
}

func TestNewListenerInvalidAddress(t *testing.T) {
	_, err := newListener("not-an-address")
	assert.Error(t, err)
}
