package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedListener struct {
	ln  net.Listener
	err error
}

func (f *fixedListener) Listen(_, _ string) (net.Listener, error) {
	return f.ln, f.err
}

func TestHTTPServer_StartStop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewHTTPServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	}), ln.Addr().String())
	assert.Equal(t, ln.Addr().String(), srv.Address())

	done := make(chan error, 1)
	go func() { done <- srv.Start(&fixedListener{ln: ln}) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/", ln.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, <-done)
}

func TestHTTPServer_ListenError(t *testing.T) {
	srv := NewHTTPServer(http.NotFoundHandler(), ":0")

	err := srv.Start(&fixedListener{err: errors.New("address in use")})
	assert.ErrorContains(t, err, "failed to listen: address in use")
}
