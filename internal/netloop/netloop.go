// Package netloop implements the loopback TCP handoff used for
// socket-backed ffmpeg inputs and outputs.
//
// Grounded directly on kokorin/jaffree's TcpServer.run(): bind an
// ephemeral port on the loopback interface, publish the chosen port to
// the caller strictly before accepting a connection, then hand the
// single accepted connection to a Negotiator. ffmpeg is spawned with
// the published port already embedded in its argv (see
// internal/option.URLSlot), so the accept always races an already-
// running child rather than the other way around.
//
// jaffree's TcpServer binds its ServerSocket with backlog 1; Helper.Run
// uses net.Listen's default OS backlog instead. net.ListenConfig's
// Control callback runs between bind and Go's own internal listen(2)
// call, so it cannot override the backlog the runtime applies -
// forcing backlog 1 for real requires bypassing net.Listen with a
// manual socket/bind/listen sequence, which buys nothing here: Run
// issues exactly one Accept and closes the listener immediately after,
// so a deeper backlog only matters if a second, unwanted connection
// arrives before that Accept, and closing the listener still rejects
// it either way.
package netloop

import (
	"context"
	"fmt"
	"net"
)

// PortSink receives the ephemeral port a Helper bound, before any
// connection is accepted. Typically internal/option.URLSlot.Publish.
type PortSink func(port int) error

// Negotiator owns exactly one accepted connection for the lifetime of
// Handle. Handle must close nothing on the listener; Helper.Run does
// that on every exit path.
type Negotiator interface {
	Handle(ctx context.Context, conn net.Conn) error
}

// NegotiatorFunc adapts a function to a Negotiator.
type NegotiatorFunc func(ctx context.Context, conn net.Conn) error

func (f NegotiatorFunc) Handle(ctx context.Context, conn net.Conn) error { return f(ctx, conn) }

// Helper binds a loopback port, publishes it, and serves exactly one
// connection to a Negotiator.
type Helper struct {
	sink       PortSink
	negotiator Negotiator
}

// New builds a Helper that publishes its bound port via sink and hands
// the sole accepted connection to negotiator.
func New(sink PortSink, negotiator Negotiator) *Helper {
	return &Helper{sink: sink, negotiator: negotiator}
}

// Run binds an ephemeral loopback port, publishes it via the sink,
// accepts exactly one connection, and hands it to the negotiator. Run
// always closes the listener before returning, and closes the
// accepted connection after the negotiator returns.
//
// If ctx is cancelled while waiting to accept, Run closes the listener
// to unblock Accept and returns ctx.Err().
func (h *Helper) Run(ctx context.Context) error {
	// Default OS backlog, not a forced 1 - see the package doc.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("bind loopback listener: %w", err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	if err := h.sink(port); err != nil {
		return fmt.Errorf("publish loopback port: %w", err)
	}

	acceptDone := make(chan struct{})
	var conn net.Conn
	var acceptErr error
	go func() {
		defer close(acceptDone)
		conn, acceptErr = ln.Accept()
	}()

	select {
	case <-acceptDone:
	case <-ctx.Done():
		ln.Close()
		<-acceptDone
		return ctx.Err()
	}

	if acceptErr != nil {
		return fmt.Errorf("accept loopback connection: %w", acceptErr)
	}
	defer conn.Close()

	return h.negotiator.Handle(ctx, conn)
}
