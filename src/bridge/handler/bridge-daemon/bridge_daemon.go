// Package bridgedaemon implements the bridge-daemon NDJSON handlers.
package bridgedaemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	controller "github.com/scriptedit/bridge/src/bridge/controller/bridge-daemon"
	"github.com/scriptedit/bridge/src/bridge/controller/responder"
	"github.com/scriptedit/bridge/src/bridge/internal/ndjsonfx"
	"github.com/uber-go/tally"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Handler accepts peer connections and routes their messages to the controller.
type Handler interface {
	ndjsonfx.ConnectionManager

	// Wait blocks until every batch accepted so far has delivered its response, or ctx is done.
	Wait(ctx context.Context) error
}

// Params are inbound parameters to initialize a new handler.
type Params struct {
	fx.In

	Controller controller.Controller
	Responder  responder.Responder
	NDJSON     ndjsonfx.NDJSONModule
	Lifecycle  fx.Lifecycle
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
}

type handler struct {
	ctrl      controller.Controller
	responder responder.Responder
	logger    *zap.SugaredLogger
	stats     tally.Scope

	inflight sync.WaitGroup
}

// New constructs a new bridge-daemon Handler and registers it with the NDJSON listener.
func New(p Params) (Handler, error) {
	h := &handler{
		ctrl:      p.Controller,
		responder: p.Responder,
		logger:    p.Logger,
		stats:     p.Stats.SubScope("ndjson"),
	}
	if err := p.NDJSON.RegisterConnectionManager(h); err != nil {
		return nil, fmt.Errorf("registering connection manager: %w", err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: h.Wait,
	})
	return h, nil
}

// NewConnection returns a router bound to the new connection.
func (h *handler) NewConnection(ctx context.Context, conn net.Conn) (ndjsonfx.Router, error) {
	if conn == nil {
		return nil, errors.New("nil connection")
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}
	h.stats.Counter("connections").Inc(1)

	return &router{
		uuid:        id,
		conn:        conn,
		peerAddress: remoteHost(conn.RemoteAddr()),
		ctrl:        h.ctrl,
		responder:   h.responder,
		inflight:    &h.inflight,
		logger:      h.logger.With("uuid", id.String()),
		stats:       h.stats,
	}, nil
}

// RemoveConnection is called once the peer closed the connection. Batches it started keep running.
func (h *handler) RemoveConnection(ctx context.Context, id uuid.UUID) {
	h.logger.Debugw("connection removed", "uuid", id.String())
}

func (h *handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight batches: %w", ctx.Err())
	}
}

// remoteHost returns the IP part of a remote address, or the whole address when it has no port.
func remoteHost(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
