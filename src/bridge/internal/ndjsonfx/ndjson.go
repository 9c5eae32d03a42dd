// Package ndjsonfx serves newline-delimited JSON over a loopback TCP listener.
package ndjsonfx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/scriptedit/bridge/src/bridge/internal/framer"
	"github.com/scriptedit/bridge/src/bridge/internal/portbinder"
	"github.com/scriptedit/bridge/src/bridge/internal/serverinfofile"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Module is an fx module serving NDJSON connections.
var Module = fx.Provide(New)

// NDJSONModule owns the listener and the goroutines serving its connections.
type NDJSONModule interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
	RegisterConnectionManager(connectionManager ConnectionManager) error
	// Addr returns the bound address, or nil before the module has started.
	Addr() net.Addr
}

// Router handles the messages received on one connection.
type Router interface {
	HandleMessage(ctx context.Context, msg json.RawMessage)
	UUID() uuid.UUID
}

// ConnectionManager creates a Router for each accepted connection and is told when the connection ends.
type ConnectionManager interface {
	NewConnection(ctx context.Context, conn net.Conn) (router Router, err error)
	RemoveConnection(ctx context.Context, id uuid.UUID)
}

type module struct {
	binder         portbinder.Binder
	connectionMgr  ConnectionManager
	logger         *zap.SugaredLogger
	serverInfoFile serverinfofile.ServerInfoFile

	mu      sync.Mutex
	ln      net.Listener
	conns   map[net.Conn]struct{}
	group   *errgroup.Group
	cancel  context.CancelFunc
	stopped bool
}

// Params define values to be used by the NDJSON module.
type Params struct {
	fx.In

	Binder         portbinder.Binder
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	ServerInfoFile serverinfofile.ServerInfoFile
}

// New creates the module and registers its lifecycle hooks.
func New(p Params) (NDJSONModule, error) {
	if p.Lifecycle == nil || p.Binder == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := &module{
		binder:         p.Binder,
		logger:         p.Logger,
		serverInfoFile: p.ServerInfoFile,
		conns:          make(map[net.Conn]struct{}),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.OnStart,
		OnStop:  m.OnStop,
	})

	return m, nil
}

// OnStart binds the listener and begins accepting connections.
// A bind failure is returned so that application startup fails.
func (m *module) OnStart(ctx context.Context) error {
	if m.connectionMgr == nil {
		return errors.New("cannot start listener, no connection manager set")
	}

	ln, err := m.binder.Bind(ctx)
	if err != nil {
		return err
	}

	if m.serverInfoFile != nil {
		if err := m.serverInfoFile.UpdateField(serverinfofile.KeyAddress, ln.Addr().String()); err != nil {
			ln.Close()
			return fmt.Errorf("recording listener address: %w", err)
		}
	}

	serveCtx, cancel := context.WithCancel(context.Background())
	group, serveCtx := errgroup.WithContext(serveCtx)

	m.mu.Lock()
	m.ln = ln
	m.group = group
	m.cancel = cancel
	m.mu.Unlock()

	m.logger.Infow("started NDJSON inbound", zap.String("address", ln.Addr().String()))
	group.Go(func() error {
		return m.accept(serveCtx, ln, group)
	})
	return nil
}

// OnStop closes the listener and every open connection, then waits for their goroutines.
func (m *module) OnStop(ctx context.Context) error {
	m.mu.Lock()
	m.stopped = true
	ln, group, cancel := m.ln, m.group, m.cancel
	conns := make([]net.Conn, 0, len(m.conns))
	for conn := range m.conns {
		conns = append(conns, conn)
	}
	m.mu.Unlock()

	if ln == nil {
		return nil
	}

	cancel()
	closeErr := ln.Close()
	if closeErr != nil && errors.Is(closeErr, net.ErrClosed) {
		closeErr = nil
	}
	for _, conn := range conns {
		conn.Close()
	}

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return err
		}
		return closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RegisterConnectionManager sets the connection manager, which provides a Router for each connection.
func (m *module) RegisterConnectionManager(connectionMgr ConnectionManager) error {
	if m.connectionMgr != nil {
		return errors.New("cannot register a duplicate connection manager")
	}
	m.connectionMgr = connectionMgr
	return nil
}

func (m *module) Addr() net.Addr {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ln == nil {
		return nil
	}
	return m.ln.Addr()
}

func (m *module) accept(ctx context.Context, ln net.Listener, group *errgroup.Group) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			m.logger.Warnw("accept failed", zap.Error(err))
			continue
		}

		m.mu.Lock()
		if m.stopped {
			m.mu.Unlock()
			conn.Close()
			continue
		}
		m.conns[conn] = struct{}{}
		m.mu.Unlock()

		group.Go(func() error {
			m.serveConn(ctx, conn)
			return nil
		})
	}
}

// serveConn reads messages from conn until it is closed by either side.
func (m *module) serveConn(ctx context.Context, conn net.Conn) {
	defer func() {
		conn.Close()
		m.mu.Lock()
		delete(m.conns, conn)
		m.mu.Unlock()
	}()

	router, err := m.connectionMgr.NewConnection(ctx, conn)
	if err != nil {
		m.logger.Errorw("rejecting connection", "remote", conn.RemoteAddr().String(), zap.Error(err))
		return
	}
	m.logger.Infow("client connected", zap.Stringer("uuid", router.UUID()), "remote", conn.RemoteAddr().String())

	f := framer.New(m.logger.With("uuid", router.UUID().String()))
	if err := f.Run(ctx, conn, func(msg json.RawMessage) {
		router.HandleMessage(ctx, msg)
	}); err != nil {
		m.logger.Debugw("connection read ended", zap.Stringer("uuid", router.UUID()), zap.Error(err))
	}

	m.connectionMgr.RemoveConnection(ctx, router.UUID())
	m.logger.Infow("client disconnected", zap.Stringer("uuid", router.UUID()))
}
