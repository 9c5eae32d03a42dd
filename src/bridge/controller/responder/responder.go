// Package responder delivers responses to the peer on the request connection and on its callback listener.
package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"sync"

	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/gateway/callback"
	"github.com/scriptedit/bridge/src/bridge/internal/fs"
	"github.com/scriptedit/bridge/src/bridge/mapper"
	"github.com/scriptedit/bridge/src/bridge/repository/session"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_configKeyLastResponseDir = "bridge.lastResponseDir"
	_lastResponseFile         = "last_response.json"
	_loopbackHost             = "127.0.0.1"
)

// Module provides the Responder.
var Module = fx.Provide(New)

// Delivery describes where a response goes.
type Delivery struct {
	// Conn is the connection the request arrived on. May be nil.
	Conn net.Conn
	// PeerAddress is the remote IP of Conn, used with CallbackPort.
	PeerAddress string
	// CallbackPort is the callback port declared by the request. When zero the recorded session is used.
	CallbackPort int
	// CloseAfter closes Conn once the response was written.
	CloseAfter bool
	// SkipCallback disables delivery to the callback listener.
	SkipCallback bool
}

// Responder sends responses to the peer.
type Responder interface {
	// Deliver writes resp to the connection and to the callback listener. A response may reach the peer
	// on both channels. Delivery failures are logged and returned combined.
	Deliver(ctx context.Context, resp *entity.Response, d Delivery) error
}

// Params are the dependencies of the fx constructor.
type Params struct {
	fx.In

	Config   config.Provider
	Sessions session.Repository
	Callback callback.Gateway
	FS       fs.BridgeFS
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
}

type responder struct {
	sessions        session.Repository
	callback        callback.Gateway
	fs              fs.BridgeFS
	logger          *zap.SugaredLogger
	stats           tally.Scope
	lastResponseDir string

	// lastResponseMu serializes writes of the last response file across concurrent batches.
	lastResponseMu sync.Mutex
}

// New creates a Responder.
func New(p Params) (Responder, error) {
	var dir string
	if err := p.Config.Get(_configKeyLastResponseDir).Populate(&dir); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyLastResponseDir, err)
	}

	return &responder{
		sessions:        p.Sessions,
		callback:        p.Callback,
		fs:              p.FS,
		logger:          p.Logger.With("component", "responder"),
		stats:           p.Stats.SubScope("responses"),
		lastResponseDir: dir,
	}, nil
}

func (r *responder) Deliver(ctx context.Context, resp *entity.Response, d Delivery) error {
	var errs error
	if d.Conn != nil {
		errs = multierr.Append(errs, r.writeToConn(resp, d.Conn))
	}

	if !d.SkipCallback {
		if host, port, ok := r.callbackTarget(ctx, d); ok {
			if err := r.callback.Send(ctx, host, port, resp); err != nil {
				r.stats.Counter("callback_failures").Inc(1)
				r.logger.Warnf("Failed to deliver response to callback: %v", err)
				errs = multierr.Append(errs, err)
			}
		} else {
			r.logger.Debugw("no callback target for response", "requestId", string(resp.RequestID))
		}
	}

	r.writeLastResponse(resp)

	if d.Conn != nil && d.CloseAfter {
		if err := d.Conn.Close(); err != nil {
			r.logger.Debugf("Closing connection: %v", err)
		}
	}

	r.stats.Counter("delivered").Inc(1)
	return errs
}

func (r *responder) writeToConn(resp *entity.Response, conn net.Conn) error {
	line, err := mapper.ResponseToLine(resp)
	if err != nil {
		return err
	}
	if _, err := conn.Write(line); err != nil {
		r.stats.Counter("socket_failures").Inc(1)
		r.logger.Warnf("Failed to write response to %s: %v", conn.RemoteAddr(), err)
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// callbackTarget prefers the port declared by the request and falls back to the recorded session.
func (r *responder) callbackTarget(ctx context.Context, d Delivery) (string, int, bool) {
	if d.CallbackPort > 0 {
		host := d.PeerAddress
		if host == "" {
			host = _loopbackHost
		}
		return host, d.CallbackPort, true
	}
	s, ok := r.sessions.Current(ctx)
	if !ok {
		return "", 0, false
	}
	return s.PeerAddress, s.CallbackPort, true
}

// writeLastResponse keeps a copy of the latest response on disk for troubleshooting.
func (r *responder) writeLastResponse(resp *entity.Response) {
	if r.lastResponseDir == "" {
		return
	}
	content, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		r.logger.Warnf("Failed to encode last response: %v", err)
		return
	}

	r.lastResponseMu.Lock()
	defer r.lastResponseMu.Unlock()
	if err := r.fs.MkdirAll(r.lastResponseDir); err != nil {
		r.logger.Warnf("Failed to create %q: %v", r.lastResponseDir, err)
		return
	}
	path := filepath.Join(r.lastResponseDir, _lastResponseFile)
	if err := r.fs.WriteFile(path, string(content)); err != nil {
		r.logger.Warnf("Failed to write %q: %v", path, err)
	}
}
