// Package callback delivers responses to the peer's callback listener over short-lived TCP connections.
package callback

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/internal/clock"
	"github.com/scriptedit/bridge/src/bridge/mapper"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_configKeyCallback = "bridge.callback"

	_errSendCallback = "sending callback to %s: %w"
)

// Module provides the callback Gateway.
var Module = fx.Provide(New)

// Gateway sends a single response line to a peer callback address.
type Gateway interface {
	// Send dials host:port, writes resp as one JSON line and closes the connection.
	// Failed attempts are retried with a linear backoff up to the configured attempt count.
	Send(ctx context.Context, host string, port int, resp *entity.Response) error
}

// Config bounds the time and retries spent on one callback.
type Config struct {
	DialTimeout time.Duration `yaml:"dialTimeout"`
	Attempts    int           `yaml:"attempts"`
	Backoff     time.Duration `yaml:"backoff"`
}

// DialFunc opens a connection, matching (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Option customizes a gateway.
type Option func(*gateway)

// WithDialFunc replaces the function used to open connections.
func WithDialFunc(dial DialFunc) Option {
	return func(g *gateway) {
		g.dial = dial
	}
}

// Params are the dependencies of the fx constructor.
type Params struct {
	fx.In

	Config config.Provider
	Clock  clock.Clock
	Logger *zap.SugaredLogger
}

type gateway struct {
	cfg    Config
	clock  clock.Clock
	logger *zap.SugaredLogger
	dial   DialFunc
}

// New creates a Gateway from the "bridge.callback" config block.
func New(p Params) (Gateway, error) {
	cfg := Config{
		DialTimeout: 2 * time.Second,
		Attempts:    3,
		Backoff:     200 * time.Millisecond,
	}
	if err := p.Config.Get(_configKeyCallback).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyCallback, err)
	}
	return NewGateway(cfg, p.Clock, p.Logger), nil
}

// NewGateway creates a Gateway with the given configuration.
func NewGateway(cfg Config, clk clock.Clock, logger *zap.SugaredLogger, opts ...Option) Gateway {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}

	g := &gateway{
		cfg:    cfg,
		clock:  clk,
		logger: logger,
	}
	d := &net.Dialer{}
	g.dial = d.DialContext
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gateway) Send(ctx context.Context, host string, port int, resp *entity.Response) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	line, err := mapper.ResponseToLine(resp)
	if err != nil {
		return fmt.Errorf(_errSendCallback, address, err)
	}

	var errs error
	for attempt := 1; attempt <= g.cfg.Attempts; attempt++ {
		if attempt > 1 {
			g.clock.Sleep(time.Duration(attempt-1) * g.cfg.Backoff)
		}
		if ctx.Err() != nil {
			errs = multierr.Append(errs, ctx.Err())
			break
		}

		err := g.sendOnce(ctx, address, line)
		if err == nil {
			return nil
		}
		g.logger.Debugw("callback attempt failed", "address", address, "attempt", attempt, "error", err)
		errs = multierr.Append(errs, err)
	}
	return fmt.Errorf(_errSendCallback, address, errs)
}

func (g *gateway) sendOnce(ctx context.Context, address string, line []byte) (err error) {
	dialCtx, cancel := context.WithTimeout(ctx, g.cfg.DialTimeout)
	defer cancel()

	conn, err := g.dial(dialCtx, "tcp", address)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, conn.Close())
	}()

	if err := conn.SetWriteDeadline(g.clock.Now().Add(g.cfg.DialTimeout)); err != nil {
		return err
	}
	_, err = conn.Write(line)
	return err
}
