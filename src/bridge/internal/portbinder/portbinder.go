// Package portbinder finds a free loopback TCP port for the bridge listener.
package portbinder

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"time"

	"github.com/scriptedit/bridge/src/bridge/internal/errors"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKeyPort = "bridge.port"

	_loopbackHost = "127.0.0.1"
	_maxPort      = 65535
)

// Port search policies.
const (
	PolicySequential = "sequential"
	PolicyRandom     = "random"
)

// Module provides a Binder configured from the "bridge.port" config block.
var Module = fx.Provide(New)

// Binder binds a TCP listener on the loopback interface.
type Binder interface {
	// Bind returns a listener on the first port that could be bound under the configured policy.
	Bind(ctx context.Context) (net.Listener, error)
}

// Config is the port search configuration.
type Config struct {
	Policy    string `yaml:"policy"`
	Host      string `yaml:"host"`
	Base      int    `yaml:"base"`
	MaxOffset int    `yaml:"maxOffset"`
	Min       int    `yaml:"min"`
	Max       int    `yaml:"max"`
}

// ListenFunc opens a listener, matching (*net.ListenConfig).Listen.
type ListenFunc func(ctx context.Context, network, address string) (net.Listener, error)

// Option customizes a binder.
type Option func(*binder)

// WithListenFunc replaces the function used to open listeners.
func WithListenFunc(listen ListenFunc) Option {
	return func(b *binder) {
		b.listen = listen
	}
}

// WithIntn replaces the random source used by the random policy. intn must return a value in [0, n).
func WithIntn(intn func(n int) int) Option {
	return func(b *binder) {
		b.intn = intn
	}
}

// Params are the dependencies of the fx constructor.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
}

type binder struct {
	cfg    Config
	logger *zap.SugaredLogger
	listen ListenFunc
	intn   func(n int) int
}

// New creates a Binder from configuration.
func New(p Params) (Binder, error) {
	cfg := Config{
		Policy:    PolicySequential,
		Host:      _loopbackHost,
		Base:      39218,
		MaxOffset: 100,
		Min:       1024,
		Max:       _maxPort,
	}
	if err := p.Config.Get(_configKeyPort).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyPort, err)
	}
	return NewBinder(cfg, p.Logger)
}

// NewBinder creates a Binder for the given configuration after validating it.
func NewBinder(cfg Config, logger *zap.SugaredLogger, opts ...Option) (Binder, error) {
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	lc := net.ListenConfig{}
	b := &binder{
		cfg:    cfg,
		logger: logger,
		listen: lc.Listen,
		intn:   rand.New(rand.NewSource(time.Now().UnixNano())).Intn,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *binder) Bind(ctx context.Context) (net.Listener, error) {
	switch b.cfg.Policy {
	case PolicyRandom:
		return b.bindRandom(ctx)
	default:
		return b.bindSequential(ctx)
	}
}

func (b *binder) bindSequential(ctx context.Context) (net.Listener, error) {
	last := b.cfg.Base + b.cfg.MaxOffset
	for port := b.cfg.Base; port <= last; port++ {
		ln, retry, err := b.try(ctx, port)
		if ln != nil || !retry {
			return ln, err
		}
	}
	return nil, &errors.BindError{Msg: fmt.Sprintf("no free port in range %d-%d", b.cfg.Base, last)}
}

// bindRandom tries the base port first, then random ports from [Min, Max] that were not tried before.
// A drawn port that was already tried is replaced by the next untried port, so every attempt is new
// and the search ends after at most Max-Min+1 attempts.
func (b *binder) bindRandom(ctx context.Context) (net.Listener, error) {
	total := b.cfg.Max - b.cfg.Min + 1
	tried := make(map[int]struct{}, 16)

	port := b.cfg.Base
	for {
		tried[port] = struct{}{}
		ln, retry, err := b.try(ctx, port)
		if ln != nil || !retry {
			return ln, err
		}

		if len(tried) >= total {
			return nil, &errors.BindError{Msg: fmt.Sprintf("no free port in range %d-%d", b.cfg.Min, b.cfg.Max)}
		}

		port = b.cfg.Min + b.intn(total)
		for {
			if _, ok := tried[port]; !ok {
				break
			}
			port = b.cfg.Min + (port-b.cfg.Min+1)%total
		}
	}
}

// try attempts a single port. It reports whether another port may be tried after a failure.
func (b *binder) try(ctx context.Context, port int) (net.Listener, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, &errors.BindError{Msg: "port search cancelled", Err: err}
	}

	address := net.JoinHostPort(b.cfg.Host, strconv.Itoa(port))
	ln, err := b.listen(ctx, "tcp", address)
	if err == nil {
		b.logger.Infow("bound listener", "address", ln.Addr().String(), "policy", b.cfg.Policy)
		return ln, false, nil
	}

	if errors.IsRetryableBind(err) {
		b.logger.Debugw("port unavailable", "port", port, zap.Error(err))
		return nil, true, nil
	}
	return nil, false, &errors.BindError{Port: port, Msg: "unexpected bind error", Err: err}
}

func validate(cfg *Config) error {
	if cfg.Host == "" {
		cfg.Host = _loopbackHost
	}
	if ip := net.ParseIP(cfg.Host); ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("port host %q must be a loopback address", cfg.Host)
	}

	switch cfg.Policy {
	case PolicySequential:
		if cfg.Base < 1 || cfg.MaxOffset < 0 || cfg.Base+cfg.MaxOffset > _maxPort {
			return fmt.Errorf("invalid sequential port range %d+%d", cfg.Base, cfg.MaxOffset)
		}
	case PolicyRandom:
		if cfg.Min < 1 || cfg.Max > _maxPort || cfg.Min > cfg.Max {
			return fmt.Errorf("invalid random port range %d-%d", cfg.Min, cfg.Max)
		}
		if cfg.Base < cfg.Min || cfg.Base > cfg.Max {
			return fmt.Errorf("default port %d is outside range %d-%d", cfg.Base, cfg.Min, cfg.Max)
		}
	default:
		return fmt.Errorf("unknown port policy %q", cfg.Policy)
	}
	return nil
}
