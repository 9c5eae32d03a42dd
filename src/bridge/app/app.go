package app

import (
	"context"
	"time"

	"github.com/scriptedit/bridge/src/bridge/gateway"
	"github.com/scriptedit/bridge/src/bridge/handler"
	"github.com/scriptedit/bridge/src/bridge/internal/clock"
	"github.com/scriptedit/bridge/src/bridge/internal/core"
	"github.com/scriptedit/bridge/src/bridge/internal/executor"
	"github.com/scriptedit/bridge/src/bridge/internal/fs"
	"github.com/scriptedit/bridge/src/bridge/internal/ndjsonfx"
	"github.com/scriptedit/bridge/src/bridge/internal/portbinder"
	"github.com/scriptedit/bridge/src/bridge/internal/serverinfofile"
	"github.com/scriptedit/bridge/src/bridge/internal/unityproject"
	"github.com/uber-go/tally"
	"go.uber.org/fx"
)

// Module defines the bridge-daemon application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	ndjsonfx.Module,
	portbinder.Module,
	fs.Module,
	executor.Module,
	clock.Module,
	serverinfofile.Module,
	unityproject.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "scriptedit-bridge",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateConfigProvider),
)
