package handler

import (
	controller "github.com/scriptedit/bridge/src/bridge/controller"
	bridgedaemon "github.com/scriptedit/bridge/src/bridge/controller/bridge-daemon"
	handler "github.com/scriptedit/bridge/src/bridge/handler/bridge-daemon"
	"github.com/scriptedit/bridge/src/bridge/repository/session"
	"go.uber.org/fx"
)

// Module provides the bridge-daemon server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputProjectInfo),
	fx.Invoke(func(m handler.Handler) {}),
	fx.Invoke(func(m bridgedaemon.Controller) {}),
)
