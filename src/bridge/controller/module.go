package controller

import (
	bridgedaemon "github.com/scriptedit/bridge/src/bridge/controller/bridge-daemon"
	"github.com/scriptedit/bridge/src/bridge/controller/responder"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(bridgedaemon.New),
	responder.Module,
)
