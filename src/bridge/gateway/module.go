package gateway

import (
	"github.com/scriptedit/bridge/src/bridge/gateway/callback"
	"github.com/scriptedit/bridge/src/bridge/gateway/workspace"
	"go.uber.org/fx"
)

// Module provides the outbound gateways into an Fx application.
var Module = fx.Options(
	callback.Module,
	workspace.Module,
)
