package handler

import (
	"fmt"

	bridgedaemon "github.com/scriptedit/bridge/src/bridge/controller/bridge-daemon"
	"github.com/scriptedit/bridge/src/bridge/internal/serverinfofile"
)

// Output the served project root so that peers can pick the bridge of their project.
// The listener adds its own address once it is bound.
func outputProjectInfo(ctrl bridgedaemon.Controller, infofile serverinfofile.ServerInfoFile) error {
	if err := infofile.UpdateField(serverinfofile.KeyProjectRoot, ctrl.ProjectRoot()); err != nil {
		return fmt.Errorf("outputting project root to info file: %w", err)
	}
	return nil
}
