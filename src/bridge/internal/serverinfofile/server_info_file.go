// Package serverinfofile records how to reach the running bridge so that local tools can discover its port.
package serverinfofile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/scriptedit/bridge/src/bridge/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKeyInfoFile = "serverInfoFilePath"

// Keys written by the bridge.
const (
	KeyAddress     = "address"
	KeyProjectRoot = "projectRoot"
	KeyPID         = "pid"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ServerInfoFile manages the contents of a single JSON info file.
// The file is rewritten on every update and removed when the application stops.
type ServerInfoFile interface {
	UpdateField(key string, value string) error
}

type module struct {
	infofile     string
	fs           fs.BridgeFS
	logger       *zap.SugaredLogger
	fileContents map[string]string
	mu           sync.Mutex
}

// Params define values to be used by ServerInfoFile.
type Params struct {
	fx.In

	Config    config.Provider
	FS        fs.BridgeFS
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
}

// New creates a new ServerInfoFile.
func New(p Params) (ServerInfoFile, error) {
	m := &module{
		fs:           p.FS,
		logger:       p.Logger,
		fileContents: map[string]string{KeyPID: fmt.Sprint(os.Getpid())},
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: m.OnStop,
	})

	return m, nil
}

// OnStop removes the info file. A file that was never written is not an error.
func (m *module) OnStop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fs.Remove(m.infofile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing info file: %w", err)
	}
	return nil
}

func (m *module) UpdateField(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fileContents[key] = value
	jsonOutput, err := json.Marshal(m.fileContents)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if err := m.fs.MkdirAll(filepath.Dir(m.infofile)); err != nil {
		return fmt.Errorf("creating info file directory: %w", err)
	}
	if err := m.fs.WriteFile(m.infofile, string(jsonOutput)); err != nil {
		return fmt.Errorf("writing info file: %w", err)
	}
	m.logger.Infow("server info saved", zap.String("file", m.infofile), zap.String(key, value))
	return nil
}

func (m *module) processConfig(cfg config.Provider) error {
	val := cfg.Get(_configKeyInfoFile)
	if err := val.Populate(&m.infofile); err != nil {
		return fmt.Errorf("getting config field %q: %w", _configKeyInfoFile, err)
	}

	if m.infofile == "" {
		return fmt.Errorf("missing field %q in config", _configKeyInfoFile)
	}

	return nil
}
