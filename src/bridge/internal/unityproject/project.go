// Package unityproject resolves the project root served by the bridge and checks that it looks like a Unity project.
package unityproject

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/scriptedit/bridge/src/bridge/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	_configKeyProjectRoot = "bridge.projectRoot"
	_configKeyRequire     = "bridge.requireUnityProject"

	_assetsDir          = "Assets"
	_projectSettingsDir = "ProjectSettings"
	_projectVersionFile = "ProjectVersion.txt"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Project is the workspace the bridge serves. It is resolved once at startup and never changes.
type Project struct {
	// Root is the absolute, cleaned project root.
	Root string
	// IsUnity reports whether Root contains both Assets/ and ProjectSettings/.
	IsUnity bool
	// EditorVersion is read from ProjectSettings/ProjectVersion.txt when present.
	EditorVersion string
}

// Params define values to be used by New.
type Params struct {
	fx.In

	Config config.Provider
	FS     fs.BridgeFS
	Logger *zap.SugaredLogger
}

// New resolves the project from configuration, falling back to the working directory.
func New(p Params) (*Project, error) {
	var root string
	if err := p.Config.Get(_configKeyProjectRoot).Populate(&root); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyProjectRoot, err)
	}
	requireUnity := false
	if v := p.Config.Get(_configKeyRequire); v.HasValue() {
		if err := v.Populate(&requireUnity); err != nil {
			return nil, fmt.Errorf("getting config field %q: %w", _configKeyRequire, err)
		}
	}

	if root == "" {
		wd, err := p.FS.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		root = wd
	}

	project, err := Resolve(p.FS, root)
	if err != nil {
		return nil, err
	}

	if !project.IsUnity {
		if requireUnity {
			return nil, fmt.Errorf("'%s' is not a Unity project (missing %s/ or %s/)", project.Root, _assetsDir, _projectSettingsDir)
		}
		p.Logger.Warnw("project root is not a Unity project", "root", project.Root)
	}
	p.Logger.Infow("serving project", "root", project.Root, "editorVersion", project.EditorVersion)
	return project, nil
}

// Resolve inspects root without applying any policy.
func Resolve(fsys fs.BridgeFS, root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %q: %w", root, err)
	}
	project := &Project{Root: abs}

	hasAssets, err := fsys.DirExists(filepath.Join(abs, _assetsDir))
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", _assetsDir, err)
	}
	hasSettings, err := fsys.DirExists(filepath.Join(abs, _projectSettingsDir))
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", _projectSettingsDir, err)
	}
	project.IsUnity = hasAssets && hasSettings
	if !hasSettings {
		return project, nil
	}

	versionFile := filepath.Join(abs, _projectSettingsDir, _projectVersionFile)
	exists, err := fsys.FileExists(versionFile)
	if err != nil || !exists {
		return project, nil
	}
	content, err := fsys.ReadFile(versionFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", versionFile, err)
	}
	version, err := ParseEditorVersion(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", versionFile, err)
	}
	project.EditorVersion = version
	return project, nil
}

// ParseEditorVersion extracts the editor version from the contents of ProjectVersion.txt.
func ParseEditorVersion(content []byte) (string, error) {
	var v struct {
		EditorVersion string `yaml:"m_EditorVersion"`
	}
	if err := yaml.NewDecoder(bytes.NewReader(content)).Decode(&v); err != nil {
		return "", err
	}
	return v.EditorVersion, nil
}
