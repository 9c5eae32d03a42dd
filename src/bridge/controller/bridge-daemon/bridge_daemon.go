// Package bridgedaemon implements the bridge-daemon business logic.
package bridgedaemon

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/gateway/workspace"
	"github.com/scriptedit/bridge/src/bridge/internal/errors"
	"github.com/scriptedit/bridge/src/bridge/internal/unityproject"
	"github.com/scriptedit/bridge/src/bridge/repository/session"
	"github.com/uber-go/tally"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _errMismatchedRoot = "Mismatched project root: '%s' vs '%s'"

// Controller orchestrates the business logic for each request.
type Controller interface {
	// ProjectRoot returns the root of the project served by this bridge.
	ProjectRoot() string

	// Handshake validates the declared project root and callback port and records the peer session.
	Handshake(ctx context.Context, req *entity.Request, peerAddress string) (*entity.Response, error)

	// BatchRename runs every entry of a batchRename or rename request.
	// Symbol edits run first in list order, then edited files are saved, then files are moved.
	BatchRename(ctx context.Context, req *entity.Request) (*entity.Response, error)
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Project   *unityproject.Project
	Sessions  session.Repository
	Workspace workspace.Gateway
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

type controller struct {
	projectRoot    string
	normalizedRoot string
	// foldCase compares paths case-insensitively, for platforms whose filesystems usually are.
	foldCase bool

	sessions  session.Repository
	workspace workspace.Gateway
	logger    *zap.SugaredLogger
	stats     tally.Scope
}

// New constructs a new top-level controller for the service.
func New(p Params) (Controller, error) {
	if p.Project == nil || p.Project.Root == "" {
		return nil, fmt.Errorf("project root is required")
	}

	c := &controller{
		projectRoot: p.Project.Root,
		foldCase:    runtime.GOOS == "windows" || runtime.GOOS == "darwin",
		sessions:    p.Sessions,
		workspace:   p.Workspace,
		logger:      p.Logger,
		stats:       p.Stats,
	}
	c.normalizedRoot = c.normalizePath(c.projectRoot)
	c.logger.Infow("serving project", "projectRoot", c.projectRoot, "unity", p.Project.IsUnity, "editorVersion", p.Project.EditorVersion)
	return c, nil
}

func (c *controller) ProjectRoot() string {
	return c.projectRoot
}

// normalizePath converts separators to '/', strips a trailing separator and folds case when required.
func (c *controller) normalizePath(p string) string {
	if p == "" {
		return ""
	}
	// Clean resolves dot segments so "/proj/.." can't pass as a sub path.
	np := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	if c.foldCase {
		np = strings.ToLower(np)
	}
	return np
}

// acceptsRoot reports whether a normalized declared root is the served root or lies below it.
func (c *controller) acceptsRoot(declared string) bool {
	if declared == c.normalizedRoot {
		return true
	}
	prefix := c.normalizedRoot
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(declared, prefix)
}

func (c *controller) mismatchedRoot(declared string) error {
	return &errors.ValidationError{Msg: fmt.Sprintf(_errMismatchedRoot, c.projectRoot, declared)}
}

// resolvePath makes an entry path absolute against the project root.
func (c *controller) resolvePath(p string) string {
	p = filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.projectRoot, p)
	}
	return filepath.Clean(p)
}
