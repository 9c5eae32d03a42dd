// Package workspace edits the files of the served project through a language server.
package workspace

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/internal/errors"
	"github.com/scriptedit/bridge/src/bridge/internal/executor"
	"github.com/scriptedit/bridge/src/bridge/internal/fs"
	"github.com/scriptedit/bridge/src/bridge/internal/unityproject"
	"github.com/scriptedit/bridge/src/bridge/mapper"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_configKeyWorkspace = "workspace"

	// _openCommandFileArg is replaced by the path of the file to open in openCommand arguments.
	_openCommandFileArg = "{file}"

	_closeTimeout = 5 * time.Second
)

// Module provides the workspace Gateway.
var Module = fx.Provide(New)

// Gateway performs the symbol and file operations requested by a batch.
type Gateway interface {
	// FindSymbol returns the declaration of the named symbol. When several declarations match,
	// one declared in originFile is preferred. Returns a *errors.SymbolNotFoundError when nothing matches.
	FindSymbol(ctx context.Context, name string, kind entity.SymbolKind, originFile string) (*entity.Location, error)
	// RenameSymbolAt renames the symbol declared at loc in every file that references it and returns the edited paths.
	// The edits are kept in memory until SaveFile is called.
	RenameSymbolAt(ctx context.Context, loc entity.Location, newName string) ([]string, error)
	// SaveFile writes pending edits of path to disk.
	SaveFile(ctx context.Context, path string) error
	// MoveFile renames a file on disk, creating the destination directory when needed.
	MoveFile(ctx context.Context, oldPath, newPath string) error
	// OpenFile opens path in the language server and, when configured, in the editor.
	OpenFile(ctx context.Context, path string) error
}

// Config is the "workspace" config block.
type Config struct {
	LanguageServer LanguageServerConfig `yaml:"languageServer"`
	// OpenCommand is run to show a moved file in the editor. "{file}" arguments are replaced by the path,
	// otherwise the path is appended as the last argument.
	OpenCommand []string `yaml:"openCommand"`
}

// LanguageServerConfig locates the language server.
type LanguageServerConfig struct {
	Address     string        `yaml:"address"`
	LanguageID  string        `yaml:"languageId"`
	DialTimeout time.Duration `yaml:"dialTimeout"`
}

// Params are the dependencies of the fx constructor.
type Params struct {
	fx.In

	Config    config.Provider
	Project   *unityproject.Project
	FS        fs.BridgeFS
	Executor  executor.Executor
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	RPCLogger *zap.Logger
}

type gateway struct {
	cfg         Config
	projectRoot string
	fs          fs.BridgeFS
	executor    executor.Executor
	logger      *zap.SugaredLogger
	connect     connectFunc

	// mu guards server and documents. Every operation holds it for its whole duration.
	mu        sync.Mutex
	server    languageServer
	documents map[string]*document

	watcher   *fsnotify.Watcher
	watchDone chan struct{}
}

// New creates a Gateway backed by the configured language server. The connection is opened on first use.
func New(p Params) (Gateway, error) {
	cfg := Config{
		LanguageServer: LanguageServerConfig{
			LanguageID:  "csharp",
			DialTimeout: 5 * time.Second,
		},
	}
	if err := p.Config.Get(_configKeyWorkspace).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyWorkspace, err)
	}
	if cfg.LanguageServer.Address == "" {
		return nil, fmt.Errorf("%s.languageServer.address must be set", _configKeyWorkspace)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher for documents: %w", err)
	}

	root := p.Project.Root
	connect := func(ctx context.Context) (languageServer, error) {
		return dialLanguageServer(ctx, cfg.LanguageServer, root, p.RPCLogger)
	}
	g := newGateway(cfg, root, p.FS, p.Executor, p.Logger, connect, watcher)

	p.Lifecycle.Append(fx.Hook{
		OnStart: g.start,
		OnStop:  g.stop,
	})
	return g, nil
}

func newGateway(cfg Config, projectRoot string, fsys fs.BridgeFS, runner executor.Executor, logger *zap.SugaredLogger, connect connectFunc, watcher *fsnotify.Watcher) *gateway {
	return &gateway{
		cfg:         cfg,
		projectRoot: projectRoot,
		fs:          fsys,
		executor:    runner,
		logger:      logger.With("gateway", "workspace"),
		connect:     connect,
		documents:   make(map[string]*document),
		watcher:     watcher,
	}
}

func (g *gateway) start(ctx context.Context) error {
	if g.watcher == nil {
		g.logger.Warn("File watcher unavailable, continuing without watching for changes")
		return nil
	}
	g.watchDone = make(chan struct{})
	go g.handleChanges()
	return nil
}

func (g *gateway) stop(ctx context.Context) error {
	var err error
	if g.watcher != nil {
		err = multierr.Append(err, g.watcher.Close())
		if g.watchDone != nil {
			<-g.watchDone
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.server != nil {
		closeCtx, cancel := context.WithTimeout(ctx, _closeTimeout)
		defer cancel()
		err = multierr.Append(err, g.server.Close(closeCtx))
		g.server = nil
	}
	return err
}

func (g *gateway) FindSymbol(ctx context.Context, name string, kind entity.SymbolKind, originFile string) (*entity.Location, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	server, err := g.languageServer(ctx)
	if err != nil {
		return nil, err
	}
	symbols, err := server.Symbols(ctx, &protocol.WorkspaceSymbolParams{Query: name})
	if err != nil {
		return nil, fmt.Errorf("searching for symbol '%s': %w", name, err)
	}

	candidates := matchSymbols(symbols, name, func(si protocol.SymbolInformation) bool {
		return si.Kind == mapper.SymbolKindToProtocol(kind)
	})
	if len(candidates) == 0 {
		// Some servers report a different kind for partial declarations, fall back to the name alone.
		candidates = matchSymbols(symbols, name, nil)
	}
	if len(candidates) == 0 {
		return nil, &errors.SymbolNotFoundError{Name: name}
	}

	if originFile != "" {
		origin := filepath.Clean(originFile)
		for _, si := range candidates {
			if mapper.DocumentURIToPath(si.Location.URI) == origin {
				return mapper.SymbolInformationToLocation(si), nil
			}
		}
	}
	return mapper.SymbolInformationToLocation(candidates[0]), nil
}

func matchSymbols(symbols []protocol.SymbolInformation, name string, keep func(protocol.SymbolInformation) bool) []protocol.SymbolInformation {
	var result []protocol.SymbolInformation
	for _, si := range symbols {
		if si.Name != name {
			continue
		}
		if keep != nil && !keep(si) {
			continue
		}
		result = append(result, si)
	}
	return result
}

func (g *gateway) RenameSymbolAt(ctx context.Context, loc entity.Location, newName string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	server, err := g.languageServer(ctx)
	if err != nil {
		return nil, &errors.ApplyEditError{Name: loc.Name, Err: err}
	}
	if _, err := g.openDocument(ctx, server, loc.Path); err != nil {
		return nil, &errors.ApplyEditError{Name: loc.Name, Err: err}
	}

	edit, err := server.Rename(ctx, mapper.LocationToRenameParams(loc, newName))
	if err != nil {
		return nil, &errors.ApplyEditError{Name: loc.Name, Err: err}
	}
	fileEdits, paths := mapper.WorkspaceEditToFileEdits(edit)
	if len(paths) == 0 {
		return nil, &errors.NoEditsError{Name: loc.Name}
	}

	// Compute every new text before touching any document so a bad edit leaves the store unchanged.
	updated := make(map[string]string, len(paths))
	for _, path := range paths {
		doc, err := g.openDocument(ctx, server, path)
		if err != nil {
			return nil, &errors.ApplyEditError{Name: loc.Name, Err: err}
		}
		content, err := mapper.ApplyTextEdits([]byte(doc.text), fileEdits[path])
		if err != nil {
			return nil, &errors.ApplyEditError{Name: loc.Name, Err: fmt.Errorf("%s: %w", path, err)}
		}
		updated[path] = string(content)
	}

	for _, path := range paths {
		doc := g.documents[path]
		if err := g.syncText(ctx, server, doc, updated[path]); err != nil {
			g.logger.Warnf("Failed to sync %q with the language server: %v", path, err)
		}
		doc.dirty = true
	}
	return paths, nil
}

func (g *gateway) SaveFile(ctx context.Context, path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	path = filepath.Clean(path)
	doc, ok := g.documents[path]
	if !ok {
		// A document loaded now has no pending edits, so there is nothing to write.
		server, err := g.languageServer(ctx)
		if err != nil {
			return err
		}
		_, err = g.openDocument(ctx, server, path)
		return err
	}
	if !doc.dirty {
		return nil
	}

	if err := g.fs.WriteFile(path, doc.text); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	doc.dirty = false

	if g.server != nil && doc.opened {
		if err := g.server.DidSave(ctx, &protocol.DidSaveTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: mapper.PathToDocumentURI(path)},
			Text:         doc.text,
		}); err != nil {
			g.logger.Warnf("Failed to notify save of %q: %v", path, err)
		}
	}
	return nil
}

func (g *gateway) MoveFile(ctx context.Context, oldPath, newPath string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)
	if err := g.fs.MkdirAll(filepath.Dir(newPath)); err != nil {
		return fmt.Errorf("creating directory for %q: %w", newPath, err)
	}
	if err := g.fs.Rename(oldPath, newPath); err != nil {
		return err
	}

	oldURI, newURI := mapper.PathToDocumentURI(oldPath), mapper.PathToDocumentURI(newPath)
	doc, cached := g.documents[oldPath]
	if cached {
		delete(g.documents, oldPath)
		doc.path = newPath
		g.documents[newPath] = doc
		g.watchDir(newPath)
	}

	if g.server == nil {
		return nil
	}
	if err := g.server.DidRenameFiles(ctx, &protocol.RenameFilesParams{
		Files: []protocol.FileRename{{OldURI: string(oldURI), NewURI: string(newURI)}},
	}); err != nil {
		g.logger.Warnf("Failed to notify rename of %q: %v", oldPath, err)
	}
	if cached && doc.opened {
		if err := g.server.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: oldURI},
		}); err != nil {
			g.logger.Warnf("Failed to close %q: %v", oldPath, err)
		}
		doc.opened = false
		if _, err := g.openDocument(ctx, g.server, newPath); err != nil {
			g.logger.Warnf("Failed to reopen %q: %v", newPath, err)
		}
	}
	return nil
}

func (g *gateway) OpenFile(ctx context.Context, path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	path = filepath.Clean(path)
	var errs error
	server, err := g.languageServer(ctx)
	if err == nil {
		_, err = g.openDocument(ctx, server, path)
	}
	errs = multierr.Append(errs, err)

	if len(g.cfg.OpenCommand) > 0 {
		errs = multierr.Append(errs, g.runOpenCommand(path))
	}
	return errs
}

func (g *gateway) runOpenCommand(path string) error {
	args := make([]string, 0, len(g.cfg.OpenCommand)+1)
	replaced := false
	for _, arg := range g.cfg.OpenCommand {
		if strings.Contains(arg, _openCommandFileArg) {
			arg = strings.ReplaceAll(arg, _openCommandFileArg, path)
			replaced = true
		}
		args = append(args, arg)
	}
	if !replaced {
		args = append(args, path)
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = g.projectRoot
	_, stderr, exitCode, err := g.executor.Run(cmd)
	if err != nil {
		return fmt.Errorf("running open command (exit code %d): %w: %s", exitCode, err, strings.TrimSpace(stderr))
	}
	return nil
}

// languageServer returns the current connection, dialing a new one when there is none or the previous one ended.
// Must be called with g.mu held.
func (g *gateway) languageServer(ctx context.Context) (languageServer, error) {
	if g.server != nil {
		select {
		case <-g.server.Done():
			g.logger.Warn("Language server connection ended, reconnecting")
			g.server = nil
			for _, doc := range g.documents {
				doc.opened = false
			}
		default:
			return g.server, nil
		}
	}

	server, err := g.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to language server at %q: %w", g.cfg.LanguageServer.Address, err)
	}
	g.server = server
	return server, nil
}
