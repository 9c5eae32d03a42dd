package bridgedaemon

import (
	"context"
	"fmt"

	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/internal/errors"
	"github.com/scriptedit/bridge/src/bridge/mapper"
	"go.uber.org/multierr"
)

func (c *controller) BatchRename(ctx context.Context, req *entity.Request) (resp *entity.Response, err error) {
	stats := c.stats.SubScope("batch")
	stats.Counter("started").Inc(1)
	sw := stats.Timer("latency").Start()
	defer func() {
		sw.Stop()
		if err != nil {
			stats.Counter("failed").Inc(1)
			return
		}
		stats.Counter("succeeded").Inc(1)
	}()

	entries, err := c.validateBatch(req)
	if err != nil {
		return nil, err
	}
	stats.Counter("entries").Inc(int64(len(entries)))

	edited, moves, err := c.applySymbolEdits(ctx, entries)
	if err != nil {
		return nil, err
	}

	if err := c.saveEditedFiles(ctx, edited); err != nil {
		failures := multierr.Errors(err)
		stats.Counter("save_failures").Inc(int64(len(failures)))
		c.logger.Warnf("Continuing batch after %d save failure(s): %v", len(failures), err)
	}

	if err := c.moveFiles(ctx, moves); err != nil {
		return nil, err
	}

	c.logger.Infow("batch completed", "requestId", string(req.RequestID), "entries", len(entries), "editedFiles", len(edited), "movedFiles", len(moves))
	return mapper.NewOKResponse(req.RequestID, c.projectRoot), nil
}

// validateBatch checks the envelope and every entry before anything is touched.
func (c *controller) validateBatch(req *entity.Request) ([]entity.RenameEntry, error) {
	switch req.Action {
	case entity.ActionRename:
		if req.ProjectRoot != "" && !c.acceptsRoot(c.normalizePath(req.ProjectRoot)) {
			return nil, c.mismatchedRoot(req.ProjectRoot)
		}
	default:
		declared := c.normalizePath(req.ProjectRoot)
		if declared == "" {
			return nil, &errors.ValidationError{Msg: "batchRename missing projectRoot"}
		}
		if !c.acceptsRoot(declared) {
			return nil, c.mismatchedRoot(req.ProjectRoot)
		}
	}

	entries := mapper.RequestToEntries(req)
	if len(entries) == 0 {
		return nil, errors.NoRequestsError
	}
	for i, e := range entries {
		if err := validateEntry(i+1, e); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func validateEntry(n int, e entity.RenameEntry) error {
	pairs := []struct {
		oldValue, newValue string
		oldKey, newKey     string
	}{
		{e.OldNamespace, e.NewNamespace, "oldNamespace", "newNamespace"},
		{e.OldClass, e.NewClass, "oldClass", "newClass"},
	}
	for _, p := range pairs {
		if (p.oldValue == "") != (p.newValue == "") {
			return &errors.ValidationError{Msg: fmt.Sprintf("entry %d: %s and %s must both be set", n, p.oldKey, p.newKey)}
		}
	}
	// oldFile alone is the origin hint of a symbol rename.
	if e.NewFile != "" && e.OldFile == "" {
		return &errors.ValidationError{Msg: fmt.Sprintf("entry %d: oldFile and newFile must both be set", n)}
	}
	if !e.HasNamespace() && !e.HasClass() && !e.HasFileMove() {
		return &errors.ValidationError{Msg: fmt.Sprintf("entry %d: no rename fields", n)}
	}
	return nil
}

// applySymbolEdits renames the symbols of every entry in order and stops at the first failure.
// It returns the edited files and the file moves to run once all symbols are renamed.
func (c *controller) applySymbolEdits(ctx context.Context, entries []entity.RenameEntry) ([]string, []entity.FileMove, error) {
	var edited []string
	var moves []entity.FileMove

	for i, e := range entries {
		n := i + 1
		var originFile string
		if e.OldFile != "" {
			originFile = c.resolvePath(e.OldFile)
		}

		if e.HasNamespace() {
			paths, err := c.renameSymbol(ctx, e.OldNamespace, e.NewNamespace, entity.SymbolKindNamespace, originFile)
			if err != nil {
				return nil, nil, &errors.EditFailure{Entry: n, Err: err}
			}
			edited = mergePaths(edited, paths)
		}
		if e.HasClass() {
			paths, err := c.renameSymbol(ctx, e.OldClass, e.NewClass, entity.SymbolKindClass, originFile)
			if err != nil {
				return nil, nil, &errors.EditFailure{Entry: n, Err: err}
			}
			edited = mergePaths(edited, paths)
		}
		if e.HasFileMove() {
			moves = append(moves, entity.FileMove{Entry: n, OldPath: originFile, NewPath: c.resolvePath(e.NewFile)})
		}
	}
	return edited, moves, nil
}

func (c *controller) renameSymbol(ctx context.Context, oldName, newName string, kind entity.SymbolKind, originFile string) ([]string, error) {
	loc, err := c.workspace.FindSymbol(ctx, oldName, kind, originFile)
	if err != nil {
		return nil, err
	}
	c.logger.Debugw("renaming symbol", "kind", kind.String(), "from", oldName, "to", newName, "path", loc.Path)
	return c.workspace.RenameSymbolAt(ctx, *loc, newName)
}

// mergePaths returns a new list holding set followed by the paths of added that set does not contain.
func mergePaths(set []string, added []string) []string {
	merged := make([]string, 0, len(set)+len(added))
	seen := make(map[string]struct{}, len(set)+len(added))
	for _, list := range [][]string{set, added} {
		for _, p := range list {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}

// saveEditedFiles saves every edited file once. Failures are collected and never stop the loop.
func (c *controller) saveEditedFiles(ctx context.Context, paths []string) error {
	var errs error
	for _, path := range paths {
		if err := c.workspace.SaveFile(ctx, path); err != nil {
			errs = multierr.Append(errs, &errors.PersistFailure{Path: path, Err: err})
		}
	}
	return errs
}

// moveFiles runs the queued moves in order and stops at the first failure.
func (c *controller) moveFiles(ctx context.Context, moves []entity.FileMove) error {
	for _, m := range moves {
		if err := c.workspace.MoveFile(ctx, m.OldPath, m.NewPath); err != nil {
			return &errors.MoveFailure{Entry: m.Entry, OldPath: m.OldPath, NewPath: m.NewPath, Err: err}
		}
		if err := c.workspace.OpenFile(ctx, m.NewPath); err != nil {
			c.logger.Warnf("Failed to open %q after move: %v", m.NewPath, err)
		}
	}
	return nil
}
