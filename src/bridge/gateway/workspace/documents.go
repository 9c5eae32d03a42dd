package workspace

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/scriptedit/bridge/src/bridge/mapper"
	"go.lsp.dev/protocol"
)

// document is the in-memory state of a file known to the language server.
type document struct {
	path    string
	text    string
	version int32
	// dirty is set while text holds edits that were not written to disk.
	dirty bool
	// opened is set once didOpen was sent on the current connection.
	opened bool
}

// openDocument loads path into the store and opens it in the language server if needed.
// Must be called with g.mu held.
func (g *gateway) openDocument(ctx context.Context, server languageServer, path string) (*document, error) {
	path = filepath.Clean(path)
	doc, ok := g.documents[path]
	if !ok {
		content, err := g.fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading document %q: %w", path, err)
		}
		doc = &document{path: path, text: string(content)}
		g.documents[path] = doc
		g.watchDir(path)
	}

	if !doc.opened {
		if err := server.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{
				URI:        mapper.PathToDocumentURI(path),
				LanguageID: protocol.LanguageIdentifier(g.cfg.LanguageServer.LanguageID),
				Version:    doc.version,
				Text:       doc.text,
			},
		}); err != nil {
			return nil, fmt.Errorf("opening document %q: %w", path, err)
		}
		doc.opened = true
	}
	return doc, nil
}

// syncText replaces the text of doc and sends the difference to the language server.
// Must be called with g.mu held.
func (g *gateway) syncText(ctx context.Context, server languageServer, doc *document, text string) error {
	changes, err := mapper.TextToContentChanges(doc.text, text)
	if err != nil {
		return err
	}
	doc.text = text
	if len(changes) == 0 || !doc.opened || server == nil {
		return nil
	}

	doc.version++
	return server.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: mapper.PathToDocumentURI(doc.path)},
			Version:                doc.version,
		},
		ContentChanges: changes,
	})
}

// watchDir starts watching the directory of path. Must be called with g.mu held.
func (g *gateway) watchDir(path string) {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Add(filepath.Dir(path)); err != nil {
		g.logger.Debugf("Unable to watch %q: %v", filepath.Dir(path), err)
	}
}

func (g *gateway) handleChanges() {
	defer close(g.watchDone)
	for {
		select {
		case event, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			g.reloadDocument(context.Background(), filepath.Clean(event.Name))
		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			g.logger.Warnf("Failure in document change watcher: %v", err)
		}
	}
}

// reloadDocument refreshes a clean cached document from disk. Documents with pending edits are kept as they are.
func (g *gateway) reloadDocument(ctx context.Context, path string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, ok := g.documents[path]
	if !ok || doc.dirty {
		return
	}
	content, err := g.fs.ReadFile(path)
	if err != nil {
		g.logger.Debugf("Unable to reload %q: %v", path, err)
		return
	}
	if string(content) == doc.text {
		return
	}
	if err := g.syncText(ctx, g.server, doc, string(content)); err != nil {
		g.logger.Warnf("Failed to sync %q with the language server: %v", path, err)
	}
}
