package mapper

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/scriptedit/bridge/src/bridge/entity"
	protocolmapper "github.com/scriptedit/bridge/src/bridge/internal/protocol"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// EditOffset stores a string modification based on byte offsets in the original text.
type EditOffset struct {
	start int
	end   int
	text  string
}

// SymbolKindToProtocol maps a rename target kind to the LSP symbol kind used in workspace/symbol results.
func SymbolKindToProtocol(kind entity.SymbolKind) protocol.SymbolKind {
	switch kind {
	case entity.SymbolKindNamespace:
		return protocol.SymbolKindNamespace
	case entity.SymbolKindClass:
		return protocol.SymbolKindClass
	default:
		return 0
	}
}

// PathToDocumentURI converts an absolute file path into a file URI.
func PathToDocumentURI(path string) protocol.DocumentURI {
	return uri.File(path)
}

// DocumentURIToPath converts a file URI into a cleaned absolute path.
func DocumentURIToPath(u protocol.DocumentURI) string {
	return filepath.Clean(u.Filename())
}

// SymbolInformationToLocation maps a workspace/symbol result to a declaration location.
func SymbolInformationToLocation(si protocol.SymbolInformation) *entity.Location {
	return &entity.Location{
		Name:      si.Name,
		Path:      DocumentURIToPath(si.Location.URI),
		Line:      si.Location.Range.Start.Line,
		Character: si.Location.Range.Start.Character,
	}
}

// LocationToRenameParams builds the textDocument/rename request for a declaration location.
func LocationToRenameParams(loc entity.Location, newName string) *protocol.RenameParams {
	return &protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: PathToDocumentURI(loc.Path)},
			Position:     protocol.Position{Line: loc.Line, Character: loc.Character},
		},
		NewName: newName,
	}
}

// WorkspaceEditToFileEdits flattens both the changes and documentChanges of a workspace edit into
// text edits keyed by file path. The returned slice lists the paths in first-seen order.
func WorkspaceEditToFileEdits(edit *protocol.WorkspaceEdit) (map[string][]protocol.TextEdit, []string) {
	result := make(map[string][]protocol.TextEdit)
	var order []string
	if edit == nil {
		return result, order
	}

	add := func(u protocol.DocumentURI, edits []protocol.TextEdit) {
		if len(edits) == 0 {
			return
		}
		path := DocumentURIToPath(u)
		if _, ok := result[path]; !ok {
			order = append(order, path)
		}
		result[path] = append(result[path], edits...)
	}

	for _, docEdit := range edit.DocumentChanges {
		add(docEdit.TextDocument.URI, docEdit.Edits)
	}

	// Map iteration order is random, so sort the remaining paths for a stable result.
	changeURIs := make([]protocol.DocumentURI, 0, len(edit.Changes))
	for u := range edit.Changes {
		changeURIs = append(changeURIs, u)
	}
	sort.Slice(changeURIs, func(i, j int) bool { return changeURIs[i] < changeURIs[j] })
	for _, u := range changeURIs {
		add(u, edit.Changes[u])
	}

	return result, order
}

// ApplyTextEdits applies a set of non-overlapping text edits, all expressed against the original content.
func ApplyTextEdits(content []byte, edits []protocol.TextEdit) ([]byte, error) {
	m := protocolmapper.NewTextOffsetMapper(content)
	offsets := make([]EditOffset, 0, len(edits))
	for _, edit := range edits {
		start, end, err := m.RangeOffsets(edit.Range)
		if err != nil {
			return nil, fmt.Errorf("unable to apply edits: %w", err)
		}
		offsets = append(offsets, EditOffset{start: start, end: end, text: edit.NewText})
	}

	sort.SliceStable(offsets, func(i, j int) bool { return offsets[i].start < offsets[j].start })
	for i := 1; i < len(offsets); i++ {
		if offsets[i].start < offsets[i-1].end {
			return nil, fmt.Errorf("unable to apply edits: overlapping edits at offset %d", offsets[i].start)
		}
	}

	var buf bytes.Buffer
	last := 0
	for _, o := range offsets {
		buf.Write(content[last:o.start])
		buf.WriteString(o.text)
		last = o.end
	}
	buf.Write(content[last:])
	return buf.Bytes(), nil
}

// ApplyContentChanges applies the given content change events in order, each against the
// result of the previous one.
func ApplyContentChanges(initialText string, changes []protocol.TextDocumentContentChangeEvent) (string, error) {
	content := []byte(initialText)
	for _, change := range changes {
		// A change without a range replaces the whole document.
		if change.Range == nil {
			content = []byte(change.Text)
			continue
		}
		m := protocolmapper.NewTextOffsetMapper(content)
		start, end, err := m.RangeOffsets(*change.Range)
		if err != nil {
			return "", fmt.Errorf("unable to apply changes: %w", err)
		}
		var buf bytes.Buffer
		buf.Write(content[:start])
		buf.WriteString(change.Text)
		buf.Write(content[end:])
		content = buf.Bytes()
	}

	return string(content), nil
}

// DiffsToEditOffsets converts diffs into a list of edits based on offsets within the initial text.
func DiffsToEditOffsets(diffs []diffmatchpatch.Diff) (initialText bytes.Buffer, offsets []EditOffset) {
	edits := make([]EditOffset, 0, len(diffs))
	offset := 0
	for _, d := range diffs {
		start := offset
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			initialText.WriteString(d.Text)
			offset += len(d.Text)
			edits = append(edits, EditOffset{start: start, end: offset})
		case diffmatchpatch.DiffEqual:
			initialText.WriteString(d.Text)
			offset += len(d.Text)
		case diffmatchpatch.DiffInsert:
			edits = append(edits, EditOffset{start: start, end: start, text: d.Text})
		}
	}
	return initialText, edits
}

// TextToContentChanges diffs two versions of a document into incremental didChange events.
// Events are ordered from the end of the document towards its start, so that each event's range
// is still valid in the text produced by applying the previous ones.
func TextToContentChanges(oldText, newText string) ([]protocol.TextDocumentContentChangeEvent, error) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	initialText, offsets := DiffsToEditOffsets(diffs)

	m := protocolmapper.NewTextOffsetMapper(initialText.Bytes())
	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(offsets))
	for i := len(offsets) - 1; i >= 0; i-- {
		r, err := m.OffsetsRange(offsets[i].start, offsets[i].end)
		if err != nil {
			return nil, err
		}
		changes = append(changes, protocol.TextDocumentContentChangeEvent{
			Range: &r,
			Text:  offsets[i].text,
		})
	}
	return changes, nil
}
