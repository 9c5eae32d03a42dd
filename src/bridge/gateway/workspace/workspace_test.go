package workspace

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/scriptedit/bridge/src/bridge/entity"
	bridgeerrors "github.com/scriptedit/bridge/src/bridge/internal/errors"
	"github.com/scriptedit/bridge/src/bridge/internal/executor/executormock"
	"github.com/scriptedit/bridge/src/bridge/internal/fs/fsmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	_fooPath  = "/proj/Assets/Foo.cs"
	_userPath = "/proj/Assets/User.cs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testGateway struct {
	*gateway
	server   *MocklanguageServer
	fs       *fsmock.MockBridgeFS
	executor *executormock.MockExecutor
	connects int
}

func newTestGateway(t *testing.T, cfg Config) *testGateway {
	ctrl := gomock.NewController(t)
	tg := &testGateway{
		server:   NewMocklanguageServer(ctrl),
		fs:       fsmock.NewMockBridgeFS(ctrl),
		executor: executormock.NewMockExecutor(ctrl),
	}
	tg.server.EXPECT().Done().Return(nil).AnyTimes()

	if cfg.LanguageServer.Address == "" {
		cfg.LanguageServer = LanguageServerConfig{Address: "127.0.0.1:6008", LanguageID: "csharp"}
	}
	connect := func(ctx context.Context) (languageServer, error) {
		tg.connects++
		return tg.server, nil
	}
	tg.gateway = newGateway(cfg, "/proj", tg.fs, tg.executor, zap.NewNop().Sugar(), connect, nil)
	return tg
}

func symbol(name string, kind protocol.SymbolKind, path string, line uint32) protocol.SymbolInformation {
	return protocol.SymbolInformation{
		Name: name,
		Kind: kind,
		Location: protocol.Location{
			URI:   uri.File(path),
			Range: protocol.Range{Start: protocol.Position{Line: line, Character: 6}},
		},
	}
}

func textEdit(line, startChar, endChar uint32, text string) protocol.TextEdit {
	return protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: startChar},
			End:   protocol.Position{Line: line, Character: endChar},
		},
		NewText: text,
	}
}

func TestFindSymbol(t *testing.T) {
	ctx := context.Background()
	symbols := []protocol.SymbolInformation{
		symbol("FooTest", protocol.SymbolKindClass, "/proj/Assets/FooTest.cs", 1),
		symbol("Foo", protocol.SymbolKindConstructor, "/proj/Assets/Foo.cs", 4),
		symbol("Foo", protocol.SymbolKindClass, "/proj/Assets/A/Foo.cs", 2),
		symbol("Foo", protocol.SymbolKindClass, "/proj/Assets/Foo.cs", 3),
	}

	tests := []struct {
		name       string
		symbols    []protocol.SymbolInformation
		kind       entity.SymbolKind
		originFile string
		want       *entity.Location
		wantErr    bool
	}{
		{
			name:    "first exact match of the requested kind",
			symbols: symbols,
			kind:    entity.SymbolKindClass,
			want:    &entity.Location{Name: "Foo", Path: "/proj/Assets/A/Foo.cs", Line: 2, Character: 6},
		},
		{
			name:       "origin file is preferred",
			symbols:    symbols,
			kind:       entity.SymbolKindClass,
			originFile: "/proj/Assets/./Foo.cs",
			want:       &entity.Location{Name: "Foo", Path: "/proj/Assets/Foo.cs", Line: 3, Character: 6},
		},
		{
			name:       "origin file without a match falls back to the first",
			symbols:    symbols,
			kind:       entity.SymbolKindClass,
			originFile: "/proj/Assets/Other.cs",
			want:       &entity.Location{Name: "Foo", Path: "/proj/Assets/A/Foo.cs", Line: 2, Character: 6},
		},
		{
			name:    "name only when no kind matches",
			symbols: symbols[:2],
			kind:    entity.SymbolKindClass,
			want:    &entity.Location{Name: "Foo", Path: "/proj/Assets/Foo.cs", Line: 4, Character: 6},
		},
		{
			name:    "not found",
			symbols: symbols[:1],
			kind:    entity.SymbolKindClass,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := newTestGateway(t, Config{})
			tg.server.EXPECT().Symbols(gomock.Any(), &protocol.WorkspaceSymbolParams{Query: "Foo"}).Return(tt.symbols, nil)

			loc, err := tg.FindSymbol(ctx, "Foo", tt.kind, tt.originFile)
			if tt.wantErr {
				var nf *bridgeerrors.SymbolNotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "Symbol 'Foo' not found.", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc)
		})
	}

	t.Run("query failure", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.server.EXPECT().Symbols(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
		_, err := tg.FindSymbol(ctx, "Foo", entity.SymbolKindClass, "")
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("connection is reused", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.server.EXPECT().Symbols(gomock.Any(), gomock.Any()).Return(symbols, nil).Times(2)
		_, err := tg.FindSymbol(ctx, "Foo", entity.SymbolKindClass, "")
		require.NoError(t, err)
		_, err = tg.FindSymbol(ctx, "Foo", entity.SymbolKindClass, "")
		require.NoError(t, err)
		assert.Equal(t, 1, tg.connects)
	})

	t.Run("connect failure", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.connect = func(ctx context.Context) (languageServer, error) {
			return nil, errors.New("connection refused")
		}
		_, err := tg.FindSymbol(ctx, "Foo", entity.SymbolKindClass, "")
		assert.ErrorContains(t, err, `connecting to language server at "127.0.0.1:6008": connection refused`)
	})
}

func TestReconnect(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	tg := newTestGateway(t, Config{})

	ended := make(chan struct{})
	close(ended)
	stale := NewMocklanguageServer(ctrl)
	stale.EXPECT().Done().Return(ended)
	tg.server.EXPECT().Symbols(gomock.Any(), gomock.Any()).Return(nil, nil)

	tg.gateway.server = stale
	tg.documents[_fooPath] = &document{path: _fooPath, opened: true}

	_, err := tg.FindSymbol(ctx, "Foo", entity.SymbolKindClass, "")
	require.Error(t, err)
	assert.Equal(t, 1, tg.connects)
	assert.False(t, tg.documents[_fooPath].opened)
}

func TestRenameSymbolAt(t *testing.T) {
	ctx := context.Background()
	loc := entity.Location{Name: "Foo", Path: _fooPath, Line: 0, Character: 6}
	fooText := "class Foo {}\n"
	userText := "class User { Foo foo; }\n"

	t.Run("applies edits to every file", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		gomock.InOrder(
			tg.fs.EXPECT().ReadFile(_fooPath).Return([]byte(fooText), nil),
			tg.server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).DoAndReturn(
				func(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
					assert.Equal(t, uri.File(_fooPath), params.TextDocument.URI)
					assert.Equal(t, protocol.LanguageIdentifier("csharp"), params.TextDocument.LanguageID)
					assert.Equal(t, fooText, params.TextDocument.Text)
					return nil
				}),
			tg.server.EXPECT().Rename(gomock.Any(), gomock.Any()).DoAndReturn(
				func(ctx context.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
					assert.Equal(t, "Bar", params.NewName)
					return &protocol.WorkspaceEdit{
						Changes: map[protocol.DocumentURI][]protocol.TextEdit{
							uri.File(_fooPath):  {textEdit(0, 6, 9, "Bar")},
							uri.File(_userPath): {textEdit(0, 13, 16, "Bar")},
						},
					}, nil
				}),
		)
		tg.fs.EXPECT().ReadFile(_userPath).Return([]byte(userText), nil)
		tg.server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).Return(nil)
		var versions []int32
		tg.server.EXPECT().DidChange(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
				versions = append(versions, params.TextDocument.Version)
				assert.NotEmpty(t, params.ContentChanges)
				return nil
			}).Times(2)

		paths, err := tg.RenameSymbolAt(ctx, loc, "Bar")
		require.NoError(t, err)
		assert.Equal(t, []string{_fooPath, _userPath}, paths)
		assert.Equal(t, []int32{1, 1}, versions)
		assert.Equal(t, "class Bar {}\n", tg.documents[_fooPath].text)
		assert.Equal(t, "class User { Bar foo; }\n", tg.documents[_userPath].text)
		assert.True(t, tg.documents[_fooPath].dirty)
		assert.True(t, tg.documents[_userPath].dirty)

		tg.fs.EXPECT().WriteFile(_fooPath, "class Bar {}\n").Return(nil)
		tg.server.EXPECT().DidSave(gomock.Any(), gomock.Any()).Return(nil)
		require.NoError(t, tg.SaveFile(ctx, _fooPath))
		assert.False(t, tg.documents[_fooPath].dirty)

		// Saving a clean document does nothing.
		require.NoError(t, tg.SaveFile(ctx, _fooPath))
	})

	t.Run("no edits", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.fs.EXPECT().ReadFile(_fooPath).Return([]byte(fooText), nil)
		tg.server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).Return(nil)
		tg.server.EXPECT().Rename(gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := tg.RenameSymbolAt(ctx, loc, "Bar")
		var ne *bridgeerrors.NoEditsError
		require.ErrorAs(t, err, &ne)
		assert.Equal(t, "Rename of 'Foo' failed (no edits).", err.Error())
	})

	t.Run("rename request failure", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.fs.EXPECT().ReadFile(_fooPath).Return([]byte(fooText), nil)
		tg.server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).Return(nil)
		tg.server.EXPECT().Rename(gomock.Any(), gomock.Any()).Return(nil, errors.New("not renameable"))

		_, err := tg.RenameSymbolAt(ctx, loc, "Bar")
		var ae *bridgeerrors.ApplyEditError
		require.ErrorAs(t, err, &ae)
		assert.ErrorContains(t, err, "not renameable")
	})

	t.Run("bad edit leaves every document untouched", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.fs.EXPECT().ReadFile(_fooPath).Return([]byte(fooText), nil)
		tg.fs.EXPECT().ReadFile(_userPath).Return([]byte(userText), nil)
		tg.server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).Return(nil).Times(2)
		tg.server.EXPECT().Rename(gomock.Any(), gomock.Any()).Return(&protocol.WorkspaceEdit{
			DocumentChanges: []protocol.TextDocumentEdit{
				{
					TextDocument: protocol.OptionalVersionedTextDocumentIdentifier{
						TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri.File(_fooPath)},
					},
					Edits: []protocol.TextEdit{textEdit(0, 6, 9, "Bar")},
				},
				{
					TextDocument: protocol.OptionalVersionedTextDocumentIdentifier{
						TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri.File(_userPath)},
					},
					Edits: []protocol.TextEdit{textEdit(7, 0, 1, "x")},
				},
			},
		}, nil)

		_, err := tg.RenameSymbolAt(ctx, loc, "Bar")
		var ae *bridgeerrors.ApplyEditError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, fooText, tg.documents[_fooPath].text)
		assert.False(t, tg.documents[_fooPath].dirty)
	})

	t.Run("unreadable document", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.fs.EXPECT().ReadFile(_fooPath).Return(nil, errors.New("permission denied"))

		_, err := tg.RenameSymbolAt(ctx, loc, "Bar")
		var ae *bridgeerrors.ApplyEditError
		require.ErrorAs(t, err, &ae)
		assert.ErrorContains(t, err, "permission denied")
	})
}

func TestSaveFile(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown document is opened but not written", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.fs.EXPECT().ReadFile(_fooPath).Return([]byte("class Foo {}"), nil)
		tg.server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, tg.SaveFile(ctx, _fooPath))
		assert.Contains(t, tg.documents, _fooPath)
	})

	t.Run("write failure", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.documents[_fooPath] = &document{path: _fooPath, text: "class Bar {}", dirty: true}
		tg.fs.EXPECT().WriteFile(_fooPath, "class Bar {}").Return(errors.New("disk full"))

		err := tg.SaveFile(ctx, _fooPath)
		assert.ErrorContains(t, err, "disk full")
		assert.True(t, tg.documents[_fooPath].dirty)
	})

	t.Run("save notification failure is not an error", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.gateway.server = tg.server
		tg.documents[_fooPath] = &document{path: _fooPath, text: "class Bar {}", dirty: true, opened: true}
		tg.fs.EXPECT().WriteFile(_fooPath, "class Bar {}").Return(nil)
		tg.server.EXPECT().DidSave(gomock.Any(), gomock.Any()).Return(errors.New("gone"))

		assert.NoError(t, tg.SaveFile(ctx, _fooPath))
	})
}

func TestMoveFile(t *testing.T) {
	ctx := context.Background()
	newPath := "/proj/Assets/Game/Bar.cs"

	t.Run("moves the cached document", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.gateway.server = tg.server
		tg.documents[_fooPath] = &document{path: _fooPath, text: "class Bar {}", opened: true}

		gomock.InOrder(
			tg.fs.EXPECT().MkdirAll("/proj/Assets/Game").Return(nil),
			tg.fs.EXPECT().Rename(_fooPath, newPath).Return(nil),
			tg.server.EXPECT().DidRenameFiles(gomock.Any(), &protocol.RenameFilesParams{
				Files: []protocol.FileRename{{OldURI: string(uri.File(_fooPath)), NewURI: string(uri.File(newPath))}},
			}).Return(nil),
			tg.server.EXPECT().DidClose(gomock.Any(), gomock.Any()).Return(nil),
			tg.server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).DoAndReturn(
				func(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
					assert.Equal(t, uri.File(newPath), params.TextDocument.URI)
					return nil
				}),
		)

		require.NoError(t, tg.MoveFile(ctx, _fooPath, newPath))
		assert.NotContains(t, tg.documents, _fooPath)
		assert.Equal(t, newPath, tg.documents[newPath].path)
	})

	t.Run("without a connection nothing is notified", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.fs.EXPECT().MkdirAll("/proj/Assets/Game").Return(nil)
		tg.fs.EXPECT().Rename(_fooPath, newPath).Return(nil)

		require.NoError(t, tg.MoveFile(ctx, _fooPath, newPath))
		assert.Equal(t, 0, tg.connects)
	})

	t.Run("rename failure", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.gateway.server = tg.server
		tg.fs.EXPECT().MkdirAll(gomock.Any()).Return(nil)
		tg.fs.EXPECT().Rename(_fooPath, newPath).Return(errors.New("destination exists"))

		assert.ErrorContains(t, tg.MoveFile(ctx, _fooPath, newPath), "destination exists")
	})

	t.Run("directory failure", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.fs.EXPECT().MkdirAll(gomock.Any()).Return(errors.New("read-only"))

		assert.ErrorContains(t, tg.MoveFile(ctx, _fooPath, newPath), "read-only")
	})
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the open command", func(t *testing.T) {
		tg := newTestGateway(t, Config{OpenCommand: []string{"code", "--goto", "{file}:1"}})
		tg.fs.EXPECT().ReadFile(_fooPath).Return([]byte("class Foo {}"), nil)
		tg.server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).Return(nil)
		tg.executor.EXPECT().Run(gomock.Any()).DoAndReturn(func(cmd *exec.Cmd) (string, string, int, error) {
			assert.Equal(t, []string{"code", "--goto", _fooPath + ":1"}, cmd.Args)
			assert.Equal(t, "/proj", cmd.Dir)
			return "", "", 0, nil
		})

		require.NoError(t, tg.OpenFile(ctx, _fooPath))
	})

	t.Run("path is appended without a placeholder", func(t *testing.T) {
		tg := newTestGateway(t, Config{OpenCommand: []string{"rider"}})
		tg.fs.EXPECT().ReadFile(_fooPath).Return([]byte("class Foo {}"), nil)
		tg.server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).Return(nil)
		tg.executor.EXPECT().Run(gomock.Any()).DoAndReturn(func(cmd *exec.Cmd) (string, string, int, error) {
			assert.Equal(t, []string{"rider", _fooPath}, cmd.Args)
			return "", "", 0, nil
		})

		require.NoError(t, tg.OpenFile(ctx, _fooPath))
	})

	t.Run("failures are combined", func(t *testing.T) {
		tg := newTestGateway(t, Config{OpenCommand: []string{"rider"}})
		tg.fs.EXPECT().ReadFile(_fooPath).Return(nil, errors.New("missing"))
		tg.executor.EXPECT().Run(gomock.Any()).Return("", "no display", 1, errors.New("exit status 1"))

		err := tg.OpenFile(ctx, _fooPath)
		assert.ErrorContains(t, err, "missing")
		assert.ErrorContains(t, err, "no display")
	})
}

func TestReloadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("clean document follows the disk", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.gateway.server = tg.server
		tg.documents[_fooPath] = &document{path: _fooPath, text: "class Foo {}", opened: true}
		tg.fs.EXPECT().ReadFile(_fooPath).Return([]byte("class Foo { int x; }"), nil)
		tg.server.EXPECT().DidChange(gomock.Any(), gomock.Any()).Return(nil)

		tg.reloadDocument(ctx, _fooPath)
		assert.Equal(t, "class Foo { int x; }", tg.documents[_fooPath].text)
		assert.Equal(t, int32(1), tg.documents[_fooPath].version)
	})

	t.Run("dirty document is kept", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.documents[_fooPath] = &document{path: _fooPath, text: "class Bar {}", dirty: true}

		tg.reloadDocument(ctx, _fooPath)
		assert.Equal(t, "class Bar {}", tg.documents[_fooPath].text)
	})

	t.Run("unchanged content is not synced", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.gateway.server = tg.server
		tg.documents[_fooPath] = &document{path: _fooPath, text: "class Foo {}", opened: true}
		tg.fs.EXPECT().ReadFile(_fooPath).Return([]byte("class Foo {}"), nil)

		tg.reloadDocument(ctx, _fooPath)
		assert.Equal(t, int32(0), tg.documents[_fooPath].version)
	})

	t.Run("unknown document is ignored", func(t *testing.T) {
		tg := newTestGateway(t, Config{})
		tg.reloadDocument(ctx, _fooPath)
		assert.Empty(t, tg.documents)
	})
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	tg := newTestGateway(t, Config{})
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	tg.watcher = watcher
	tg.gateway.server = tg.server
	tg.server.EXPECT().Close(gomock.Any()).Return(nil)

	require.NoError(t, tg.start(ctx))
	require.NoError(t, tg.stop(ctx))
	assert.Nil(t, tg.gateway.server)
}
