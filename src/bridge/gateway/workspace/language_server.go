package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/scriptedit/bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _clientName = "scriptedit-bridge"

// languageServer is the subset of the language server protocol used by the gateway.
type languageServer interface {
	Symbols(ctx context.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error)
	Rename(ctx context.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error)
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error
	DidRenameFiles(ctx context.Context, params *protocol.RenameFilesParams) error

	// Done is closed once the underlying connection is gone.
	Done() <-chan struct{}
	// Close shuts the server session down and closes the connection.
	Close(ctx context.Context) error
}

type connectFunc func(ctx context.Context) (languageServer, error)

type lspConnection struct {
	protocol.Server
	conn jsonrpc2.Conn
}

func (c *lspConnection) Done() <-chan struct{} {
	return c.conn.Done()
}

func (c *lspConnection) Close(ctx context.Context) error {
	err := c.Server.Shutdown(ctx)
	err = multierr.Append(err, c.Server.Exit(ctx))
	return multierr.Append(err, c.conn.Close())
}

// dialLanguageServer connects to a language server listening on TCP and completes the initialize handshake.
func dialLanguageServer(ctx context.Context, cfg LanguageServerConfig, projectRoot string, logger *zap.Logger) (languageServer, error) {
	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	nc, err := dialer.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, err
	}

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(nc))
	// The connection outlives the request that opened it.
	conn.Go(context.Background(), handleServerRequest)
	server := protocol.ServerDispatcher(conn, logger)

	rootURI := mapper.PathToDocumentURI(projectRoot)
	if _, err := server.Initialize(ctx, &protocol.InitializeParams{
		ProcessID:  int32(os.Getpid()),
		ClientInfo: &protocol.ClientInfo{Name: _clientName},
		RootURI:    rootURI,
		RootPath:   projectRoot,
		WorkspaceFolders: []protocol.WorkspaceFolder{
			{URI: string(rootURI), Name: filepath.Base(projectRoot)},
		},
	}); err != nil {
		return nil, multierr.Append(fmt.Errorf("initialize: %w", err), conn.Close())
	}
	if err := server.Initialized(ctx, &protocol.InitializedParams{}); err != nil {
		return nil, multierr.Append(fmt.Errorf("initialized: %w", err), conn.Close())
	}

	return &lspConnection{Server: server, conn: conn}, nil
}

// handleServerRequest answers the requests a language server may send to its client.
// Notifications are ignored.
func handleServerRequest(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case protocol.MethodWorkspaceConfiguration:
		var params protocol.ConfigurationParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, make([]interface{}, len(params.Items)), nil)
	case protocol.MethodWorkDoneProgressCreate,
		protocol.MethodClientRegisterCapability,
		protocol.MethodClientUnregisterCapability:
		return reply(ctx, nil, nil)
	case protocol.MethodWorkspaceApplyEdit:
		return reply(ctx, &protocol.ApplyWorkspaceEditResponse{Applied: false}, nil)
	case protocol.MethodWorkspaceWorkspaceFolders:
		return reply(ctx, []protocol.WorkspaceFolder{}, nil)
	}
	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}
