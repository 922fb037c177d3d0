package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/filescope/internal/indexer"
	"github.com/dshills/filescope/internal/inspector"
	"github.com/dshills/filescope/internal/logging"
	"github.com/dshills/filescope/internal/parser"
	"github.com/dshills/filescope/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "filescope"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Options holds the components the tools are served from
type Options struct {
	Coordinator *indexer.Coordinator
	Store       storage.Storage
	Parser      *parser.Parser
	Logger      *slog.Logger
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	storage   storage.Storage
	coord     *indexer.Coordinator
	inspector *inspector.Inspector
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance. The caller keeps ownership
// of the store.
func NewServer(opts Options) (*Server, error) {
	if opts.Coordinator == nil || opts.Store == nil {
		return nil, errors.New("coordinator and store are required")
	}
	logger := logging.OrDefault(opts.Logger)

	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		storage:   opts.Store,
		coord:     opts.Coordinator,
		inspector: inspector.New(opts.Store, opts.Parser, inspector.Views{}, logger),
		logger:    logger,
	}

	s.registerTools()
	return s, nil
}

// Serve runs the MCP server on stdio until stdin closes or ctx is done
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server started", slog.String("root", s.coord.Root()))
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(indexDirectoryTool(), s.handleIndexDirectory)
	s.mcp.AddTool(listFilesTool(), s.handleListFiles)
	s.mcp.AddTool(getFileTool(), s.handleGetFile)
	s.mcp.AddTool(listDefinitionsTool(), s.handleListDefinitions)
}
