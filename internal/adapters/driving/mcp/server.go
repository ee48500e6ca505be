package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/khalid0211/FileRAG/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// instructions tell connected assistants what the server offers.
const instructions = `filerag answers questions from the documents uploaded to one Gemini File Search store.
Use "ask" for grounded answers; every answer is appended to the query history.
Use "list_documents" to see which documents are active, pending or failed, and
"store_info" for the store name and remote counts. The history is readable as
the filerag://history (text) and filerag://history.json resources.`

// shutdownTimeout bounds how long open HTTP sessions may drain.
const shutdownTimeout = 5 * time.Second

// Server exposes the FileRAG services to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer validates ports and registers the tools and resources they
// support. Document, Store and History are optional.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "filerag",
		Title:   "FileRAG",
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
		InitializedHandler: func(context.Context, *mcp.InitializedRequest) {
			logger.Debug("MCP client initialised")
		},
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves a single client over stdin/stdout until ctx is cancelled or
// the client disconnects. Nothing else may write to stdout meanwhile.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("Serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves MCP over streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP HTTP shutdown: %v", err)
		}
	}()

	logger.Debug("Serving MCP over HTTP on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
