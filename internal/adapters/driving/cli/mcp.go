package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khalid0211/FileRAG/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
questions about the documents in your store.

Tools:      ask, list_documents, store_info
Resources:  filerag://history, filerag://history.json

By default the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead.

Examples:
  # Stdio mode (for desktop assistants)
  filerag mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  filerag mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "filerag": {
        "command": "/path/to/filerag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// mcpPorts collects the services exposed over MCP.
func mcpPorts() *mcp.Ports {
	return &mcp.Ports{
		Query:    queryService,
		Document: documentService,
		Store:    storeService,
		History:  historyService,
	}
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(mcpPorts())
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
