package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName   = "tagtok"
	instructions = "Use tokenize_text to split marked-up text into terms with byte spans and " +
		"whitelisted tags with term spans; pass fields to choose which tags are kept. " +
		"Use tokenize_file for a local HTML, XML, Markdown or text file."
)

// NewServer registers the tokenizer tools on a new MCP server.
func NewServer(h *Handlers, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tokenize_text",
		Description: "Tokenize text and return its terms, term byte spans and whitelisted tags as JSON.",
	}, h.TokenizeText)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tokenize_file",
		Description: "Read a local file, render Markdown to HTML if needed, and return its tokenization as JSON.",
	}, h.TokenizeFile)

	return server
}

// Serve runs server on stdio until the client disconnects or ctx ends.
func Serve(ctx context.Context, server *mcp.Server) error {
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
