package mcp

import (
	"github.com/lukman83/martdash/internal/app"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "martdash"
	serverVersion = "1.0.0"
)

func newServer(a *app.App) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	registerTools(s, &tools{app: a})
	return s
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(a *app.App) error {
	return server.ServeStdio(newServer(a))
}
