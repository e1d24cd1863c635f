// Package mcp exposes window organizing to MCP clients. Tools are thin
// wrappers over the daemon's IPC surface, so an assistant can arrange
// windows with the same semantics as the CLI.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wintidy/internal/arrange"
	"github.com/1broseidon/wintidy/internal/ipc"
)

const (
	ServerName    = "wintidy"
	ServerVersion = "0.1.0"
)

// daemonClient is the slice of the IPC client the tools need. Tests
// substitute a fake.
type daemonClient interface {
	Organize(p ipc.OrganizePayload) (*arrange.Result, error)
	Undo() (bool, error)
	ListWindows(all bool) (*ipc.WindowsData, error)
	GetStatus() (*arrange.Status, error)
	ListLayouts() (*ipc.LayoutsData, error)
}

// Server is the MCP server for window organizing.
type Server struct {
	mcpServer *mcpsdk.Server
	client    daemonClient
}

// NewServer creates an MCP server that talks to the running daemon.
func NewServer() *Server {
	return newServer(ipc.NewClient())
}

func newServer(client daemonClient) *Server {
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "organize_windows",
		Description: "Arrange the desktop's windows with a layout: grid, cascade, or stack. Optionally narrow the window set with target/exclude substrings and override layout options. The previous positions are saved for undo.",
	}, s.handleOrganize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "undo_last_layout",
		Description: "Restore window positions and states recorded by the most recent organize. Each undo consumes one history entry; repeated calls walk further back.",
	}, s.handleUndo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows the organizer can see. By default only manageable windows are returned; set all to include filtered-out ones.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layouts",
		Description: "List the available layout names and the configured default.",
	}, s.handleListLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the organizer daemon's status: default layout, undo history depth and usage, and current manageable window count.",
	}, s.handleGetStatus)
}
