package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wintidy/internal/ipc"
)

// OrganizeInput mirrors the IPC organize payload for tool callers.
type OrganizeInput struct {
	Layout        string `json:"layout,omitempty" jsonschema:"layout name: grid, cascade, or stack; empty uses the configured default"`
	Target        string `json:"target,omitempty" jsonschema:"only organize windows whose title or process contains this substring"`
	Exclude       string `json:"exclude,omitempty" jsonschema:"skip windows whose title or process contains this substring"`
	Columns       int    `json:"columns,omitempty" jsonschema:"grid column count; 0 auto-computes from window count"`
	Padding       int    `json:"padding,omitempty" jsonschema:"grid padding in pixels"`
	OffsetX       int    `json:"offset_x,omitempty" jsonschema:"cascade horizontal step in pixels"`
	OffsetY       int    `json:"offset_y,omitempty" jsonschema:"cascade vertical step in pixels"`
	StackPosition string `json:"stack_position,omitempty" jsonschema:"stack placement: center, left, right, top, or bottom"`
	WindowWidth   string `json:"window_width,omitempty" jsonschema:"stack window width as pixels (800) or percentage (50%)"`
	WindowHeight  string `json:"window_height,omitempty" jsonschema:"stack window height as pixels (600) or percentage (50%)"`
}

type OrganizeOutput struct {
	Success       bool     `json:"success"`
	Layout        string   `json:"layout"`
	SuccessCount  int      `json:"success_count"`
	TotalCount    int      `json:"total_count"`
	FailedHandles []uint32 `json:"failed_handles,omitempty"`
	Message       string   `json:"message,omitempty"`
}

func (s *Server) handleOrganize(_ context.Context, _ *mcpsdk.CallToolRequest, args OrganizeInput) (*mcpsdk.CallToolResult, OrganizeOutput, error) {
	result, err := s.client.Organize(ipc.OrganizePayload{
		Layout:        args.Layout,
		Target:        args.Target,
		Exclude:       args.Exclude,
		Columns:       args.Columns,
		Padding:       args.Padding,
		OffsetX:       args.OffsetX,
		OffsetY:       args.OffsetY,
		StackPosition: args.StackPosition,
		WindowWidth:   args.WindowWidth,
		WindowHeight:  args.WindowHeight,
	})
	if err != nil {
		return nil, OrganizeOutput{}, err
	}

	out := OrganizeOutput{
		Success:      result.Success,
		Layout:       result.Layout,
		SuccessCount: result.SuccessCount,
		TotalCount:   result.TotalCount,
		Message:      result.Message,
	}
	for _, h := range result.FailedHandles {
		out.FailedHandles = append(out.FailedHandles, uint32(h))
	}
	return nil, out, nil
}

type UndoInput struct{}

type UndoOutput struct {
	Restored bool `json:"restored"`
}

func (s *Server) handleUndo(_ context.Context, _ *mcpsdk.CallToolRequest, _ UndoInput) (*mcpsdk.CallToolResult, UndoOutput, error) {
	restored, err := s.client.Undo()
	if err != nil {
		return nil, UndoOutput{}, err
	}
	return nil, UndoOutput{Restored: restored}, nil
}

type ListWindowsInput struct {
	All bool `json:"all,omitempty" jsonschema:"include windows that fail the manageability filters"`
}

type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.ListWindows(args.All)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{Windows: data.Windows}, nil
}

type ListLayoutsInput struct{}

type ListLayoutsOutput struct {
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
}

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListLayoutsInput) (*mcpsdk.CallToolResult, ListLayoutsOutput, error) {
	data, err := s.client.ListLayouts()
	if err != nil {
		return nil, ListLayoutsOutput{}, err
	}
	return nil, ListLayoutsOutput{
		Layouts:       data.Layouts,
		DefaultLayout: data.DefaultLayout,
	}, nil
}

type GetStatusInput struct{}

type GetStatusOutput struct {
	DefaultLayout string `json:"default_layout"`
	UndoDepth     int    `json:"undo_depth"`
	UndoAvailable int    `json:"undo_available"`
	WindowCount   int    `json:"window_count"`
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		DefaultLayout: status.DefaultLayout,
		UndoDepth:     status.UndoDepth,
		UndoAvailable: status.UndoAvailable,
		WindowCount:   status.WindowCount,
	}, nil
}
