package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandOrganize    CommandType = "ORGANIZE"
	CommandUndo        CommandType = "UNDO"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandListLayouts CommandType = "LIST_LAYOUTS"
	CommandReload      CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// OrganizePayload is the payload for the ORGANIZE command.
type OrganizePayload struct {
	Layout  string `json:"layout,omitempty"`
	Target  string `json:"target,omitempty"`
	Exclude string `json:"exclude,omitempty"`

	// Per-layout overrides. Zero values mean "use configured defaults".
	Columns       int    `json:"columns,omitempty"`
	Padding       int    `json:"padding,omitempty"`
	OffsetX       int    `json:"offset_x,omitempty"`
	OffsetY       int    `json:"offset_y,omitempty"`
	StackPosition string `json:"stack_position,omitempty"`
	WindowWidth   string `json:"window_width,omitempty"`
	WindowHeight  string `json:"window_height,omitempty"`
}

// UndoData is the data returned by UNDO.
type UndoData struct {
	Restored bool `json:"restored"`
}

// WindowInfo describes one window in LIST_WINDOWS output.
type WindowInfo struct {
	ID          uint32 `json:"id"`
	PID         int    `json:"pid"`
	Title       string `json:"title"`
	Class       string `json:"class"`
	ProcessName string `json:"process_name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Minimized   bool   `json:"minimized"`
	Manageable  bool   `json:"manageable"`
}

// WindowsData is the data returned by LIST_WINDOWS.
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// ListWindowsPayload is the payload for LIST_WINDOWS.
type ListWindowsPayload struct {
	// All includes windows that fail the manageability filters.
	All bool `json:"all,omitempty"`
}

// LayoutsData is the data returned by LIST_LAYOUTS.
type LayoutsData struct {
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
