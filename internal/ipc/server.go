package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/wintidy/internal/arrange"
	"github.com/1broseidon/wintidy/internal/config"
	"github.com/1broseidon/wintidy/internal/layout"
	"github.com/1broseidon/wintidy/internal/platform"
	"github.com/1broseidon/wintidy/internal/runtimepath"
	"github.com/1broseidon/wintidy/internal/windows"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	manager      *arrange.Manager
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(manager *arrange.Manager, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		manager:    manager,
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandOrganize:
		return s.handleOrganize(req.Payload)
	case CommandUndo:
		return s.handleUndo()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows(req.Payload)
	case CommandListLayouts:
		return s.handleListLayouts()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleOrganize(payload json.RawMessage) *Response {
	var p OrganizePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid organize payload: %v", err))
		}
	}

	req, err := organizeRequest(p)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	result, err := s.manager.Organize(req)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(result)
	return resp
}

// organizeRequest converts the wire payload into a manager request,
// validating option overrides up front.
func organizeRequest(p OrganizePayload) (arrange.Request, error) {
	req := arrange.Request{
		Layout:  p.Layout,
		Target:  p.Target,
		Exclude: p.Exclude,
	}

	var opts layout.Options
	hasOpts := false
	if p.Columns > 0 {
		opts.Columns = &p.Columns
		hasOpts = true
	}
	if p.Padding > 0 {
		opts.Padding = &p.Padding
		hasOpts = true
	}
	if p.OffsetX > 0 {
		opts.OffsetX = &p.OffsetX
		hasOpts = true
	}
	if p.OffsetY > 0 {
		opts.OffsetY = &p.OffsetY
		hasOpts = true
	}
	if p.StackPosition != "" {
		opts.StackPosition = p.StackPosition
		hasOpts = true
	}
	if p.WindowWidth != "" {
		dim, err := layout.ParseDimension(p.WindowWidth)
		if err != nil {
			return arrange.Request{}, err
		}
		opts.WindowWidth = &dim
		hasOpts = true
	}
	if p.WindowHeight != "" {
		dim, err := layout.ParseDimension(p.WindowHeight)
		if err != nil {
			return arrange.Request{}, err
		}
		opts.WindowHeight = &dim
		hasOpts = true
	}
	if hasOpts {
		req.Options = &opts
	}
	return req, nil
}

func (s *Server) handleUndo() *Response {
	restored, err := s.manager.Undo()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to undo: %v", err))
	}

	resp, _ := NewOKResponse(UndoData{Restored: restored})
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	status, err := s.manager.Status()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWindows(payload json.RawMessage) *Response {
	var p ListWindowsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid list payload: %v", err))
		}
	}

	var (
		wins []platform.Window
		err  error
	)
	if p.All {
		wins, err = s.manager.AllWindows()
	} else {
		wins, err = s.manager.ManageableWindows()
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}

	filterOpts := s.manager.Config().FilterOptions()
	infos := make([]WindowInfo, len(wins))
	for i, w := range wins {
		infos[i] = WindowInfoFromWindow(w, windows.IsManageable(w, filterOpts))
	}

	resp, _ := NewOKResponse(WindowsData{Windows: infos})
	return resp
}

// WindowInfoFromWindow converts a platform window record to its wire form.
func WindowInfoFromWindow(w platform.Window, manageable bool) WindowInfo {
	return WindowInfo{
		ID:          uint32(w.ID),
		PID:         w.PID,
		Title:       w.Title,
		Class:       w.Class,
		ProcessName: w.ProcessName,
		X:           w.Bounds.X,
		Y:           w.Bounds.Y,
		Width:       w.Bounds.Width,
		Height:      w.Bounds.Height,
		Minimized:   w.Minimized,
		Manageable:  manageable,
	}
}

func (s *Server) handleListLayouts() *Response {
	data := LayoutsData{
		Layouts:       layout.Names(),
		DefaultLayout: s.manager.Config().DefaultLayout,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	newCfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.manager.UpdateConfig(newCfg)

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
