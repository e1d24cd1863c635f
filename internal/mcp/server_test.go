package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/wintidy/internal/arrange"
	"github.com/1broseidon/wintidy/internal/ipc"
)

type fakeClient struct {
	organize  func(p ipc.OrganizePayload) (*arrange.Result, error)
	undo      func() (bool, error)
	lastPayld ipc.OrganizePayload
}

func (f *fakeClient) Organize(p ipc.OrganizePayload) (*arrange.Result, error) {
	f.lastPayld = p
	if f.organize != nil {
		return f.organize(p)
	}
	return &arrange.Result{Success: true, Layout: p.Layout, SuccessCount: 2, TotalCount: 2}, nil
}

func (f *fakeClient) Undo() (bool, error) {
	if f.undo != nil {
		return f.undo()
	}
	return true, nil
}

func (f *fakeClient) ListWindows(all bool) (*ipc.WindowsData, error) {
	return &ipc.WindowsData{Windows: []ipc.WindowInfo{{ID: 7, Title: "xterm"}}}, nil
}

func (f *fakeClient) GetStatus() (*arrange.Status, error) {
	return &arrange.Status{DefaultLayout: "cascade", UndoDepth: 10, UndoAvailable: 3, WindowCount: 5}, nil
}

func (f *fakeClient) ListLayouts() (*ipc.LayoutsData, error) {
	return &ipc.LayoutsData{Layouts: []string{"cascade", "grid", "stack"}, DefaultLayout: "cascade"}, nil
}

func TestHandleOrganizePassesOverrides(t *testing.T) {
	fc := &fakeClient{}
	s := newServer(fc)

	_, out, err := s.handleOrganize(context.Background(), nil, OrganizeInput{
		Layout:  "grid",
		Columns: 3,
		Target:  "editor",
	})
	if err != nil {
		t.Fatalf("handleOrganize: %v", err)
	}
	if !out.Success || out.SuccessCount != 2 {
		t.Errorf("output = %+v, want success 2/2", out)
	}
	if fc.lastPayld.Layout != "grid" || fc.lastPayld.Columns != 3 || fc.lastPayld.Target != "editor" {
		t.Errorf("payload = %+v, overrides not forwarded", fc.lastPayld)
	}
}

func TestHandleOrganizeSurfacesDaemonError(t *testing.T) {
	fc := &fakeClient{
		organize: func(ipc.OrganizePayload) (*arrange.Result, error) {
			return nil, errors.New("daemon error: unknown layout")
		},
	}
	s := newServer(fc)

	if _, _, err := s.handleOrganize(context.Background(), nil, OrganizeInput{Layout: "mosaic"}); err == nil {
		t.Fatal("expected error from daemon")
	}
}

func TestHandleUndo(t *testing.T) {
	s := newServer(&fakeClient{})

	_, out, err := s.handleUndo(context.Background(), nil, UndoInput{})
	if err != nil {
		t.Fatalf("handleUndo: %v", err)
	}
	if !out.Restored {
		t.Error("expected restored=true")
	}
}

func TestHandleGetStatus(t *testing.T) {
	s := newServer(&fakeClient{})

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("handleGetStatus: %v", err)
	}
	if out.DefaultLayout != "cascade" || out.UndoAvailable != 3 {
		t.Errorf("output = %+v", out)
	}
}

func TestHandleListWindows(t *testing.T) {
	s := newServer(&fakeClient{})

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("handleListWindows: %v", err)
	}
	if len(out.Windows) != 1 || out.Windows[0].ID != 7 {
		t.Errorf("windows = %+v", out.Windows)
	}
}
