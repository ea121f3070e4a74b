package ui

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"learnhub/internal/api"
	"learnhub/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		UI: config.UIConfig{
			NotificationTTL: time.Second,
			RedirectDelay:   10 * time.Millisecond,
		},
		ExportDir: ".",
	}
}

func newTestApp(t *testing.T, handler http.HandlerFunc) (*AppModel, *appModelAdapter) {
	t.Helper()
	var client *api.Client
	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		client = api.New(server.URL, api.Options{})
		t.Cleanup(client.Close)
	}
	m := NewAppModel(client, testConfig(), discardLogger())
	return m, &appModelAdapter{AppModel: m}
}

func TestApp_LeaderOpensAddForm(t *testing.T) {
	a, adapter := newTestApp(t, nil)

	adapter.Update(keyMsg(" "))
	if !a.KeyHandler.LeaderWaiting {
		t.Fatal("expected leader mode after SPC")
	}
	_, cmd := adapter.Update(keyMsg("a"))
	if cmd == nil {
		t.Fatal("expected SPC a to be bound")
	}
	adapter.Update(cmd())
	if a.Mode != ModeAddStudent {
		t.Fatalf("expected add form, got %v", a.Mode)
	}
	if a.Form == nil {
		t.Fatal("expected a form view")
	}
}

func TestApp_LeaderUnavailableWhileTyping(t *testing.T) {
	a, adapter := newTestApp(t, nil)
	adapter.Update(ShowAddStudentMsg{})

	adapter.Update(keyMsg(" "))
	if a.KeyHandler.LeaderWaiting {
		t.Error("space must type into the form, not open the leader menu")
	}
}

func TestApp_DeleteConfirmFlow(t *testing.T) {
	a, adapter := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "locked"})
	})

	adapter.Update(ShowDeleteStudentMsg{ID: 3, Name: "Paul Mulilo"})
	if a.Overlays.Len() != 1 {
		t.Fatalf("expected the confirmation modal, got %d overlays", a.Overlays.Len())
	}
	top, _ := a.Overlays.Peek()
	if _, ok := top.View.(*ConfirmModal); !ok {
		t.Fatalf("expected ConfirmModal, got %T", top.View)
	}

	// Confirm: modal emits DeleteStudentMsg, app issues the DELETE.
	_, cmd := adapter.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected the modal's confirm cmd")
	}
	_, cmd = adapter.Update(cmd())
	if a.Overlays.Len() != 0 {
		t.Error("confirming should dismiss the modal")
	}
	if cmd == nil {
		t.Fatal("expected the delete cmd")
	}

	genBefore := a.navGen
	adapter.Update(cmd()) // runs the DELETE against the test server
	if a.Banner.Text() != "locked" {
		t.Errorf("the server message must surface verbatim, got %q", a.Banner.Text())
	}
	if a.Banner.Kind() != NoticeError {
		t.Error("a failed delete is an error notice")
	}
	if a.navGen != genBefore {
		t.Error("a failed delete must not arm the refresh navigation")
	}
}

func TestApp_DeleteCancel(t *testing.T) {
	a, adapter := newTestApp(t, nil)
	adapter.Update(ShowDeleteStudentMsg{ID: 3, Name: "Paul Mulilo"})

	_, cmd := adapter.Update(keyMsg("esc"))
	if cmd == nil {
		t.Fatal("esc on the modal should emit a dismiss")
	}
	adapter.Update(cmd())
	if a.Overlays.Len() != 0 {
		t.Error("cancel should dismiss the modal without deleting")
	}
}

func TestApp_SavedSuccessNavigatesAfterDelay(t *testing.T) {
	a, adapter := newTestApp(t, nil)
	adapter.Update(ShowAddStudentMsg{})

	_, cmd := adapter.Update(StudentSavedMsg{Resp: api.Envelope{Success: true, Message: "Student added successfully!"}})
	if cmd == nil {
		t.Fatal("expected banner + armed navigation")
	}
	if a.Banner.Text() != "Student added successfully!" || a.Banner.Kind() != NoticeSuccess {
		t.Errorf("unexpected banner: %q", a.Banner.Text())
	}
	if a.Mode != ModeAddStudent {
		t.Error("navigation waits for the delay; the form stays up")
	}

	adapter.Update(navigateMsg{Gen: a.navGen, Target: ModeDashboard})
	if a.Mode != ModeDashboard {
		t.Errorf("expected dashboard after the delay, got %v", a.Mode)
	}
}

func TestApp_StaleNavigationIgnored(t *testing.T) {
	a, adapter := newTestApp(t, nil)
	adapter.Update(ShowAddStudentMsg{})

	adapter.Update(navigateMsg{Gen: a.navGen - 1, Target: ModeDashboard})
	if a.Mode != ModeAddStudent {
		t.Error("a stale delayed navigation must be inert")
	}
}

func TestApp_SavedFailureReenablesForm(t *testing.T) {
	a, adapter := newTestApp(t, nil)
	adapter.Update(ShowAddStudentMsg{})
	setFormValues(a.Form, validInput)
	a.Form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	adapter.Update(StudentSavedMsg{Resp: api.Envelope{Success: false, Message: "Student ID already exists!"}})
	if a.Form.submitting {
		t.Error("a failed submission re-enables the submit control")
	}
	if a.Banner.Text() != "Student ID already exists!" {
		t.Errorf("expected the server message, got %q", a.Banner.Text())
	}
	if a.Mode != ModeAddStudent {
		t.Error("a failed submission stays on the form")
	}
}

func TestApp_EscReturnsToOriginatingList(t *testing.T) {
	a, adapter := newTestApp(t, nil)

	adapter.Update(ShowSearchMsg{})
	if a.Mode != ModeSearch {
		t.Fatalf("expected search, got %v", a.Mode)
	}
	adapter.Update(ShowStudentMsg{ID: 5})
	if a.Mode != ModeStudentDetail {
		t.Fatalf("expected detail, got %v", a.Mode)
	}
	adapter.Update(EditStudentMsg{ID: 5})
	if a.Mode != ModeEditStudent {
		t.Fatalf("expected edit, got %v", a.Mode)
	}

	adapter.Update(BackMsg{})
	if a.Mode != ModeSearch {
		t.Errorf("esc should return to the originating list, got %v", a.Mode)
	}
}

func TestApp_BannerRendersAboveView(t *testing.T) {
	a, adapter := newTestApp(t, nil)
	a.Dashboard.SetStudents(nil)
	adapter.Update(ShowNotificationMsg{Kind: NoticeInfo, Text: "hello"})

	if !strings.Contains(adapter.View(), "hello") {
		t.Error("expected the banner text in the rendered view")
	}
}
