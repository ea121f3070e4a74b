package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"learnhub/internal/api"
)

// handleShowAddStudent opens a blank add form, remembering where to return.
func (a *appModelAdapter) handleShowAddStudent() (tea.Model, tea.Cmd) {
	a.rememberReturn()
	a.navGen++
	a.Mode = ModeAddStudent
	a.Form = NewAddFormView(a.Client)
	return a, a.Form.Init()
}

// handleShowStudent opens the read-only detail screen for one record.
func (a *appModelAdapter) handleShowStudent(msg ShowStudentMsg) (tea.Model, tea.Cmd) {
	a.rememberReturn()
	a.navGen++
	a.Mode = ModeStudentDetail
	a.Detail = NewStudentDetailView(a.Client, msg.ID)
	return a, a.Detail.Init()
}

// handleEditStudent opens the edit form, prefilled from the backend.
func (a *appModelAdapter) handleEditStudent(msg EditStudentMsg) (tea.Model, tea.Cmd) {
	a.rememberReturn()
	a.navGen++
	a.Mode = ModeEditStudent
	a.Form = NewEditFormView(a.Client, msg.ID)
	return a, a.Form.Init()
}

// rememberReturn records the current screen as the esc target, but only when
// it is a list screen; hopping detail -> edit keeps the original list.
func (a *appModelAdapter) rememberReturn() {
	if a.Mode == ModeDashboard || a.Mode == ModeSearch {
		a.returnTo = a.Mode
	}
}

// handleRefresh re-fetches the data behind the current screen.
func (a *appModelAdapter) handleRefresh() (tea.Model, tea.Cmd) {
	switch a.Mode {
	case ModeDashboard:
		return a, tea.Batch(
			a.Dashboard.SetLoading(true),
			loadRecentCmd(a.Client),
			loadStatsCmd(a.Client),
		)
	case ModeSearch:
		if a.Search != nil {
			return a, a.Search.requery(a.Search.Query())
		}
	case ModeStudentDetail:
		if a.Detail != nil {
			return a, loadStudentCmd(a.Client, a.Detail.id)
		}
	}
	return a, nil
}

// handleShowDeleteStudent pushes the blocking delete confirmation.
func (a *appModelAdapter) handleShowDeleteStudent(msg ShowDeleteStudentMsg) (tea.Model, tea.Cmd) {
	modal := NewDeleteStudentConfirmModal(msg.ID, msg.Name)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleShowBulkDelete pushes the confirmation for deleting the selected rows.
func (a *appModelAdapter) handleShowBulkDelete(msg ShowBulkDeleteMsg) (tea.Model, tea.Cmd) {
	modal := NewBulkDeleteConfirmModal(msg.IDs)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleRecentLoaded folds the recent-students response into the dashboard.
func (a *appModelAdapter) handleRecentLoaded(msg RecentLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Logger.Error("load recent students", "error", msg.Err)
		a.Dashboard.SetLoadError(msg.Err)
		return a, nil
	}
	a.Dashboard.SetStudents(msg.Students)
	return a, nil
}

// handleStatsLoaded fills the dashboard header strip. Failures only log;
// stats are decoration.
func (a *appModelAdapter) handleStatsLoaded(msg StatsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Logger.Warn("load stats", "error", msg.Err)
		return a, nil
	}
	a.Dashboard.SetStats(msg.Stats)
	return a, nil
}

// handleStudentSaved finishes an add or edit submission: on success the form
// resets, the banner shows the outcome, and after the guarded delay the app
// returns to the dashboard (add) or the originating list (edit). On failure
// the submit control is re-enabled so the user can correct and retry.
func (a *appModelAdapter) handleStudentSaved(msg StudentSavedMsg) (tea.Model, tea.Cmd) {
	if a.Form == nil {
		return a, nil
	}
	success := msg.Err == nil && msg.Resp.Success
	a.Form.finishSubmit(success)

	if !success {
		text := msg.Resp.Message
		if msg.Err != nil {
			text = api.ErrorMessage(msg.Err, "Network error. Please try again.")
		}
		if text == "" {
			text = "Error saving student. Please try again."
		}
		return a, a.Banner.Show(NoticeError, text)
	}

	text := msg.Resp.Message
	if text == "" {
		text = "Student added successfully!"
	}
	target := ModeDashboard
	if msg.EditID > 0 {
		target = a.returnTo
	}
	a.navGen++
	return a, tea.Batch(
		a.Banner.Show(NoticeSuccess, text),
		navigateCmd(a.navGen, a.redirectDelay, target),
	)
}

// handleStudentDeleted finishes a single-record delete. Success refreshes
// the backing list after the guarded delay (the page-reload analog); a
// search screen also drops the row immediately. Failure shows the server
// message and leaves everything in place.
func (a *appModelAdapter) handleStudentDeleted(msg StudentDeletedMsg) (tea.Model, tea.Cmd) {
	success := msg.Err == nil && msg.Resp.Success
	if !success {
		text := msg.Resp.Message
		if msg.Err != nil {
			text = api.ErrorMessage(msg.Err, "Network error. Please try again.")
		}
		if text == "" {
			text = "Error deleting student."
		}
		return a, a.Banner.Show(NoticeError, text)
	}

	text := msg.Resp.Message
	if text == "" {
		text = "Student deleted successfully!"
	}
	if a.Mode == ModeSearch && a.Search != nil {
		a.Search.removeResults(msg.ID)
		return a, a.Banner.Show(NoticeSuccess, text)
	}
	a.navGen++
	return a, tea.Batch(
		a.Banner.Show(NoticeSuccess, text),
		navigateCmd(a.navGen, a.redirectDelay, ModeDashboard),
	)
}

// handleBulkDeleted finishes a bulk delete from the search screen.
func (a *appModelAdapter) handleBulkDeleted(msg BulkDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil || !msg.Resp.Success {
		text := msg.Resp.Message
		if msg.Err != nil {
			text = api.ErrorMessage(msg.Err, "Network error. Please try again.")
		}
		if text == "" {
			text = "Bulk delete failed."
		}
		return a, a.Banner.Show(NoticeError, text)
	}
	if a.Search != nil {
		a.Search.removeResults(a.lastBulkIDs(msg)...)
	}
	text := msg.Resp.Message
	if text == "" {
		text = "Selected students deleted."
	}
	return a, a.Banner.Show(NoticeSuccess, text)
}

// lastBulkIDs recovers which rows a bulk delete covered. The backend only
// reports a count, so the search screen's current selection is the source.
func (a *appModelAdapter) lastBulkIDs(BulkDeletedMsg) []int {
	if a.Search == nil {
		return nil
	}
	return a.Search.SelectedIDs()
}

// handleExportWritten reports a CSV export outcome.
func (a *appModelAdapter) handleExportWritten(msg ExportWrittenMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Logger.Error("export", "error", msg.Err)
		return a, a.Banner.Show(NoticeError, api.ErrorMessage(msg.Err, "Export failed."))
	}
	return a, a.Banner.Show(NoticeSuccess, "Exported to "+msg.Path)
}
