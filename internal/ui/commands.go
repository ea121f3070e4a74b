package ui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"learnhub/internal/api"
	"learnhub/internal/student"
)

// Commands wrap every backend call in a closure the Bubble Tea runtime runs
// off the update loop. Each one performs exactly one request (the client
// carries the per-call timeout; there are no retries) and reports back with
// a typed message.

// loadRecentCmd fetches the recent-students list for the dashboard.
func loadRecentCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.RecentStudents(context.Background())
		return RecentLoadedMsg{Students: resp.RecentStudents, Err: err}
	}
}

// loadStatsCmd fetches the dashboard header aggregates.
func loadStatsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Stats(context.Background())
		return StatsLoadedMsg{Stats: resp, Err: err}
	}
}

// loadStudentCmd fetches one record for the detail or edit screen.
func loadStudentCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		stu, err := client.GetStudent(context.Background(), id)
		return StudentLoadedMsg{ID: id, Student: stu, Err: err}
	}
}

// saveStudentCmd submits the form. A zero editID adds a new record;
// otherwise it updates the existing one.
func saveStudentCmd(client *api.Client, editID int, in student.Input) tea.Cmd {
	return func() tea.Msg {
		var (
			resp api.Envelope
			err  error
		)
		if editID > 0 {
			resp, err = client.UpdateStudent(context.Background(), editID, in)
		} else {
			resp, err = client.AddStudent(context.Background(), in)
		}
		return StudentSavedMsg{EditID: editID, Resp: resp, Err: err}
	}
}

// deleteStudentCmd removes one record.
func deleteStudentCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.DeleteStudent(context.Background(), id)
		return StudentDeletedMsg{ID: id, Resp: resp, Err: err}
	}
}

// checkDuplicateCmd asks the backend whether value is already taken.
// excludeID exempts the record being edited.
func checkDuplicateCmd(client *api.Client, field api.DuplicateField, value string, excludeID int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.CheckDuplicate(context.Background(), field, value, excludeID)
		return DuplicateCheckedMsg{Field: field, Value: value, IsDuplicate: resp.IsDuplicate, Err: err}
	}
}

// searchCmd runs the live search for one query edit, stamped with gen so the
// view can drop responses that a newer edit has overtaken.
func searchCmd(client *api.Client, gen int, query string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Search(context.Background(), query)
		return SearchResultsMsg{Gen: gen, Query: query, Results: resp.Results, Total: resp.Total, Err: err}
	}
}

// advancedSearchCmd runs a sorted search through the advanced endpoint.
func advancedSearchCmd(client *api.Client, gen int, query api.AdvancedQuery) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.AdvancedSearch(context.Background(), query)
		return SearchResultsMsg{Gen: gen, Query: query.Query, Results: resp.Results, Total: resp.Total, Err: err}
	}
}

// loadHistoryCmd fetches the stored recent searches.
func loadHistoryCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.SearchHistory(context.Background())
		return HistoryLoadedMsg{Entries: resp.SearchHistory, Err: err}
	}
}

// recordSearchCmd stores a successful query in the search history.
// Fire-and-forget: failures are invisible to the user.
func recordSearchCmd(client *api.Client, query string) tea.Cmd {
	return func() tea.Msg {
		_ = client.RecordSearch(context.Background(), query)
		return nil
	}
}

// clearHistoryCmd wipes the stored searches.
func clearHistoryCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		return HistoryClearedMsg{Err: client.ClearSearchHistory(context.Background())}
	}
}

// exportSearchCmd exports the full result set for query and writes the CSV
// into exportDir.
func exportSearchCmd(client *api.Client, exportDir, query string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.ExportSearch(context.Background(), query)
		if err != nil {
			return ExportWrittenMsg{Err: err}
		}
		return writeExport(exportDir, resp.Filename, resp.Data)
	}
}

// bulkDeleteCmd deletes the selected records in one call.
func bulkDeleteCmd(client *api.Client, ids []int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.BulkDelete(context.Background(), ids)
		return BulkDeletedMsg{Resp: resp, Err: err}
	}
}

// bulkExportCmd exports the selected records and writes the CSV into exportDir.
func bulkExportCmd(client *api.Client, exportDir string, ids []int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.BulkExport(context.Background(), ids)
		if err != nil {
			return ExportWrittenMsg{Err: err}
		}
		return writeExport(exportDir, resp.Filename, resp.Data)
	}
}

func writeExport(dir, filename, data string) tea.Msg {
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return ExportWrittenMsg{Err: err}
	}
	return ExportWrittenMsg{Path: path}
}

// navigateCmd arms the post-action delay before switching screens, stamped
// with gen so a newer action cancels the pending transition.
func navigateCmd(gen int, delay time.Duration, target AppMode) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return navigateMsg{Gen: gen, Target: target}
	})
}

// notifyCmd emits a banner request from inside a view's update.
func notifyCmd(kind NotificationKind, text string) tea.Cmd {
	return func() tea.Msg {
		return ShowNotificationMsg{Kind: kind, Text: text}
	}
}
