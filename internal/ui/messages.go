package ui

import (
	"learnhub/internal/api"
)

// NotificationKind selects the banner styling for an outcome message.
type NotificationKind int

const (
	NoticeSuccess NotificationKind = iota
	NoticeError
	NoticeInfo
)

// ShowNotificationMsg asks the app to display the transient banner.
// Any view may emit it; the banner is the single aggregate outcome surface.
type ShowNotificationMsg struct {
	Kind NotificationKind
	Text string
}

// hideNotificationMsg fires when a banner's auto-hide timer elapses.
// Gen identifies the Show call that armed it; stale generations are ignored.
type hideNotificationMsg struct {
	Gen int
}

// navigateMsg fires when a post-action delay elapses (the page-redirect
// analog). Stale generations are ignored, so a newer action cancels the
// pending transition.
type navigateMsg struct {
	Gen    int
	Target AppMode
}

// ShowDashboardMsg switches to the dashboard (SPC d).
type ShowDashboardMsg struct{}

// ShowSearchMsg switches to the live search screen (SPC s).
type ShowSearchMsg struct{}

// ShowAddStudentMsg opens a blank add-student form (SPC a).
type ShowAddStudentMsg struct{}

// ShowStudentMsg opens the read-only detail screen for a record.
type ShowStudentMsg struct {
	ID int
}

// EditStudentMsg opens the edit form for a record, prefilled from the backend.
type EditStudentMsg struct {
	ID int
}

// RefreshMsg reloads the current screen's data (SPC r).
type RefreshMsg struct{}

// BackMsg returns from a form or detail screen to the screen it was opened
// from (esc).
type BackMsg struct{}

// ShowDeleteStudentMsg triggers the delete confirmation modal for a record.
type ShowDeleteStudentMsg struct {
	ID   int
	Name string
}

// DeleteStudentMsg is sent when the user confirms a delete.
type DeleteStudentMsg struct {
	ID int
}

// ShowBulkDeleteMsg triggers the confirmation modal for a bulk delete of the
// selected search rows.
type ShowBulkDeleteMsg struct {
	IDs []int
}

// BulkDeleteMsg is sent when the user confirms a bulk delete.
type BulkDeleteMsg struct {
	IDs []int
}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// RecentLoadedMsg carries the recent-students list, or the error that
// prevented loading it.
type RecentLoadedMsg struct {
	Students []api.Student
	Err      error
}

// StatsLoadedMsg carries the dashboard header aggregates. Failures leave the
// strip blank; stats are decoration, never fatal.
type StatsLoadedMsg struct {
	Stats api.StatsResponse
	Err   error
}

// StudentLoadedMsg carries one record fetched for the detail or edit screen.
type StudentLoadedMsg struct {
	ID      int
	Student api.Student
	Err     error
}

// StudentSavedMsg carries the outcome of an add or edit submission.
// EditID is zero for the add form.
type StudentSavedMsg struct {
	EditID int
	Resp   api.Envelope
	Err    error
}

// StudentDeletedMsg carries the outcome of a single-record delete.
type StudentDeletedMsg struct {
	ID   int
	Resp api.Envelope
	Err  error
}

// DuplicateCheckedMsg carries the outcome of an async uniqueness check.
// Value is the candidate that was checked, so a result arriving after the
// field changed again can be discarded.
type DuplicateCheckedMsg struct {
	Field       api.DuplicateField
	Value       string
	IsDuplicate bool
	Err         error
}

// SearchResultsMsg carries one search response. Gen identifies the query
// edit that issued it; responses for stale generations are dropped.
type SearchResultsMsg struct {
	Gen     int
	Query   string
	Results []api.Student
	Total   int
	Err     error
}

// HistoryLoadedMsg carries the stored recent searches.
type HistoryLoadedMsg struct {
	Entries []api.SearchEntry
	Err     error
}

// HistoryClearedMsg reports the history wipe outcome.
type HistoryClearedMsg struct {
	Err error
}

// ExportWrittenMsg reports a CSV export written to the export directory.
type ExportWrittenMsg struct {
	Path string
	Err  error
}

// BulkDeletedMsg carries the outcome of a bulk delete.
type BulkDeletedMsg struct {
	Resp api.BulkResponse
	Err  error
}
