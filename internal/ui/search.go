package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"learnhub/internal/api"
	"learnhub/internal/ui/textutil"
)

// sortMode is one entry in the sort cycle. The zero mode is the backend's
// relevance order, served by the plain search endpoint; the rest go through
// the advanced endpoint.
type sortMode struct {
	by    string
	order string
	label string
}

var sortModes = []sortMode{
	{"", "", "relevance"},
	{"name", "asc", "name asc"},
	{"name", "desc", "name desc"},
	{"age", "asc", "age asc"},
	{"age", "desc", "age desc"},
	{"created_at", "desc", "newest"},
}

// SearchView is the live search screen: a query input, a results table with
// row actions and multi-select, CSV export, and the recent-search history
// shown while the query is empty.
type SearchView struct {
	client    *api.Client
	exportDir string

	input   textinput.Model
	results []api.Student
	total   int
	table   table.Model

	// gen stamps each query edit; a response carrying an older generation
	// is dropped, so out-of-order completions can't clobber newer results.
	gen       int
	lastQuery string

	// resultsFocused routes keys to the table instead of the input, which
	// is what makes the single-letter row actions usable.
	resultsFocused bool

	selected map[int]bool // record id -> selected, for bulk actions
	sortIdx  int

	history    []api.SearchEntry
	historyErr error
}

// Ensure SearchView implements View.
var _ View = (*SearchView)(nil)

// NewSearchView creates the search screen. Init loads the search history.
func NewSearchView(client *api.Client, exportDir string) *SearchView {
	ti := textinput.New()
	ti.Placeholder = "Search by name, student ID, email, or course"
	ti.Width = 60
	ti.Prompt = "/ "
	ti.Focus()

	columns := []table.Column{
		{Title: " ", Width: 2},
		{Title: "Name", Width: 24},
		{Title: "Student ID", Width: 12},
		{Title: "Age", Width: 4},
		{Title: "Email", Width: 28},
		{Title: "Courses", Width: 30},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(12))
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).Foreground(Styles.Title.GetForeground())
	ts.Selected = Styles.Selected
	t.SetStyles(ts)

	return &SearchView{
		client:    client,
		exportDir: exportDir,
		input:     ti,
		table:     t,
		selected:  make(map[int]bool),
	}
}

// Init implements View.
func (s *SearchView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadHistoryCmd(s.client))
}

// capturingInput marks the whole screen as a free-typing surface: the query
// input takes runes and the results table uses space and single-letter row
// actions, so the leader key stays out of the way here.
func (s *SearchView) capturingInput() bool {
	return true
}

// Query returns the trimmed current query text.
func (s *SearchView) Query() string {
	return strings.TrimSpace(s.input.Value())
}

// SelectedIDs returns the record ids toggled for bulk actions, in table order.
func (s *SearchView) SelectedIDs() []int {
	ids := make([]int, 0, len(s.selected))
	for _, stu := range s.results {
		if s.selected[stu.ID] {
			ids = append(ids, stu.ID)
		}
	}
	return ids
}

// cursorStudent returns the record under the table cursor.
func (s *SearchView) cursorStudent() (api.Student, bool) {
	idx := s.table.Cursor()
	if idx < 0 || idx >= len(s.results) {
		return api.Student{}, false
	}
	return s.results[idx], true
}

// Update implements View.
func (s *SearchView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case SearchResultsMsg:
		return s, s.applyResults(msg)
	case HistoryLoadedMsg:
		s.history = msg.Entries
		s.historyErr = msg.Err
		return s, nil
	case HistoryClearedMsg:
		if msg.Err == nil {
			s.history = nil
			return s, notifyCmd(NoticeInfo, "Search history cleared.")
		}
		return s, notifyCmd(NoticeError, api.ErrorMessage(msg.Err, "Could not clear search history."))
	case tea.KeyMsg:
		if s.resultsFocused {
			return s, s.handleResultsKey(msg)
		}
		return s, s.handleInputKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// handleInputKey processes keys while the query input is focused.
func (s *SearchView) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		if len(s.results) > 0 {
			s.resultsFocused = true
			s.input.Blur()
			s.table.Focus()
		}
		return nil
	case "ctrl+x":
		return clearHistoryCmd(s.client)
	case "esc":
		return func() tea.Msg { return BackMsg{} }
	case "enter":
		// Live search already ran; enter just jumps to the results.
		if len(s.results) > 0 {
			s.resultsFocused = true
			s.input.Blur()
			s.table.Focus()
		}
		return nil
	}

	before := s.Query()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if q := s.Query(); q != before {
		return tea.Batch(cmd, s.requery(q))
	}
	return cmd
}

// handleResultsKey processes keys while the results table is focused.
func (s *SearchView) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "esc", "/":
		s.resultsFocused = false
		s.table.Blur()
		return s.input.Focus()
	case " ":
		if stu, ok := s.cursorStudent(); ok {
			s.selected[stu.ID] = !s.selected[stu.ID]
			s.rebuildRows()
		}
		return nil
	case "enter", "v":
		if stu, ok := s.cursorStudent(); ok {
			return func() tea.Msg { return ShowStudentMsg{ID: stu.ID} }
		}
		return nil
	case "e":
		if stu, ok := s.cursorStudent(); ok {
			return func() tea.Msg { return EditStudentMsg{ID: stu.ID} }
		}
		return nil
	case "d":
		if stu, ok := s.cursorStudent(); ok {
			return func() tea.Msg { return ShowDeleteStudentMsg{ID: stu.ID, Name: stu.Name} }
		}
		return nil
	case "D":
		if ids := s.SelectedIDs(); len(ids) > 0 {
			return func() tea.Msg { return ShowBulkDeleteMsg{IDs: ids} }
		}
		return notifyCmd(NoticeError, "No students selected.")
	case "X":
		if ids := s.SelectedIDs(); len(ids) > 0 {
			return bulkExportCmd(s.client, s.exportDir, ids)
		}
		return notifyCmd(NoticeError, "No students selected.")
	case "x":
		if q := s.Query(); q != "" {
			return exportSearchCmd(s.client, s.exportDir, q)
		}
		return notifyCmd(NoticeError, "Enter a query to export.")
	case "s":
		return s.cycleSort(1)
	case "S":
		return s.cycleSort(-1)
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

// requery issues a fresh search for q, bumping the generation so any
// in-flight response becomes inert. An empty query clears the results and
// brings the history back.
func (s *SearchView) requery(q string) tea.Cmd {
	s.gen++
	s.lastQuery = q
	if q == "" {
		s.results = nil
		s.total = 0
		s.table.SetRows(nil)
		return loadHistoryCmd(s.client)
	}
	if mode := sortModes[s.sortIdx]; mode.by != "" {
		return advancedSearchCmd(s.client, s.gen, api.AdvancedQuery{
			Query:     q,
			SortBy:    mode.by,
			SortOrder: mode.order,
		})
	}
	return searchCmd(s.client, s.gen, q)
}

// cycleSort steps through the sort cycle and re-queries when a query is live.
func (s *SearchView) cycleSort(delta int) tea.Cmd {
	s.sortIdx = (s.sortIdx + delta + len(sortModes)) % len(sortModes)
	if q := s.Query(); q != "" {
		return tea.Batch(
			notifyCmd(NoticeInfo, "Sorting by "+sortModes[s.sortIdx].label),
			s.requery(q),
		)
	}
	return nil
}

// applyResults folds one search response into the view, dropping stale
// generations. Zero results hide the table and surface the no-results
// notice; nonzero results toast the count and record the query.
func (s *SearchView) applyResults(msg SearchResultsMsg) tea.Cmd {
	if msg.Gen != s.gen {
		return nil
	}
	if msg.Err != nil {
		s.results = nil
		s.table.SetRows(nil)
		return notifyCmd(NoticeError, api.ErrorMessage(msg.Err, "Search failed. Check your connection."))
	}
	s.results = msg.Results
	s.total = msg.Total
	s.rebuildRows()
	s.table.SetCursor(0)

	if len(msg.Results) == 0 {
		return notifyCmd(NoticeError, "No students found.")
	}
	noun := "students"
	if s.total == 1 {
		noun = "student"
	}
	return tea.Batch(
		notifyCmd(NoticeSuccess, fmt.Sprintf("Found %d %s.", s.total, noun)),
		recordSearchCmd(s.client, msg.Query),
	)
}

// removeResults drops the given record ids from the current result set,
// after a delete confirmed from this screen.
func (s *SearchView) removeResults(ids ...int) {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		delete(s.selected, id)
	}
	kept := s.results[:0]
	for _, stu := range s.results {
		if !drop[stu.ID] {
			kept = append(kept, stu)
		}
	}
	s.results = kept
	s.total = len(kept)
	s.rebuildRows()
}

func (s *SearchView) rebuildRows() {
	rows := make([]table.Row, len(s.results))
	for i, stu := range s.results {
		mark := " "
		if s.selected[stu.ID] {
			mark = "*"
		}
		rows[i] = table.Row{
			mark,
			textutil.Truncate(stu.Name, 24),
			stu.StudentID,
			strconv.Itoa(stu.Age),
			textutil.Truncate(stu.Email, 28),
			textutil.Truncate(strings.Join(stu.CourseList(), ", "), 30),
		}
	}
	s.table.SetRows(rows)
}

// View implements View.
func (s *SearchView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Search Students") + "\n")
	b.WriteString(s.input.View() + "\n\n")

	switch {
	case s.Query() == "":
		b.WriteString(s.historyView())
	case len(s.results) == 0:
		// The no-results notice is in the banner; the section stays hidden.
		b.WriteString(Styles.Empty.Render("No matching students."))
	default:
		count := fmt.Sprintf("%d result(s) for %q", s.total, s.lastQuery)
		if mode := sortModes[s.sortIdx]; mode.by != "" {
			count += " · sorted by " + mode.label
		}
		if n := len(s.SelectedIDs()); n > 0 {
			count += fmt.Sprintf(" · %d selected", n)
		}
		b.WriteString(Styles.Section.Render(count) + "\n")
		b.WriteString(s.table.View() + "\n")
		b.WriteString(Styles.Hint.Render("enter/v view · e edit · d delete · space select · D bulk delete · X export selected · x export all · s sort"))
	}

	b.WriteString("\n\n" + Styles.Hint.Render("tab: switch input/results · ctrl+x: clear history · esc: dashboard"))
	return b.String()
}

func (s *SearchView) historyView() string {
	if len(s.history) == 0 {
		return Styles.Empty.Render("Type to search. Recent searches will show up here.")
	}
	var b strings.Builder
	b.WriteString(Styles.Section.Render("Recent searches") + "\n")
	for _, e := range s.history {
		b.WriteString("  " + Styles.Normal.Render(e.Query))
		if e.Timestamp != "" {
			b.WriteString("  " + Styles.Muted.Render(e.Timestamp))
		}
		b.WriteString("\n")
	}
	return b.String()
}
