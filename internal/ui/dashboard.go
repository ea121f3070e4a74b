package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"learnhub/internal/api"
	"learnhub/internal/ui/textutil"
)

// studentItem implements list.Item for one recent-activity record.
type studentItem struct {
	api.Student
}

func (s studentItem) FilterValue() string { return s.Name }

func (s studentItem) Title() string {
	badge := s.ActivityType
	switch s.ActivityType {
	case "Added":
		badge = Styles.BadgeAdded.Render("[Added]")
	case "Updated":
		badge = Styles.BadgeUpdated.Render("[Updated]")
	}
	line := fmt.Sprintf("%s  #%s %s", s.Name, s.StudentID, badge)
	if s.ActivityDate != "" {
		line += "  " + Styles.Muted.Render(s.ActivityDate)
	}
	return line
}

func (s studentItem) Description() string {
	desc := s.Email
	if courses := s.CourseList(); len(courses) > 0 {
		tags := make([]string, len(courses))
		for i, c := range courses {
			tags[i] = Styles.CourseTag.Render("[" + c + "]")
		}
		desc += "  " + strings.Join(tags, " ")
	}
	return textutil.Truncate(desc, 100)
}

// DashboardView shows the recently modified records plus a stats strip.
type DashboardView struct {
	list     list.Model
	Students []api.Student
	spinner  spinner.Model
	loading  bool

	loadErr error // last error from loading recent students, nil when loaded

	stats      api.StatsResponse
	statsKnown bool
}

// Ensure DashboardView implements View.
var _ View = (*DashboardView)(nil)

// NewDashboardView creates an empty dashboard. Records arrive via RecentLoadedMsg.
func NewDashboardView() *DashboardView {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = Styles.Selected
	delegate.Styles.SelectedDesc = Styles.Selected
	delegate.Styles.NormalTitle = Styles.Normal
	delegate.Styles.NormalDesc = Styles.Muted

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Recent Students"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Title

	return &DashboardView{
		list:    l,
		spinner: s,
		loading: true,
	}
}

// Selected returns the record under the cursor, or false when the list is empty.
func (d *DashboardView) Selected() (api.Student, bool) {
	idx := d.list.Index()
	if idx < 0 || idx >= len(d.Students) {
		return api.Student{}, false
	}
	return d.Students[idx], true
}

// Init implements View.
func (d *DashboardView) Init() tea.Cmd {
	return d.spinner.Tick
}

// SetStudents replaces the list contents after a successful load.
func (d *DashboardView) SetStudents(students []api.Student) {
	d.Students = students
	d.loadErr = nil
	d.loading = false
	items := make([]list.Item, len(students))
	for i, stu := range students {
		items[i] = studentItem{Student: stu}
	}
	d.list.SetItems(items)
}

// SetLoadError records a failed load; the view then renders the matching
// placeholder instead of the list.
func (d *DashboardView) SetLoadError(err error) {
	d.loadErr = err
	d.loading = false
}

// SetStats fills the header strip. Called only on success; a failed stats
// fetch simply leaves the strip blank.
func (d *DashboardView) SetStats(stats api.StatsResponse) {
	d.stats = stats
	d.statsKnown = true
}

// SetLoading flips the spinner and returns the cmd that keeps it ticking.
func (d *DashboardView) SetLoading(loading bool) tea.Cmd {
	d.loading = loading
	if loading {
		return d.spinner.Tick
	}
	return nil
}

// Update implements View.
func (d *DashboardView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.list.SetWidth(msg.Width)
		d.list.SetHeight(msg.Height - 8) // header strip, banner, hint line
		return d, nil
	case spinner.TickMsg:
		if d.loading {
			var cmd tea.Cmd
			d.spinner, cmd = d.spinner.Update(msg)
			return d, cmd
		}
		return d, nil
	case tea.KeyMsg:
		if stu, ok := d.Selected(); ok {
			switch msg.String() {
			case "enter", "v":
				return d, func() tea.Msg { return ShowStudentMsg{ID: stu.ID} }
			case "e":
				return d, func() tea.Msg { return EditStudentMsg{ID: stu.ID} }
			case "d":
				return d, func() tea.Msg { return ShowDeleteStudentMsg{ID: stu.ID, Name: stu.Name} }
			}
		}
	}

	// list.Model handles j/k/g/G navigation natively.
	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

// View implements View.
func (d *DashboardView) View() string {
	if d.list.Width() == 0 {
		d.list.SetWidth(80)
	}
	if d.list.Height() == 0 {
		d.list.SetHeight(20)
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render("LearnHub"))
	if d.statsKnown {
		b.WriteString("  " + Styles.Muted.Render(fmt.Sprintf(
			"%d students · %d active courses · %.1f courses/student",
			d.stats.TotalStudents, d.stats.ActiveCourses, d.stats.AvgCoursesPerStudent)))
	}
	b.WriteString("\n")
	b.WriteString(Styles.Hint.Render("Press [SPC] for commands · enter/v view · e edit · d delete") + "\n\n")

	switch {
	case d.loading:
		b.WriteString(d.spinner.View() + " Loading recent activity...")
	case d.loadErr != nil:
		var apiErr *api.APIError
		if errors.As(d.loadErr, &apiErr) {
			b.WriteString(Styles.Empty.Render("Error loading students: " + apiErr.Error()))
		} else {
			b.WriteString(Styles.Empty.Render("Unable to reach the server. Check your connection and refresh."))
		}
	case len(d.Students) == 0:
		b.WriteString(Styles.Empty.Render("No recent activity. Add a student to get started."))
	default:
		b.WriteString(d.list.View())
	}
	return b.String()
}
