package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"learnhub/internal/api"
	"learnhub/internal/ui/textutil"
)

// StudentDetailView is the read-only projection of one record.
type StudentDetailView struct {
	client *api.Client
	id     int

	student api.Student
	loaded  bool
	loadErr error
	spinner spinner.Model
}

// Ensure StudentDetailView implements View.
var _ View = (*StudentDetailView)(nil)

// NewStudentDetailView creates a detail view; Init fetches the record.
func NewStudentDetailView(client *api.Client, id int) *StudentDetailView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Title
	return &StudentDetailView{client: client, id: id, spinner: s}
}

// Init implements View.
func (v *StudentDetailView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, loadStudentCmd(v.client, v.id))
}

// Update implements View.
func (v *StudentDetailView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case StudentLoadedMsg:
		if msg.ID != v.id {
			return v, nil
		}
		v.loaded = true
		v.loadErr = msg.Err
		v.student = msg.Student
		return v, nil
	case spinner.TickMsg:
		if !v.loaded {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return v, cmd
		}
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return BackMsg{} }
		case "e":
			if v.loaded && v.loadErr == nil {
				return v, func() tea.Msg { return EditStudentMsg{ID: v.id} }
			}
		case "d":
			if v.loaded && v.loadErr == nil {
				return v, func() tea.Msg { return ShowDeleteStudentMsg{ID: v.id, Name: v.student.Name} }
			}
		}
	}
	return v, nil
}

// View implements View.
func (v *StudentDetailView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("Student #%d", v.id)) + "\n\n")

	switch {
	case !v.loaded:
		b.WriteString(v.spinner.View() + " Loading...")
	case v.loadErr != nil:
		b.WriteString(Styles.Empty.Render("Could not load the student: " + api.ErrorMessage(v.loadErr, "network error")))
	default:
		stu := v.student
		row := func(label, value string) {
			b.WriteString(Styles.Section.Render(textutil.PadRightVisual(label, 12)))
			b.WriteString(Styles.Normal.Render(value) + "\n")
		}
		row("Name", stu.Name)
		row("Student ID", stu.StudentID)
		row("Age", fmt.Sprintf("%d", stu.Age))
		row("Email", stu.Email)
		if courses := stu.CourseList(); len(courses) > 0 {
			tags := make([]string, len(courses))
			for i, c := range courses {
				tags[i] = Styles.CourseTag.Render("[" + c + "]")
			}
			row("Courses", strings.Join(tags, " "))
		} else {
			row("Courses", Styles.Empty.Render("No courses"))
		}
		if stu.CreatedAt != "" {
			row("Created", stu.CreatedAt)
		}
		if stu.UpdatedAt != "" {
			row("Updated", stu.UpdatedAt)
		}
	}

	b.WriteString("\n" + Styles.Hint.Render("e: edit · d: delete · esc: back"))
	return Styles.Box.Render(b.String())
}
