package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"learnhub/internal/api"
	"learnhub/internal/student"
)

// FormView is the add/edit student form: five inputs with per-field
// feedback, async duplicate checks on the unique fields, and a submit
// guard against double submission.
type FormView struct {
	client *api.Client

	inputs   []textinput.Model // indexed by student.Field
	feedback map[student.Field]student.Feedback
	focus    int

	// editID is zero on the add form. On the edit form it is also passed as
	// exclude_id to duplicate checks so the record's own values don't read
	// as duplicates.
	editID  int
	loaded  bool
	loadErr error

	submitting bool
}

// Ensure FormView implements View.
var _ View = (*FormView)(nil)

var fieldPlaceholders = map[student.Field]string{
	student.FieldStudentID: "e.g. 2431210033",
	student.FieldName:      "Full name",
	student.FieldAge:       "e.g. 21",
	student.FieldEmail:     "name@example.com",
	student.FieldCourses:   "Comma-separated, up to 10 (optional)",
}

// NewAddFormView creates a blank add-student form.
func NewAddFormView(client *api.Client) *FormView {
	f := newFormView(client)
	f.loaded = true
	return f
}

// NewEditFormView creates an edit form; Init fetches the record to prefill.
func NewEditFormView(client *api.Client, id int) *FormView {
	f := newFormView(client)
	f.editID = id
	return f
}

func newFormView(client *api.Client) *FormView {
	inputs := make([]textinput.Model, len(student.Fields))
	for i, field := range student.Fields {
		ti := textinput.New()
		ti.Placeholder = fieldPlaceholders[field]
		ti.Width = 48
		ti.Prompt = "> "
		inputs[i] = ti
	}
	inputs[0].Focus()
	return &FormView{
		client:   client,
		inputs:   inputs,
		feedback: make(map[student.Field]student.Feedback),
	}
}

// Init implements View.
func (f *FormView) Init() tea.Cmd {
	if f.editID > 0 && !f.loaded {
		return tea.Batch(textinput.Blink, loadStudentCmd(f.client, f.editID))
	}
	return textinput.Blink
}

// capturingInput marks the form as a free-typing surface, which disables the
// leader key and single-key bindings while it is the active view.
func (f *FormView) capturingInput() bool {
	return true
}

// Input gathers the current raw field values.
func (f *FormView) Input() student.Input {
	return student.Input{
		StudentID: f.inputs[student.FieldStudentID].Value(),
		Name:      f.inputs[student.FieldName].Value(),
		Age:       f.inputs[student.FieldAge].Value(),
		Email:     f.inputs[student.FieldEmail].Value(),
		Courses:   f.inputs[student.FieldCourses].Value(),
	}
}

// Update implements View.
func (f *FormView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case StudentLoadedMsg:
		if f.editID == 0 || msg.ID != f.editID {
			return f, nil
		}
		if msg.Err != nil {
			f.loadErr = msg.Err
			return f, nil
		}
		f.prefill(msg.Student)
		return f, nil

	case DuplicateCheckedMsg:
		return f, f.applyDuplicate(msg)

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return f, func() tea.Msg { return BackMsg{} }
		}
		if !f.loaded {
			return f, nil
		}
		switch msg.String() {
		case "tab", "down":
			return f, f.moveFocus(1)
		case "shift+tab", "up":
			return f, f.moveFocus(-1)
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return f, f.submit()
			}
			return f, f.moveFocus(1)
		case "ctrl+s":
			return f, f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// moveFocus validates the field being left, fires its duplicate check when
// applicable, and shifts focus by delta.
func (f *FormView) moveFocus(delta int) tea.Cmd {
	blurCmd := f.blurCurrent()

	f.inputs[f.focus].Blur()
	f.focus += delta
	if f.focus < 0 {
		f.focus = len(f.inputs) - 1
	}
	if f.focus >= len(f.inputs) {
		f.focus = 0
	}
	return tea.Batch(blurCmd, f.inputs[f.focus].Focus())
}

// blurCurrent runs the leaving field's validator and, for the unique fields,
// starts the async existence check.
func (f *FormView) blurCurrent() tea.Cmd {
	field := student.Fields[f.focus]
	in := f.Input()
	fb := student.ValidateField(in, field)
	f.feedback[field] = fb
	if fb.State != student.StateValid {
		return nil
	}

	value := strings.TrimSpace(in.Get(field))
	switch field {
	case student.FieldStudentID:
		return checkDuplicateCmd(f.client, api.DuplicateStudentID, value, f.editID)
	case student.FieldEmail:
		return checkDuplicateCmd(f.client, api.DuplicateEmail, value, f.editID)
	}
	return nil
}

// applyDuplicate folds an async uniqueness result into the field feedback.
// Transport errors stay silent here; the client already logged them. Results
// for a value the user has since changed are dropped.
func (f *FormView) applyDuplicate(msg DuplicateCheckedMsg) tea.Cmd {
	if msg.Err != nil {
		return nil
	}
	var field student.Field
	var text string
	switch msg.Field {
	case api.DuplicateStudentID:
		field, text = student.FieldStudentID, "Student ID already exists!"
	case api.DuplicateEmail:
		field, text = student.FieldEmail, "Email already exists!"
	default:
		return nil
	}
	if strings.TrimSpace(f.Input().Get(field)) != msg.Value {
		return nil
	}
	if !msg.IsDuplicate {
		return nil
	}
	f.feedback[field] = student.Feedback{State: student.StateInvalid, Message: text}
	return notifyCmd(NoticeError, text)
}

// submit runs every validator; on any failure it shows one aggregate error
// notice and aborts without a request. On success the submit control is
// disabled until the outcome comes back.
func (f *FormView) submit() tea.Cmd {
	if f.submitting {
		return nil
	}
	in := f.Input()
	fb, ok := student.ValidateInput(in)
	f.feedback = fb
	if !ok {
		return notifyCmd(NoticeError, "Please fix the errors above before submitting.")
	}
	f.submitting = true
	return saveStudentCmd(f.client, f.editID, in.Normalized())
}

// finishSubmit re-arms the form after a submission outcome. On success the
// fields reset; on failure the submit control is re-enabled so the user can
// correct and retry (the original UI left it disabled for good).
func (f *FormView) finishSubmit(success bool) {
	f.submitting = false
	if !success {
		return
	}
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.feedback = make(map[student.Field]student.Feedback)
	f.setFocus(0)
}

func (f *FormView) setFocus(idx int) {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = idx
	f.inputs[idx].Focus()
}

func (f *FormView) prefill(stu api.Student) {
	f.inputs[student.FieldStudentID].SetValue(stu.StudentID)
	f.inputs[student.FieldName].SetValue(stu.Name)
	f.inputs[student.FieldAge].SetValue(strconv.Itoa(stu.Age))
	f.inputs[student.FieldEmail].SetValue(stu.Email)
	f.inputs[student.FieldCourses].SetValue(strings.Join(stu.CourseList(), ", "))
	f.loaded = true
	f.setFocus(0)
}

// View implements View.
func (f *FormView) View() string {
	title := "Add Student"
	if f.editID > 0 {
		title = fmt.Sprintf("Edit Student #%d", f.editID)
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(title) + "\n\n")

	if f.loadErr != nil {
		b.WriteString(Styles.Empty.Render("Could not load the student: "+api.ErrorMessage(f.loadErr, "network error")) + "\n")
		b.WriteString(Styles.Hint.Render("esc: back"))
		return Styles.Box.Render(b.String())
	}
	if !f.loaded {
		b.WriteString(Styles.Empty.Render("Loading student..."))
		return Styles.Box.Render(b.String())
	}

	for i, field := range student.Fields {
		b.WriteString(Styles.Section.Render(field.Label()) + "\n")
		b.WriteString(f.inputs[i].View() + "\n")
		b.WriteString(f.feedbackLine(field) + "\n")
	}

	if f.submitting {
		b.WriteString(Styles.Muted.Render("[ Saving... ]") + "\n")
	} else {
		b.WriteString(Styles.Selected.Render("[ Submit ]") + Styles.Hint.Render("  ctrl+s or enter on the last field") + "\n")
	}
	b.WriteString("\n" + Styles.Hint.Render("tab/shift+tab: move · esc: cancel"))
	return Styles.Box.Render(b.String())
}

// feedbackLine renders a field's tri-state inline message.
func (f *FormView) feedbackLine(field student.Field) string {
	fb := f.feedback[field]
	switch fb.State {
	case student.StateInvalid:
		return Styles.FieldInvalid.Render("✗ " + fb.Message)
	case student.StateValid:
		return Styles.FieldValid.Render("✓ Looks good")
	default:
		return ""
	}
}
