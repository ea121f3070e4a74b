package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"learnhub/internal/api"
	"learnhub/internal/student"
)

var errTransport = errors.New("dial tcp: connection refused")

func setFormValues(f *FormView, in student.Input) {
	f.inputs[student.FieldStudentID].SetValue(in.StudentID)
	f.inputs[student.FieldName].SetValue(in.Name)
	f.inputs[student.FieldAge].SetValue(in.Age)
	f.inputs[student.FieldEmail].SetValue(in.Email)
	f.inputs[student.FieldCourses].SetValue(in.Courses)
}

var validInput = student.Input{
	StudentID: "2431210033",
	Name:      "Anne-Marie O'Neil",
	Age:       "21",
	Email:     "anne@example.com",
	Courses:   "Math, CS",
}

func TestForm_SubmitAbortsOnValidationFailure(t *testing.T) {
	f := NewAddFormView(nil)
	setFormValues(f, student.Input{
		StudentID: "0", // not a positive integer
		Name:      "John3",
		Age:       "151",
		Email:     "a@b",
	})

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected an aggregate error notification cmd")
	}
	msg, ok := cmd().(ShowNotificationMsg)
	if !ok {
		t.Fatalf("expected ShowNotificationMsg, got %T", msg)
	}
	if msg.Kind != NoticeError {
		t.Errorf("aggregate notice should be an error, got %v", msg.Kind)
	}
	if f.submitting {
		t.Error("failed validation must not disable the submit control")
	}

	for _, field := range []student.Field{student.FieldStudentID, student.FieldName, student.FieldAge, student.FieldEmail} {
		if f.feedback[field].State != student.StateInvalid {
			t.Errorf("%s: expected invalid feedback", field.Label())
		}
	}
}

func TestForm_SubmitDisablesUntilOutcome(t *testing.T) {
	f := NewAddFormView(nil)
	setFormValues(f, validInput)

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected a save cmd")
	}
	if !f.submitting {
		t.Fatal("submit should disable the control while in flight")
	}

	// A second submit while in flight is swallowed.
	_, cmd = f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("double submit must be a no-op")
	}
}

func TestForm_FailedSubmissionReenables(t *testing.T) {
	f := NewAddFormView(nil)
	setFormValues(f, validInput)
	f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	f.finishSubmit(false)
	if f.submitting {
		t.Fatal("failure should re-enable the submit control")
	}
	if f.Input().Name == "" {
		t.Error("failure must not clear the form")
	}

	f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	f.finishSubmit(true)
	if f.Input() != (student.Input{}) {
		t.Error("success should reset every field")
	}
}

func TestForm_DuplicateResultSetsFeedback(t *testing.T) {
	f := NewAddFormView(nil)
	setFormValues(f, validInput)

	_, cmd := f.Update(DuplicateCheckedMsg{
		Field:       api.DuplicateStudentID,
		Value:       "2431210033",
		IsDuplicate: true,
	})
	fb := f.feedback[student.FieldStudentID]
	if fb.State != student.StateInvalid || fb.Message != "Student ID already exists!" {
		t.Errorf("unexpected feedback: %+v", fb)
	}
	if cmd == nil {
		t.Fatal("a found duplicate raises a blocking error notice")
	}
	if msg := cmd().(ShowNotificationMsg); msg.Kind != NoticeError {
		t.Errorf("expected error notice, got %v", msg.Kind)
	}
}

func TestForm_StaleDuplicateResultDropped(t *testing.T) {
	f := NewAddFormView(nil)
	setFormValues(f, validInput)

	// Result for a value the user has since edited away.
	_, cmd := f.Update(DuplicateCheckedMsg{
		Field:       api.DuplicateEmail,
		Value:       "old@example.com",
		IsDuplicate: true,
	})
	if cmd != nil {
		t.Error("stale duplicate result must be inert")
	}
	if f.feedback[student.FieldEmail].State == student.StateInvalid {
		t.Error("stale duplicate result must not mark the field invalid")
	}
}

func TestForm_DuplicateTransportErrorSilent(t *testing.T) {
	f := NewAddFormView(nil)
	setFormValues(f, validInput)

	_, cmd := f.Update(DuplicateCheckedMsg{
		Field: api.DuplicateEmail,
		Value: "anne@example.com",
		Err:   errTransport,
	})
	if cmd != nil {
		t.Error("duplicate-check transport errors stay out of the UI")
	}
}

func TestForm_BlurValidatesLeavingField(t *testing.T) {
	f := NewAddFormView(nil)
	f.inputs[student.FieldStudentID].SetValue("abc")

	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	fb := f.feedback[student.FieldStudentID]
	if fb.State != student.StateInvalid {
		t.Fatalf("expected invalid feedback after blur, got %+v", fb)
	}
	if !strings.Contains(fb.Message, "integer") {
		t.Errorf("unexpected message: %q", fb.Message)
	}
	if f.focus != 1 {
		t.Errorf("focus should move to the next field, got %d", f.focus)
	}
}

func TestForm_EditPrefills(t *testing.T) {
	f := NewEditFormView(nil, 7)
	if f.loaded {
		t.Fatal("edit form waits for the record")
	}
	f.Update(StudentLoadedMsg{ID: 7, Student: api.Student{
		ID:        7,
		StudentID: "12345",
		Name:      "Paul Mulilo",
		Age:       30,
		Email:     "mulilopaul@gmail.com",
		Courses:   "Mathematics, Physics",
	}})
	in := f.Input()
	if in.StudentID != "12345" || in.Name != "Paul Mulilo" || in.Age != "30" {
		t.Errorf("prefill mismatch: %+v", in)
	}
	if in.Courses != "Mathematics, Physics" {
		t.Errorf("courses prefill mismatch: %q", in.Courses)
	}
}
