// Package student holds the student record domain: the form input shape,
// per-field validation rules, and the feedback states the UI renders.
package student

import "strings"

// Field identifies one of the five student form fields.
type Field int

const (
	FieldStudentID Field = iota
	FieldName
	FieldAge
	FieldEmail
	FieldCourses
)

// structName returns the Input struct field name, as used by StructPartial.
func (f Field) structName() string {
	switch f {
	case FieldStudentID:
		return "StudentID"
	case FieldName:
		return "Name"
	case FieldAge:
		return "Age"
	case FieldEmail:
		return "Email"
	case FieldCourses:
		return "Courses"
	}
	return ""
}

// WireName returns the JSON key for the field, matching the backend form names.
func (f Field) WireName() string {
	switch f {
	case FieldStudentID:
		return "student_id"
	case FieldName:
		return "name"
	case FieldAge:
		return "age"
	case FieldEmail:
		return "email"
	case FieldCourses:
		return "courses"
	}
	return ""
}

// Label returns the human-readable field name.
func (f Field) Label() string {
	switch f {
	case FieldStudentID:
		return "Student ID"
	case FieldName:
		return "Name"
	case FieldAge:
		return "Age"
	case FieldEmail:
		return "Email"
	case FieldCourses:
		return "Courses"
	}
	return ""
}

// Fields lists all form fields in display order.
var Fields = []Field{FieldStudentID, FieldName, FieldAge, FieldEmail, FieldCourses}

// FieldState is the tri-state validation status of a single field.
type FieldState int

const (
	StateNeutral FieldState = iota
	StateValid
	StateInvalid
)

// Feedback is the validation outcome for one field.
type Feedback struct {
	State   FieldState
	Message string
}

// Input carries the raw form field values as entered by the user.
// Numeric fields stay strings until validation parses them, mirroring
// how the backend receives them.
type Input struct {
	StudentID string `json:"student_id" validate:"required,intstr,posint,sid_max"`
	Name      string `json:"name" validate:"required,min=2,max=100,person_chars"`
	Age       string `json:"age" validate:"required,intstr,posint,age_max"`
	Email     string `json:"email" validate:"required,email_basic,max=255"`
	Courses   string `json:"courses" validate:"omitempty,course_count,course_len,course_chars"`
}

// Normalized returns a copy of the input with every field trimmed.
// Validators and submission both operate on the normalized form.
func (in Input) Normalized() Input {
	return Input{
		StudentID: strings.TrimSpace(in.StudentID),
		Name:      strings.TrimSpace(in.Name),
		Age:       strings.TrimSpace(in.Age),
		Email:     strings.TrimSpace(in.Email),
		Courses:   strings.TrimSpace(in.Courses),
	}
}

// Get returns the raw value of the given field.
func (in Input) Get(f Field) string {
	switch f {
	case FieldStudentID:
		return in.StudentID
	case FieldName:
		return in.Name
	case FieldAge:
		return in.Age
	case FieldEmail:
		return in.Email
	case FieldCourses:
		return in.Courses
	}
	return ""
}

// SplitCourses splits a comma-separated course list, trimming each entry
// and dropping empties. "Math, , CS" yields ["Math", "CS"].
func SplitCourses(s string) []string {
	parts := strings.Split(s, ",")
	courses := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			courses = append(courses, c)
		}
	}
	return courses
}
