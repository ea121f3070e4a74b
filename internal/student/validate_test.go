package student

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStudentID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantOK  bool
		wantMsg string
	}{
		{"minimum accepted", "1", true, ""},
		{"largest accepted", "8999999999", true, ""},
		{"zero rejected", "0", false, "Student ID must be a positive integer!"},
		{"negative rejected", "-5", false, "Student ID must be a positive integer!"},
		{"non numeric rejected", "abc", false, "Student ID must be a valid integer!"},
		{"empty rejected", "", false, "Student ID must be a valid integer!"},
		{"nine billion rejected", "9000000000", false, "Student ID must be less than 9,000,000,000!"},
		{"above nine billion rejected", "9000000001", false, "Student ID must be less than 9,000,000,000!"},
		{"surrounding whitespace trimmed", "  42  ", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := ValidateField(Input{StudentID: tt.value}, FieldStudentID)
			if tt.wantOK {
				assert.Equal(t, StateValid, fb.State)
			} else {
				assert.Equal(t, StateInvalid, fb.State)
				assert.Equal(t, tt.wantMsg, fb.Message)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantOK  bool
		wantMsg string
	}{
		{"hyphen and apostrophe allowed", "Anne-Marie O'Neil", true, ""},
		{"two chars allowed", "Jo", true, ""},
		{"hundred chars allowed", strings.Repeat("a", 100), true, ""},
		{"empty rejected", "", false, "Name is required!"},
		{"one char rejected", "J", false, "Name must be at least 2 characters long!"},
		{"over hundred chars rejected", strings.Repeat("a", 101), false, "Name must be less than 100 characters!"},
		{"digits rejected", "John3", false, "Name can only contain letters, spaces, hyphens, and apostrophes!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := ValidateField(Input{Name: tt.value}, FieldName)
			if tt.wantOK {
				assert.Equal(t, StateValid, fb.State)
			} else {
				assert.Equal(t, StateInvalid, fb.State)
				assert.Equal(t, tt.wantMsg, fb.Message)
			}
		})
	}
}

func TestValidateAge(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantOK  bool
		wantMsg string
	}{
		{"one allowed", "1", true, ""},
		{"one fifty allowed", "150", true, ""},
		{"zero rejected", "0", false, "Age must be a positive integer!"},
		{"one fifty one rejected", "151", false, "Age must be realistic (less than 150)!"},
		{"non numeric rejected", "abc", false, "Age must be a valid integer!"},
		{"empty rejected", "", false, "Age must be a valid integer!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := ValidateField(Input{Age: tt.value}, FieldAge)
			if tt.wantOK {
				assert.Equal(t, StateValid, fb.State)
			} else {
				assert.Equal(t, StateInvalid, fb.State)
				assert.Equal(t, tt.wantMsg, fb.Message)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	longOK := "a@" + strings.Repeat("b", 249) + ".com"  // 255 chars
	longBad := "a@" + strings.Repeat("b", 250) + ".com" // 256 chars

	tests := []struct {
		name    string
		value   string
		wantOK  bool
		wantMsg string
	}{
		{"short address allowed", "a@b.co", true, ""},
		{"max length allowed", longOK, true, ""},
		{"missing tld rejected", "a@b", false, "Please enter a valid email address!"},
		{"empty rejected", "", false, "Email is required!"},
		{"over max length rejected", longBad, false, "Email must be less than 255 characters!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := ValidateField(Input{Email: tt.value}, FieldEmail)
			if tt.wantOK {
				assert.Equal(t, StateValid, fb.State)
			} else {
				assert.Equal(t, StateInvalid, fb.State)
				assert.Equal(t, tt.wantMsg, fb.Message)
			}
		})
	}
}

func TestValidateCourses(t *testing.T) {
	eleven := strings.TrimSuffix(strings.Repeat("C, ", 11), ", ")

	tests := []struct {
		name    string
		value   string
		wantOK  bool
		wantMsg string
	}{
		{"empty is optional", "", true, ""},
		{"two courses allowed", "Math, CS", true, ""},
		{"ampersand and parens allowed", "Art & Design (Intro)", true, ""},
		{"eleven courses rejected", eleven, false, "Maximum 10 courses allowed!"},
		{"long course rejected", strings.Repeat("x", 101), false, "Course names must be less than 100 characters!"},
		{"angle bracket rejected", "Math, <script>", false, "Course names contain invalid characters!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := ValidateField(Input{Courses: tt.value}, FieldCourses)
			if tt.wantOK {
				assert.Equal(t, StateValid, fb.State, "message: %s", fb.Message)
			} else {
				assert.Equal(t, StateInvalid, fb.State)
				assert.Equal(t, tt.wantMsg, fb.Message)
			}
		})
	}
}

func TestSplitCourses(t *testing.T) {
	assert.Equal(t, []string{"Math", "CS"}, SplitCourses("Math, CS"))
	assert.Equal(t, []string{"Math", "CS"}, SplitCourses("Math, , CS,"))
	assert.Empty(t, SplitCourses(""))
	assert.Empty(t, SplitCourses(" , ,"))
}

func TestValidateInput(t *testing.T) {
	valid := Input{
		StudentID: "1001",
		Name:      "Alice Johnson",
		Age:       "20",
		Email:     "alice@example.com",
		Courses:   "Math, Computer Science",
	}

	fb, ok := ValidateInput(valid)
	require.True(t, ok)
	for _, f := range Fields {
		assert.Equal(t, StateValid, fb[f].State, f.Label())
	}

	bad := valid
	bad.Age = "151"
	fb, ok = ValidateInput(bad)
	require.False(t, ok)
	assert.Equal(t, StateInvalid, fb[FieldAge].State)
	assert.Equal(t, "Age must be realistic (less than 150)!", fb[FieldAge].Message)
	assert.Equal(t, StateValid, fb[FieldName].State)
	assert.Equal(t, StateValid, fb[FieldEmail].State)
}

func TestFieldWireNames(t *testing.T) {
	want := map[Field]string{
		FieldStudentID: "student_id",
		FieldName:      "name",
		FieldAge:       "age",
		FieldEmail:     "email",
		FieldCourses:   "courses",
	}
	for f, wire := range want {
		assert.Equal(t, wire, f.WireName())
	}
}
