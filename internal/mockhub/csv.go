package mockhub

import (
	"encoding/csv"
	"strconv"
	"strings"

	"learnhub/internal/api"
)

// renderCSV produces the export document: a header row followed by one row
// per student, matching the backend's column order.
func renderCSV(students []api.Student) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"Student ID", "Name", "Age", "Email", "Courses", "Created At"}); err != nil {
		return "", err
	}
	for _, s := range students {
		row := []string{
			s.StudentID,
			s.Name,
			strconv.Itoa(s.Age),
			s.Email,
			s.Courses,
			s.CreatedAt,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}
