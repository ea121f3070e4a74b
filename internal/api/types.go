package api

import (
	"errors"
	"fmt"

	"learnhub/internal/student"
)

// Student is a student record as the backend returns it. The student_id is
// a string on the wire even though it validates as an integer; the courses
// field arrives comma-joined, with "No courses" as the empty placeholder.
type Student struct {
	ID           int    `json:"id"`
	StudentID    string `json:"student_id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Email        string `json:"email"`
	Courses      string `json:"courses"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
	ActivityType string `json:"activity_type,omitempty"`
	ActivityDate string `json:"activity_date,omitempty"`
}

// CourseList splits the comma-joined courses field, dropping the backend's
// "No courses" placeholder.
func (s Student) CourseList() []string {
	if s.Courses == "" || s.Courses == "No courses" {
		return nil
	}
	return student.SplitCourses(s.Courses)
}

// Envelope is the common result shape of mutating endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RecentResponse is the payload of the recent-students endpoint.
type RecentResponse struct {
	RecentStudents []Student `json:"recent_students"`
}

// SearchResponse is the payload of the search endpoints.
type SearchResponse struct {
	Results []Student `json:"results"`
	Total   int       `json:"total"`
	Query   string    `json:"query"`
}

// DuplicateResponse is the payload of the duplicate-check endpoint.
type DuplicateResponse struct {
	IsDuplicate bool `json:"is_duplicate"`
}

// StatsResponse carries the dashboard aggregates.
type StatsResponse struct {
	TotalStudents        int     `json:"total_students"`
	ActiveCourses        int     `json:"active_courses"`
	AvgCoursesPerStudent float64 `json:"avg_courses_per_student"`
}

// SearchEntry is one stored search in the history.
type SearchEntry struct {
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
}

// HistoryResponse is the payload of the search-history endpoint.
type HistoryResponse struct {
	Success       bool          `json:"success,omitempty"`
	SearchHistory []SearchEntry `json:"search_history"`
}

// ExportResponse carries an exported CSV document and its suggested filename.
type ExportResponse struct {
	Data     string `json:"data"`
	Filename string `json:"filename"`
}

// BulkResponse is the payload of the bulk-actions endpoint. Delete actions
// fill DeletedCount; export actions fill Data and Filename.
type BulkResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	DeletedCount int    `json:"deleted_count,omitempty"`
	Data         string `json:"data,omitempty"`
	Filename     string `json:"filename,omitempty"`
}

// APIError is a failure the backend itself reported, as opposed to a
// transport failure. Message carries the server-supplied text when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// ErrorMessage returns the server-supplied message when err carries one,
// and fallback otherwise. Transport failures always get the fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
