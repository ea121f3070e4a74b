package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"learnhub/internal/student"
)

// DuplicateField selects which unique field a duplicate check inspects.
type DuplicateField string

const (
	DuplicateStudentID DuplicateField = "student_id"
	DuplicateEmail     DuplicateField = "email"
)

// RecentStudents fetches the students with the most recent add/edit activity.
func (c *Client) RecentStudents(ctx context.Context) (RecentResponse, error) {
	var out RecentResponse
	err := c.do(ctx, http.MethodGet, "/api/recent_students", nil, nil, &out)
	return out, err
}

// GetStudent fetches a single record by its numeric id.
func (c *Client) GetStudent(ctx context.Context, id int) (Student, error) {
	var out Student
	err := c.do(ctx, http.MethodGet, "/api/students/"+strconv.Itoa(id), nil, nil, &out)
	return out, err
}

// AddStudent submits a new record. The input goes out as a flat JSON object
// whose keys match the backend form field names.
func (c *Client) AddStudent(ctx context.Context, in student.Input) (Envelope, error) {
	var out Envelope
	err := c.do(ctx, http.MethodPost, "/api/add_student", nil, in.Normalized(), &out)
	return out, err
}

// UpdateStudent submits edits for an existing record.
func (c *Client) UpdateStudent(ctx context.Context, id int, in student.Input) (Envelope, error) {
	var out Envelope
	err := c.do(ctx, http.MethodPost, "/api/edit_student/"+strconv.Itoa(id), nil, in.Normalized(), &out)
	return out, err
}

// DeleteStudent deletes a record by its numeric id.
func (c *Client) DeleteStudent(ctx context.Context, id int) (Envelope, error) {
	var out Envelope
	err := c.do(ctx, http.MethodDelete, "/api/delete_student/"+strconv.Itoa(id), nil, nil, &out)
	return out, err
}

// CheckDuplicate asks whether value already exists for the given unique
// field. A nonzero excludeID exempts that record, for edit flows.
func (c *Client) CheckDuplicate(ctx context.Context, field DuplicateField, value string, excludeID int) (DuplicateResponse, error) {
	q := url.Values{}
	q.Set("type", string(field))
	q.Set("value", value)
	if excludeID > 0 {
		q.Set("exclude_id", strconv.Itoa(excludeID))
	}
	var out DuplicateResponse
	err := c.do(ctx, http.MethodGet, "/api/check_duplicate", q, nil, &out)
	return out, err
}

// Stats fetches the dashboard aggregates.
func (c *Client) Stats(ctx context.Context) (StatsResponse, error) {
	var out StatsResponse
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &out)
	return out, err
}
