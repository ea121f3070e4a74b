package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/student"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(server.URL, Options{})
	t.Cleanup(client.Close)
	return client
}

func TestRecentStudents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/recent_students", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"recent_students": []map[string]any{{
				"id":            1,
				"student_id":    "2431210033",
				"name":          "Paul Mulilo",
				"email":         "mulilopaul@gmail.com",
				"courses":       "Mathematics, Physics",
				"activity_type": "Added",
				"activity_date": "2026-01-05 10:00:00",
			}},
		})
	})

	resp, err := client.RecentStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.RecentStudents, 1)
	got := resp.RecentStudents[0]
	assert.Equal(t, "Paul Mulilo", got.Name)
	assert.Equal(t, "2431210033", got.StudentID)
	assert.Equal(t, "Added", got.ActivityType)
	assert.Equal(t, []string{"Mathematics", "Physics"}, got.CourseList())
}

func TestAddStudentSendsFormFields(t *testing.T) {
	var body map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/add_student", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(Envelope{Success: true, Message: "Student added successfully!"})
	})

	in := student.Input{
		StudentID: " 1001 ",
		Name:      "Alice Johnson",
		Age:       "20",
		Email:     "alice@example.com",
		Courses:   "Math, CS",
	}
	env, err := client.AddStudent(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, "Student added successfully!", env.Message)
	assert.Equal(t, map[string]string{
		"student_id": "1001",
		"name":       "Alice Johnson",
		"age":        "20",
		"email":      "alice@example.com",
		"courses":    "Math, CS",
	}, body)
}

func TestDeleteStudentServerFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/delete_student/7", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "locked"})
	})

	_, err := client.DeleteStudent(context.Background(), 7)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "locked", apiErr.Message)
	assert.Equal(t, "locked", ErrorMessage(err, "Error deleting student"))
}

func TestCheckDuplicateQueryParams(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(DuplicateResponse{IsDuplicate: true})
	})

	resp, err := client.CheckDuplicate(context.Background(), DuplicateEmail, "a@b.co", 12)
	require.NoError(t, err)
	assert.True(t, resp.IsDuplicate)
	assert.Equal(t, "email", gotQuery.Get("type"))
	assert.Equal(t, "a@b.co", gotQuery.Get("value"))
	assert.Equal(t, "12", gotQuery.Get("exclude_id"))
}

func TestCheckDuplicateOmitsZeroExcludeID(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(DuplicateResponse{})
	})

	_, err := client.CheckDuplicate(context.Background(), DuplicateStudentID, "1001", 0)
	require.NoError(t, err)
	assert.False(t, gotQuery.Has("exclude_id"))
}

func TestSearchServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Database error occurred"})
	})

	_, err := client.Search(context.Background(), "ali")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Database error occurred", apiErr.Message)
}

func TestSearchDecodesResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "ali", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{
				"id": 3, "student_id": "1003", "name": "Alice", "age": 20,
				"email": "alice@example.com", "courses": "No courses",
			}},
			"total": 1,
			"query": "ali",
		})
	})

	resp, err := client.Search(context.Background(), "ali")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "ali", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 20, resp.Results[0].Age)
	assert.Nil(t, resp.Results[0].CourseList())
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := New(server.URL, Options{})
	t.Cleanup(client.Close)
	server.Close()

	_, err := client.Search(context.Background(), "ali")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "Network error", ErrorMessage(err, "Network error"))
}

func TestGetStudentNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/students/99", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Student not found"})
	})

	_, err := client.GetStudent(context.Background(), 99)
	assert.Equal(t, "Student not found", ErrorMessage(err, "fallback"))
}

func TestAdvancedQueryValues(t *testing.T) {
	q := AdvancedQuery{
		Query:     "science",
		AgeMin:    18,
		AgeMax:    25,
		Courses:   []string{"Math", "CS"},
		SortBy:    "age",
		SortOrder: "desc",
		Limit:     20,
		Offset:    40,
	}.values()

	assert.Equal(t, "science", q.Get("q"))
	assert.Equal(t, "18", q.Get("age_min"))
	assert.Equal(t, "25", q.Get("age_max"))
	assert.Equal(t, []string{"Math", "CS"}, q["courses"])
	assert.Equal(t, "age", q.Get("sort_by"))
	assert.Equal(t, "desc", q.Get("sort_order"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "40", q.Get("offset"))

	empty := AdvancedQuery{}.values()
	assert.Empty(t, empty)
}

func TestBulkDelete(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search/bulk-actions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(BulkResponse{
			Success: true, Message: "Successfully deleted 2 students", DeletedCount: 2,
		})
	})

	resp, err := client.BulkDelete(context.Background(), []int{3, 5})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.DeletedCount)
	assert.Equal(t, "delete", body["action"])
	assert.Equal(t, []any{float64(3), float64(5)}, body["student_ids"])
}

func TestRecordSearch(t *testing.T) {
	var body map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	require.NoError(t, client.RecordSearch(context.Background(), "alice"))
	assert.Equal(t, "alice", body["query"])
}

func TestExportSearchParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		assert.Equal(t, "ali", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(ExportResponse{
			Data:     "Student ID,Name,Age,Email,Courses,Created At\n",
			Filename: "search_results_ali.csv",
		})
	})

	resp, err := client.ExportSearch(context.Background(), "ali")
	require.NoError(t, err)
	assert.Equal(t, "search_results_ali.csv", resp.Filename)
	assert.Contains(t, resp.Data, "Student ID")
}

func TestAPIErrorStatusFallback(t *testing.T) {
	err := &APIError{StatusCode: http.StatusBadGateway}
	assert.Equal(t, "server returned status 502", err.Error())
	assert.Equal(t, "generic", ErrorMessage(err, "generic"))
}
