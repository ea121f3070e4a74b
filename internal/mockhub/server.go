package mockhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"learnhub/internal/api"
	"learnhub/internal/jsonutil"
	"learnhub/internal/student"
)

const maxRequestBody = 1 << 20 // 1MB

// Server exposes a Store over the backend's HTTP contract.
type Server struct {
	store  *Store
	logger *slog.Logger
}

// NewServer wraps store with the HTTP handlers.
func NewServer(store *Store, logger *slog.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// Routes builds the router for every backend endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/api/recent_students", s.handleRecentStudents)
	r.Get("/api/students/{id}", s.handleGetStudent)
	r.Post("/api/add_student", s.handleAddStudent)
	r.Post("/api/edit_student/{id}", s.handleEditStudent)
	r.Delete("/api/delete_student/{id}", s.handleDeleteStudent)
	r.Get("/api/check_duplicate", s.handleCheckDuplicate)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/search/advanced", s.handleAdvancedSearch)
	r.Get("/api/search/history", s.handleGetHistory)
	r.Post("/api/search/history", s.handleAddHistory)
	r.Delete("/api/search/history", s.handleClearHistory)
	r.Get("/api/search/export", s.handleExport)
	r.Post("/api/search/bulk-actions", s.handleBulkActions)
	r.Get("/api/stats", s.handleStats)

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("mock backend listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleRecentStudents(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.RecentResponse{RecentStudents: s.store.Recent()})
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Student not found")
		return
	}
	stu, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Student not found")
		return
	}
	s.writeJSON(w, http.StatusOK, stu)
}

func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var in student.Input
	if err := s.decodeJSON(r, &in, "POST /api/add_student"); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msgs := validationMessages(in); len(msgs) > 0 {
		s.writeJSON(w, http.StatusBadRequest, api.Envelope{Success: false, Message: strings.Join(msgs, " ")})
		return
	}

	_, err := s.store.Add(in)
	switch {
	case errors.Is(err, ErrDuplicateID):
		s.writeJSON(w, http.StatusOK, api.Envelope{Success: false, Message: "Student ID already exists!"})
	case errors.Is(err, ErrDuplicateEmail):
		s.writeJSON(w, http.StatusOK, api.Envelope{Success: false, Message: "Email already exists!"})
	case err != nil:
		s.writeJSON(w, http.StatusInternalServerError, api.Envelope{Success: false, Message: "Error adding student"})
	default:
		s.writeJSON(w, http.StatusOK, api.Envelope{Success: true, Message: "Student added successfully!"})
	}
}

func (s *Server) handleEditStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, api.Envelope{Success: false, Message: "Student not found"})
		return
	}
	var in student.Input
	if err := s.decodeJSON(r, &in, "POST /api/edit_student"); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msgs := validationMessages(in); len(msgs) > 0 {
		s.writeJSON(w, http.StatusBadRequest, api.Envelope{Success: false, Message: strings.Join(msgs, " ")})
		return
	}

	_, err = s.store.Update(id, in)
	switch {
	case errors.Is(err, ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, api.Envelope{Success: false, Message: "Student not found"})
	case errors.Is(err, ErrDuplicateID):
		s.writeJSON(w, http.StatusOK, api.Envelope{Success: false, Message: "Student ID already exists!"})
	case errors.Is(err, ErrDuplicateEmail):
		s.writeJSON(w, http.StatusOK, api.Envelope{Success: false, Message: "Email already exists!"})
	case err != nil:
		s.writeJSON(w, http.StatusInternalServerError, api.Envelope{Success: false, Message: "Error updating student"})
	default:
		s.writeJSON(w, http.StatusOK, api.Envelope{Success: true, Message: "Student updated successfully!"})
	}
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, api.Envelope{Success: false, Message: "Student not found"})
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.writeJSON(w, http.StatusNotFound, api.Envelope{Success: false, Message: "Student not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, api.Envelope{Success: true, Message: "Student deleted successfully!"})
}

func (s *Server) handleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	fieldType := r.URL.Query().Get("type")
	value := strings.TrimSpace(r.URL.Query().Get("value"))
	if fieldType == "" || value == "" {
		s.writeError(w, http.StatusBadRequest, "Missing parameters")
		return
	}
	excludeID, _ := strconv.Atoi(r.URL.Query().Get("exclude_id"))

	var dup bool
	switch fieldType {
	case "student_id":
		dup = s.store.HasStudentID(value, excludeID)
	case "email":
		dup = s.store.HasEmail(value, excludeID)
	default:
		s.writeError(w, http.StatusBadRequest, "Invalid field type")
		return
	}
	s.writeJSON(w, http.StatusOK, api.DuplicateResponse{IsDuplicate: dup})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	results := s.store.Search(query)
	s.writeJSON(w, http.StatusOK, api.SearchResponse{
		Results: results,
		Total:   len(results),
		Query:   query,
	})
}

func (s *Server) handleAdvancedSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ageMin, _ := strconv.Atoi(q.Get("age_min"))
	ageMax, _ := strconv.Atoi(q.Get("age_max"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	results := s.store.Advanced(Filter{
		Query:     strings.TrimSpace(q.Get("q")),
		AgeMin:    ageMin,
		AgeMax:    ageMax,
		Courses:   q["courses"],
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Limit:     limit,
		Offset:    offset,
	})
	s.writeJSON(w, http.StatusOK, api.SearchResponse{Results: results, Total: len(results)})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.HistoryResponse{SearchHistory: s.store.History()})
}

func (s *Server) handleAddHistory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := s.decodeJSON(r, &req, "POST /api/search/history"); err != nil || req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "Query is required")
		return
	}
	ring := s.store.RecordSearch(req.Query)
	s.writeJSON(w, http.StatusOK, api.HistoryResponse{Success: true, SearchHistory: ring})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.store.ClearHistory()
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "Query is required")
		return
	}
	if !strings.EqualFold(format, "csv") {
		s.writeError(w, http.StatusBadRequest, "Unsupported format")
		return
	}

	csvData, err := renderCSV(s.store.SearchAll(query))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}
	name := query
	if len(name) > 20 {
		name = name[:20]
	}
	s.writeJSON(w, http.StatusOK, api.ExportResponse{
		Data:     csvData,
		Filename: fmt.Sprintf("search_results_%s.csv", name),
	})
}

func (s *Server) handleBulkActions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action     *string `json:"action"`
		StudentIDs *[]int  `json:"student_ids"`
	}
	if err := s.decodeJSON(r, &req, "POST /api/search/bulk-actions"); err != nil || req.Action == nil || req.StudentIDs == nil {
		s.writeError(w, http.StatusBadRequest, "Action and student_ids are required")
		return
	}
	ids := *req.StudentIDs
	if len(ids) == 0 {
		s.writeError(w, http.StatusBadRequest, "No students selected")
		return
	}

	switch *req.Action {
	case "delete":
		n := s.store.DeleteMany(ids)
		s.writeJSON(w, http.StatusOK, api.BulkResponse{
			Success:      true,
			Message:      fmt.Sprintf("Successfully deleted %d students", n),
			DeletedCount: n,
		})
	case "export":
		csvData, err := renderCSV(s.store.ByIDs(ids))
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "Export failed")
			return
		}
		s.writeJSON(w, http.StatusOK, api.BulkResponse{
			Success:  true,
			Data:     csvData,
			Filename: fmt.Sprintf("selected_students_%d_items.csv", len(ids)),
		})
	default:
		s.writeError(w, http.StatusBadRequest, "Unsupported action")
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) decodeJSON(r *http.Request, v any, route string) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", route, err)
	}
	return jsonutil.DecodeBody(data, v, route)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// validationMessages mirrors the backend's server-side validation, collecting
// the failure messages in field order.
func validationMessages(in student.Input) []string {
	fb, ok := student.ValidateInput(in)
	if ok {
		return nil
	}
	var msgs []string
	for _, f := range student.Fields {
		if fb[f].State == student.StateInvalid {
			msgs = append(msgs, fb[f].Message)
		}
	}
	return msgs
}
