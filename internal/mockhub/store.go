// Package mockhub is an in-memory stand-in for the student records backend.
// It serves the same JSON contract the api client consumes, so the TUI can
// run and be tested without the real service.
package mockhub

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"learnhub/internal/api"
	"learnhub/internal/student"
)

const (
	maxRecent        = 10
	maxHistory       = 10
	maxSearchResults = 15
	timeLayout       = "2006-01-02 15:04:05"
)

var (
	ErrNotFound       = errors.New("student not found")
	ErrDuplicateID    = errors.New("student id already exists")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Record is one stored student.
type Record struct {
	ID        int
	StudentID string
	Name      string
	Age       int
	Email     string
	Courses   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store holds students, the recent-activity ring, and the search history.
// The recent ring keeps snapshots taken at add/edit time, capped at 10 and
// de-duplicated by record id, newest first.
type Store struct {
	mu       sync.Mutex
	students []*Record
	nextID   int
	recent   []api.Student
	history  []api.SearchEntry
	now      func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{nextID: 1, now: time.Now}
}

// Add inserts a new student from normalized form input.
func (st *Store) Add(in student.Input) (api.Student, error) {
	in = in.Normalized()
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, r := range st.students {
		if r.StudentID == in.StudentID {
			return api.Student{}, ErrDuplicateID
		}
	}
	for _, r := range st.students {
		if r.Email == in.Email {
			return api.Student{}, ErrDuplicateEmail
		}
	}

	age, err := strconv.Atoi(in.Age)
	if err != nil {
		return api.Student{}, fmt.Errorf("parse age: %w", err)
	}

	now := st.now()
	rec := &Record{
		ID:        st.nextID,
		StudentID: in.StudentID,
		Name:      in.Name,
		Age:       age,
		Email:     in.Email,
		Courses:   student.SplitCourses(in.Courses),
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.nextID++
	st.students = append(st.students, rec)
	st.recordActivity(rec, "Added", now)
	return st.toWire(rec), nil
}

// Update replaces the fields of an existing student. Duplicate checks
// exempt the record itself.
func (st *Store) Update(id int, in student.Input) (api.Student, error) {
	in = in.Normalized()
	st.mu.Lock()
	defer st.mu.Unlock()

	rec := st.byID(id)
	if rec == nil {
		return api.Student{}, ErrNotFound
	}
	for _, r := range st.students {
		if r.ID != id && r.StudentID == in.StudentID {
			return api.Student{}, ErrDuplicateID
		}
	}
	for _, r := range st.students {
		if r.ID != id && r.Email == in.Email {
			return api.Student{}, ErrDuplicateEmail
		}
	}

	age, err := strconv.Atoi(in.Age)
	if err != nil {
		return api.Student{}, fmt.Errorf("parse age: %w", err)
	}

	now := st.now()
	rec.StudentID = in.StudentID
	rec.Name = in.Name
	rec.Age = age
	rec.Email = in.Email
	rec.Courses = student.SplitCourses(in.Courses)
	rec.UpdatedAt = now
	st.recordActivity(rec, "Updated", now)
	return st.toWire(rec), nil
}

// Delete removes a student and any recent-ring entries for it.
func (st *Store) Delete(id int) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	idx := -1
	for i, r := range st.students {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	st.students = append(st.students[:idx], st.students[idx+1:]...)
	st.dropFromRecent(id)
	return nil
}

// DeleteMany removes every listed id and reports how many records went away.
func (st *Store) DeleteMany(ids []int) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	kept := st.students[:0]
	removed := 0
	for _, r := range st.students {
		if wanted[r.ID] {
			removed++
			st.dropFromRecent(r.ID)
			continue
		}
		kept = append(kept, r)
	}
	st.students = kept
	return removed
}

// Get returns one student by numeric id.
func (st *Store) Get(id int) (api.Student, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	rec := st.byID(id)
	if rec == nil {
		return api.Student{}, false
	}
	return st.toWire(rec), true
}

// Recent returns the activity ring, newest first.
func (st *Store) Recent() []api.Student {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]api.Student{}, st.recent...)
}

// HasStudentID reports whether any record other than excludeID carries the
// given student id.
func (st *Store) HasStudentID(value string, excludeID int) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, r := range st.students {
		if r.ID != excludeID && r.StudentID == value {
			return true
		}
	}
	return false
}

// HasEmail reports whether any record other than excludeID carries the
// given email.
func (st *Store) HasEmail(value string, excludeID int) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, r := range st.students {
		if r.ID != excludeID && r.Email == value {
			return true
		}
	}
	return false
}

// Search finds students whose name, student id, email, or course contains
// the query, ordered by relevance: prefix matches on name first, then
// student id, email, courses. Capped at 15 results.
func (st *Store) Search(query string) []api.Student {
	st.mu.Lock()
	defer st.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]api.Student, 0)
	if q == "" {
		return out
	}

	type scored struct {
		rec  *Record
		tier int
	}
	var matches []scored
	for _, r := range st.students {
		if !matchesQuery(r, q) {
			continue
		}
		matches = append(matches, scored{r, relevanceTier(r, q)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].tier != matches[j].tier {
			return matches[i].tier < matches[j].tier
		}
		return strings.ToLower(matches[i].rec.Name) < strings.ToLower(matches[j].rec.Name)
	})
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}
	for _, m := range matches {
		out = append(out, st.toWire(m.rec))
	}
	return out
}

// SearchAll returns every match ordered by name, for exports.
func (st *Store) SearchAll(query string) []api.Student {
	st.mu.Lock()
	defer st.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var recs []*Record
	for _, r := range st.students {
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		recs = append(recs, r)
	}
	sortRecords(recs, "name", "asc")
	out := make([]api.Student, 0, len(recs))
	for _, r := range recs {
		out = append(out, st.toWire(r))
	}
	return out
}

// ByIDs returns the listed students ordered by name.
func (st *Store) ByIDs(ids []int) []api.Student {
	st.mu.Lock()
	defer st.mu.Unlock()

	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var recs []*Record
	for _, r := range st.students {
		if wanted[r.ID] {
			recs = append(recs, r)
		}
	}
	sortRecords(recs, "name", "asc")
	out := make([]api.Student, 0, len(recs))
	for _, r := range recs {
		out = append(out, st.toWire(r))
	}
	return out
}

// Filter carries the advanced-search parameters. Zero values mean unset.
type Filter struct {
	Query     string
	AgeMin    int
	AgeMax    int
	Courses   []string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// Advanced runs a filtered search with sorting and pagination. An
// unrecognized sort field leaves insertion order, like the backend.
func (st *Store) Advanced(f Filter) []api.Student {
	st.mu.Lock()
	defer st.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	var recs []*Record
	for _, r := range st.students {
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		if f.AgeMin > 0 && r.Age < f.AgeMin {
			continue
		}
		if f.AgeMax > 0 && r.Age > f.AgeMax {
			continue
		}
		if len(f.Courses) > 0 && !matchesAnyCourse(r, f.Courses) {
			continue
		}
		recs = append(recs, r)
	}
	sortRecords(recs, f.SortBy, f.SortOrder)

	if f.Offset >= len(recs) {
		recs = nil
	} else {
		recs = recs[f.Offset:]
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}

	out := make([]api.Student, 0, len(recs))
	for _, r := range recs {
		out = append(out, st.toWire(r))
	}
	return out
}

// Stats computes the dashboard aggregates.
func (st *Store) Stats() api.StatsResponse {
	st.mu.Lock()
	defer st.mu.Unlock()

	total := len(st.students)
	distinct := make(map[string]struct{})
	links := 0
	for _, r := range st.students {
		links += len(r.Courses)
		for _, c := range r.Courses {
			distinct[strings.ToLower(c)] = struct{}{}
		}
	}
	avg := 0.0
	if total > 0 {
		avg = math.Round(float64(links)/float64(total)*10) / 10
	}
	return api.StatsResponse{
		TotalStudents:        total,
		ActiveCourses:        len(distinct),
		AvgCoursesPerStudent: avg,
	}
}

// RecordSearch stores a query at the front of the history ring, de-duplicated
// and capped at 10. Returns the updated ring.
func (st *Store) RecordSearch(query string) []api.SearchEntry {
	st.mu.Lock()
	defer st.mu.Unlock()

	ring := make([]api.SearchEntry, 0, maxHistory+1)
	ring = append(ring, api.SearchEntry{Query: query, Timestamp: st.now().Format(time.RFC3339)})
	for _, e := range st.history {
		if e.Query != query {
			ring = append(ring, e)
		}
	}
	if len(ring) > maxHistory {
		ring = ring[:maxHistory]
	}
	st.history = ring
	return append([]api.SearchEntry{}, st.history...)
}

// History returns the stored searches, newest first.
func (st *Store) History() []api.SearchEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]api.SearchEntry{}, st.history...)
}

// ClearHistory drops all stored searches.
func (st *Store) ClearHistory() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.history = nil
}

// Seed loads the demo data set when the store is empty: seven courses and
// six students, each linked to two courses.
func (st *Store) Seed() {
	st.mu.Lock()
	empty := len(st.students) == 0
	st.mu.Unlock()
	if !empty {
		return
	}

	courses := []string{"Mathematics", "Physics", "Chemistry", "Biology", "Computer Science", "English", "History"}
	seeds := []struct {
		studentID, name string
		age             int
		email           string
	}{
		{"2431210033", "Paul Mulilo", 30, "mulilopaul@gmail.com"},
		{"2431210038", "Margaret Nsamu", 28, "maggiensamu@gmail.com"},
		{"2431210046", "Lishomwa Mubita", 22, "lishomwamubita@gmail.com"},
		{"2431210088", "Natasha Butabwan'gombe", 23, "natashaba2gmail.com"},
		{"2431210087", "Heremin Kasongo", 23, "kasongoheremin@gmail.com"},
		{"2431210055", "Diana Prince", 21, "dianap@gmail.com"},
	}
	for i, s := range seeds {
		pair := []string{courses[i]}
		if i+1 < len(courses) {
			pair = append(pair, courses[i+1])
		}
		_, _ = st.Add(student.Input{
			StudentID: s.studentID,
			Name:      s.name,
			Age:       strconv.Itoa(s.age),
			Email:     s.email,
			Courses:   strings.Join(pair, ", "),
		})
	}
}

func (st *Store) byID(id int) *Record {
	for _, r := range st.students {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (st *Store) toWire(r *Record) api.Student {
	return api.Student{
		ID:        r.ID,
		StudentID: r.StudentID,
		Name:      r.Name,
		Age:       r.Age,
		Email:     r.Email,
		Courses:   joinCourses(r.Courses),
		CreatedAt: r.CreatedAt.Format(timeLayout),
		UpdatedAt: r.UpdatedAt.Format(timeLayout),
	}
}

func (st *Store) recordActivity(rec *Record, kind string, now time.Time) {
	entry := st.toWire(rec)
	entry.ActivityType = kind
	entry.ActivityDate = now.Format(timeLayout)

	ring := make([]api.Student, 0, maxRecent+1)
	ring = append(ring, entry)
	for _, e := range st.recent {
		if e.ID != rec.ID {
			ring = append(ring, e)
		}
	}
	if len(ring) > maxRecent {
		ring = ring[:maxRecent]
	}
	st.recent = ring
}

func (st *Store) dropFromRecent(id int) {
	kept := st.recent[:0]
	for _, e := range st.recent {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	st.recent = kept
}

func joinCourses(courses []string) string {
	if len(courses) == 0 {
		return "No courses"
	}
	return strings.Join(courses, ", ")
}

func matchesQuery(r *Record, q string) bool {
	if strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.StudentID), q) ||
		strings.Contains(strings.ToLower(r.Email), q) {
		return true
	}
	for _, c := range r.Courses {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

func relevanceTier(r *Record, q string) int {
	switch {
	case strings.HasPrefix(strings.ToLower(r.Name), q):
		return 1
	case strings.HasPrefix(strings.ToLower(r.StudentID), q):
		return 2
	case strings.HasPrefix(strings.ToLower(r.Email), q):
		return 3
	}
	for _, c := range r.Courses {
		if strings.HasPrefix(strings.ToLower(c), q) {
			return 4
		}
	}
	return 5
}

func matchesAnyCourse(r *Record, filters []string) bool {
	for _, want := range filters {
		w := strings.ToLower(want)
		for _, c := range r.Courses {
			if strings.Contains(strings.ToLower(c), w) {
				return true
			}
		}
	}
	return false
}

func sortRecords(recs []*Record, sortBy, order string) {
	var less func(a, b *Record) bool
	switch sortBy {
	case "name":
		less = func(a, b *Record) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "student_id":
		less = func(a, b *Record) bool { return a.StudentID < b.StudentID }
	case "age":
		less = func(a, b *Record) bool { return a.Age < b.Age }
	case "created_at":
		less = func(a, b *Record) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if strings.EqualFold(order, "desc") {
			return less(recs[j], recs[i])
		}
		return less(recs[i], recs[j])
	})
}
