package mockhub

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/student"
)

func input(id, name, age, email, courses string) student.Input {
	return student.Input{StudentID: id, Name: name, Age: age, Email: email, Courses: courses}
}

func TestAddRejectsDuplicates(t *testing.T) {
	st := NewStore()

	added, err := st.Add(input("1001", "Alice Johnson", "20", "alice@example.com", "Math"))
	require.NoError(t, err)
	assert.Equal(t, 1, added.ID)
	assert.Equal(t, "Math", added.Courses)

	_, err = st.Add(input("1001", "Bob Stone", "22", "bob@example.com", ""))
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = st.Add(input("1002", "Bob Stone", "22", "alice@example.com", ""))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRecentRingSemantics(t *testing.T) {
	st := NewStore()

	for i := 0; i < 12; i++ {
		_, err := st.Add(input(
			strconv.Itoa(1001+i),
			fmt.Sprintf("Student Number %c", 'A'+i),
			"20",
			fmt.Sprintf("s%d@example.com", i),
			"",
		))
		require.NoError(t, err)
	}

	recent := st.Recent()
	require.Len(t, recent, 10, "ring caps at 10")
	assert.Equal(t, 12, recent[0].ID, "newest first")
	assert.Equal(t, "Added", recent[0].ActivityType)

	// Editing moves the record to the front with an Updated badge.
	_, err := st.Update(5, input("1005", "Student Number E", "21", "s4@example.com", "Physics"))
	require.NoError(t, err)
	recent = st.Recent()
	assert.Equal(t, 5, recent[0].ID)
	assert.Equal(t, "Updated", recent[0].ActivityType)
	require.Len(t, recent, 10, "re-activity does not grow the ring")

	// Deleting drops the record's entries.
	require.NoError(t, st.Delete(5))
	for _, e := range st.Recent() {
		assert.NotEqual(t, 5, e.ID)
	}
}

func TestSearchRelevanceOrder(t *testing.T) {
	st := NewStore()

	_, err := st.Add(input("9001", "Zoe Brown", "21", "ali.zoe@example.com", ""))
	require.NoError(t, err) // email prefix match
	_, err = st.Add(input("9002", "Alice Johnson", "20", "aj@example.com", ""))
	require.NoError(t, err) // name prefix match
	_, err = st.Add(input("9003", "Brian May", "24", "brian@example.com", "Alignment Theory"))
	require.NoError(t, err) // course prefix match
	_, err = st.Add(input("ali7", "Carol White", "23", "carol@example.com", ""))
	require.NoError(t, err) // student id prefix match
	_, err = st.Add(input("9005", "Natalie Khalid", "25", "nk@example.com", ""))
	require.NoError(t, err) // contains-only match on "khALId"? no: matches nothing for "ali"? "Khalid" contains "ali"

	results := st.Search("ali")
	require.Len(t, results, 5)
	assert.Equal(t, "Alice Johnson", results[0].Name)
	assert.Equal(t, "Carol White", results[1].Name)
	assert.Equal(t, "Zoe Brown", results[2].Name)
	assert.Equal(t, "Brian May", results[3].Name)
	assert.Equal(t, "Natalie Khalid", results[4].Name)
}

func TestSearchCapsResults(t *testing.T) {
	st := NewStore()
	for i := 0; i < 20; i++ {
		_, err := st.Add(input(
			strconv.Itoa(2000+i),
			fmt.Sprintf("Alice Clone %c", 'A'+i),
			"20",
			fmt.Sprintf("a%d@example.com", i),
			"",
		))
		require.NoError(t, err)
	}

	assert.Len(t, st.Search("alice"), 15)
	assert.Empty(t, st.Search(""))
	assert.Len(t, st.SearchAll("alice"), 20, "exports are uncapped")
}

func TestAdvancedFilterSortPaginate(t *testing.T) {
	st := NewStore()
	ages := []int{30, 22, 26, 19}
	for i, age := range ages {
		_, err := st.Add(input(
			strconv.Itoa(3000+i),
			fmt.Sprintf("Person %c", 'A'+i),
			strconv.Itoa(age),
			fmt.Sprintf("p%d@example.com", i),
			map[int]string{0: "Math", 1: "Math, Physics", 2: "History", 3: "Physics"}[i],
		))
		require.NoError(t, err)
	}

	byAge := st.Advanced(Filter{SortBy: "age", SortOrder: "desc"})
	require.Len(t, byAge, 4)
	assert.Equal(t, 30, byAge[0].Age)
	assert.Equal(t, 19, byAge[3].Age)

	inRange := st.Advanced(Filter{AgeMin: 20, AgeMax: 27})
	require.Len(t, inRange, 2)

	physics := st.Advanced(Filter{Courses: []string{"Physics"}})
	require.Len(t, physics, 2)

	paged := st.Advanced(Filter{SortBy: "age", SortOrder: "asc", Limit: 2, Offset: 2})
	require.Len(t, paged, 2)
	assert.Equal(t, 26, paged[0].Age)

	past := st.Advanced(Filter{Offset: 10})
	assert.Empty(t, past)
}

func TestStatsAggregates(t *testing.T) {
	st := NewStore()
	assert.Equal(t, 0.0, st.Stats().AvgCoursesPerStudent)

	_, err := st.Add(input("4001", "Alice Johnson", "20", "a@example.com", "Math, Physics"))
	require.NoError(t, err)
	_, err = st.Add(input("4002", "Bob Stone", "22", "b@example.com", "Math"))
	require.NoError(t, err)

	stats := st.Stats()
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 2, stats.ActiveCourses)
	assert.Equal(t, 1.5, stats.AvgCoursesPerStudent)
}

func TestHistoryRing(t *testing.T) {
	st := NewStore()

	for i := 0; i < 12; i++ {
		st.RecordSearch(fmt.Sprintf("query-%d", i))
	}
	hist := st.History()
	require.Len(t, hist, 10)
	assert.Equal(t, "query-11", hist[0].Query)

	// Repeating a query moves it to the front without duplicating it.
	st.RecordSearch("query-5")
	hist = st.History()
	require.Len(t, hist, 10)
	assert.Equal(t, "query-5", hist[0].Query)
	count := 0
	for _, e := range hist {
		if e.Query == "query-5" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	st.ClearHistory()
	assert.Empty(t, st.History())
}

func TestDeleteMany(t *testing.T) {
	st := NewStore()
	for i := 0; i < 4; i++ {
		_, err := st.Add(input(strconv.Itoa(5000+i), "Delete Target", "20", fmt.Sprintf("d%d@example.com", i), ""))
		require.NoError(t, err)
	}

	removed := st.DeleteMany([]int{1, 3, 99})
	assert.Equal(t, 2, removed)
	_, ok := st.Get(1)
	assert.False(t, ok)
	_, ok = st.Get(2)
	assert.True(t, ok)
}

func TestSeedIsIdempotent(t *testing.T) {
	st := NewStore()
	st.Seed()
	first := st.Stats().TotalStudents
	require.Equal(t, 6, first)
	st.Seed()
	assert.Equal(t, 6, st.Stats().TotalStudents)

	recent := st.Recent()
	require.Len(t, recent, 6)
	assert.Equal(t, "Diana Prince", recent[0].Name, "last seeded student is newest")
	assert.Equal(t, "Mathematics, Physics", recent[5].Courses)
}
