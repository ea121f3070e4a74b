package ui

// AppMode represents the top-level application mode.
type AppMode int

const (
	ModeDashboard AppMode = iota
	ModeSearch
	ModeAddStudent
	ModeEditStudent
	ModeStudentDetail
)

func (m AppMode) String() string {
	switch m {
	case ModeDashboard:
		return "Dashboard"
	case ModeSearch:
		return "Search"
	case ModeAddStudent:
		return "AddStudent"
	case ModeEditStudent:
		return "EditStudent"
	case ModeStudentDetail:
		return "StudentDetail"
	default:
		return "Unknown"
	}
}
