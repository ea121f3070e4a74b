package ui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"learnhub/internal/api"
	"learnhub/internal/config"
)

// AppModel is the root model: one mode per screen, an overlay stack for
// modals, the shared notification banner, and the backend client every
// command closure borrows.
type AppModel struct {
	Mode AppMode

	Dashboard *DashboardView
	Search    *SearchView
	Form      *FormView
	Detail    *StudentDetailView

	Overlays   OverlayStack
	KeyHandler *KeyHandler
	Banner     *Notification

	Client *api.Client
	Logger *slog.Logger

	// navGen stamps delayed post-action navigations; bumping it makes any
	// pending transition inert.
	navGen        int
	redirectDelay time.Duration

	// returnTo is where esc from a form or detail screen goes back to.
	returnTo AppMode

	exportDir string

	width, height int
}

// NewAppModel creates the root application model.
func NewAppModel(client *api.Client, cfg *config.Config, logger *slog.Logger) *AppModel {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC d", func() tea.Msg { return ShowDashboardMsg{} }, "Dashboard")
	reg.BindWithDesc("SPC s", func() tea.Msg { return ShowSearchMsg{} }, "Search")
	reg.BindWithDesc("SPC a", func() tea.Msg { return ShowAddStudentMsg{} }, "Add student")
	reg.BindWithDesc("SPC r", func() tea.Msg { return RefreshMsg{} }, "Refresh")

	return &AppModel{
		Mode:          ModeDashboard,
		Dashboard:     NewDashboardView(),
		KeyHandler:    NewKeyHandler(reg),
		Banner:        NewNotification(cfg.UI.NotificationTTL),
		Client:        client,
		Logger:        logger,
		redirectDelay: cfg.UI.RedirectDelay,
		exportDir:     cfg.ExportDir,
		returnTo:      ModeDashboard,
	}
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(
		a.Dashboard.Init(),
		loadRecentCmd(a.Client),
		loadStatsCmd(a.Client),
	)
}

// inputCapturer is implemented by views that take free typing; while one is
// active the leader key and single-key bindings stay out of the way.
type inputCapturer interface {
	capturingInput() bool
}

func (a *appModelAdapter) capturing() bool {
	if c, ok := a.currentView().(inputCapturer); ok {
		return c.capturingInput()
	}
	return false
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height

	case ShowNotificationMsg:
		return a, a.Banner.Show(msg.Kind, msg.Text)
	case hideNotificationMsg:
		a.Banner.Update(msg)
		return a, nil

	case navigateMsg:
		if msg.Gen != a.navGen {
			return a, nil
		}
		return a.navigate(msg.Target)
	case BackMsg:
		return a.navigate(a.returnTo)
	case ShowDashboardMsg:
		return a.navigate(ModeDashboard)
	case ShowSearchMsg:
		return a.navigate(ModeSearch)
	case ShowAddStudentMsg:
		return a.handleShowAddStudent()
	case ShowStudentMsg:
		return a.handleShowStudent(msg)
	case EditStudentMsg:
		return a.handleEditStudent(msg)
	case RefreshMsg:
		return a.handleRefresh()

	case ShowDeleteStudentMsg:
		return a.handleShowDeleteStudent(msg)
	case ShowBulkDeleteMsg:
		return a.handleShowBulkDelete(msg)
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	case DeleteStudentMsg:
		a.Overlays.Pop()
		return a, deleteStudentCmd(a.Client, msg.ID)
	case BulkDeleteMsg:
		a.Overlays.Pop()
		return a, bulkDeleteCmd(a.Client, msg.IDs)

	case RecentLoadedMsg:
		return a.handleRecentLoaded(msg)
	case StatsLoadedMsg:
		return a.handleStatsLoaded(msg)
	case StudentSavedMsg:
		return a.handleStudentSaved(msg)
	case StudentDeletedMsg:
		return a.handleStudentDeleted(msg)
	case BulkDeletedMsg:
		return a.handleBulkDeleted(msg)
	case ExportWrittenMsg:
		return a.handleExportWritten(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Modals swallow all keys while visible.
		if a.Overlays.Len() > 0 {
			cmd, _ := a.Overlays.UpdateTop(msg)
			return a, cmd
		}
		if !a.capturing() && a.KeyHandler != nil {
			if consumed, keyCmd := a.KeyHandler.Handle(msg); consumed {
				return a, keyCmd
			}
		}
	}

	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var out string
	if a.Banner.Visible() {
		out = a.Banner.View() + "\n"
	}
	if top, ok := a.Overlays.Peek(); ok {
		return out + top.View.View()
	}
	out += a.currentView().View()
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		out += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
	}
	return out
}

// navigate switches to target now, cancelling any pending delayed
// transition, and kicks off the screen's data load. List screens re-fetch
// on every entry; nothing is cached client-side.
func (a *appModelAdapter) navigate(target AppMode) (tea.Model, tea.Cmd) {
	a.navGen++
	a.Mode = target
	switch target {
	case ModeDashboard:
		a.Form = nil
		a.Detail = nil
		a.returnTo = ModeDashboard
		return a, tea.Batch(
			a.Dashboard.SetLoading(true),
			loadRecentCmd(a.Client),
			loadStatsCmd(a.Client),
		)
	case ModeSearch:
		a.Form = nil
		a.Detail = nil
		a.returnTo = ModeSearch
		if a.Search == nil {
			a.Search = NewSearchView(a.Client, a.exportDir)
			return a, a.Search.Init()
		}
		return a, nil
	}
	return a, nil
}

func (a *appModelAdapter) currentView() View {
	switch a.Mode {
	case ModeSearch:
		if a.Search != nil {
			return a.Search
		}
	case ModeAddStudent, ModeEditStudent:
		if a.Form != nil {
			return a.Form
		}
	case ModeStudentDetail:
		if a.Detail != nil {
			return a.Detail
		}
	}
	return a.Dashboard
}

func (a *appModelAdapter) setCurrentView(v View) {
	switch a.Mode {
	case ModeDashboard:
		if d, ok := v.(*DashboardView); ok {
			a.Dashboard = d
		}
	case ModeSearch:
		if s, ok := v.(*SearchView); ok {
			a.Search = s
		}
	case ModeAddStudent, ModeEditStudent:
		if f, ok := v.(*FormView); ok {
			a.Form = f
		}
	case ModeStudentDetail:
		if d, ok := v.(*StudentDetailView); ok {
			a.Detail = d
		}
	}
}
