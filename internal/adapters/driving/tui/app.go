package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/views/recovery"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/views/viewer"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// notificationInterval is how often the status bar re-reads notifications.
const notificationInterval = 250 * time.Millisecond

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles is shared by every view; theme changes are applied in place.
	styles *styles.Styles
	keymap *keymap.KeyMap
	theme  domain.Theme

	menuView     *menu.View
	viewerView   *viewer.View
	chatView     *chat.View
	settingsView *settings.View
	recoveryView *recovery.View
	statusBar    *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// now is the clock used for notification expiry.
	now func() time.Time

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	theme := domain.ThemeSystem
	if ports.Settings != nil {
		if s, err := ports.Settings.Get(); err == nil {
			theme = s.Theme
		}
	}

	s := styles.NewStyles(styles.ThemeFor(theme))
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		theme:        theme,
		menuView:     menu.NewView(s),
		settingsView: settings.NewView(s, ports.Settings),
		recoveryView: recovery.NewView(s),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewMenu,
		now:          time.Now,
	}
	a.resetViews()
	return a, nil
}

// resetViews recreates the document views from the assistant's state.
func (a *App) resetViews() {
	a.viewerView = viewer.NewView(a.styles, a.keymap, a.ports.Assistant)
	a.chatView = chat.NewView(a.styles, a.keymap, a.ports.Assistant)
	a.viewerView.Refresh()
	a.chatView.Refresh()
	if a.ready {
		a.resize()
	}
	a.syncStatus()
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("paperlens"),
		a.chatView.Init(),
		a.waitForChange(),
		a.tickNotifications(),
	)
}

// waitForChange blocks until the assistant signals a state change.
func (a *App) waitForChange() tea.Cmd {
	changes := a.ports.Assistant.Changes()
	if changes == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return messages.StateChanged{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) tickNotifications() tea.Cmd {
	if a.ports.Notifications == nil {
		return nil
	}
	return tea.Tick(notificationInterval, func(time.Time) tea.Msg {
		return messages.NotificationsTick{}
	})
}

// Update implements tea.Model. A panic while handling a message switches
// the app to the recovery view.
func (a *App) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			a.recoverFrom(r)
			model, cmd = a, nil
		}
	}()
	return a.update(msg)
}

//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.StateChanged:
		a.refresh(msg)
		return a, a.waitForChange()

	case messages.NotificationsTick:
		a.syncNotification()
		return a, a.tickNotifications()

	case messages.OpenRequested:
		a.err = nil
		a.statusBar.SetState(status.StateLoading)
		a.currentView = messages.ViewViewer
		a.statusBar.SetHints(status.HintsViewer)
		return a, a.openDocument(msg.Path)

	case messages.DocumentLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			logger.Debug("tui: open failed: %v", msg.Err)
		}
		a.refresh(msg)
		return a, nil

	case messages.ActionRequested:
		return a, a.dispatch(msg.Action, msg.BlockID)

	case messages.ActionCompleted:
		a.err = msg.Err
		a.refresh(msg)
		if msg.Err == nil && msg.Result.AskPromptArmed {
			return a, a.switchView(messages.ViewChat)
		}
		return a, nil

	case messages.QuestionSubmitted:
		return a, a.submit(msg.Text)

	case messages.AnswerReceived:
		a.err = msg.Err
		a.refresh(msg)
		return a, nil

	case messages.CopyRequested:
		return a, a.copyEntry(msg.MessageID)

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.syncStatus()
		return a, nil

	case messages.SettingsLoaded:
		if msg.Err == nil && msg.Settings != nil {
			a.applyTheme(msg.Settings.Theme)
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case recovery.Reset:
		a.err = nil
		a.recoveryView.SetError(nil)
		a.resetViews()
		a.currentView = messages.ViewMenu
		a.statusBar.SetHints(status.HintsGlobal)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewViewer:
		a.viewerView, cmd = a.viewerView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp, messages.ViewRecovery:
	}

	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewViewer:
		a.viewerView, cmd = a.viewerView.Update(msg)
		a.syncStatus()
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			return a, a.switchView(messages.ViewMenu)
		}
	case messages.ViewRecovery:
		a.recoveryView, cmd = a.recoveryView.Update(msg)
	}
	return a, cmd
}

func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view

	switch view {
	case messages.ViewViewer:
		a.viewerView.Refresh()
		a.statusBar.SetHints(status.HintsViewer)
	case messages.ViewChat:
		a.chatView.Refresh()
		a.statusBar.SetHints(status.HintsChat)
	case messages.ViewSettings:
		a.settingsView.Reset()
		a.statusBar.SetHints(status.HintsGlobal)
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp, messages.ViewRecovery:
		a.statusBar.SetHints(status.HintsGlobal)
	}
	a.syncStatus()
	return nil
}

// refresh re-reads assistant state into every view after a change.
func (a *App) refresh(msg tea.Msg) {
	a.viewerView, _ = a.viewerView.Update(msg)
	a.chatView, _ = a.chatView.Update(msg)
	a.syncStatus()
	a.syncNotification()
}

func (a *App) syncStatus() {
	state := a.ports.Assistant.Document()

	name := ""
	if state.Document != nil {
		name = state.Document.Metadata.Name
	}
	a.menuView.SetDocument(name)

	switch {
	case a.err != nil:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(domain.UserMessage(a.err))
	case state.Document == nil:
		a.statusBar.SetState(status.StateEmpty)
	case state.IsLoading:
		a.statusBar.SetState(status.StateLoading)
	case state.Error != "":
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(state.Error)
	default:
		a.statusBar.SetState(status.StateReady)
	}
	a.statusBar.SetPage(a.viewerView.Page(), a.viewerView.PageCount())
}

// syncNotification shows the newest active notification.
func (a *App) syncNotification() {
	if a.ports.Notifications == nil {
		return
	}
	active := a.ports.Notifications.Active(a.now())
	if len(active) == 0 {
		a.statusBar.SetNotification(nil)
		return
	}
	newest := active[len(active)-1]
	a.statusBar.SetNotification(&newest)
}

func (a *App) applyTheme(theme domain.Theme) {
	if theme == a.theme || !theme.IsValid() {
		return
	}
	a.theme = theme
	*a.styles = *styles.NewStyles(styles.ThemeFor(theme))
}

func (a *App) recoverFrom(r any) {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	logger.Error("tui: recovered from panic: %v", err)
	a.recoveryView.SetError(err)
	a.currentView = messages.ViewRecovery
	a.statusBar.SetHints(status.HintsGlobal)
}

func (a *App) resize() {
	contentHeight := a.height - 1
	a.menuView.SetDimensions(a.width, contentHeight)
	a.viewerView.SetDimensions(a.width, contentHeight)
	a.chatView.SetDimensions(a.width, contentHeight)
	a.settingsView.SetDimensions(a.width, contentHeight)
	a.recoveryView.SetDimensions(a.width, contentHeight)
	a.statusBar.SetWidth(a.width)
}

// Commands that call into the core.

func (a *App) openDocument(path string) tea.Cmd {
	ctx, ingestor, assistant := a.ctx, a.ports.Ingestor, a.ports.Assistant
	return func() tea.Msg {
		doc, err := ingestor.FromPath(ctx, path)
		if err != nil {
			return messages.DocumentLoaded{Err: err}
		}
		return messages.DocumentLoaded{Err: assistant.LoadDocument(ctx, doc)}
	}
}

func (a *App) dispatch(action domain.Action, blockID int) tea.Cmd {
	ctx, assistant := a.ctx, a.ports.Assistant
	return func() tea.Msg {
		result, err := assistant.Dispatch(ctx, action, blockID)
		return messages.ActionCompleted{Action: action, Result: result, Err: err}
	}
}

func (a *App) submit(text string) tea.Cmd {
	ctx, assistant := a.ctx, a.ports.Assistant
	return func() tea.Msg {
		msg, err := assistant.Submit(ctx, text)
		return messages.AnswerReceived{Message: msg, Err: err}
	}
}

func (a *App) copyEntry(id string) tea.Cmd {
	assistant := a.ports.Assistant
	return func() tea.Msg {
		if err := assistant.CopyEntry(id); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.NotificationsTick{}
	}
}

// View implements tea.Model.
// It renders the current view and the status bar.
func (a *App) View() (out string) {
	if !a.ready {
		return "Initialising..."
	}

	defer func() {
		if r := recover(); r != nil {
			a.recoverFrom(r)
			out = a.recoveryView.View()
		}
	}()

	var content string
	switch a.currentView {
	case messages.ViewViewer:
		content = a.viewerView.View()
	case messages.ViewChat:
		content = a.chatView.View()
	case messages.ViewSettings:
		content = a.settingsView.View()
	case messages.ViewHelp:
		content = a.viewHelp()
	case messages.ViewRecovery:
		return a.recoveryView.View()
	default:
		content = a.menuView.View()
	}

	return content + "\n" + a.statusBar.View()
}

// viewHelp renders the help view from the key map.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString("Chat:\n")
	b.WriteString("  (type)       Ask a question about the document\n")
	b.WriteString("  enter        Send\n")
	b.WriteString("  ↑/↓          Select a transcript entry\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))

	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.resize()
}
