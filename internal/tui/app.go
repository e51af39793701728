// internal/tui/app.go
//
// This is the main TUI for the S.A.C. transcription desk.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sac/internal/config"
	"sac/internal/logbook"
	"sac/internal/rating"
	"sac/internal/session"
	"sac/internal/store"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMainMenu   appState = iota
	stateTranscribe // filling a new questionnaire
	stateEdit       // correcting a stored record
	stateDashboard  // descriptive statistics
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4CAF50")).
			Bold(true)
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
)

// AppOption customizes App construction for tests.
type AppOption func(*App)

// WithClock overrides the timestamp source used when saving records.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen func() string) AppOption {
	return func(a *App) {
		if gen != nil {
			a.newID = gen
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	store   *store.Store
	logbook *logbook.Logbook
	session *session.FormSession

	mainMenu   list.Model
	transcribe *transcribeView
	edit       *editView
	dashboard  *dashboardView

	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int

	now   func() time.Time
	newID func() string
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App bound to the project directory.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, lbErr := logbook.New(filepath.Join(cfg.LogsDir(), "atividade.log"))
	if lbErr != nil {
		lb = nil
	}

	app := &App{
		state:   stateMainMenu,
		config:  cfg,
		logbook: lb,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.store = store.New(cfg.DatabasePath(), lb)
	app.session = session.New(session.Options{
		DraftPath:       cfg.DraftPath(),
		DefaultRating:   rating.Parse(cfg.DefaultRating()),
		DuplicatePolicy: rating.ParsePolicy(cfg.DuplicatePolicy()),
		Logbook:         lb,
		NewID:           app.newID,
	})

	items := []list.Item{
		menuItem{title: "Nova Transcrição", desc: "Transcrever um questionário em papel"},
		menuItem{title: "Editar Registro", desc: "Corrigir um registro já salvo"},
		menuItem{title: "Painel Gerencial", desc: "Médias, desvio padrão e ranking por questão"},
		menuItem{title: "Sair", desc: "Encerrar o S.A.C."},
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "S.A.C. · Módulo de Transcrição"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	app.mainMenu = menu

	if lb != nil {
		lb.Info("Sessão aberta · base %s", filepath.Base(cfg.DatabasePath()))
	}
	return app, nil
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateMainMenu {
				return a, tea.Quit
			}
		case "esc":
			if a.state != stateMainMenu && !a.activeViewConsumesEsc() {
				return a.returnToMainMenu()
			}
		case "enter":
			if a.state == stateMainMenu {
				return a.handleMainMenuSelection()
			}
		}
	}

	var cmds []tea.Cmd
	switch a.state {
	case stateMainMenu:
		var menuCmd tea.Cmd
		a.mainMenu, menuCmd = a.mainMenu.Update(msg)
		if menuCmd != nil {
			cmds = append(cmds, menuCmd)
		}
	case stateTranscribe:
		if a.transcribe != nil {
			if cmd := a.transcribe.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateEdit:
		if a.edit != nil {
			if cmd := a.edit.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateDashboard:
		if a.dashboard != nil {
			if cmd := a.dashboard.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return a, tea.Batch(cmds...)
}

// activeViewConsumesEsc lets a view keep escape for itself while a text
// widget inside it is focused.
func (a *App) activeViewConsumesEsc() bool {
	switch a.state {
	case stateTranscribe:
		return a.transcribe != nil && a.transcribe.consumesEsc()
	case stateEdit:
		return a.edit != nil && a.edit.consumesEsc()
	}
	return false
}

// handleMainMenuSelection processes menu item selection
func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.title {
	case "Nova Transcrição":
		a.logInfo("Menu · Nova Transcrição")
		a.state = stateTranscribe
		a.transcribe = newTranscribeView(a)
		a.statusMsg = "Transcreva com fidelidade absoluta (ipsis litteris)."
	case "Editar Registro":
		a.logInfo("Menu · Editar Registro")
		a.state = stateEdit
		a.edit = newEditView(a)
		a.statusMsg = "Atenção: alterações sobrescrevem o registro salvo."
	case "Painel Gerencial":
		a.logInfo("Menu · Painel Gerencial")
		a.state = stateDashboard
		a.dashboard = newDashboardView(a)
		a.statusMsg = "Estatísticas calculadas sobre a base atual."
	case "Sair":
		a.logInfo("Menu · Sair")
		return a, tea.Quit
	}
	return a, nil
}

// returnToMainMenu transitions back to the main menu
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	a.state = stateMainMenu
	a.transcribe = nil
	a.edit = nil
	a.dashboard = nil
	a.statusMsg = ""
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case stateTranscribe:
		if a.transcribe != nil {
			content = a.transcribe.View()
		}
	case stateEdit:
		if a.edit != nil {
			content = a.edit.View()
		}
	case stateDashboard:
		if a.dashboard != nil {
			content = a.dashboard.View()
		}
	}

	header := headerStyle.Render("⬡ S.A.C. · SISTEMA DE AVALIAÇÃO CURRICULAR")
	body := boxStyle.Width(max(40, width-4)).Render(content)
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, footerStyle.Render(a.statusMsg))
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(4)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := titleStyle.Render(fmt.Sprintf("LOG · %s", fileName))
	body := hintStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// reportStoreError surfaces a store failure on the status bar. The
// locked-file error carries its own remediation hint.
func (a *App) reportStoreError(err error) {
	a.logError("%v", err)
	a.statusMsg = errorStyle.Render(err.Error())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
