package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/assetlist/internal/config"
	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/logging"
	"github.com/five82/assetlist/internal/prefs"
	"github.com/five82/assetlist/internal/proptree"
	"github.com/five82/assetlist/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewTable View = iota
	ViewTree
	ViewLogs
)

const (
	defaultPollTick = time.Second
	noticeTTL       = 6 * time.Second
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	// List is opened first when set; otherwise the last browsed list is.
	List     string
	Logger   *slog.Logger
	Reload   func()
	PollTick time.Duration
}

// notice is the one-line status message under the content.
type notice struct {
	text string
	err  bool
	at   time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	config    *config.Config
	prefs     prefs.Prefs
	prefsPath string
	logger    *slog.Logger
	reload    func()
	copyText  func(string) error
	pollTick  time.Duration
	keys      keyMap
	requested string

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	quitArmed   bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	edits       *host.Session
	// pendingGen is a newer catalog generation held back while edits are unsaved.
	pendingGen uint64

	table  tableState
	search searchState
	edit   editState
	picker pickerState
	tree   treeState
	logs   logState

	notice notice
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = defaultPollTick
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	reload := opts.Reload
	if reload == nil {
		reload = func() {}
	}

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		config:    cfg,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		logger:    logger,
		reload:    reload,
		copyText:  clipboard.WriteAll,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		requested: strings.TrimSpace(opts.List),
		theme:     GetTheme(opts.Prefs.Theme),
		search:    newSearchState(),
		edit:      newEditState(),
		tree:      treeState{cache: proptree.NewCache(), collapsed: make(map[string]bool)},
		logs:      newLogState(),
	}
	if m.requested == "" {
		m.requested = opts.Prefs.LastList
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		cmd := m.adoptSnapshot(state.Snapshot(msg))
		return m, cmd

	case logBatchMsg:
		m.handleLogBatch(msg)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard copy failed", "error", msg.err)
			m.notify(fmt.Sprintf("copy failed: %v", msg.err), true)
		} else {
			m.notify(msg.what+" copied to clipboard", false)
		}
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save preferences failed", "error", msg.err)
			m.notify(fmt.Sprintf("preferences not saved: %v", msg.err), true)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.picker.open {
		return m.renderPicker()
	}
	return m.renderMain()
}

// handleKey routes keyboard input: modal inputs first, then global keys, then
// the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.picker.open {
		return m.handlePickerKey(msg)
	}
	if m.edit.active {
		return m.handleEditKey(msg)
	}
	if m.search.active {
		return m.handleSearchInput(msg)
	}
	if m.currentView == ViewLogs && m.logs.searchActive {
		return m.handleLogSearchInput(msg)
	}

	if msg.String() != "q" {
		m.quitArmed = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.edits != nil && m.edits.Dirty() && !m.quitArmed {
			m.quitArmed = true
			m.notify("unsaved edits: ctrl+s saves, u undoes, q again quits", true)
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.layout()
		return m, m.persistPrefs()

	case key.Matches(msg, m.keys.Tab):
		return m.switchView((m.currentView + 1) % 3)

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView((m.currentView + 2) % 3)

	case key.Matches(msg, m.keys.ViewTable):
		return m.switchView(ViewTable)

	case key.Matches(msg, m.keys.ViewTree):
		return m.switchView(ViewTree)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.notify("reloading catalog", false)
		return m, nil

	case key.Matches(msg, m.keys.OpenList):
		m.openPicker()
		return m, nil
	}

	switch m.currentView {
	case ViewTable:
		return m.handleTableKey(msg)
	case ViewTree:
		return m.handleTreeKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// switchView activates v, refreshing any data the view shows.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	switch v {
	case ViewTree:
		m.rebuildTree()
	case ViewLogs:
		return m, m.refreshLogs()
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logs.follow {
		cmds = append(cmds, m.refreshLogs())
	}
	if !m.notice.at.IsZero() && time.Since(m.notice.at) > noticeTTL {
		m.notice = notice{}
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// adoptSnapshot takes a new snapshot from the store. A new catalog generation
// rebinds the open list, unless there are unsaved edits on the current one or
// a cell editor is open; then the new catalog waits until the edits are saved
// or undone and the editor is closed.
func (m *Model) adoptSnapshot(snap state.Snapshot) tea.Cmd {
	if snap.Generation == m.snapshot.Generation || snap.Catalog == nil {
		m.snapshot.LastError = snap.LastError
		m.snapshot.ConsecutiveFailures = snap.ConsecutiveFailures
		return nil
	}
	if m.editsPending() {
		if m.pendingGen != snap.Generation {
			m.pendingGen = snap.Generation
			m.logger.Info("catalog changed on disk while edits are unsaved", "generation", snap.Generation)
			m.notify("catalog changed on disk; reloads once edits are saved or undone", true)
		}
		m.snapshot.LastError = snap.LastError
		m.snapshot.ConsecutiveFailures = snap.ConsecutiveFailures
		return nil
	}

	m.snapshot = snap
	m.lastUpdated = time.Now()
	m.pendingGen = 0
	m.edits = host.NewSession(snap.Catalog)
	m.tree.cache.Reset()
	if snap.ListErr != nil {
		m.notify(firstLine(snap.ListErr.Error()), true)
	}

	name := m.requested
	if m.table.list != nil {
		name = m.table.list.Name
	}
	cfg, ok := snap.Find(name)
	if !ok && len(snap.Lists) > 0 {
		cfg = snap.Lists[0]
		ok = true
	}
	if !ok {
		m.table = tableState{}
		m.applyFilter()
		return nil
	}
	cmd := m.openList(cfg)
	if m.currentView == ViewTree {
		m.rebuildTree()
	}
	return cmd
}

// heldBack reports whether a newer catalog is waiting on unsaved edits.
func (m Model) heldBack() bool {
	return m.pendingGen != 0
}

// editsPending reports whether the current catalog has unsaved edits or an
// open editor holding one of its properties.
func (m Model) editsPending() bool {
	return m.edit.active || (m.edits != nil && m.edits.Dirty())
}

// releaseHeld adopts the waiting catalog once the edits are gone.
func (m *Model) releaseHeld() tea.Cmd {
	if !m.heldBack() || m.editsPending() || m.store == nil {
		return nil
	}
	return fetchSnapshotCmd(m.store)
}

func (m *Model) notify(text string, isErr bool) {
	m.notice = notice{text: text, err: isErr, at: time.Now()}
}

// layout recomputes every size-dependent piece of state.
func (m *Model) layout() {
	m.ensureColumnVisible()
	m.ensureRowVisible()
	m.updateTreeViewport()
	m.updateLogViewport()
}

// contentHeight is the height left after the header, command bar and status line.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTree:
		return m.renderTree()
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderTable()
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type copiedMsg struct {
	what string
	err  error
}

type prefsSavedMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) copyCmd(what, text string) tea.Cmd {
	copyText := m.copyText
	return func() tea.Msg {
		return copiedMsg{what: what, err: copyText(text)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
