// Package tui is the interactive shopping list. Model is the single owner
// of the controller state: remote calls run as commands and report back
// as messages, so every mutation happens on the Bubble Tea event loop.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/config"
	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/nocodb"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeAdd
	modeEdit
	modeConfirmDelete
	modeSettings
	modeAlert
)

// Options wires the UI to its collaborators.
type Options struct {
	Remote       Remote                     // nil until configured
	Connect      func(config.Config) Remote // builds a Remote once settings are saved
	Store        config.Blob                // where settings are persisted
	Config       *config.Config             // prefills the settings dialog
	Logger       *zap.Logger
	PollInterval time.Duration
	Clipboard    func(string) error
}

type Model struct {
	ctrl   *shoplist.Controller
	poller *shoplist.Poller
	remote Remote
	opts   Options
	log    *zap.Logger
	keys   keyMap

	list     list.Model
	input    textinput.Model   // shared by add & edit
	search   textinput.Model
	settings []textinput.Model // table url, token
	focus    int
	help     help.Model
	spinner  spinner.Model

	mode     mode
	targetID model.ID // item being edited or deleted
	inputErr string
	alert    string
	status   string
	syncErr  string
	loaded   bool
	fetching int

	width, height int
}

// New builds the model. Without a Remote it starts on the settings dialog.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	l := list.New(nil, itemDelegate{}, 76, 16)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = mutedStyle

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 200

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search items..."

	tableURL := textinput.New()
	tableURL.Prompt = "Table URL: "
	tableURL.Placeholder = "https://nocodb.example/api/v2/tables/<table>/records"
	token := textinput.New()
	token.Prompt = "Token:     "
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '•'
	if opts.Config != nil {
		tableURL.SetValue(opts.Config.TableURL)
		token.SetValue(opts.Config.Token)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	m := &Model{
		ctrl:     shoplist.NewController(),
		poller:   shoplist.NewPoller(opts.PollInterval),
		remote:   opts.Remote,
		opts:     opts,
		log:      opts.Logger,
		keys:     defaultKeyMap(),
		list:     l,
		input:    in,
		search:   search,
		settings: []textinput.Model{tableURL, token},
		help:     help.New(),
		spinner:  sp,
		width:    80,
		height:   24,
	}
	if m.remote == nil {
		m.openSettings()
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.remote == nil {
		return textinput.Blink
	}
	return tea.Batch(m.fetch(), m.startPolling())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.FocusMsg:
		m.log.Debug("terminal focused, resuming sync")
		return m, tea.Batch(m.fetch(), m.startPolling())

	case tea.BlurMsg:
		m.log.Debug("terminal blurred, pausing sync")
		m.poller.Stop()
		return m, nil

	case pollTickMsg:
		if !m.poller.Due(msg.gen) {
			return m, nil
		}
		return m, tea.Batch(m.fetch(), tickCmd(m.poller.Interval(), msg.gen))

	case itemsFetchedMsg:
		return m, m.onFetched(msg)

	case itemCreatedMsg:
		if msg.err != nil {
			m.log.Error("create failed", zap.String("title", msg.title), zap.Error(msg.err))
			m.showAlert("Failed to add item", msg.err)
			return m, nil
		}
		m.status = "added " + shoplist.StripTags(msg.title)
		return m, m.fetch()

	case itemUpdatedMsg:
		if msg.err != nil {
			m.log.Error("update failed, reverting", zap.Stringer("id", msg.id), zap.Error(msg.err))
			m.status = "update failed, reverting"
			return m, m.fetch()
		}
		if msg.refresh {
			return m, m.fetch()
		}
		return m, nil

	case itemDeletedMsg:
		if msg.err != nil {
			m.log.Error("delete failed", zap.Stringer("id", msg.id), zap.Error(msg.err))
			m.showAlert("Failed to delete", msg.err)
			return m, nil
		}
		m.status = "deleted"
		if m.ctrl.Remove(msg.id) {
			return m, m.refreshList()
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.log.Warn("clipboard write failed", zap.Error(msg.err))
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("copied %d items", msg.n)
		return m, nil

	case spinner.TickMsg:
		if m.fetching == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, m.updateInputs(msg)
}

func (m *Model) fetch() tea.Cmd {
	if m.remote == nil {
		return nil
	}
	m.fetching++
	return tea.Batch(fetchCmd(m.remote), m.spinner.Tick)
}

func (m *Model) startPolling() tea.Cmd {
	if m.remote == nil {
		return nil
	}
	gen, started := m.poller.Start()
	if !started {
		return nil
	}
	return tickCmd(m.poller.Interval(), gen)
}

func (m *Model) onFetched(msg itemsFetchedMsg) tea.Cmd {
	if m.fetching > 0 {
		m.fetching--
	}
	if msg.err != nil {
		// retried by the next poll
		m.log.Warn("fetch failed", zap.Error(msg.err))
		m.syncErr = "sync failed: " + msg.err.Error()
		return nil
	}
	m.syncErr = ""
	m.loaded = true
	if !m.ctrl.ApplySnapshot(msg.items) {
		return nil
	}
	m.log.Debug("snapshot changed", zap.Int("items", len(msg.items)))
	return m.refreshList()
}

// refreshList rebuilds the list rows from the controller, keeping the
// cursor on the same item when it is still visible.
func (m *Model) refreshList() tea.Cmd {
	var selected model.ID
	if it, ok := m.selected(); ok {
		selected = it.ID
	}
	visible := m.ctrl.Visible()
	rows := make([]list.Item, len(visible))
	idx := m.list.Index()
	for i, it := range visible {
		rows[i] = listItem{Item: it}
		if selected != "" && it.ID == selected {
			idx = i
		}
	}
	cmd := m.list.SetItems(rows)
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	return cmd
}

func (m *Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	return li.Item, ok
}

func (m *Model) showAlert(title string, err error) {
	m.alert = title + "\n" + err.Error()
	m.mode = modeAlert
	m.input.Blur()
	m.search.Blur()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	switch m.mode {
	case modeAlert:
		switch msg.String() {
		case "enter", "esc", " ":
			m.mode = modeList
			m.alert = ""
		}
		return nil
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeAdd, modeEdit:
		return m.handleInputKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeSettings:
		return m.handleSettingsKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelected()

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.inputErr = ""
		m.input.SetValue("")
		m.input.Placeholder = "New item, e.g. Milk #dairy"
		return m.input.Focus()

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.selected()
		if !ok {
			return nil
		}
		m.mode = modeEdit
		m.targetID = it.ID
		m.inputErr = ""
		m.input.SetValue(it.Title)
		m.input.CursorEnd()
		m.input.Placeholder = "Edit item title..."
		return m.input.Focus()

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.selected()
		if !ok {
			return nil
		}
		m.mode = modeConfirmDelete
		m.targetID = it.ID
		return nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m.search.Focus()

	case key.Matches(msg, m.keys.ClearFilter):
		v := m.ctrl.View()
		if v.Search == "" && v.Tag == "" {
			return nil
		}
		m.search.SetValue("")
		m.ctrl.SetSearch("")
		m.ctrl.SetTag("")
		return m.refreshList()

	case key.Matches(msg, m.keys.HideDone):
		m.ctrl.ToggleHideDone()
		return m.refreshList()

	case key.Matches(msg, m.keys.NextTag):
		m.ctrl.CycleTag(1)
		return m.refreshList()

	case key.Matches(msg, m.keys.PrevTag):
		m.ctrl.CycleTag(-1)
		return m.refreshList()

	case key.Matches(msg, m.keys.AllTags):
		m.ctrl.SetTag("")
		return m.refreshList()

	case key.Matches(msg, m.keys.Refresh):
		return m.fetch()

	case key.Matches(msg, m.keys.Copy):
		return m.copyVisible()

	case key.Matches(msg, m.keys.Settings):
		return m.openSettings()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *Model) toggleSelected() tea.Cmd {
	it, ok := m.selected()
	if !ok || m.remote == nil {
		return nil
	}
	done := !it.IsDone
	m.ctrl.Toggle(it.ID, done)
	return tea.Batch(
		m.refreshList(),
		updateCmd(m.remote, it.ID, nocodb.Fields{model.FieldIsDone: done}, false),
	)
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.inputErr = "Title cannot be empty"
			return nil
		}
		adding := m.mode == modeAdd
		m.closeInput()
		if m.remote == nil {
			return nil
		}
		if adding {
			m.status = "adding..."
			return createCmd(m.remote, title)
		}
		m.ctrl.Rename(m.targetID, title)
		return tea.Batch(
			m.refreshList(),
			updateCmd(m.remote, m.targetID, nocodb.Fields{model.FieldTitle: title}, true),
		)
	case "esc":
		m.closeInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) closeInput() {
	m.mode = modeList
	m.inputErr = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.search.Blur()
		return nil
	case "esc":
		m.mode = modeList
		m.search.SetValue("")
		m.search.Blur()
		m.ctrl.SetSearch("")
		return m.refreshList()
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetSearch(m.search.Value())
	return tea.Batch(cmd, m.refreshList())
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		m.mode = modeList
		if m.remote == nil {
			return nil
		}
		return deleteCmd(m.remote, m.targetID)
	case "n", "esc":
		m.mode = modeList
	}
	return nil
}

func (m *Model) openSettings() tea.Cmd {
	m.mode = modeSettings
	m.inputErr = ""
	m.focus = 0
	return m.focusSetting()
}

func (m *Model) focusSetting() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.settings {
		if i == m.focus {
			cmd = m.settings[i].Focus()
		} else {
			m.settings[i].Blur()
		}
	}
	return cmd
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		if m.remote == nil {
			return nil
		}
		m.closeSettings()
		return nil
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.settings)
		return m.focusSetting()
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.settings) - 1) % len(m.settings)
		return m.focusSetting()
	case "enter":
		if m.focus < len(m.settings)-1 {
			m.focus++
			return m.focusSetting()
		}
		return m.saveSettings()
	}
	var cmd tea.Cmd
	m.settings[m.focus], cmd = m.settings[m.focus].Update(msg)
	return cmd
}

func (m *Model) closeSettings() {
	m.mode = modeList
	m.inputErr = ""
	for i := range m.settings {
		m.settings[i].Blur()
	}
}

func (m *Model) saveSettings() tea.Cmd {
	cfg := config.Config{
		TableURL: m.settings[0].Value(),
		Token:    m.settings[1].Value(),
	}.Normalized()
	var err error
	if m.opts.Store != nil {
		err = config.Save(m.opts.Store, cfg)
	} else {
		err = cfg.Validate()
	}
	if err != nil {
		m.inputErr = err.Error()
		return nil
	}
	m.log.Info("settings saved", zap.String("table_url", cfg.TableURL))
	if m.opts.Connect != nil {
		m.remote = m.opts.Connect(cfg)
	}
	m.closeSettings()
	return tea.Batch(m.fetch(), m.startPolling())
}

func (m *Model) copyVisible() tea.Cmd {
	visible := m.ctrl.Visible()
	if len(visible) == 0 {
		m.status = "nothing to copy"
		return nil
	}
	var b strings.Builder
	for _, it := range visible {
		box := "[ ]"
		if it.IsDone {
			box = "[x]"
		}
		fmt.Fprintf(&b, "%s %s\n", box, it.Title)
	}
	return copyCmd(m.opts.Clipboard, b.String(), len(visible))
}

// updateInputs forwards non-key messages (cursor blinks) to the focused input.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeAdd, modeEdit:
		m.input, cmd = m.input.Update(msg)
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeSettings:
		m.settings[m.focus], cmd = m.settings[m.focus].Update(msg)
	}
	return cmd
}

func (m *Model) View() string {
	top := []string{m.headerView(), m.chipsView()}
	if m.mode == modeSearch || m.search.Value() != "" {
		top = append(top, m.search.View())
	}
	var bottom []string
	if box := m.dialogView(); box != "" {
		bottom = append(bottom, box)
	}
	switch {
	case m.syncErr != "":
		bottom = append(bottom, errorStyle.Render(m.syncErr))
	case m.status != "":
		bottom = append(bottom, mutedStyle.Render(m.status))
	}
	bottom = append(bottom, m.help.View(m.keys))

	chrome := lipgloss.Height(strings.Join(top, "\n")) + lipgloss.Height(strings.Join(bottom, "\n")) + 2
	listHeight := m.height - chrome
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)

	parts := append(top, m.listView())
	parts = append(parts, bottom...)
	return panelString(strings.Join(parts, "\n"))
}

func (m *Model) headerView() string {
	done, pending := m.ctrl.Counts()
	h := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Shopping list"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), done+pending,
	)
	if m.ctrl.View().HideDone {
		h += "  " + mutedStyle.Render("[done hidden]")
	}
	if m.fetching > 0 {
		h += "  " + m.spinner.View()
	}
	return h
}

func (m *Model) chipsView() string {
	active := m.ctrl.View().Tag
	chips := m.ctrl.Chips()
	out := make([]string, 0, len(chips))
	for _, c := range chips {
		label := fmt.Sprintf("%s %d", c.Label(), c.Count)
		if c.Tag == active {
			out = append(out, activeChipStyle.Render(label))
		} else {
			out = append(out, chipStyle.Render(label))
		}
	}
	return strings.Join(out, " ")
}

func (m *Model) listView() string {
	if !m.loaded {
		if m.remote == nil {
			return mutedStyle.Render("Not configured")
		}
		return mutedStyle.Render("Loading...")
	}
	if len(m.list.Items()) == 0 {
		return mutedStyle.Render("No items found")
	}
	return m.list.View()
}

func (m *Model) dialogView() string {
	withErr := func(title string) string {
		if m.inputErr != "" {
			title += ": " + errorStyle.Render(m.inputErr)
		}
		return title
	}
	switch m.mode {
	case modeAdd:
		return inputBox(withErr("Add new item") + "\n" + m.input.View())
	case modeEdit:
		return inputBox(withErr("Edit item") + "\n" + m.input.View())
	case modeConfirmDelete:
		title := m.targetID.String()
		if it, ok := m.ctrl.Find(m.targetID); ok {
			title = shoplist.StripTags(it.Title)
		}
		return inputBox(fmt.Sprintf("Delete %q? %s", title, mutedStyle.Render("(y/n)")))
	case modeSettings:
		lines := []string{withErr("Settings")}
		for _, f := range m.settings {
			lines = append(lines, f.View())
		}
		lines = append(lines, mutedStyle.Render("enter: next/save · tab: switch field · esc: cancel"))
		return inputBox(strings.Join(lines, "\n"))
	case modeAlert:
		return alertBox(errorStyle.Render(m.alert) + "\n" + mutedStyle.Render("press enter to dismiss"))
	}
	return ""
}

// Run starts the program on the alternate screen with focus reporting,
// which drives the pause/resume of polling.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
