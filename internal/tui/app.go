package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pahkat/internal/app"
	"pahkat/internal/history"
	"pahkat/pkg/outline"
	"pahkat/pkg/platform"
	"pahkat/pkg/repo"
	"pahkat/pkg/selection"
)

const historyLimit = 50

// Messages for async operations
type (
	stateMsg struct {
		state app.State
	}

	historyLoadedMsg struct {
		entries []history.Entry
		err     error
	}
)

// Options configure the browser.
type Options struct {
	Store   Store
	History HistoryLister
	System  platform.Info
}

// App wraps the Model with bubbletea components
type App struct {
	*Model
	spinner   spinner.Model
	textInput textinput.Model
	states    <-chan app.State
}

// NewApp creates a new TUI application that renders every state received on states.
func NewApp(opts Options, states <-chan app.State) *App {
	m := NewModel(opts.Store, opts.History, opts.System)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = m.styles.Spinner

	ti := textinput.New()
	ti.Placeholder = "package name, ID or language"
	ti.CharLimit = 100
	ti.Width = 40

	return &App{
		Model:     m,
		spinner:   sp,
		textInput: ti,
		states:    states,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.waitForState(),
		a.loadHistory(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		a.ready = true

	case tea.KeyMsg:
		// Handle confirmation dialog first
		if a.showConfirm {
			switch msg.String() {
			case "y", "Y", "enter":
				a.ConfirmYes()
			case "n", "N", "esc", "q":
				a.ConfirmNo()
			}
			return a, nil
		}

		// Handle input mode
		if a.inputMode {
			switch msg.String() {
			case "enter":
				a.FinishInput()
				a.textInput.Blur()
				return a, nil
			case "esc":
				a.CancelInput()
				a.textInput.Blur()
				return a, nil
			default:
				var cmd tea.Cmd
				a.textInput, cmd = a.textInput.Update(msg)
				a.inputValue = a.textInput.Value()
				return a, cmd
			}
		}

		return a, a.handleKey(msg)

	case stateMsg:
		committed := a.lastCommit
		a.SetState(msg.state)
		cmds = append(cmds, a.waitForState())
		if a.lastCommit != committed {
			cmds = append(cmds, a.loadHistory())
		}

	case historyLoadedMsg:
		if msg.err != nil {
			a.SetError(msg.err.Error())
		} else {
			a.SetHistory(msg.entries)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// handleKey applies a key outside of dialogs and input mode.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	for i, b := range a.keys.Tabs {
		if key.Matches(msg, b) {
			return a.openTab(i)
		}
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.ShowHelp()

	case key.Matches(msg, a.keys.Left):
		a.PrevTab()
	case key.Matches(msg, a.keys.Right):
		a.NextTab()

	case key.Matches(msg, a.keys.Back):
		a.GoBack()
	case key.Matches(msg, a.keys.Cancel):
		a.GoBack()
		a.ClearMessages()

	// Navigation
	case key.Matches(msg, a.keys.Up):
		a.MoveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.MoveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.MoveCursor(-a.VisibleHeight())
	case key.Matches(msg, a.keys.PageDown):
		a.MoveCursor(a.VisibleHeight())
	case key.Matches(msg, a.keys.Home):
		a.GoToTop()
	case key.Matches(msg, a.keys.End):
		a.GoToBottom()

	// Selection
	case key.Matches(msg, a.keys.Toggle):
		a.Toggle()
	case key.Matches(msg, a.keys.Group):
		a.ToggleGroup()
	case key.Matches(msg, a.keys.Grouping):
		a.CycleGrouping()
	case key.Matches(msg, a.keys.Clear):
		a.ClearSelection()
	case key.Matches(msg, a.keys.Commit):
		a.Commit()
	case key.Matches(msg, a.keys.Refresh):
		a.Refresh()
	case key.Matches(msg, a.keys.Info):
		a.ShowDetails()

	case key.Matches(msg, a.keys.Search):
		a.SetTab(1)
		a.startSearch()
	case key.Matches(msg, a.keys.Filter):
		a.SetTab(0)
		a.startFilter()
	}
	return nil
}

// openTab switches to tab i and starts whatever the tab needs on entry.
func (a *App) openTab(i int) tea.Cmd {
	a.SetTab(i)
	switch a.activeView {
	case ViewSearch:
		if a.searchQuery == "" {
			a.startSearch()
		}
	case ViewHistory:
		return a.loadHistory()
	}
	return nil
}

// View implements tea.Model
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.quitting {
		return ""
	}

	var b strings.Builder

	// Header
	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	// Tabs
	b.WriteString(a.renderTabs())
	b.WriteString("\n")

	// Content
	b.WriteString(a.renderContent())

	// Status and footer
	b.WriteString(a.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	// Overlay: Confirmation dialog
	if a.showConfirm {
		return a.renderWithDialog()
	}

	return b.String()
}

// renderHeader renders the header bar
func (a *App) renderHeader() string {
	title := a.styles.Header.Render(" Pahkat - Package Manager ")

	// Right side: loading indicator or status
	var right string
	if a.state.Loading {
		right = a.spinner.View() + " Loading repositories..."
	} else if a.errorMsg != "" {
		right = a.styles.Error.Render(a.errorMsg)
	} else if a.successMsg != "" {
		right = a.styles.Success.Render(a.successMsg)
	}

	// Pad to full width
	padding := a.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if padding < 0 {
		padding = 0
	}

	return title + strings.Repeat(" ", padding) + right
}

// renderTabs renders the tab bar
func (a *App) renderTabs() string {
	var tabs []string
	for i, tab := range a.tabs {
		style := a.styles.TabIdle
		if i == a.activeTab {
			style = a.styles.TabActive
		}
		name := tab.Name
		if tab.View == ViewSelection && a.state.Selection.Len() > 0 {
			name = fmt.Sprintf("%s (%d)", name, a.state.Selection.Len())
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("[%d] %s", i+1, name)))
	}

	tabBar := strings.Join(tabs, " ")
	return a.styles.TabBar.Width(a.width).Render(tabBar)
}

// renderContent renders the main content area
func (a *App) renderContent() string {
	height := a.height - 6 // header, tabs, status, footer

	var content string
	switch a.activeView {
	case ViewPackages:
		content = a.renderPackagesView()
	case ViewSearch:
		content = a.renderSearchView()
	case ViewSelection:
		content = a.renderSelectionView()
	case ViewHistory:
		content = a.renderHistoryView()
	case ViewSystem:
		content = a.renderSystemView()
	case ViewDetails:
		content = a.renderDetailsView()
	case ViewHelp:
		content = a.renderHelpView()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(max(height, 1)).
		Render(content)
}

// renderPackagesView renders the catalog tree
func (a *App) renderPackagesView() string {
	var b strings.Builder

	if a.inputMode && a.inputPrompt == "Filter: " {
		b.WriteString(a.styles.InputPrompt.Render("Filter: "))
		b.WriteString(a.textInput.View())
		b.WriteString("\n\n")
	} else {
		title := "Packages"
		if a.state.Catalog != nil {
			title = fmt.Sprintf("Packages (%d)", a.state.Catalog.Len())
		}
		if a.filterText != "" {
			title += fmt.Sprintf(" - Filter: %s", a.filterText)
		}
		b.WriteString(a.styles.Title.Render(title))
		b.WriteString("\n\n")
	}

	for _, f := range a.state.Failing {
		b.WriteString(a.styles.Warning.Render(fmt.Sprintf("! %s: %v", f.URL, f.Err)))
		b.WriteString("\n")
	}

	if len(a.rows) == 0 {
		msg := "No packages found"
		if a.state.Loading {
			msg = "Loading repositories..."
		}
		b.WriteString(a.styles.Description.Render(msg))
		return b.String()
	}

	b.WriteString(a.renderWindow(len(a.rows), func(i int, selected bool) string {
		return a.renderRow(a.rows[i], selected)
	}))

	return b.String()
}

// renderWindow renders the visible slice of a list with a scroll indicator.
func (a *App) renderWindow(n int, line func(i int, selected bool) string) string {
	var b strings.Builder

	visibleHeight := a.VisibleHeight()
	scroll := a.Scroll()
	cursor := a.Cursor()

	end := min(scroll+visibleHeight, n)
	for i := scroll; i < end; i++ {
		b.WriteString(line(i, i == cursor))
		b.WriteString("\n")
	}

	if n > visibleHeight {
		scrollPct := float64(scroll) / float64(n-visibleHeight) * 100
		b.WriteString(a.styles.Description.Render(fmt.Sprintf("\n  %.0f%% (%d/%d)", scrollPct, cursor+1, n)))
	}

	return b.String()
}

func (a *App) cursorMark(selected bool) string {
	if selected {
		return a.styles.Cursor.Render("> ")
	}
	return "  "
}

// renderRow renders one line of the catalog tree
func (a *App) renderRow(r row, selected bool) string {
	cursor := a.cursorMark(selected)

	switch r.kind {
	case rowRepository:
		return cursor + a.styles.Repository.Render(r.title) + " " +
			a.styles.Description.Render("("+a.state.Filter(r.url).String()+")")
	case rowGroup:
		return cursor + "  " + a.styles.Group.Render(r.title)
	}

	return cursor + "    " + a.renderPackageLine(r.pkg)
}

// renderPackageLine renders a single package line
func (a *App) renderPackageLine(p outline.Package) string {
	lang := a.language()
	mark := a.mark(a.state.Selection.StateOf(p.Key))
	name := a.styles.PackageName.Render(p.Descriptor.NativeName(lang))
	version := a.styles.PackageVersion.Render(p.Release.NativeVersion())
	status := StatusBadge(p.Status.Status)

	line := fmt.Sprintf("%s %-30s %s %s", mark, name, version, status)

	maxDescWidth := a.width - lipgloss.Width(line) - 10
	desc := []rune(p.Descriptor.NativeDescription(lang))
	if len(desc) > maxDescWidth && maxDescWidth > 3 {
		desc = append(desc[:maxDescWidth-3], []rune("...")...)
	}
	if maxDescWidth > 3 && len(desc) > 0 {
		line += " " + a.styles.PackageDesc.Render(string(desc))
	}

	return line
}

func (a *App) mark(s selection.State) string {
	switch s {
	case selection.SelectedInstall:
		return a.styles.MarkInstall.Render("+")
	case selection.SelectedUninstall:
		return a.styles.MarkUninstall.Render("-")
	}
	return " "
}

// renderSearchView renders the search view
func (a *App) renderSearchView() string {
	var b strings.Builder

	// Search input
	if a.inputMode && a.inputPrompt == "Search: " {
		b.WriteString(a.styles.InputPrompt.Render("Search: "))
		b.WriteString(a.textInput.View())
		b.WriteString("\n\n")
	} else if a.searchQuery != "" {
		b.WriteString(a.styles.Title.Render(fmt.Sprintf("Search results for '%s' (%d)", a.searchQuery, len(a.searchResults))))
		b.WriteString("\n\n")
	} else {
		b.WriteString(a.styles.Title.Render("Search Packages"))
		b.WriteString("\n")
		b.WriteString(a.styles.Description.Render("Press / to search"))
		b.WriteString("\n\n")
	}

	if len(a.searchResults) > 0 {
		b.WriteString(a.renderWindow(len(a.searchResults), func(i int, selected bool) string {
			r := a.searchResults[i]
			return a.cursorMark(selected) + a.renderPackageLine(r.Package) + " " +
				a.styles.Description.Render(r.MatchReason)
		}))
	} else if a.searchQuery != "" {
		b.WriteString(a.styles.Description.Render("No results found"))
	}

	return b.String()
}

// renderSelectionView renders the pending transaction
func (a *App) renderSelectionView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Selection"))
	b.WriteString("\n\n")

	pkgs := a.state.Selection.Values()
	if len(pkgs) == 0 {
		b.WriteString(a.styles.Description.Render("No packages selected"))
		return b.String()
	}

	lang := a.language()
	b.WriteString(a.renderWindow(len(pkgs), func(i int, selected bool) string {
		p := pkgs[i]
		line := fmt.Sprintf("%s%s %-10s %-30s %s", a.cursorMark(selected),
			a.mark(a.state.Selection.StateOf(p.Key)), string(p.Action),
			p.Descriptor.NativeName(lang), a.styles.Description.Render(string(p.Target)))
		if a.isOrphan(p.Key) {
			line += " " + a.styles.Orphan.Render("(no longer in repository)")
		}
		return line
	}))

	return b.String()
}

func (a *App) isOrphan(key repo.PackageKey) bool {
	for _, k := range a.state.Orphaned {
		if k == key {
			return true
		}
	}
	return false
}

// renderHistoryView renders the history view
func (a *App) renderHistoryView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Transaction History"))
	b.WriteString("\n\n")

	if a.history == nil {
		b.WriteString(a.styles.Description.Render("History is disabled"))
		return b.String()
	}
	if len(a.historyEntries) == 0 {
		b.WriteString(a.styles.Description.Render("No history entries"))
		return b.String()
	}

	b.WriteString(a.renderWindow(len(a.historyEntries), func(i int, selected bool) string {
		entry := a.historyEntries[i]
		status := a.styles.Success.Render("OK")
		if entry.Status == history.StatusFailed {
			status = a.styles.Error.Render("FAILED")
		}
		installs, uninstalls := entry.Counts()
		return fmt.Sprintf("%s%s  %s  +%d -%d  %s", a.cursorMark(selected),
			entry.FormatTime(), entry.ID, installs, uninstalls, status)
	}))

	return b.String()
}

// renderSystemView renders the system information view
func (a *App) renderSystemView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("System Information"))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render("Operating System"))
	b.WriteString("\n")
	if a.system.PrettyName != "" {
		b.WriteString(fmt.Sprintf("  Name:     %s\n", a.system.PrettyName))
	}
	if a.system.Version != "" {
		b.WriteString(fmt.Sprintf("  Version:  %s\n", a.system.Version))
	}
	b.WriteString(fmt.Sprintf("  Platform: %s\n", a.system.Platform))
	b.WriteString(fmt.Sprintf("  Arch:     %s\n", a.system.Arch))
	b.WriteString("\n")

	b.WriteString(a.styles.Subtitle.Render("Repositories"))
	b.WriteString("\n")
	for _, r := range a.state.Records {
		status := a.styles.Success.Render("OK")
		if a.failing(r.URL) {
			status = a.styles.Error.Render("FAILED")
		}
		b.WriteString(fmt.Sprintf("  %-50s %-8s %s\n", r.URL, r.Channel, status))
	}

	return b.String()
}

func (a *App) failing(url string) bool {
	for _, u := range a.state.FailingURLs() {
		if u == url {
			return true
		}
	}
	return false
}

// renderDetailsView renders package details
func (a *App) renderDetailsView() string {
	var b strings.Builder

	if a.detail == nil {
		b.WriteString(a.styles.Error.Render("No package selected"))
		return b.String()
	}

	p := a.detail
	lang := a.language()

	// Header
	b.WriteString(a.styles.Title.Render(p.Descriptor.NativeName(lang)))
	b.WriteString(" ")
	b.WriteString(StatusBadge(p.Status.Status))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render("Version: "))
	b.WriteString(a.styles.PackageVersion.Render(p.Release.NativeVersion()))
	b.WriteString("\n")
	b.WriteString(a.styles.Subtitle.Render("Group: "))
	b.WriteString(p.Group.Value)
	b.WriteString("\n")
	b.WriteString(a.styles.Subtitle.Render("Key: "))
	b.WriteString(p.Key.String())
	b.WriteString("\n\n")

	if desc := p.Descriptor.NativeDescription(lang); desc != "" {
		b.WriteString(a.styles.Subtitle.Render("Description"))
		b.WriteString("\n")
		b.WriteString(a.styles.Description.Render(desc))
		b.WriteString("\n\n")
	}

	b.WriteString(a.styles.Subtitle.Render("Selection: "))
	b.WriteString(a.state.Selection.StateOf(p.Key).String())
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render("Actions"))
	b.WriteString("\n")
	b.WriteString("  [b] Back\n")

	return b.String()
}

// renderHelpView renders the help view
func (a *App) renderHelpView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for i, group := range a.keys.FullHelp() {
		b.WriteString(a.styles.Subtitle.Render(helpSections[i]))
		b.WriteString("\n")
		for _, k := range group {
			h := k.Help()
			b.WriteString(fmt.Sprintf("  %-12s%s %s\n",
				a.styles.HelpKey.Render(h.Key),
				a.styles.HelpSep.String(),
				a.styles.HelpDesc.Render(h.Desc)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderStatusBar renders the primary action label
func (a *App) renderStatusBar() string {
	label := a.state.Primary
	style := a.styles.Description
	if label.Enabled {
		style = a.styles.Button
	}
	text := label.Text
	if label.Enabled {
		text = "[x] " + text
	}
	return a.styles.StatusBar.Width(a.width).Render(style.Render(text))
}

// renderFooter renders the footer bar
func (a *App) renderFooter() string {
	var hints []string

	switch a.activeView {
	case ViewPackages:
		hints = []string{"space:toggle", "a:group", "c:grouping", "f:filter", "r:refresh"}
	case ViewSearch:
		hints = []string{"space:toggle", "/:search", "o:info"}
	case ViewSelection:
		hints = []string{"space:remove", "u:clear", "x:commit"}
	case ViewDetails:
		hints = []string{"b:back"}
	}

	hints = append(hints, "?:help", "q:quit")

	footer := strings.Join(hints, "  ")
	return a.styles.Footer.Width(a.width).Render(footer)
}

// renderWithDialog renders the confirmation dialog
func (a *App) renderWithDialog() string {
	dialog := a.styles.Dialog.Render(
		a.styles.DialogTitle.Render(a.confirmTitle) + "\n\n" +
			a.styles.Button.Render("[Y]es") + " " +
			a.styles.ButtonMuted.Render("[N]o"),
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(a.styles.DialogBackdrop))
}

// startSearch initiates search input
func (a *App) startSearch() {
	a.textInput.SetValue("")
	a.textInput.Focus()
	a.StartInput("Search: ", a.Search)
}

// startFilter initiates filter input
func (a *App) startFilter() {
	a.textInput.SetValue(a.filterText)
	a.textInput.Focus()
	a.StartInput("Filter: ", a.SetFilterText)
}

// Async commands

func (a *App) waitForState() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-a.states
		if !ok {
			return nil
		}
		return stateMsg{state: s}
	}
}

func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		if a.history == nil {
			return historyLoadedMsg{}
		}

		entries, err := a.history.List(historyLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// deliverLatest hands s to the program, replacing a state it has not read yet.
func deliverLatest(ch chan app.State, s app.State) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	states := make(chan app.State, 1)
	unsubscribe := opts.Store.Subscribe(func(s app.State) {
		deliverLatest(states, s)
	})
	defer unsubscribe()

	p := tea.NewProgram(NewApp(opts, states), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
