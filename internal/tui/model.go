package tui

import (
	"strings"

	"pahkat/internal/app"
	"pahkat/internal/history"
	"pahkat/pkg/database"
	"pahkat/pkg/outline"
	"pahkat/pkg/platform"
	"pahkat/pkg/repo"
)

// View represents different views in the TUI
type View int

const (
	ViewPackages View = iota
	ViewSearch
	ViewSelection
	ViewHistory
	ViewSystem
	ViewDetails
	ViewHelp
)

// Tab represents a navigable tab
type Tab struct {
	Name string
	View View
}

// DefaultTabs returns the default tab configuration
func DefaultTabs() []Tab {
	return []Tab{
		{Name: "Packages", View: ViewPackages},
		{Name: "Search", View: ViewSearch},
		{Name: "Selection", View: ViewSelection},
		{Name: "History", View: ViewHistory},
		{Name: "System", View: ViewSystem},
	}
}

// Store is the part of the application store the browser drives.
type Store interface {
	Dispatch(app.Event)
	Subscribe(func(app.State)) func()
}

// HistoryLister lists recorded transactions, newest first.
type HistoryLister interface {
	List(limit int) ([]history.Entry, error)
}

type rowKind int

const (
	rowRepository rowKind = iota
	rowGroup
	rowPackage
)

// row is one line of the flattened catalog tree.
type row struct {
	kind   rowKind
	url    string
	filter outline.Filter
	title  string
	group  outline.Group
	pkg    outline.Package
}

// Model holds the application state
type Model struct {
	// Core state
	ready    bool
	quitting bool

	// Dimensions
	width  int
	height int

	// Navigation
	tabs       []Tab
	activeTab  int
	activeView View
	prevView   View

	// Data
	store          Store
	history        HistoryLister
	system         platform.Info
	state          app.State
	rows           []row
	index          *database.Index
	indexedFrom    *outline.Catalog
	searchResults  []database.SearchResult
	historyEntries []history.Entry
	detail         *outline.Package
	lastCommit     *history.Entry

	// UI state
	errorMsg     string
	successMsg   string
	filterText   string
	searchQuery  string
	inputMode    bool
	inputPrompt  string
	inputValue   string
	inputHandler func(string)

	// Cursor positions for each view
	cursors map[View]int

	// Scroll offsets for each view
	scrolls map[View]int

	// Styles and keys
	styles *Styles
	keys   KeyMap

	// Confirmation dialog
	showConfirm   bool
	confirmTitle  string
	confirmAction func()
}

// NewModel creates a new TUI model
func NewModel(store Store, hist HistoryLister, system platform.Info) *Model {
	tabs := DefaultTabs()
	return &Model{
		tabs:       tabs,
		activeTab:  0,
		activeView: ViewPackages,
		store:      store,
		history:    hist,
		system:     system,
		cursors:    make(map[View]int),
		scrolls:    make(map[View]int),
		styles:     DefaultStyles(),
		keys:       DefaultKeyMap(tabs),
	}
}

// SetSize sets the terminal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetState replaces the displayed application state.
func (m *Model) SetState(s app.State) {
	m.state = s
	m.rebuildRows()

	if s.Catalog != m.indexedFrom {
		m.index = nil
		if m.searchQuery != "" {
			m.Search(m.searchQuery)
		}
	}

	if s.Err != nil {
		m.SetError(s.Err.Error())
	}
	if s.LastCommit != nil && s.LastCommit != m.lastCommit {
		m.lastCommit = s.LastCommit
		m.SetSuccess("Recorded transaction " + s.LastCommit.ID + ": " + s.LastCommit.Summary())
	}

	for v := range m.cursors {
		if n := m.listLen(v); m.cursors[v] >= n {
			m.cursors[v] = max(n-1, 0)
		}
	}
}

// State returns the displayed application state.
func (m *Model) State() app.State {
	return m.state
}

func (m *Model) language() string {
	return m.state.Settings.Language
}

// rebuildRows flattens the catalog into repository, group and package rows.
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	if m.state.Catalog == nil {
		return
	}

	lang := m.language()
	for _, o := range m.state.Catalog.Outlines() {
		r := o.Repository()
		url := r.Repo.URL()
		header := row{kind: rowRepository, url: url, filter: r.Filter, title: r.Repo.NativeName(lang)}

		var body []row
		for _, g := range o.Groups() {
			var pkgs []row
			for _, p := range o.Packages(g) {
				if m.matchesFilter(p) {
					pkgs = append(pkgs, row{kind: rowPackage, url: url, group: g, pkg: p})
				}
			}
			if len(pkgs) == 0 {
				continue
			}
			body = append(body, row{kind: rowGroup, url: url, group: g, title: g.Value})
			body = append(body, pkgs...)
		}

		if m.filterText != "" && len(body) == 0 {
			continue
		}
		m.rows = append(m.rows, header)
		m.rows = append(m.rows, body...)
	}
}

func (m *Model) matchesFilter(p outline.Package) bool {
	if m.filterText == "" {
		return true
	}
	lang := m.language()
	return containsIgnoreCase(p.Descriptor.NativeName(lang), m.filterText) ||
		containsIgnoreCase(p.Descriptor.ID, m.filterText) ||
		containsIgnoreCase(p.Descriptor.NativeDescription(lang), m.filterText)
}

// containsIgnoreCase checks if s contains substr (case insensitive)
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SetFilterText narrows the package tree to matching packages.
func (m *Model) SetFilterText(text string) {
	m.filterText = strings.TrimSpace(text)
	m.rebuildRows()
	m.GoToTop()
}

// Search runs a query over the catalog, indexing it first if it changed.
func (m *Model) Search(query string) {
	m.searchQuery = strings.TrimSpace(query)
	m.searchResults = nil
	m.cursors[ViewSearch] = 0
	m.scrolls[ViewSearch] = 0
	if m.searchQuery == "" || m.state.Catalog == nil {
		return
	}

	if m.index == nil || m.indexedFrom != m.state.Catalog {
		m.index = database.IndexCatalog(m.state.Catalog, m.language())
		m.indexedFrom = m.state.Catalog
	}
	m.searchResults = m.index.Search(m.searchQuery, database.DefaultSearchOptions())
}

// SetHistory replaces the listed transactions.
func (m *Model) SetHistory(entries []history.Entry) {
	m.historyEntries = entries
}

// CurrentTab returns the current tab
func (m *Model) CurrentTab() Tab {
	if m.activeTab >= 0 && m.activeTab < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return m.tabs[0]
}

// Cursor returns the cursor position for the current view
func (m *Model) Cursor() int {
	return m.cursors[m.activeView]
}

// SetCursor sets the cursor position for the current view
func (m *Model) SetCursor(pos int) {
	m.cursors[m.activeView] = pos
}

// Scroll returns the scroll offset for the current view
func (m *Model) Scroll() int {
	return m.scrolls[m.activeView]
}

// SetScroll sets the scroll offset for the current view
func (m *Model) SetScroll(offset int) {
	m.scrolls[m.activeView] = offset
}

// VisibleHeight returns the height available for list content
func (m *Model) VisibleHeight() int {
	// header (2), tabs (1), footer (3), padding (2)
	return max(m.height-8, 1)
}

func (m *Model) listLen(v View) int {
	switch v {
	case ViewPackages:
		return len(m.rows)
	case ViewSearch:
		return len(m.searchResults)
	case ViewSelection:
		return m.state.Selection.Len()
	case ViewHistory:
		return len(m.historyEntries)
	default:
		return 0
	}
}

// currentRow returns the package tree row under the cursor.
func (m *Model) currentRow() (row, bool) {
	if m.activeView != ViewPackages {
		return row{}, false
	}
	c := m.Cursor()
	if c < 0 || c >= len(m.rows) {
		return row{}, false
	}
	return m.rows[c], true
}

// CurrentKey returns the key of the package under the cursor.
func (m *Model) CurrentKey() (repo.PackageKey, bool) {
	c := m.Cursor()
	switch m.activeView {
	case ViewPackages:
		if r, ok := m.currentRow(); ok && r.kind == rowPackage {
			return r.pkg.Key, true
		}
	case ViewSearch:
		if c >= 0 && c < len(m.searchResults) {
			return m.searchResults[c].Key, true
		}
	case ViewSelection:
		if vals := m.state.Selection.Values(); c >= 0 && c < len(vals) {
			return vals[c].Key, true
		}
	}
	return repo.PackageKey{}, false
}

// Toggle flips the item under the cursor: a package is toggled, a group is
// toggled as a whole and a repository header switches its grouping.
func (m *Model) Toggle() {
	if r, ok := m.currentRow(); ok {
		switch r.kind {
		case rowRepository:
			m.CycleGrouping()
			return
		case rowGroup:
			m.store.Dispatch(app.ToggleGroup{Repo: r.url, Group: r.group.ID})
			return
		}
	}
	if key, ok := m.CurrentKey(); ok {
		m.store.Dispatch(app.TogglePackage{Key: key})
	}
}

// ToggleGroup toggles the group containing the row under the cursor.
func (m *Model) ToggleGroup() {
	r, ok := m.currentRow()
	if !ok || r.kind == rowRepository {
		return
	}
	m.store.Dispatch(app.ToggleGroup{Repo: r.url, Group: r.group.ID})
}

// CycleGrouping switches the repository under the cursor between grouping
// by category and by language.
func (m *Model) CycleGrouping() {
	r, ok := m.currentRow()
	if !ok {
		return
	}
	m.store.Dispatch(app.SetFilter{Repo: r.url, Filter: m.state.Filter(r.url).Next()})
}

// ClearSelection deselects every package.
func (m *Model) ClearSelection() {
	if m.state.Selection.Len() == 0 {
		return
	}
	m.ShowConfirm("Clear selection?", func() {
		m.store.Dispatch(app.ClearSelection{})
	})
}

// Commit asks for confirmation and commits the selection.
func (m *Model) Commit() {
	if !m.state.Primary.Enabled {
		m.SetError("No packages selected")
		return
	}
	m.ShowConfirm(m.state.Primary.Text+"?", func() {
		m.store.Dispatch(app.Commit{})
	})
}

// Refresh reloads every repository.
func (m *Model) Refresh() {
	m.ClearMessages()
	m.store.Dispatch(app.RefreshRequested{Explicit: true})
}

// MoveCursor moves the cursor by delta, clamping to valid range
func (m *Model) MoveCursor(delta int) {
	n := m.listLen(m.activeView)
	if n == 0 {
		return
	}

	newPos := m.Cursor() + delta
	if newPos < 0 {
		newPos = 0
	}
	if newPos >= n {
		newPos = n - 1
	}
	m.SetCursor(newPos)

	// Adjust scroll to keep cursor visible
	visibleHeight := m.VisibleHeight()
	scroll := m.Scroll()

	if newPos < scroll {
		m.SetScroll(newPos)
	} else if newPos >= scroll+visibleHeight {
		m.SetScroll(newPos - visibleHeight + 1)
	}
}

// GoToTop moves cursor to the top
func (m *Model) GoToTop() {
	m.SetCursor(0)
	m.SetScroll(0)
}

// GoToBottom moves cursor to the bottom
func (m *Model) GoToBottom() {
	n := m.listLen(m.activeView)
	if n == 0 {
		return
	}
	m.SetCursor(n - 1)

	visibleHeight := m.VisibleHeight()
	if n > visibleHeight {
		m.SetScroll(n - visibleHeight)
	}
}

// NextTab switches to the next tab
func (m *Model) NextTab() {
	m.activeTab = (m.activeTab + 1) % len(m.tabs)
	m.activeView = m.tabs[m.activeTab].View
}

// PrevTab switches to the previous tab
func (m *Model) PrevTab() {
	m.activeTab--
	if m.activeTab < 0 {
		m.activeTab = len(m.tabs) - 1
	}
	m.activeView = m.tabs[m.activeTab].View
}

// SetTab switches to a specific tab by index
func (m *Model) SetTab(index int) {
	if index >= 0 && index < len(m.tabs) {
		m.activeTab = index
		m.activeView = m.tabs[m.activeTab].View
	}
}

// ShowDetails shows the details view for the package under the cursor
func (m *Model) ShowDetails() {
	key, ok := m.CurrentKey()
	if !ok || m.state.Catalog == nil {
		return
	}
	p, ok := m.state.Catalog.Package(key)
	if !ok {
		return
	}
	m.detail = &p
	m.prevView = m.activeView
	m.activeView = ViewDetails
}

// ShowHelp shows the key binding overview.
func (m *Model) ShowHelp() {
	if m.activeView == ViewHelp {
		m.GoBack()
		return
	}
	if m.activeView != ViewDetails {
		m.prevView = m.activeView
	}
	m.activeView = ViewHelp
}

// GoBack returns to the previous view
func (m *Model) GoBack() {
	if m.activeView == ViewDetails || m.activeView == ViewHelp {
		m.activeView = m.prevView
	}
}

// SetError sets an error message
func (m *Model) SetError(msg string) {
	m.errorMsg = msg
	m.successMsg = ""
}

// SetSuccess sets a success message
func (m *Model) SetSuccess(msg string) {
	m.successMsg = msg
	m.errorMsg = ""
}

// ClearMessages clears all messages
func (m *Model) ClearMessages() {
	m.errorMsg = ""
	m.successMsg = ""
}

// StartInput starts input mode
func (m *Model) StartInput(prompt string, handler func(string)) {
	m.inputMode = true
	m.inputPrompt = prompt
	m.inputValue = ""
	m.inputHandler = handler
}

// FinishInput finishes input mode and calls the handler
func (m *Model) FinishInput() {
	if m.inputHandler != nil {
		m.inputHandler(m.inputValue)
	}
	m.CancelInput()
}

// CancelInput cancels input mode
func (m *Model) CancelInput() {
	m.inputMode = false
	m.inputPrompt = ""
	m.inputValue = ""
	m.inputHandler = nil
}

// ShowConfirm shows a confirmation dialog
func (m *Model) ShowConfirm(title string, action func()) {
	m.showConfirm = true
	m.confirmTitle = title
	m.confirmAction = action
}

// ConfirmYes executes the confirmation action
func (m *Model) ConfirmYes() {
	if m.confirmAction != nil {
		m.confirmAction()
	}
	m.ConfirmNo()
}

// ConfirmNo cancels the confirmation
func (m *Model) ConfirmNo() {
	m.showConfirm = false
	m.confirmTitle = ""
	m.confirmAction = nil
}
