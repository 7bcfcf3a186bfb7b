package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pahkat/internal/app"
	"pahkat/internal/history"
	"pahkat/pkg/outline"
	"pahkat/pkg/platform"
	"pahkat/pkg/repo"
	"pahkat/pkg/selection"
)

const base = "https://pahkat.example/main"

type fakeStore struct {
	events []app.Event
}

func (s *fakeStore) Dispatch(e app.Event) {
	s.events = append(s.events, e)
}

func (s *fakeStore) Subscribe(func(app.State)) func() {
	return func() {}
}

type fakeHistory struct {
	entries []history.Entry
	err     error
}

func (h *fakeHistory) List(int) ([]history.Entry, error) {
	return h.entries, h.err
}

func descriptor(id string, tags ...string) repo.Descriptor {
	return repo.Descriptor{
		ID:   id,
		Name: map[string]string{"en": id},
		Tags: tags,
		Release: []repo.Release{{
			Version: "1.0",
			Target:  []repo.Target{{Platform: "macos", Payload: &repo.Payload{Kind: repo.PayloadMacOSPackage}}},
		}},
	}
}

func pkgKey(id string) repo.PackageKey {
	return repo.NewKey(base, id, repo.Params{})
}

func loadedState(sel selection.Selection) app.State {
	r := repo.NewLoadedRepository(repo.Meta{Base: base}, "", []repo.Descriptor{
		descriptor("speller-sme", "cat:spellers", "lang:sme"),
		descriptor("speller-smj", "cat:spellers", "lang:smj"),
		descriptor("kbd-sme", "cat:keyboards", "lang:sme"),
	})
	return app.State{
		Settings:     app.Settings{Language: "en", Platform: "macos"},
		Repositories: []*repo.LoadedRepository{r},
		Catalog:      outline.BuildAll([]*repo.LoadedRepository{r}, nil, outline.Options{Platform: "macos", Language: "en"}),
		Selection:    sel,
		Primary:      selection.PrimaryAction(sel),
	}
}

func newTestModel(t *testing.T) (*Model, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	m := NewModel(store, &fakeHistory{}, platform.Info{Platform: platform.MacOS, Arch: "x86_64"})
	m.SetSize(120, 40)
	m.SetState(loadedState(selection.Selection{}))
	return m, store
}

func install(id string) selection.SelectedPackage {
	return selection.SelectedPackage{
		Key:        pkgKey(id),
		Descriptor: descriptor(id),
		Action:     selection.ActionInstall,
		Target:     repo.TargetSystem,
	}
}

func TestRowsFlattenCatalog(t *testing.T) {
	m, _ := newTestModel(t)

	require.Len(t, m.rows, 6)
	assert.Equal(t, rowRepository, m.rows[0].kind)
	assert.Equal(t, base, m.rows[0].title)
	assert.Equal(t, rowGroup, m.rows[1].kind)
	assert.Equal(t, "Keyboards", m.rows[1].title)
	assert.Equal(t, "kbd-sme", m.rows[2].pkg.Descriptor.ID)
	assert.Equal(t, "Spellers", m.rows[3].title)
	assert.Equal(t, "speller-sme", m.rows[4].pkg.Descriptor.ID)
	assert.Equal(t, "speller-smj", m.rows[5].pkg.Descriptor.ID)
}

func TestToggleDispatchesByRowKind(t *testing.T) {
	m, store := newTestModel(t)

	m.SetCursor(2)
	m.Toggle()
	m.SetCursor(3)
	m.Toggle()
	m.SetCursor(0)
	m.Toggle()

	require.Len(t, store.events, 3)
	assert.Equal(t, app.TogglePackage{Key: pkgKey("kbd-sme")}, store.events[0])
	assert.Equal(t, app.ToggleGroup{Repo: base, Group: "cat:spellers"}, store.events[1])
	assert.Equal(t, app.SetFilter{Repo: base, Filter: outline.FilterLanguage}, store.events[2])
}

func TestToggleGroupFromPackageRow(t *testing.T) {
	m, store := newTestModel(t)

	m.SetCursor(5)
	m.ToggleGroup()
	m.SetCursor(0)
	m.ToggleGroup()

	require.Len(t, store.events, 1)
	assert.Equal(t, app.ToggleGroup{Repo: base, Group: "cat:spellers"}, store.events[0])
}

func TestFilterTextNarrowsRows(t *testing.T) {
	m, _ := newTestModel(t)
	m.SetCursor(4)

	m.SetFilterText("smj")

	require.Len(t, m.rows, 3)
	assert.Equal(t, "Spellers", m.rows[1].title)
	assert.Equal(t, "speller-smj", m.rows[2].pkg.Descriptor.ID)
	assert.Equal(t, 0, m.Cursor())

	m.SetFilterText("nothing-matches")
	assert.Empty(t, m.rows)
}

func TestCursorClampedOnSmallerState(t *testing.T) {
	m, _ := newTestModel(t)
	m.GoToBottom()
	assert.Equal(t, 5, m.Cursor())

	m.SetState(app.State{})
	assert.Equal(t, 0, m.Cursor())

	_, ok := m.CurrentKey()
	assert.False(t, ok)
}

func TestCommitNeedsSelection(t *testing.T) {
	m, store := newTestModel(t)

	m.Commit()
	assert.False(t, m.showConfirm)
	assert.Equal(t, "No packages selected", m.errorMsg)
	assert.Empty(t, store.events)

	m.SetState(loadedState(selection.New(install("kbd-sme"))))
	m.Commit()
	require.True(t, m.showConfirm)
	assert.Equal(t, "install 1 package?", m.confirmTitle)

	m.ConfirmYes()
	assert.False(t, m.showConfirm)
	assert.Equal(t, []app.Event{app.Commit{}}, store.events)
}

func TestSelectionViewTogglesSelectedKey(t *testing.T) {
	m, store := newTestModel(t)
	m.SetState(loadedState(selection.New(install("speller-smj"))))
	m.SetTab(2)

	m.Toggle()

	assert.Equal(t, []app.Event{app.TogglePackage{Key: pkgKey("speller-smj")}}, store.events)
}

func TestSearchIndexesCatalog(t *testing.T) {
	m, store := newTestModel(t)
	m.SetTab(1)

	m.Search("kbd")
	require.Len(t, m.searchResults, 1)
	assert.Equal(t, pkgKey("kbd-sme"), m.searchResults[0].Key)

	first := m.index
	m.Search("speller")
	assert.Same(t, first, m.index)

	m.Toggle()
	require.Len(t, store.events, 1)
	assert.IsType(t, app.TogglePackage{}, store.events[0])
}

func TestStateErrorsAndCommitsShowMessages(t *testing.T) {
	m, _ := newTestModel(t)

	s := loadedState(selection.Selection{})
	s.Err = errors.New("unknown package")
	m.SetState(s)
	assert.Equal(t, "unknown package", m.errorMsg)

	entry := history.NewEntry([]selection.SelectedPackage{install("kbd-sme")})
	s = loadedState(selection.Selection{})
	s.LastCommit = entry
	m.SetState(s)
	assert.Empty(t, m.errorMsg)
	assert.Contains(t, m.successMsg, entry.ID)
}

func TestDetailsAndHelpNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m.SetCursor(1)
	m.ShowDetails()
	assert.Equal(t, ViewPackages, m.activeView)

	m.SetCursor(2)
	m.ShowDetails()
	require.Equal(t, ViewDetails, m.activeView)
	assert.Equal(t, "kbd-sme", m.detail.Descriptor.ID)

	m.GoBack()
	assert.Equal(t, ViewPackages, m.activeView)

	m.ShowHelp()
	assert.Equal(t, ViewHelp, m.activeView)
	m.ShowHelp()
	assert.Equal(t, ViewPackages, m.activeView)
}

func TestAppUpdateAppliesStateAndKeys(t *testing.T) {
	store := &fakeStore{}
	hist := &fakeHistory{}
	a := NewApp(Options{Store: store, History: hist}, make(chan app.State))

	_, _ = a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	_, cmd := a.Update(stateMsg{state: loadedState(selection.Selection{})})
	assert.NotNil(t, cmd)
	assert.Len(t, a.rows, 6)

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.Len(t, store.events, 1)
	assert.Equal(t, app.TogglePackage{Key: pkgKey("kbd-sme")}, store.events[0])

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Equal(t, app.RefreshRequested{Explicit: true}, store.events[1])

	assert.Contains(t, a.View(), "Pahkat")

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestDeliverLatestKeepsNewestState(t *testing.T) {
	ch := make(chan app.State, 1)

	deliverLatest(ch, app.State{Loading: true})
	deliverLatest(ch, app.State{Loading: false, Settings: app.Settings{Language: "se"}})

	s := <-ch
	assert.Equal(t, "se", s.Settings.Language)
	assert.Empty(t, ch)
}
