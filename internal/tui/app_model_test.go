package tui

import (
	"context"
	"strings"
	"testing"

	"jupiter-cli/internal/api"
	"jupiter-cli/internal/flux"
	"jupiter-cli/internal/model"
	"jupiter-cli/internal/mutate"
	"jupiter-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type stubBackend struct {
	updates int
}

func (b *stubBackend) LoadHomeConfig(context.Context) (api.HomeConfigResult, error) {
	return api.HomeConfigResult{}, api.ErrUnauthorized
}

func (b *stubBackend) UpdateTabOrder(context.Context, map[model.HomeTabTarget][]model.EntityID) error {
	b.updates++
	return nil
}

func (b *stubBackend) UpdateWidgetPlacement(context.Context, model.EntityID, model.WidgetPlacement) error {
	return nil
}

func seededModel(t *testing.T) (appModel, *stubBackend) {
	t.Helper()

	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	ctx := context.Background()
	s := store.Store{Dir: t.TempDir()}
	err := s.Replace(ctx, &store.Mirror{
		HomeConfig: model.HomeConfig{
			RefID: "hc1",
			OrderOfTabs: map[model.HomeTabTarget][]model.EntityID{
				model.HomeTabTargetBigScreen:   {"t1", "t2"},
				model.HomeTabTargetSmallScreen: {"s1"},
			},
		},
		Tabs: []model.HomeTab{
			{RefID: "t1", Target: model.HomeTabTargetBigScreen, Name: "Work"},
			{RefID: "t2", Target: model.HomeTabTargetBigScreen, Name: "Life"},
			{RefID: "t9", Target: model.HomeTabTargetBigScreen, Name: "Stray"},
			{RefID: "s1", Target: model.HomeTabTargetSmallScreen, Name: "Phone"},
		},
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	be := &stubBackend{}
	svc := &mutate.Service{Backend: be, Store: s, Flux: flux.New()}
	m := newAppModel(ctx, Options{Store: s, Service: svc, Target: model.HomeTabTargetBigScreen})
	m = step(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	m = step(t, m, m.Init()())
	return m, be
}

// step applies msg and returns the updated model.
func step(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return am
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func listedIDs(m appModel) []string {
	var ids []string
	for _, it := range m.list.Items() {
		ids = append(ids, string(it.(tabItem).tab.RefID))
	}
	return ids
}

func TestAppModel_LoadsTabsInOrder(t *testing.T) {
	m, _ := seededModel(t)

	if got := strings.Join(listedIDs(m), ","); got != "t9,t1,t2" {
		t.Fatalf("unexpected order: %s", got)
	}
	view := m.View()
	if !strings.Contains(view, "Work") || !strings.Contains(view, "!") {
		t.Fatalf("expected tabs and unlisted marker in view:\n%s", view)
	}
}

func TestAppModel_SwitchTarget(t *testing.T) {
	m, _ := seededModel(t)

	m = step(t, m, keyMsg("tab"))
	if m.target != model.HomeTabTargetSmallScreen {
		t.Fatalf("expected small-screen; got %s", m.target)
	}
	if got := strings.Join(listedIDs(m), ","); got != "s1" {
		t.Fatalf("unexpected small-screen tabs: %s", got)
	}
	if m.state.Target != model.HomeTabTargetSmallScreen {
		t.Fatalf("expected state to remember target")
	}
}

func TestAppModel_ShiftDownPersistsAndReselects(t *testing.T) {
	m, be := seededModel(t)

	m.list.Select(1) // t1
	next, cmd := m.Update(keyMsg("J"))
	m = next.(appModel)
	if cmd == nil {
		t.Fatalf("expected a shift command")
	}
	done := cmd()
	if _, ok := done.(shiftDoneMsg); !ok {
		t.Fatalf("expected shiftDoneMsg; got %T", done)
	}
	next, cmd = m.Update(done)
	m = next.(appModel)
	m = step(t, m, cmd())

	if be.updates != 1 {
		t.Fatalf("expected one backend update; got %d", be.updates)
	}
	if got := strings.Join(listedIDs(m), ","); got != "t9,t2,t1" {
		t.Fatalf("unexpected order after shift: %s", got)
	}
	if it, _ := m.selectedTab(); it.tab.RefID != "t1" {
		t.Fatalf("expected moved tab to stay selected; got %s", it.tab.RefID)
	}
}

func TestAppModel_TabInFluxIgnoresShift(t *testing.T) {
	m, _ := seededModel(t)

	m.list.Select(1)
	m.svc.Flux.AddEntityInFlux(model.TagHomeTab, "t1")
	t.Cleanup(func() { m.svc.Flux.RemoveEntityInFlux(model.TagHomeTab, "t1") })

	if _, cmd := m.Update(keyMsg("K")); cmd != nil {
		t.Fatalf("expected shift key to be ignored for a tab in flux")
	}
}

func TestAppModel_ShiftErrorShowsStatus(t *testing.T) {
	m, _ := seededModel(t)

	// t9 is missing from the order list.
	m.list.Select(0)
	_, cmd := m.Update(keyMsg("K"))
	m = step(t, m, cmd())
	if !strings.Contains(m.status, "invariant violation") || m.statusOK {
		t.Fatalf("expected invariant violation status; got %q", m.status)
	}
}

func TestAppModel_SyncFailureKeepsTabs(t *testing.T) {
	m, _ := seededModel(t)

	next, cmd := m.Update(keyMsg("s"))
	m = next.(appModel)
	if !m.syncing || cmd == nil {
		t.Fatalf("expected sync to start")
	}
	m = step(t, m, m.syncCmd()())
	if m.syncing || !strings.Contains(m.status, "sync failed") {
		t.Fatalf("unexpected status after failed sync: syncing=%v status=%q", m.syncing, m.status)
	}
	if len(m.list.Items()) != 3 {
		t.Fatalf("expected tabs to survive a failed sync")
	}
}

func TestAppModel_NotSynced(t *testing.T) {
	s := store.Store{Dir: t.TempDir()}
	svc := &mutate.Service{Backend: &stubBackend{}, Store: s, Flux: flux.New()}
	m := newAppModel(context.Background(), Options{Store: s, Service: svc})
	m = step(t, m, m.Init()())
	if !strings.Contains(m.status, "press s") {
		t.Fatalf("expected not-synced hint; got %q", m.status)
	}
}

func TestAppModel_HelpAndQuit(t *testing.T) {
	m, _ := seededModel(t)

	m = step(t, m, keyMsg("?"))
	if !m.showHelp {
		t.Fatalf("expected help to open")
	}
	m = step(t, m, keyMsg("x"))
	if m.showHelp {
		t.Fatalf("expected any key to close help")
	}
	if _, cmd := m.Update(keyMsg("q")); cmd == nil {
		t.Fatalf("expected quit command")
	}
}
