package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jupiter-cli/internal/docs"
	"jupiter-cli/internal/flux"
	"jupiter-cli/internal/hometab"
	"jupiter-cli/internal/model"
	"jupiter-cli/internal/mutate"
	"jupiter-cli/internal/statusutil"
	"jupiter-cli/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mirrorLoadedMsg struct {
	mirror   *store.Mirror
	selectID model.EntityID
	err      error
}

type syncDoneMsg struct {
	mirror *store.Mirror
	err    error
}

type shiftDoneMsg struct {
	tabID model.EntityID
	res   mutate.TabShiftResult
	err   error
}

// fluxMsg carries a published entities-in-flux state.
type fluxMsg struct {
	state *flux.State
}

type appModel struct {
	ctx   context.Context
	store store.Store
	svc   *mutate.Service

	width  int
	height int

	mirror  *store.Mirror
	target  model.HomeTabTarget
	state   *store.TUIState
	list    list.Model
	spinner *spinner.Model
	flux    *flux.State

	syncing  bool
	showHelp bool
	status   string
	statusOK bool
}

func newAppModel(ctx context.Context, opts Options) appModel {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	target := opts.Target
	st := opts.State
	if st == nil {
		st = &store.TUIState{Version: 1}
	}
	if st.Target != "" {
		target = st.Target
	}
	if target == "" {
		target = model.HomeTabTargetBigScreen
	}

	l := list.New(nil, newTabDelegate(opts.Service.Flux, &sp), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return appModel{
		ctx:     ctx,
		store:   opts.Store,
		svc:     opts.Service,
		target:  target,
		state:   st,
		list:    l,
		spinner: &sp,
	}
}

func (m appModel) Init() tea.Cmd {
	return m.loadMirrorCmd(m.state.SelectedTab[m.target])
}

func (m appModel) loadMirrorCmd(selectID model.EntityID) tea.Cmd {
	return func() tea.Msg {
		mirror, err := m.store.Load(m.ctx)
		return mirrorLoadedMsg{mirror: mirror, selectID: selectID, err: err}
	}
}

func (m appModel) syncCmd() tea.Cmd {
	return func() tea.Msg {
		mirror, err := m.svc.Sync(m.ctx)
		return syncDoneMsg{mirror: mirror, err: err}
	}
}

func (m appModel) shiftCmd(id model.EntityID, d hometab.Direction) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ShiftTab(m.ctx, id, d)
		return shiftDoneMsg{tabID: id, res: res, err: err}
	}
}

func (m *appModel) setStatus(msg string, ok bool) {
	m.status = msg
	m.statusOK = ok
}

func (m appModel) selectedTab() (tabItem, bool) {
	it, ok := m.list.SelectedItem().(tabItem)
	return it, ok
}

// refreshList rebuilds the list for the current target and keeps selectID selected
// when it is still present.
func (m *appModel) refreshList(selectID model.EntityID) tea.Cmd {
	if m.mirror == nil {
		return m.list.SetItems(nil)
	}
	order := m.mirror.HomeConfig.OrderFor(m.target)
	listed := make(map[model.EntityID]bool, len(order))
	for _, id := range order {
		listed[id] = true
	}
	tabs := m.mirror.TabsFor(m.target)
	items := make([]list.Item, 0, len(tabs))
	sel := 0
	for i, t := range tabs {
		if t.RefID == selectID {
			sel = i
		}
		items = append(items, tabItem{
			tab:     t,
			pos:     i + 1,
			listed:  listed[t.RefID],
			widgets: len(m.mirror.WidgetsOf(t)),
		})
	}
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(sel)
	}
	return cmd
}

func (m *appModel) rememberSelection() {
	it, ok := m.selectedTab()
	if !ok {
		return
	}
	if m.state.SelectedTab == nil {
		m.state.SelectedTab = map[model.HomeTabTarget]model.EntityID{}
	}
	m.state.SelectedTab[m.target] = it.tab.RefID
	m.state.Target = m.target
}

func (m appModel) otherTarget() model.HomeTabTarget {
	switch m.target {
	case model.HomeTabTargetBigScreen:
		return model.HomeTabTargetSmallScreen
	case model.HomeTabTargetSmallScreen:
		return model.HomeTabTargetBigScreen
	}
	return model.HomeTabTargetBigScreen
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(1, msg.Height-4))
		return m, nil

	case mirrorLoadedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, store.ErrNotSynced) {
				m.setStatus("not synced yet; press s to sync", false)
				return m, nil
			}
			m.setStatus(msg.err.Error(), false)
			return m, nil
		}
		m.mirror = msg.mirror
		return m, m.refreshList(msg.selectID)

	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.setStatus("sync failed: "+msg.err.Error(), false)
			return m, nil
		}
		m.mirror = msg.mirror
		m.setStatus(fmt.Sprintf("synced %d tabs", len(msg.mirror.Tabs)), true)
		sel := model.EntityID("")
		if it, ok := m.selectedTab(); ok {
			sel = it.tab.RefID
		}
		return m, m.refreshList(sel)

	case shiftDoneMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), false)
			return m, nil
		}
		if !msg.res.Changed {
			m.setStatus("already at the edge", true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("moved %s", msg.res.Tab.Name), true)
		// The mirror on disk has the new order; reload it.
		return m, m.loadMirrorCmd(msg.tabID)

	case fluxMsg:
		m.flux = msg.state
		if msg.state.Len() > 0 {
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		*m.spinner, cmd = m.spinner.Update(msg)
		if m.flux.Len() > 0 || m.syncing {
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		// While the filter input is focused, keys belong to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}
		if m.showHelp {
			if key.Matches(msg, keys.Quit) && msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.showHelp = false
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Quit):
			m.rememberSelection()
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, keys.SwitchTarget):
			m.rememberSelection()
			m.target = m.otherTarget()
			m.state.Target = m.target
			m.list.ResetFilter()
			return m, m.refreshList(m.state.SelectedTab[m.target])
		case key.Matches(msg, keys.Sync):
			if m.syncing {
				return m, nil
			}
			m.syncing = true
			m.setStatus("syncing…", true)
			return m, tea.Batch(m.syncCmd(), m.spinner.Tick)
		case key.Matches(msg, keys.ShiftUp), key.Matches(msg, keys.ShiftDown):
			it, ok := m.selectedTab()
			if !ok {
				return m, nil
			}
			// A tab with a save in flight ignores further moves.
			if m.svc.Flux.IsEntityInFlux(model.TagHomeTab, it.tab.RefID) {
				return m, nil
			}
			if m.list.IsFiltered() {
				m.setStatus("clear the filter before moving tabs", false)
				return m, nil
			}
			d := hometab.DirectionUp
			if key.Matches(msg, keys.ShiftDown) {
				d = hometab.DirectionDown
			}
			return m, m.shiftCmd(it.tab.RefID, d)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m appModel) View() string {
	if m.showHelp {
		md, _ := docs.Get("tui")
		return docs.Render(md, max(20, m.width-2)) + "\n\n" + styleMuted().Render("press any key to close")
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(strings.Repeat(glyphHRule(), max(0, m.width))))
	b.WriteString("\n")
	if m.mirror == nil {
		b.WriteString(styleMuted().Render("no home config loaded"))
	} else if len(m.list.Items()) == 0 {
		b.WriteString(styleMuted().Render("no tabs for " + statusutil.HomeTabTargetName(m.target)))
	} else {
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m appModel) viewHeader() string {
	var parts []string
	for _, t := range model.AllHomeTabTargets() {
		label := statusutil.HomeTabTargetName(t)
		if t == m.target {
			parts = append(parts, styleTargetActive().Render(label))
		} else {
			parts = append(parts, styleTargetInactive().Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if m.syncing {
		header += " " + m.spinner.View()
	}
	return header
}

func (m appModel) viewFooter() string {
	if m.status != "" {
		return styleStatus(!m.statusOK).Render(m.status)
	}
	var hints []string
	for _, k := range keys.short() {
		h := k.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	return styleMuted().Render(strings.Join(hints, " • "))
}
