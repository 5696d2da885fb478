package tui

import (
	"fmt"
	"io"
	"strings"

	"jupiter-cli/internal/flux"
	"jupiter-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type tabItem struct {
	tab     model.HomeTab
	pos     int
	listed  bool
	widgets int
}

func (it tabItem) FilterValue() string { return it.tab.Name }

func (it tabItem) Title() string {
	name := it.tab.Name
	if it.tab.Icon != "" {
		name = it.tab.Icon + " " + name
	}
	return fmt.Sprintf("%2d. %s", it.pos, name)
}

type tabDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	meta     lipgloss.Style
	warn     lipgloss.Style

	flux    *flux.Store
	spinner *spinner.Model
}

func newTabDelegate(fs *flux.Store, sp *spinner.Model) tabDelegate {
	return tabDelegate{
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
		meta:     styleMuted(),
		warn:     lipgloss.NewStyle().Foreground(colorWarn),
		flux:     fs,
		spinner:  sp,
	}
}

func (d tabDelegate) Height() int  { return 1 }
func (d tabDelegate) Spacing() int { return 0 }
func (d tabDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d tabDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	it, ok := item.(tabItem)
	if !ok || contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	cursor := "  "
	style := d.normal
	if index == m.Index() {
		cursor = glyphCursor() + " "
		style = d.selected
	}

	status := " "
	switch {
	case d.flux.IsEntityInFlux(model.TagHomeTab, it.tab.RefID):
		status = d.spinner.View()
	case !it.listed:
		status = d.warn.Render(glyphUnlisted())
	}

	meta := d.meta.Render(fmt.Sprintf("%d widgets", it.widgets))
	left := cursor + status + " " + it.Title()

	// Right-align the widget count when there is room; otherwise drop it.
	gap := contentW - xansi.StringWidth(left) - xansi.StringWidth(meta)
	line := left
	if gap >= 2 {
		line = left + strings.Repeat(" ", gap) + meta
	}
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Truncate(line, contentW, "…")
	}

	fmt.Fprint(w, style.Render(line))
}
