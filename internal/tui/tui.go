// Package tui is the interactive home screen editor.
package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"jupiter-cli/internal/model"
	"jupiter-cli/internal/mutate"
	"jupiter-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"
)

const logFileName = "tui.log"

type Options struct {
	Store   store.Store
	Service *mutate.Service
	// Target is used when no previous session state exists.
	Target model.HomeTabTarget
	Glyphs string
	// State overrides the state loaded from tui_state.json.
	State *store.TUIState
}

func Run(ctx context.Context, opts Options) error {
	if opts.Service == nil || opts.Service.Flux == nil {
		return errors.New("tui: missing service")
	}
	applyColorProfilePreference()
	applyThemePreference()
	if gs, ok := parseGlyphSet(opts.Glyphs); ok {
		setGlyphs(gs)
	}

	// The alt screen owns stderr, so logs go to a file next to the mirror.
	if f, err := os.OpenFile(filepath.Join(opts.Store.Dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err == nil {
		defer f.Close()
		ctx = pslog.ContextWithLogger(ctx, pslog.NewWithOptions(f, pslog.Options{
			Mode:    pslog.ModeStructured,
			NoColor: true,
		}))
	}

	if opts.State == nil {
		st, err := opts.Store.LoadTUIState()
		if err != nil {
			return err
		}
		opts.State = st
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newAppModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	updates := opts.Service.Flux.Subscribe(ctx)
	go func() {
		for st := range updates {
			p.Send(fluxMsg{state: st})
		}
	}()

	final, err := p.Run()
	if fm, ok := final.(appModel); ok {
		if serr := opts.Store.SaveTUIState(fm.state); serr != nil {
			pslog.Ctx(ctx).Warn("save tui state", "err", serr)
		}
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
