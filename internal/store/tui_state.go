package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"jupiter-cli/internal/model"
)

const tuiStateFileName = "tui_state.json"

// TUIState restores the last screen on relaunch.
//
// Best effort: callers should tolerate missing/invalid data.
type TUIState struct {
	Version int `json:"version"`

	Target model.HomeTabTarget `json:"target,omitempty"`

	// SelectedTab is keyed by target so switching surfaces keeps each cursor.
	SelectedTab map[model.HomeTabTarget]model.EntityID `json:"selectedTab,omitempty"`
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted: treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := s.tuiStatePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
