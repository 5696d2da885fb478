package store

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"jupiter-cli/internal/hometab"
	"jupiter-cli/internal/model"
)

const sqliteFileName = "mirror.sqlite"

// Mirror is the locally cached copy of the server-owned home configuration.
type Mirror struct {
	HomeConfig   model.HomeConfig   `json:"home_config"`
	Tabs         []model.HomeTab    `json:"tabs"`
	Widgets      []model.HomeWidget `json:"widgets"`
	LastSyncedAt time.Time          `json:"last_synced_at"`
}

// Store is rooted at a directory holding the mirror database, config and UI state.
type Store struct {
	Dir string
}

// DefaultDir returns ~/.jupiter, or $JUPITER_CONFIG_DIR when set.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("JUPITER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".jupiter"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (m *Mirror) FindTab(id model.EntityID) (*model.HomeTab, bool) {
	for i := range m.Tabs {
		if m.Tabs[i].RefID == id {
			return &m.Tabs[i], true
		}
	}
	return nil, false
}

func (m *Mirror) FindWidget(id model.EntityID) (*model.HomeWidget, bool) {
	for i := range m.Widgets {
		if m.Widgets[i].RefID == id {
			return &m.Widgets[i], true
		}
	}
	return nil, false
}

// TabsFor returns the non-archived tabs for target in display order.
func (m *Mirror) TabsFor(target model.HomeTabTarget) []model.HomeTab {
	live := make([]model.HomeTab, 0, len(m.Tabs))
	for _, t := range m.Tabs {
		if !t.Archived {
			live = append(live, t)
		}
	}
	return hometab.SortAndFilterTabsByTarget(m.HomeConfig, target, live)
}

// WidgetsOf returns tab's widgets in placement order, column by column.
// Widgets not referenced by the placement are appended at the end.
func (m *Mirror) WidgetsOf(tab model.HomeTab) []model.HomeWidget {
	byID := map[model.EntityID]model.HomeWidget{}
	for _, w := range m.Widgets {
		if w.HomeTabRefID == tab.RefID && !w.Archived {
			byID[w.RefID] = w
		}
	}
	out := make([]model.HomeWidget, 0, len(byID))
	placed := map[model.EntityID]bool{}
	for _, col := range tab.WidgetPlacement.Columns {
		for _, id := range col {
			if w, ok := byID[id]; ok && !placed[id] {
				out = append(out, w)
				placed[id] = true
			}
		}
	}
	for _, w := range m.Widgets {
		if _, ok := byID[w.RefID]; ok && !placed[w.RefID] {
			out = append(out, w)
			placed[w.RefID] = true
		}
	}
	return out
}
