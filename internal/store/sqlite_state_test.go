package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"jupiter-cli/internal/model"
)

func seedMirror() *Mirror {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &Mirror{
		HomeConfig: model.HomeConfig{
			RefID: "hc1",
			OrderOfTabs: map[model.HomeTabTarget][]model.EntityID{
				model.HomeTabTargetBigScreen:   {"t2", "t1"},
				model.HomeTabTargetSmallScreen: {"s1"},
			},
			CreatedTime: now,
		},
		Tabs: []model.HomeTab{
			{RefID: "t1", HomeConfigRefID: "hc1", Target: model.HomeTabTargetBigScreen, Name: "Work",
				WidgetPlacement: model.WidgetPlacement{Columns: [][]model.EntityID{{"w1", "w2"}, {"w3"}}}},
			{RefID: "t2", HomeConfigRefID: "hc1", Target: model.HomeTabTargetBigScreen, Name: "Life"},
			{RefID: "t3", HomeConfigRefID: "hc1", Target: model.HomeTabTargetBigScreen, Name: "Old", Archived: true},
			{RefID: "s1", HomeConfigRefID: "hc1", Target: model.HomeTabTargetSmallScreen, Name: "Phone"},
		},
		Widgets: []model.HomeWidget{
			{RefID: "w1", HomeTabRefID: "t1", Name: "Habits", Type: model.WidgetTypeKeyHabits},
			{RefID: "w2", HomeTabRefID: "t1", Name: "Chores", Type: model.WidgetTypeKeyChores},
			{RefID: "w3", HomeTabRefID: "t1", Name: "Calendar", Type: model.WidgetTypeCalendarDay},
			{RefID: "w4", HomeTabRefID: "t1", Name: "Unplaced", Type: model.WidgetTypeMOTD},
		},
		LastSyncedAt: now,
	}
}

func TestMirror_LoadBeforeSync(t *testing.T) {
	t.Parallel()

	_, err := Store{Dir: t.TempDir()}.Load(context.Background())
	if !errors.Is(err, ErrNotSynced) {
		t.Fatalf("expected ErrNotSynced; got %v", err)
	}
}

func TestMirror_ReplaceLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	want := seedMirror()
	if err := s.Replace(ctx, want); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.HomeConfig.RefID != "hc1" {
		t.Fatalf("unexpected home config: %#v", got.HomeConfig)
	}
	if len(got.Tabs) != 4 || len(got.Widgets) != 4 {
		t.Fatalf("unexpected counts: tabs=%d widgets=%d", len(got.Tabs), len(got.Widgets))
	}
	if !got.LastSyncedAt.Equal(want.LastSyncedAt) {
		t.Fatalf("expected last synced %v; got %v", want.LastSyncedAt, got.LastSyncedAt)
	}

	// Replace drops rows that are no longer present.
	want.Tabs = want.Tabs[:1]
	if err := s.Replace(ctx, want); err != nil {
		t.Fatalf("Replace (second): %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load (second): %v", err)
	}
	if len(got.Tabs) != 1 {
		t.Fatalf("expected 1 tab after replace; got %d", len(got.Tabs))
	}
}

func TestMirror_SaveTabOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if err := s.SaveTabOrder(ctx, model.HomeTabTargetBigScreen, []model.EntityID{"t1"}); !errors.Is(err, ErrNotSynced) {
		t.Fatalf("expected ErrNotSynced before sync; got %v", err)
	}
	if err := s.Replace(ctx, seedMirror()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := s.SaveTabOrder(ctx, model.HomeTabTargetBigScreen, []model.EntityID{"t1", "t2"}); err != nil {
		t.Fatalf("SaveTabOrder: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	big := got.HomeConfig.OrderFor(model.HomeTabTargetBigScreen)
	if len(big) != 2 || big[0] != "t1" || big[1] != "t2" {
		t.Fatalf("unexpected big-screen order: %v", big)
	}
	small := got.HomeConfig.OrderFor(model.HomeTabTargetSmallScreen)
	if len(small) != 1 || small[0] != "s1" {
		t.Fatalf("expected small-screen order untouched; got %v", small)
	}
}

func TestMirror_SaveWidgetPlacement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if err := s.Replace(ctx, seedMirror()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	p := model.WidgetPlacement{Columns: [][]model.EntityID{{"w2", "w1"}, {"w3"}}}
	if err := s.SaveWidgetPlacement(ctx, "t1", p); err != nil {
		t.Fatalf("SaveWidgetPlacement: %v", err)
	}
	if err := s.SaveWidgetPlacement(ctx, "nope", p); err == nil {
		t.Fatalf("expected error for unknown tab")
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tab, ok := got.FindTab("t1")
	if !ok {
		t.Fatalf("expected tab t1")
	}
	if tab.WidgetPlacement.Columns[0][0] != "w2" {
		t.Fatalf("unexpected placement: %v", tab.WidgetPlacement.Columns)
	}
}

func TestMirror_TabsForSkipsArchivedAndOrders(t *testing.T) {
	t.Parallel()

	m := seedMirror()
	got := m.TabsFor(model.HomeTabTargetBigScreen)
	if len(got) != 2 || got[0].RefID != "t2" || got[1].RefID != "t1" {
		t.Fatalf("unexpected tabs: %+v", got)
	}
}

func TestMirror_WidgetsOf(t *testing.T) {
	t.Parallel()

	m := seedMirror()
	tab, _ := m.FindTab("t1")
	ws := m.WidgetsOf(*tab)
	var ids []model.EntityID
	for _, w := range ws {
		ids = append(ids, w.RefID)
	}
	want := []model.EntityID{"w1", "w2", "w3", "w4"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v; got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v; got %v", want, ids)
		}
	}
}
