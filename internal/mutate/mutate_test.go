package mutate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jupiter-cli/internal/api"
	"jupiter-cli/internal/flux"
	"jupiter-cli/internal/hometab"
	"jupiter-cli/internal/model"
	"jupiter-cli/internal/store"
)

type fakeBackend struct {
	mu sync.Mutex

	result api.HomeConfigResult
	err    error

	tabOrders  []map[model.HomeTabTarget][]model.EntityID
	placements map[model.EntityID]model.WidgetPlacement

	// onUpdate runs inside UpdateTabOrder before it returns.
	onUpdate func()
}

func (f *fakeBackend) LoadHomeConfig(context.Context) (api.HomeConfigResult, error) {
	return f.result, f.err
}

func (f *fakeBackend) UpdateTabOrder(_ context.Context, order map[model.HomeTabTarget][]model.EntityID) error {
	if f.onUpdate != nil {
		f.onUpdate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tabOrders = append(f.tabOrders, order)
	return nil
}

func (f *fakeBackend) UpdateWidgetPlacement(_ context.Context, tabRefID model.EntityID, p model.WidgetPlacement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.placements == nil {
		f.placements = map[model.EntityID]model.WidgetPlacement{}
	}
	f.placements[tabRefID] = p
	return nil
}

func seedResult() api.HomeConfigResult {
	return api.HomeConfigResult{
		HomeConfig: model.HomeConfig{
			RefID: "hc1",
			OrderOfTabs: map[model.HomeTabTarget][]model.EntityID{
				model.HomeTabTargetBigScreen:   {"t1", "t2", "t3"},
				model.HomeTabTargetSmallScreen: {"s1"},
			},
		},
		Tabs: []model.HomeTab{
			{RefID: "t1", HomeConfigRefID: "hc1", Target: model.HomeTabTargetBigScreen, Name: "One",
				WidgetPlacement: model.WidgetPlacement{Columns: [][]model.EntityID{{"w1", "w2"}, {}}}},
			{RefID: "t2", HomeConfigRefID: "hc1", Target: model.HomeTabTargetBigScreen, Name: "Two"},
			{RefID: "t3", HomeConfigRefID: "hc1", Target: model.HomeTabTargetBigScreen, Name: "Three"},
			{RefID: "t4", HomeConfigRefID: "hc1", Target: model.HomeTabTargetBigScreen, Name: "Lost"},
			{RefID: "s1", HomeConfigRefID: "hc1", Target: model.HomeTabTargetSmallScreen, Name: "Phone"},
		},
		Widgets: []model.HomeWidget{
			{RefID: "w1", HomeTabRefID: "t1", Name: "Habits", Type: model.WidgetTypeKeyHabits},
			{RefID: "w2", HomeTabRefID: "t1", Name: "Chores", Type: model.WidgetTypeKeyChores},
		},
	}
}

func newService(t *testing.T) (*Service, *fakeBackend) {
	t.Helper()
	be := &fakeBackend{result: seedResult()}
	svc := &Service{
		Backend: be,
		Store:   store.Store{Dir: t.TempDir()},
		Flux:    flux.New(),
		Now:     func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
	if _, err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	return svc, be
}

func assertIDs(t *testing.T, got []model.EntityID, want ...model.EntityID) {
	t.Helper()
	if !hometab.SameOrder(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
}

func TestSync_WritesMirror(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	m, err := svc.Store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Tabs) != 5 || len(m.Widgets) != 2 {
		t.Fatalf("unexpected mirror: tabs=%d widgets=%d", len(m.Tabs), len(m.Widgets))
	}
	if !m.LastSyncedAt.Equal(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected sync time: %v", m.LastSyncedAt)
	}
}

func TestSync_BackendErrorKeepsMirror(t *testing.T) {
	t.Parallel()

	svc, be := newService(t)
	be.err = api.ErrUnauthorized
	if _, err := svc.Sync(context.Background()); !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized; got %v", err)
	}
	if _, err := svc.Store.Load(context.Background()); err != nil {
		t.Fatalf("expected previous mirror to survive: %v", err)
	}
}

func TestShiftTab_PersistsRemoteThenLocal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, be := newService(t)

	res, err := svc.ShiftTab(ctx, "t2", hometab.DirectionUp)
	if err != nil {
		t.Fatalf("ShiftTab: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected changed=true")
	}
	assertIDs(t, res.Order, "t2", "t1", "t3")

	if len(be.tabOrders) != 1 {
		t.Fatalf("expected one backend update; got %d", len(be.tabOrders))
	}
	sent := be.tabOrders[0]
	assertIDs(t, sent[model.HomeTabTargetBigScreen], "t2", "t1", "t3")
	assertIDs(t, sent[model.HomeTabTargetSmallScreen], "s1")

	m, err := svc.Store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertIDs(t, m.HomeConfig.OrderFor(model.HomeTabTargetBigScreen), "t2", "t1", "t3")
	if svc.Flux.Snapshot().Len() != 0 {
		t.Fatalf("expected flux to be empty after shift")
	}
}

func TestShiftTab_BoundaryIsNoOpWithoutNetwork(t *testing.T) {
	t.Parallel()

	svc, be := newService(t)
	res, err := svc.ShiftTab(context.Background(), "t3", hometab.DirectionDown)
	if err != nil {
		t.Fatalf("ShiftTab: %v", err)
	}
	if res.Changed {
		t.Fatalf("expected changed=false at boundary")
	}
	if len(be.tabOrders) != 0 {
		t.Fatalf("expected no backend call; got %d", len(be.tabOrders))
	}
}

func TestShiftTab_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, be := newService(t)

	var nf NotFoundError
	if _, err := svc.ShiftTab(ctx, "nope", hometab.DirectionUp); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError; got %v", err)
	}

	// t4 exists but is missing from the order list.
	if _, err := svc.ShiftTab(ctx, "t4", hometab.DirectionUp); !errors.Is(err, hometab.ErrInvariantViolation) {
		t.Fatalf("expected invariant violation; got %v", err)
	}

	if _, err := svc.ShiftTab(ctx, "t1", hometab.DirectionLeft); err == nil {
		t.Fatalf("expected error for left on a tab")
	}

	be.err = api.ErrConflict
	if _, err := svc.ShiftTab(ctx, "t2", hometab.DirectionUp); !errors.Is(err, api.ErrConflict) {
		t.Fatalf("expected ErrConflict; got %v", err)
	}
	m, err := svc.Store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertIDs(t, m.HomeConfig.OrderFor(model.HomeTabTargetBigScreen), "t1", "t2", "t3")
	if svc.Flux.IsEntityInFlux(model.TagHomeTab, "t2") {
		t.Fatalf("expected t2 to leave flux after failure")
	}
}

func TestShiftTab_ConcurrentShiftIsRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, be := newService(t)

	var innerErr error
	be.onUpdate = func() {
		if !svc.Flux.IsEntityInFlux(model.TagHomeTab, "t2") {
			innerErr = errors.New("expected t2 in flux during update")
			return
		}
		_, innerErr = svc.ShiftTab(ctx, "t2", hometab.DirectionUp)
	}
	if _, err := svc.ShiftTab(ctx, "t2", hometab.DirectionUp); err != nil {
		t.Fatalf("ShiftTab: %v", err)
	}
	var inFlux InFluxError
	if !errors.As(innerErr, &inFlux) {
		t.Fatalf("expected InFluxError for overlapping shift; got %v", innerErr)
	}
	if !errors.Is(innerErr, ErrInFlux) {
		t.Fatalf("expected errors.Is(err, ErrInFlux)")
	}
}

func TestShiftWidget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, be := newService(t)

	res, err := svc.ShiftWidget(ctx, "w2", hometab.DirectionRight)
	if err != nil {
		t.Fatalf("ShiftWidget: %v", err)
	}
	if !res.Changed || res.TabRefID != "t1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	got := be.placements["t1"]
	if len(got.Columns) != 2 || len(got.Columns[1]) != 1 || got.Columns[1][0] != "w2" {
		t.Fatalf("unexpected placement sent: %v", got.Columns)
	}

	m, err := svc.Store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tab, _ := m.FindTab("t1")
	if !hometab.SamePlacement(tab.WidgetPlacement, got) {
		t.Fatalf("mirror placement %v differs from sent %v", tab.WidgetPlacement.Columns, got.Columns)
	}

	// Already at the top of its column.
	res, err = svc.ShiftWidget(ctx, "w1", hometab.DirectionUp)
	if err != nil || res.Changed {
		t.Fatalf("expected no-op; got %+v, %v", res, err)
	}

	var nf NotFoundError
	if _, err := svc.ShiftWidget(ctx, "w9", hometab.DirectionUp); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError; got %v", err)
	}
}

func TestRepairTabOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, be := newService(t)

	res, err := svc.RepairTabOrder(ctx, model.HomeTabTargetBigScreen)
	if err != nil {
		t.Fatalf("RepairTabOrder: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected repair to change the order")
	}
	assertIDs(t, res.Order, "t1", "t2", "t3", "t4")
	if len(be.tabOrders) != 1 {
		t.Fatalf("expected one backend update; got %d", len(be.tabOrders))
	}

	res, err = svc.RepairTabOrder(ctx, model.HomeTabTargetBigScreen)
	if err != nil || res.Changed {
		t.Fatalf("expected second repair to be a no-op; got %+v, %v", res, err)
	}
	if len(be.tabOrders) != 1 {
		t.Fatalf("expected no further backend update")
	}
}
