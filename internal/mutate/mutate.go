// Package mutate runs the home-screen use cases: it checks the local mirror,
// computes the change, persists it to the backend and then to the mirror, and
// keeps the entities-in-flux store accurate on every exit path.
package mutate

import (
	"context"
	"fmt"
	"time"

	"jupiter-cli/internal/api"
	"jupiter-cli/internal/flux"
	"jupiter-cli/internal/hometab"
	"jupiter-cli/internal/model"
	"jupiter-cli/internal/store"

	"pkt.systems/pslog"
)

// Backend is the subset of the API client the use cases need.
type Backend interface {
	LoadHomeConfig(ctx context.Context) (api.HomeConfigResult, error)
	UpdateTabOrder(ctx context.Context, order map[model.HomeTabTarget][]model.EntityID) error
	UpdateWidgetPlacement(ctx context.Context, tabRefID model.EntityID, p model.WidgetPlacement) error
}

type Service struct {
	Backend Backend
	Store   store.Store
	Flux    *flux.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

type TabShiftResult struct {
	Tab     model.HomeTab       `json:"tab"`
	Target  model.HomeTabTarget `json:"target"`
	Order   []model.EntityID    `json:"order"`
	Changed bool                `json:"changed"`
}

type WidgetShiftResult struct {
	Widget    model.HomeWidget      `json:"widget"`
	TabRefID  model.EntityID        `json:"tab_ref_id"`
	Placement model.WidgetPlacement `json:"placement"`
	Changed   bool                  `json:"changed"`
}

type RepairResult struct {
	Target  model.HomeTabTarget `json:"target"`
	Order   []model.EntityID    `json:"order"`
	Changed bool                `json:"changed"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Sync replaces the local mirror with the backend's current home configuration.
func (s *Service) Sync(ctx context.Context) (*store.Mirror, error) {
	log := pslog.Ctx(ctx)
	res, err := s.Backend.LoadHomeConfig(ctx)
	if err != nil {
		return nil, err
	}
	for _, target := range model.AllHomeTabTargets() {
		if err := hometab.ValidateOrder(res.HomeConfig.OrderFor(target)); err != nil {
			log.Warn("backend order list is inconsistent", "target", target, "err", err)
		}
	}
	m := &store.Mirror{
		HomeConfig:   res.HomeConfig,
		Tabs:         res.Tabs,
		Widgets:      res.Widgets,
		LastSyncedAt: s.now().UTC(),
	}
	if err := s.Store.Replace(ctx, m); err != nil {
		return nil, fmt.Errorf("save mirror: %w", err)
	}
	log.Info("home config synced", "tabs", len(m.Tabs), "widgets", len(m.Widgets))
	return m, nil
}

// ShiftTab moves a tab one step up or down within its target's order list.
//
// Only one shift per tab runs at a time; a concurrent request gets InFluxError
// instead of computing from a stale order.
func (s *Service) ShiftTab(ctx context.Context, tabRefID model.EntityID, d hometab.Direction) (TabShiftResult, error) {
	log := pslog.Ctx(ctx).With("tab", tabRefID, "direction", d)

	if !s.Flux.TryAddEntityInFlux(model.TagHomeTab, tabRefID) {
		return TabShiftResult{}, InFluxError{Tag: model.TagHomeTab, ID: tabRefID}
	}
	defer s.Flux.RemoveEntityInFlux(model.TagHomeTab, tabRefID)

	m, err := s.Store.Load(ctx)
	if err != nil {
		return TabShiftResult{}, err
	}
	tab, ok := m.FindTab(tabRefID)
	if !ok {
		return TabShiftResult{}, NotFoundError{Kind: "home tab", ID: tabRefID}
	}

	cur := m.HomeConfig.OrderFor(tab.Target)
	next, err := hometab.ShiftTab(*tab, cur, d)
	if err != nil {
		log.Error("cannot shift tab", "err", err)
		return TabShiftResult{}, err
	}
	res := TabShiftResult{Tab: *tab, Target: tab.Target, Order: next}
	if hometab.SameOrder(cur, next) {
		log.Debug("tab already at boundary")
		return res, nil
	}

	full := make(map[model.HomeTabTarget][]model.EntityID, len(m.HomeConfig.OrderOfTabs)+1)
	for k, v := range m.HomeConfig.OrderOfTabs {
		full[k] = v
	}
	full[tab.Target] = next
	if err := s.Backend.UpdateTabOrder(ctx, full); err != nil {
		return TabShiftResult{}, err
	}
	if err := s.Store.SaveTabOrder(ctx, tab.Target, next); err != nil {
		return TabShiftResult{}, fmt.Errorf("save mirror: %w", err)
	}
	res.Changed = true
	log.Info("tab shifted", "order", next)
	return res, nil
}

// ShiftWidget moves a widget within its tab's placement.
func (s *Service) ShiftWidget(ctx context.Context, widgetRefID model.EntityID, d hometab.Direction) (WidgetShiftResult, error) {
	log := pslog.Ctx(ctx).With("widget", widgetRefID, "direction", d)

	if !s.Flux.TryAddEntityInFlux(model.TagHomeWidget, widgetRefID) {
		return WidgetShiftResult{}, InFluxError{Tag: model.TagHomeWidget, ID: widgetRefID}
	}
	defer s.Flux.RemoveEntityInFlux(model.TagHomeWidget, widgetRefID)

	m, err := s.Store.Load(ctx)
	if err != nil {
		return WidgetShiftResult{}, err
	}
	w, ok := m.FindWidget(widgetRefID)
	if !ok {
		return WidgetShiftResult{}, NotFoundError{Kind: "home widget", ID: widgetRefID}
	}
	tab, ok := m.FindTab(w.HomeTabRefID)
	if !ok {
		return WidgetShiftResult{}, NotFoundError{Kind: "home tab", ID: w.HomeTabRefID}
	}

	// The tab is the record being rewritten; hold it too so a concurrent move of a
	// sibling widget cannot overwrite this placement.
	if !s.Flux.TryAddEntityInFlux(model.TagHomeTab, tab.RefID) {
		return WidgetShiftResult{}, InFluxError{Tag: model.TagHomeTab, ID: tab.RefID}
	}
	defer s.Flux.RemoveEntityInFlux(model.TagHomeTab, tab.RefID)

	next, err := hometab.ShiftWidget(tab.WidgetPlacement, widgetRefID, d)
	if err != nil {
		log.Error("cannot shift widget", "err", err)
		return WidgetShiftResult{}, err
	}
	res := WidgetShiftResult{Widget: *w, TabRefID: tab.RefID, Placement: next}
	if hometab.SamePlacement(tab.WidgetPlacement, next) {
		return res, nil
	}
	if err := s.Backend.UpdateWidgetPlacement(ctx, tab.RefID, next); err != nil {
		return WidgetShiftResult{}, err
	}
	if err := s.Store.SaveWidgetPlacement(ctx, tab.RefID, next); err != nil {
		return WidgetShiftResult{}, fmt.Errorf("save mirror: %w", err)
	}
	res.Changed = true
	log.Info("widget shifted", "tab", tab.RefID)
	return res, nil
}

// RepairTabOrder rewrites target's order list so it lists every live tab exactly once.
func (s *Service) RepairTabOrder(ctx context.Context, target model.HomeTabTarget) (RepairResult, error) {
	if !s.Flux.TryAddEntityInFlux(model.TagHomeTab, repairKey(target)) {
		return RepairResult{}, InFluxError{Tag: model.TagHomeTab, ID: repairKey(target)}
	}
	defer s.Flux.RemoveEntityInFlux(model.TagHomeTab, repairKey(target))

	m, err := s.Store.Load(ctx)
	if err != nil {
		return RepairResult{}, err
	}
	var tabs []model.HomeTab
	for _, t := range m.Tabs {
		if t.Target == target && !t.Archived {
			tabs = append(tabs, t)
		}
	}
	next, changed := hometab.ReconcileOrder(tabs, m.HomeConfig.OrderFor(target))
	res := RepairResult{Target: target, Order: next, Changed: changed}
	if !changed {
		return res, nil
	}

	full := make(map[model.HomeTabTarget][]model.EntityID, len(m.HomeConfig.OrderOfTabs)+1)
	for k, v := range m.HomeConfig.OrderOfTabs {
		full[k] = v
	}
	full[target] = next
	if err := s.Backend.UpdateTabOrder(ctx, full); err != nil {
		return RepairResult{}, err
	}
	if err := s.Store.SaveTabOrder(ctx, target, next); err != nil {
		return RepairResult{}, fmt.Errorf("save mirror: %w", err)
	}
	pslog.Ctx(ctx).Info("tab order repaired", "target", target, "order", next)
	return res, nil
}

// repairKey is the flux entry held while a whole target's order is rewritten.
func repairKey(target model.HomeTabTarget) model.EntityID {
	return model.EntityID("order:" + string(target))
}
