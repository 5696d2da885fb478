package cli

import (
	"fmt"

	"jupiter-cli/internal/hometab"
	"jupiter-cli/internal/model"
	"jupiter-cli/internal/statusutil"
	"jupiter-cli/internal/store"

	"github.com/spf13/cobra"
)

type tabRow struct {
	RefID    model.EntityID      `json:"ref_id"`
	Name     string              `json:"name"`
	Icon     string              `json:"icon,omitempty"`
	Target   model.HomeTabTarget `json:"target"`
	Position int                 `json:"position"`
	Listed   bool                `json:"listed"`
	Widgets  int                 `json:"widgets"`
}

func newTabsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "List and reorder home tabs",
	}

	cmd.AddCommand(newTabsListCmd(app))
	cmd.AddCommand(newTabsShowCmd(app))
	cmd.AddCommand(newTabsShiftCmd(app, hometab.DirectionUp))
	cmd.AddCommand(newTabsShiftCmd(app, hometab.DirectionDown))
	cmd.AddCommand(newTabsRepairCmd(app))
	return cmd
}

func tabRows(m *store.Mirror, target model.HomeTabTarget) []tabRow {
	order := m.HomeConfig.OrderFor(target)
	tabs := m.TabsFor(target)
	rows := make([]tabRow, 0, len(tabs))
	for i, t := range tabs {
		listed := false
		for _, id := range order {
			if id == t.RefID {
				listed = true
				break
			}
		}
		rows = append(rows, tabRow{
			RefID:    t.RefID,
			Name:     t.Name,
			Icon:     t.Icon,
			Target:   t.Target,
			Position: i + 1,
			Listed:   listed,
			Widgets:  len(m.WidgetsOf(t)),
		})
	}
	return rows
}

func newTabsListCmd(app *App) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tabs for a target in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, s, err := loadMirror(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tgt, err := resolveTarget(s, target)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := tabRows(m, tgt)

			hints := []string{}
			for _, r := range rows {
				if !r.Listed {
					hints = append(hints, fmt.Sprintf("jupiter tabs repair --target %s", tgt))
					break
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"target":       tgt,
					"target_label": statusutil.HomeTabTargetName(tgt),
					"tabs":         rows,
				},
				"_hints": hints,
			})
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "big-screen|small-screen (default: defaultTarget in config)")
	return cmd
}

func newTabsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tab-ref-id>",
		Short: "Show a tab and its widgets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadMirror(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tab, ok := m.FindTab(model.EntityID(args[0]))
			if !ok {
				return writeErr(cmd, errNotFound("home tab", args[0]))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"tab":     tab,
					"widgets": m.WidgetsOf(*tab),
				},
			})
		},
	}
}

func newTabsShiftCmd(app *App, d hometab.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   string(d) + " <tab-ref-id>",
		Short: fmt.Sprintf("Move a tab one position %s in its target's order", d),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := s.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			svc, err := newService(cmd, app, s, cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := svc.ShiftTab(cmd.Context(), model.EntityID(args[0]), d)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
}

func newTabsRepairCmd(app *App) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Rewrite a target's order list so it names every live tab exactly once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tgt, err := resolveTarget(s, target)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := s.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			svc, err := newService(cmd, app, s, cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := svc.RepairTabOrder(cmd.Context(), tgt)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "big-screen|small-screen (default: defaultTarget in config)")
	return cmd
}
