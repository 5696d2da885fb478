package cli

import (
	"errors"
	"strings"

	"jupiter-cli/internal/hometab"
	"jupiter-cli/internal/model"
	"jupiter-cli/internal/statusutil"

	"github.com/spf13/cobra"
)

type widgetRow struct {
	RefID    model.EntityID   `json:"ref_id"`
	Name     string           `json:"name"`
	Type     model.WidgetType `json:"the_type"`
	TypeName string           `json:"type_name"`
	Column   int              `json:"column"`
	Row      int              `json:"row"`
}

func newWidgetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widgets",
		Short: "List and move the widgets of a tab",
	}

	cmd.AddCommand(newWidgetsListCmd(app))
	cmd.AddCommand(newWidgetsMoveCmd(app))
	return cmd
}

func newWidgetsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <tab-ref-id>",
		Short: "List a tab's widgets column by column",
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
			ws := m.WidgetsOf(*tab)
			rows := make([]widgetRow, 0, len(ws))
			for _, w := range ws {
				// Unplaced widgets report column and row 0.
				col, row, _ := hometab.LocateWidget(tab.WidgetPlacement, w.RefID)
				rows = append(rows, widgetRow{
					RefID:    w.RefID,
					Name:     w.Name,
					Type:     w.Type,
					TypeName: statusutil.WidgetTypeName(w.Type),
					Column:   col + 1,
					Row:      row + 1,
				})
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"tab":     tab.RefID,
					"columns": len(tab.WidgetPlacement.Columns),
					"widgets": rows,
				},
			})
		},
	}
}

func newWidgetsMoveCmd(app *App) *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "move <widget-ref-id>",
		Short: "Move a widget up, down, left or right within its tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(direction) == "" {
				return writeErr(cmd, errors.New("missing --direction"))
			}
			d, err := hometab.ParseDirection(direction)
			if err != nil {
				return writeErr(cmd, err)
			}
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
			res, err := svc.ShiftWidget(cmd.Context(), model.EntityID(args[0]), d)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "", "up|down|left|right")
	return cmd
}
