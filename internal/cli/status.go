package cli

import (
	"time"

	"jupiter-cli/internal/model"
	"jupiter-cli/internal/statusutil"

	"github.com/spf13/cobra"
)

type labelRow struct {
	Value     string `json:"value"`
	Name      string `json:"name"`
	Rank      *int   `json:"rank,omitempty"`
	Color     string `json:"color,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
}

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show local mirror status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			perTarget := map[string]int{}
			for _, target := range model.AllHomeTabTargets() {
				perTarget[string(target)] = len(m.TabsFor(target))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":            s.Dir,
					"home_config":    m.HomeConfig.RefID,
					"tabs":           perTarget,
					"widgets":        len(m.Widgets),
					"last_synced_at": m.LastSyncedAt,
					"age_seconds":    int64(time.Since(m.LastSyncedAt).Seconds()),
				},
			})
		},
	}

	cmd.AddCommand(newStatusLabelsCmd(app))
	return cmd
}

func newStatusLabelsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Show display names, ranks and colours for the entity enums",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var inbox []labelRow
			for _, st := range model.AllInboxTaskStatuses() {
				rank := statusutil.InboxTaskStatusRank(st)
				done := statusutil.InboxTaskStatusIsCompleted(st)
				inbox = append(inbox, labelRow{
					Value:     string(st),
					Name:      statusutil.InboxTaskStatusName(st),
					Rank:      &rank,
					Color:     statusutil.InboxTaskStatusColor(st),
					Completed: &done,
				})
			}
			var plans []labelRow
			for _, st := range model.AllBigPlanStatuses() {
				rank := statusutil.BigPlanStatusRank(st)
				done := statusutil.BigPlanStatusIsCompleted(st)
				plans = append(plans, labelRow{
					Value:     string(st),
					Name:      statusutil.BigPlanStatusName(st),
					Rank:      &rank,
					Completed: &done,
				})
			}
			var difficulties []labelRow
			for _, d := range model.AllDifficulties() {
				difficulties = append(difficulties, labelRow{Value: string(d), Name: statusutil.DifficultyName(d)})
			}
			var eisens []labelRow
			for _, e := range model.AllEisens() {
				eisens = append(eisens, labelRow{Value: string(e), Name: statusutil.EisenName(e), Color: statusutil.EisenColor(e)})
			}
			var tags []labelRow
			for _, tag := range model.AllNamedEntityTags() {
				tags = append(tags, labelRow{Value: string(tag), Name: statusutil.EntityTagName(tag), Icon: statusutil.EntityTagIcon(tag)})
			}
			var widgets []labelRow
			for _, w := range model.AllWidgetTypes() {
				widgets = append(widgets, labelRow{Value: string(w), Name: statusutil.WidgetTypeName(w)})
			}
			var targets []labelRow
			for _, target := range model.AllHomeTabTargets() {
				targets = append(targets, labelRow{Value: string(target), Name: statusutil.HomeTabTargetName(target)})
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"inbox_task_status": inbox,
					"big_plan_status":   plans,
					"difficulty":        difficulties,
					"eisen":             eisens,
					"entity_tag":        tags,
					"widget_type":       widgets,
					"home_tab_target":   targets,
				},
			})
		},
	}
}
