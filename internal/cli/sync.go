package cli

import (
	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

func newSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Download the home config, tabs and widgets into the local mirror",
		Args:  cobra.NoArgs,
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
			m, err := svc.Sync(cmd.Context())
			if err != nil {
				pslog.Ctx(cmd.Context()).Debug("sync failed", "err", err)
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":            s.Dir,
					"home_config":    m.HomeConfig.RefID,
					"tabs":           len(m.Tabs),
					"widgets":        len(m.Widgets),
					"last_synced_at": m.LastSyncedAt,
				},
			})
		},
	}
}
