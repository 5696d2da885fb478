package cli

import (
	"fmt"
	"os"
	"strings"

	"jupiter-cli/internal/api"
	"jupiter-cli/internal/flux"
	"jupiter-cli/internal/format"
	"jupiter-cli/internal/model"
	"jupiter-cli/internal/mutate"
	"jupiter-cli/internal/store"
	"jupiter-cli/internal/tui"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

type App struct {
	Dir        string
	APIURL     string
	Token      string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "jupiter",
		Short:        "Jupiter home screen editor (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  jupiter

  # Point at a backend and pull the home config
  jupiter config set api-url https://jupiter.example.com/api
  jupiter sync

  # Reorder tabs from scripts
  jupiter tabs list --target small-screen
  jupiter tabs up <tab-ref-id>
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := format.ParseFormat(app.Format); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("JUPITER_DIR", ""), "Path to data dir (default: ~/.jupiter)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("JUPITER_API_URL", ""), "Backend base URL (overrides apiUrl in config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("JUPITER_TOKEN", ""), "Bearer token (overrides token in config.yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("JUPITER_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newTabsCmd(app))
	cmd.AddCommand(newWidgetsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
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
	glyphs := ""
	if cfg.TUI != nil {
		glyphs = cfg.TUI.Glyphs
	}
	return tui.Run(cmd.Context(), tui.Options{
		Store:   s,
		Service: svc,
		Target:  cfg.Target(),
		Glyphs:  glyphs,
	})
}

func loadStore(app *App) (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return store.Store{}, err
	}
	return s, nil
}

// newService wires the backend client. Flags and env vars win over config.yaml.
func newService(cmd *cobra.Command, app *App, s store.Store, cfg *store.Config) (*mutate.Service, error) {
	baseURL := strings.TrimSpace(app.APIURL)
	if baseURL == "" {
		baseURL = cfg.APIURL
	}
	token := strings.TrimSpace(app.Token)
	if token == "" {
		token = cfg.Token
	}
	client, err := api.New(api.Options{
		BaseURL: baseURL,
		Token:   token,
		Logger:  pslog.Ctx(cmd.Context()),
	})
	if err != nil {
		return nil, err
	}
	return &mutate.Service{Backend: client, Store: s, Flux: flux.New()}, nil
}

// loadMirror opens the store and reads the synced mirror.
func loadMirror(cmd *cobra.Command, app *App) (*store.Mirror, store.Store, error) {
	s, err := loadStore(app)
	if err != nil {
		return nil, s, err
	}
	m, err := s.Load(cmd.Context())
	if err != nil {
		return nil, s, err
	}
	return m, s, nil
}

// resolveTarget reads --target, falling back to defaultTarget in config.yaml.
func resolveTarget(s store.Store, flag string) (model.HomeTabTarget, error) {
	if strings.TrimSpace(flag) != "" {
		return model.ParseHomeTabTarget(flag)
	}
	cfg, err := s.LoadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Target(), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	msg := err.Error()
	if hint := errorHint(err); hint != "" {
		msg += "\nhint: " + hint
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
	return err
}
