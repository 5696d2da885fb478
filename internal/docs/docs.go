// Package docs holds the embedded help topics and renders them for a terminal.
package docs

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
)

//go:embed content/*.md
var contentFS embed.FS

func Topics() []string {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return []string{}
	}
	var topics []string
	for _, path := range entries {
		base := filepath.Base(path)
		topic := strings.TrimSuffix(base, filepath.Ext(base))
		if topic != "" {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}

func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return "", false
	}
	b, err := contentFS.ReadFile("content/" + topic + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

var (
	rendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle can block on terminal
	// queries, so the style is resolved once from the environment instead.
	renderers = map[string]*glamour.TermRenderer{}
)

// Render formats md for a terminal of the given width. It falls back to the
// raw markdown when rendering fails.
func Render(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	style := Style()
	key := style + ":" + strconv.Itoa(width)

	rendererMu.Lock()
	r := renderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(styleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			rendererMu.Unlock()
			return md
		}
		renderers[key] = rr
		r = rr
	}
	rendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Style picks "dark", "light" or "notty" from the environment.
func Style() string {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return "notty"
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("JUPITER_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func styleConfig(style string) ansi.StyleConfig {
	switch style {
	case "light":
		return styles.LightStyleConfig
	case "notty":
		return styles.NoTTYStyleConfig
	default:
		return styles.DarkStyleConfig
	}
}
