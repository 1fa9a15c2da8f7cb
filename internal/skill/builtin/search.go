package builtin

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"strings"

	"github.com/sandevgo/harvey/internal/core"
)

var searchEngines = map[string]string{
	"google":     "https://www.google.com/search?q=",
	"bing":       "https://www.bing.com/search?q=",
	"duckduckgo": "https://www.duckduckgo.com/?q=",
}

const defaultEngine = "google"

// Search builds web search URLs and opens them in the default browser. The
// last query is kept in the conversation context under "last_search".
type Search struct {
	goos string
	run  commandRunner
}

func NewSearch() *Search {
	return &Search{
		goos: runtime.GOOS,
		run:  startCommand,
	}
}

func (s *Search) Name() string        { return "search" }
func (s *Search) Description() string { return "Searches the web and Wikipedia." }
func (s *Search) Intents() []string   { return []string{"search", "wikipedia"} }
func (s *Search) Priority() int       { return 0 }

func (s *Search) Execute(ctx context.Context, intent string, entities map[string]core.EntityValue, convo *core.Context) (string, error) {
	ev, ok := entities["query"]
	query := strings.TrimSpace(ev.Text)
	if !ok || query == "" {
		return "", fmt.Errorf("no search query")
	}

	var target, source string
	if intent == "wikipedia" {
		target = "https://www.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(query, " ", "_"))
		source = "Wikipedia"
	} else {
		engine := defaultEngine
		if cat, ok := entities["engine"]; ok {
			if _, known := searchEngines[strings.ToLower(cat.Text)]; known {
				engine = strings.ToLower(cat.Text)
			}
		}
		target = searchEngines[engine] + url.QueryEscape(query)
		source = engine
	}

	convo.Set("last_search", query)

	if err := s.openURL(ctx, target); err != nil {
		// The URL is still useful when no browser can launch.
		return fmt.Sprintf("I couldn't open a browser, but here is the link: %s", target), nil
	}
	return fmt.Sprintf("Searching %s for '%s'...", source, query), nil
}

func (s *Search) openURL(ctx context.Context, target string) error {
	switch s.goos {
	case "darwin":
		return s.run(ctx, "open", target)
	case "windows":
		return s.run(ctx, "cmd", "/c", "start", "", target)
	default:
		return s.run(ctx, "xdg-open", target)
	}
}
