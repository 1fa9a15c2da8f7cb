package builtin

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sandevgo/harvey/internal/core"
)

// commandRunner starts a host command without waiting for it. Injected so
// tests never spawn processes.
type commandRunner func(ctx context.Context, name string, arg ...string) error

func startCommand(ctx context.Context, name string, arg ...string) error {
	return exec.CommandContext(ctx, name, arg...).Start()
}

// appAliases maps spoken application names to executables per platform.
// Unlisted names are tried verbatim.
func appAliases(goos string) map[string]string {
	aliases := map[string]string{
		"chrome":       "google-chrome",
		"firefox":      "firefox",
		"vs code":      "code",
		"vscode":       "code",
		"vlc":          "vlc",
		"spotify":      "spotify",
		"calculator":   "gnome-calculator",
		"terminal":     "gnome-terminal",
		"file manager": "nautilus",
		"notepad":      "gedit",
	}
	switch goos {
	case "windows":
		aliases["chrome"] = "chrome"
		aliases["edge"] = "msedge"
		aliases["notepad"] = "notepad"
		aliases["calculator"] = "calc"
		aliases["file manager"] = "explorer"
	case "darwin":
		aliases["chrome"] = "Google Chrome"
		aliases["safari"] = "Safari"
		aliases["terminal"] = "Terminal"
		aliases["file manager"] = "Finder"
		aliases["notepad"] = "TextEdit"
	}
	return aliases
}

// Launcher opens desktop applications by spoken name.
type Launcher struct {
	goos    string
	aliases map[string]string
	run     commandRunner
}

func NewLauncher() *Launcher {
	return &Launcher{
		goos:    runtime.GOOS,
		aliases: appAliases(runtime.GOOS),
		run:     startCommand,
	}
}

func (s *Launcher) Name() string        { return "launcher" }
func (s *Launcher) Description() string { return "Opens applications on this machine." }
func (s *Launcher) Intents() []string   { return []string{"open"} }
func (s *Launcher) Priority() int       { return 0 }

func (s *Launcher) Execute(ctx context.Context, intent string, entities map[string]core.EntityValue, convo *core.Context) (string, error) {
	ev, ok := entities["app"]
	if !ok || strings.TrimSpace(ev.Text) == "" {
		return "", fmt.Errorf("no application named")
	}

	name := strings.ToLower(strings.TrimSpace(ev.Text))
	executable, ok := s.aliases[name]
	if !ok {
		executable = name
	}

	var err error
	switch s.goos {
	case "darwin":
		err = s.run(ctx, "open", "-a", executable)
	case "windows":
		err = s.run(ctx, "cmd", "/c", "start", "", executable)
	default:
		err = s.run(ctx, executable)
	}
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	return fmt.Sprintf("Opening %s...", name), nil
}
