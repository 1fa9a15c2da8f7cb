package builtin

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/harvey/internal/config"
	"github.com/sandevgo/harvey/internal/core"
	"github.com/sandevgo/harvey/internal/memory"
	"github.com/sandevgo/harvey/internal/skill"
)

func entities(kv map[string]core.EntityValue) map[string]core.EntityValue {
	if kv == nil {
		return map[string]core.EntityValue{}
	}
	return kv
}

func numbers(vals ...float64) core.EntityValue {
	return core.EntityValue{Type: core.SlotNumbers, Numbers: vals}
}

func TestClock(t *testing.T) {
	fixed := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	s := NewClock()
	s.now = func() time.Time { return fixed }
	convo := core.NewContext("s")

	got, err := s.Execute(context.Background(), "time", entities(nil), convo)
	if err != nil {
		t.Fatal(err)
	}
	if got != "It is 14:30." {
		t.Errorf("time = %q", got)
	}

	got, err = s.Execute(context.Background(), "date", entities(nil), convo)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Today is Monday, March 2, 2026." {
		t.Errorf("date = %q", got)
	}
}

func TestGreeting(t *testing.T) {
	s := NewGreeting()
	convo := core.NewContext("s")
	ctx := context.Background()

	first, err := s.Execute(ctx, "greeting", entities(nil), convo)
	if err != nil {
		t.Fatal(err)
	}
	again, err := s.Execute(ctx, "greeting", entities(nil), convo)
	if err != nil {
		t.Fatal(err)
	}
	if first == again {
		t.Error("second greeting should differ from the first")
	}

	bye, err := s.Execute(ctx, "farewell", entities(nil), convo)
	if err != nil {
		t.Fatal(err)
	}
	if bye != "Goodbye!" {
		t.Errorf("farewell = %q", bye)
	}
	if _, ok := convo.Get("greeted"); ok {
		t.Error("farewell should reset the greeted flag")
	}
}

func TestCalculator(t *testing.T) {
	tests := []struct {
		name    string
		intent  string
		numbers []float64
		want    string
	}{
		{"add", "calculate", []float64{2, 3}, "That makes 5."},
		{"add many", "calculate", []float64{1, 2, 3}, "That makes 6."},
		{"subtract", "subtract", []float64{10, 4}, "That makes 6."},
		{"multiply", "multiply", []float64{6, 7}, "That makes 42."},
		{"divide", "divide", []float64{9, 2}, "That makes 4.5."},
	}

	s := NewCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			convo := core.NewContext("s")
			got, err := s.Execute(context.Background(), tt.intent,
				entities(map[string]core.EntityValue{"numbers": numbers(tt.numbers...)}), convo)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCalculatorDivisionByZero(t *testing.T) {
	s := NewCalculator()
	convo := core.NewContext("s")
	_, err := s.Execute(context.Background(), "divide",
		entities(map[string]core.EntityValue{"numbers": numbers(5, 0)}), convo)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCalculatorChainsOnLastResult(t *testing.T) {
	s := NewCalculator()
	convo := core.NewContext("s")
	ctx := context.Background()

	if _, err := s.Execute(ctx, "calculate",
		entities(map[string]core.EntityValue{"numbers": numbers(2, 3)}), convo); err != nil {
		t.Fatal(err)
	}
	if v, _ := convo.Get("last_result"); v != "5" {
		t.Fatalf("last_result = %q, want 5", v)
	}

	got, err := s.Execute(ctx, "multiply",
		entities(map[string]core.EntityValue{"numbers": numbers(4)}), convo)
	if err != nil {
		t.Fatal(err)
	}
	if got != "That makes 20." {
		t.Errorf("chained multiply = %q", got)
	}
}

func TestCalculatorNeedsTwoOperands(t *testing.T) {
	s := NewCalculator()
	convo := core.NewContext("s") // no last_result to chain on
	_, err := s.Execute(context.Background(), "calculate",
		entities(map[string]core.EntityValue{"numbers": numbers(7)}), convo)
	if err == nil {
		t.Fatal("expected error with a single operand and no prior result")
	}
}

func TestMemoRememberAndRecall(t *testing.T) {
	m := memory.New(&config.MemoryConfig{RetentionDays: 30}, memory.NewInMemoryStore())
	s := NewMemo(m)
	convo := core.NewContext("session-a")
	ctx := context.Background()

	note := core.EntityValue{Type: core.SlotText, Text: "that the door code is 4711"}
	if _, err := s.Execute(ctx, "remember",
		entities(map[string]core.EntityValue{"note": note}), convo); err != nil {
		t.Fatal(err)
	}

	got, err := s.Execute(ctx, "recall", entities(nil), convo)
	if err != nil {
		t.Fatal(err)
	}
	if got != "You told me: the door code is 4711" {
		t.Errorf("recall = %q", got)
	}

	// Another session must not see the note.
	other := core.NewContext("session-b")
	got, err = s.Execute(ctx, "recall", entities(nil), other)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "4711") {
		t.Errorf("note leaked across sessions: %q", got)
	}
}

func TestMemoRememberWithoutNote(t *testing.T) {
	m := memory.New(&config.MemoryConfig{}, memory.NewInMemoryStore())
	s := NewMemo(m)
	_, err := s.Execute(context.Background(), "remember", entities(nil), core.NewContext("s"))
	if err == nil {
		t.Fatal("expected error when the note slot is missing")
	}
}

func TestWeather(t *testing.T) {
	fixed := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := NewWeather()
	s.now = func() time.Time { return fixed }
	convo := core.NewContext("s")
	ctx := context.Background()

	got, err := s.Execute(ctx, "weather",
		entities(map[string]core.EntityValue{
			"location": {Type: core.SlotLocation, Text: "london"},
		}), convo)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "london") {
		t.Errorf("response misses location: %q", got)
	}

	// Follow-up without a location reuses the remembered one.
	got, err = s.Execute(ctx, "weather", entities(nil), convo)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "london") {
		t.Errorf("follow-up lost location: %q", got)
	}
}

func TestHelpListsSkills(t *testing.T) {
	reg := skill.NewRegistry()
	if err := reg.Register(NewClock()); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(NewGreeting()); err != nil {
		t.Fatal(err)
	}
	h := NewHelp(reg)
	if err := reg.Register(h); err != nil {
		t.Fatal(err)
	}

	got, err := h.Execute(context.Background(), "help", entities(nil), core.NewContext("s"))
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"clock", "greeting", "help"} {
		if !strings.Contains(got, name) {
			t.Errorf("help output misses %q:\n%s", name, got)
		}
	}
}

type fakeRunner struct {
	name string
	args []string
	err  error
}

func (f *fakeRunner) run(ctx context.Context, name string, arg ...string) error {
	f.name = name
	f.args = arg
	return f.err
}

func textEntity(s string) core.EntityValue {
	return core.EntityValue{Type: core.SlotText, Text: s}
}

func TestSearchGoogle(t *testing.T) {
	r := &fakeRunner{}
	s := NewSearch()
	s.goos = "linux"
	s.run = r.run
	convo := core.NewContext("s")

	got, err := s.Execute(context.Background(), "search",
		entities(map[string]core.EntityValue{"query": textEntity("red pandas")}), convo)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "google") {
		t.Errorf("response = %q, want the engine named", got)
	}
	if r.name != "xdg-open" {
		t.Errorf("opener = %q, want xdg-open", r.name)
	}
	if len(r.args) != 1 || r.args[0] != "https://www.google.com/search?q=red+pandas" {
		t.Errorf("url = %v", r.args)
	}
	if v, _ := convo.Get("last_search"); v != "red pandas" {
		t.Errorf("last_search = %q", v)
	}
}

func TestSearchWikipedia(t *testing.T) {
	r := &fakeRunner{}
	s := NewSearch()
	s.goos = "linux"
	s.run = r.run

	got, err := s.Execute(context.Background(), "wikipedia",
		entities(map[string]core.EntityValue{"query": textEntity("alan turing")}), core.NewContext("s"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Wikipedia") {
		t.Errorf("response = %q", got)
	}
	if len(r.args) != 1 || r.args[0] != "https://www.wikipedia.org/wiki/alan_turing" {
		t.Errorf("url = %v", r.args)
	}
}

func TestSearchBrowserFailureStillAnswers(t *testing.T) {
	r := &fakeRunner{err: errors.New("no display")}
	s := NewSearch()
	s.goos = "linux"
	s.run = r.run

	got, err := s.Execute(context.Background(), "search",
		entities(map[string]core.EntityValue{"query": textEntity("cats")}), core.NewContext("s"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "https://www.google.com/search?q=cats") {
		t.Errorf("response = %q, want the link surfaced", got)
	}
}

func TestSearchWithoutQuery(t *testing.T) {
	s := NewSearch()
	s.run = (&fakeRunner{}).run
	_, err := s.Execute(context.Background(), "search", entities(nil), core.NewContext("s"))
	if err == nil {
		t.Fatal("expected error when the query slot is missing")
	}
}

func TestLauncher(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		app      string
		wantName string
		wantArgs []string
	}{
		{name: "alias on linux", goos: "linux", app: "vs code", wantName: "code"},
		{name: "unknown app verbatim", goos: "linux", app: "htop", wantName: "htop"},
		{name: "darwin uses open", goos: "darwin", app: "chrome", wantName: "open", wantArgs: []string{"-a", "Google Chrome"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{}
			s := NewLauncher()
			s.goos = tt.goos
			s.aliases = appAliases(tt.goos)
			s.run = r.run

			got, err := s.Execute(context.Background(), "open",
				entities(map[string]core.EntityValue{"app": textEntity(tt.app)}), core.NewContext("s"))
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(got, tt.app) {
				t.Errorf("response = %q, want the app named", got)
			}
			if r.name != tt.wantName {
				t.Errorf("command = %q, want %q", r.name, tt.wantName)
			}
			if tt.wantArgs != nil && !reflect.DeepEqual(r.args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", r.args, tt.wantArgs)
			}
		})
	}
}

func TestLauncherWithoutApp(t *testing.T) {
	s := NewLauncher()
	s.run = (&fakeRunner{}).run
	_, err := s.Execute(context.Background(), "open", entities(nil), core.NewContext("s"))
	if err == nil {
		t.Fatal("expected error when no application is named")
	}
}

func TestLauncherCommandFailure(t *testing.T) {
	r := &fakeRunner{err: errors.New("not installed")}
	s := NewLauncher()
	s.goos = "linux"
	s.aliases = appAliases("linux")
	s.run = r.run

	_, err := s.Execute(context.Background(), "open",
		entities(map[string]core.EntityValue{"app": textEntity("blender")}), core.NewContext("s"))
	if err == nil {
		t.Fatal("expected the start failure surfaced")
	}
}
