package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/dualscreen"
	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := map[string]bool{"profiles": false, "inspect": false, "simulate": false, "watch": false, "serve": false, "completion": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: expected error")
	}
}

func TestProfilesCommand(t *testing.T) {
	out, err := execute(t, "profiles")
	if err != nil {
		t.Fatalf("profiles error: %v", err)
	}
	for _, name := range []string{"surface-duo", "surface-duo-2", "single-screen"} {
		if !strings.Contains(out, name) {
			t.Errorf("profiles output missing %q", name)
		}
	}
}

func TestProfilesCommandFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fold.toml")
	doc := `name = "fold"
density = 2.0
[screen]
width = 2000
height = 1000
[hinge]
x = 980
y = 0
width = 40
height = 1000
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "profiles", path)
	if err != nil {
		t.Fatalf("profiles error: %v", err)
	}
	if !strings.Contains(out, "1000x500") {
		t.Errorf("profile output missing DIP size:\n%s", out)
	}
}

func TestInspectCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "single screen",
			args: []string{"inspect", "--draw=false"},
			want: []string{"SinglePane", "(0, 0, 1113.6, 720)"},
		},
		{
			name: "spanned",
			args: []string{"inspect", "--spanned", "--draw=false"},
			want: []string{"DoubleWide", "(540, 0, 33.6, 720)", "(0, 0, 540, 720)"},
		},
		{
			name: "spanned landscape",
			args: []string{"inspect", "--spanned", "--rotation", "90", "--draw=false"},
			want: []string{"DoubleTall", "landscape", "(0, 540, 720, 33.6)"},
		},
		{
			name: "element",
			args: []string{"inspect", "--spanned", "--element", "500,0,100,200", "--draw=false"},
			want: []string{"DoubleWide", "(0, 0, 40, 200)"},
		},
		{
			name: "drawing",
			args: []string{"inspect", "--spanned", "--width", "30"},
			want: []string{glyphPane1, glyphHinge, glyphPane2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("inspect error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Device.Spanned = true
	c.Config.Device.Rotation = 90

	var out bytes.Buffer
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"inspect", "--draw=false"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	if !strings.Contains(out.String(), "DoubleTall") {
		t.Errorf("configured defaults not applied:\n%s", out.String())
	}

	out.Reset()
	root = c.RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"inspect", "--draw=false", "--spanned=false"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	if !strings.Contains(out.String(), "SinglePane") {
		t.Errorf("flag did not override configured default:\n%s", out.String())
	}
}

func TestInspectCommandErrors(t *testing.T) {
	tests := []struct {
		args []string
		code errors.Code
	}{
		{[]string{"inspect", "--rotation", "45"}, errors.ErrCodeInvalidRotation},
		{[]string{"inspect", "--profile", "nokia-3310"}, errors.ErrCodeProfileNotFound},
		{[]string{"inspect", "--density=-2"}, errors.ErrCodeInvalidDensity},
		{[]string{"inspect", "--element", "1,2,3"}, errors.ErrCodeInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "span.toml")
	doc := `name = "span"
profile = "surface-duo"

[[steps]]
action = "span"

[[steps]]
action = "touch"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "simulate", path)
	if err != nil {
		t.Fatalf("simulate error: %v", err)
	}
	for _, want := range []string{"DoubleWide", "default: SpanningBounds, HingeBounds, SpanMode", "1 transitions"} {
		if !strings.Contains(out, want) {
			t.Errorf("simulate output missing %q:\n%s", want, out)
		}
	}

	dotPath := filepath.Join(dir, "span.dot")
	if _, err := execute(t, "simulate", path, "-f", "dot", "-o", dotPath); err != nil {
		t.Fatalf("simulate -f dot error: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatalf("read DOT output: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph G {") {
		t.Errorf("DOT output = %q", data)
	}

	if _, err := execute(t, "simulate", path, "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("simulate -f gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Rect
		wantErr bool
	}{
		{"1,2,3,4", geom.NewRect(1, 2, 3, 4), false},
		{" 0, 0 , 10.5, 20 ", geom.NewRect(0, 0, 10.5, 20), false},
		{"1,2,3", geom.Zero, true},
		{"a,b,c,d", geom.Zero, true},
		{"0,0,-1,1", geom.Zero, true},
	}

	for _, tt := range tests {
		got, err := parseRect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseRect(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDrawLayout(t *testing.T) {
	wide := dualscreen.State{
		Pane1: geom.NewRect(0, 0, 45, 50),
		Hinge: geom.NewRect(45, 0, 10, 50),
		Pane2: geom.NewRect(55, 0, 45, 50),
		Mode:  dualscreen.DoubleWide,
	}
	thin := wide
	thin.Pane1 = geom.NewRect(0, 0, 48, 50)
	thin.Hinge = geom.NewRect(48, 0, 2, 50)
	thin.Pane2 = geom.NewRect(50, 0, 50, 50)
	single := dualscreen.State{Pane1: geom.NewRect(0, 0, 100, 50), Mode: dualscreen.SinglePane}

	tests := []struct {
		name  string
		state dualscreen.State
		row   string
	}{
		{"wide", wide, strings.Repeat(glyphPane1, 9) + strings.Repeat(glyphHinge, 2) + strings.Repeat(glyphPane2, 9)},
		{"thin hinge", thin, strings.Repeat(glyphPane1, 9) + glyphHinge + strings.Repeat(glyphPane2, 10)},
		{"single", single, strings.Repeat(glyphPane1, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area := layoutArea(tt.state)
			if area != (geom.Size{Width: 100, Height: 50}) {
				t.Fatalf("layoutArea() = %v", area)
			}
			lines := strings.Split(drawLayout(area, tt.state, 20), "\n")
			if len(lines) != 5 {
				t.Fatalf("drawing has %d rows, want 5", len(lines))
			}
			for i, line := range lines {
				if line != tt.row {
					t.Errorf("row %d = %q, want %q", i, line, tt.row)
				}
			}
		})
	}
}

func TestWatchModel(t *testing.T) {
	p, err := display.LookupProfile(display.DefaultProfile)
	if err != nil {
		t.Fatal(err)
	}
	sim := display.NewSimulator(p)
	guide := dualscreen.NewGuide(sim)
	defer guide.Close()
	info := dualscreen.NewInfo(guide)
	defer info.Close()

	var m tea.Model = newWatchModel(sim, info)
	press := func(key string) tea.Cmd {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		return cmd
	}

	press("s")
	if !sim.IsSpanned() {
		t.Fatal("s should span the simulator")
	}
	view := m.View()
	for _, want := range []string{"DoubleWide", "SpanMode DoubleWide", "HingeBounds (540, 0, 33.6, 720)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	events := len(m.(WatchModel).events.lines)
	press("t")
	press("h")
	if got := len(m.(WatchModel).events.lines); got != events {
		t.Errorf("touch and hinge angle added %d events", got-events)
	}

	press("a")
	if !strings.Contains(m.View(), "display service lost") {
		t.Error("view should report the lost display service")
	}
	if info.SpanMode() != dualscreen.SinglePane {
		t.Errorf("SpanMode() without display service = %v", info.SpanMode())
	}

	if cmd := press("q"); cmd == nil {
		t.Error("q should quit")
	}
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(withLogger(ctx, log.NewWithOptions(io.Discard, log.Options{})))
	cmd.SetOut(&out)

	c := New(io.Discard, LogInfo)
	device := deviceOpts{profile: display.DefaultProfile, spanned: true}
	done := make(chan error, 1)
	go func() { done <- c.runServe(cmd, &device, ln) }()

	url := "http://" + ln.Addr().String() + "/layout"
	var layout struct {
		Mode string `json:"mode"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			err = json.NewDecoder(resp.Body).Decode(&layout)
			resp.Body.Close()
			if err != nil {
				t.Fatalf("decode layout: %v", err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never answered: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if layout.Mode != "DoubleWide" {
		t.Errorf("served mode = %q, want DoubleWide", layout.Mode)
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("runServe() = %v, want context.Canceled", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
	if !strings.Contains(out.String(), "Serving surface-duo") {
		t.Errorf("output = %q", out.String())
	}
}
