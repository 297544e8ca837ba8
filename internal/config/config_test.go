package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/dualscreen/pkg/errors"
)

// isolate points HOME at an empty directory and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfig, "")
	for _, key := range []string{"DEVICE_PROFILE", "DEVICE_ROTATION", "DEVICE_SPANNED", "DEVICE_DENSITY", "DRAW_WIDTH", "SERVER_ADDR"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c != Default() {
		t.Errorf("Load() = %+v, want %+v", c, Default())
	}
}

func TestLoadHomeFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "dualscreen", "config.toml"), `
[device]
profile = "single-screen"
rotation = 90

[draw]
width = 80
`)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Device.Profile != "single-screen" || c.Device.Rotation != 90 || c.Draw.Width != 80 {
		t.Errorf("Load() = %+v", c)
	}
	if c.Server.Addr != Default().Server.Addr {
		t.Errorf("server.addr = %q, want default", c.Server.Addr)
	}
}

func TestLoadEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	writeFile(t, path, "[device]\nspanned = true\ndensity = 2.5\n")
	t.Setenv(EnvConfig, path)
	t.Setenv("DUALSCREEN_DEVICE_PROFILE", "surface-duo-2")
	t.Setenv("DUALSCREEN_SERVER_ADDR", ":9000")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !c.Device.Spanned || c.Device.Density != 2.5 {
		t.Errorf("file values not applied: %+v", c.Device)
	}
	if c.Device.Profile != "surface-duo-2" {
		t.Errorf("device.profile = %q, want env override", c.Device.Profile)
	}
	if c.Server.Addr != ":9000" {
		t.Errorf("server.addr = %q, want :9000", c.Server.Addr)
	}
	if Path() != path {
		t.Errorf("Path() = %q, want %q", Path(), path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string // empty means the file is not created
		code    errors.Code
	}{
		{"missing explicit file", "", errors.ErrCodeFileNotFound},
		{"malformed", "[device\n", errors.ErrCodeInvalidInput},
		{"bad rotation", "[device]\nrotation = 45\n", errors.ErrCodeInvalidRotation},
		{"bad density", "[device]\ndensity = -1\n", errors.ErrCodeInvalidDensity},
		{"narrow drawing", "[draw]\nwidth = 3\n", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			path := filepath.Join(home, "config.toml")
			if tt.content != "" {
				writeFile(t, path, tt.content)
			}
			t.Setenv(EnvConfig, path)

			_, err := Load()
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}
