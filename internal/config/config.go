// Package config loads CLI defaults from a TOML file and the environment.
//
// Lookup order, lowest to highest precedence: built-in defaults, the config
// file, DUALSCREEN_* environment variables, then command-line flags (applied
// by the caller). The file is ~/.config/dualscreen/config.toml unless
// DUALSCREEN_CONFIG names another one:
//
//	[device]
//	profile = "surface-duo"
//	rotation = 90
//	spanned = true
//
//	[draw]
//	width = 80
//
//	[server]
//	addr = ":8080"
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/matzehuels/dualscreen/pkg/display"
	"github.com/matzehuels/dualscreen/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. DUALSCREEN_DEVICE_PROFILE.
const EnvPrefix = "DUALSCREEN"

// EnvConfig names an explicit config file.
const EnvConfig = EnvPrefix + "_CONFIG"

// Config holds application configuration.
type Config struct {
	Device DeviceConfig
	Draw   DrawConfig
	Server ServerConfig
}

// DeviceConfig seeds the simulator flags.
type DeviceConfig struct {
	Profile  string
	Rotation int
	Spanned  bool
	Density  float64 // 0 keeps the profile's
}

// DrawConfig holds terminal drawing settings.
type DrawConfig struct {
	Width int
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Device: DeviceConfig{Profile: display.DefaultProfile},
		Draw:   DrawConfig{Width: 60},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Path returns the config file Load reads.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "dualscreen", "config.toml")
}

// Load reads configuration from file and env. A missing default file is not
// an error; a missing file named by DUALSCREEN_CONFIG is.
func Load() (Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("device.profile", d.Device.Profile)
	v.SetDefault("device.rotation", d.Device.Rotation)
	v.SetDefault("device.spanned", d.Device.Spanned)
	v.SetDefault("device.density", d.Device.Density)
	v.SetDefault("draw.width", d.Draw.Width)
	v.SetDefault("server.addr", d.Server.Addr)

	v.SetConfigType("toml")

	explicit := os.Getenv(EnvConfig)
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Dir(Path()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case explicit == "" && stderrors.As(err, &notFound):
		case stderrors.As(err, &notFound) || stderrors.Is(err, os.ErrNotExist):
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", explicit)
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values a flag could not otherwise reject.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Device.Profile) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "device.profile must not be empty")
	}
	if _, ok := display.RotationFromDegrees(c.Device.Rotation); !ok {
		return errors.New(errors.ErrCodeInvalidRotation, "device.rotation must be 0, 90, 180 or 270, got %d", c.Device.Rotation)
	}
	if c.Device.Density != 0 {
		if err := errors.ValidateDensity(c.Device.Density); err != nil {
			return err
		}
	}
	if c.Draw.Width < 10 {
		return errors.New(errors.ErrCodeInvalidInput, "draw.width must be at least 10, got %d", c.Draw.Width)
	}
	return nil
}
