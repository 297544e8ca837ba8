package display

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dualscreen/pkg/errors"
	"github.com/matzehuels/dualscreen/pkg/geom"
)

// Profile describes a device in its natural (Rotation0) orientation.
// Screen and Hinge are in device pixels; Hinge is zero on single-screen devices.
type Profile struct {
	Name        string
	Description string
	Density     float64
	Screen      geom.Size
	Hinge       geom.Rect
}

// HasHinge reports whether the device has a second display region.
func (p Profile) HasHinge() bool {
	return !p.Hinge.IsZero()
}

// Validate checks that the profile describes a usable device.
func (p Profile) Validate() error {
	if err := errors.ValidateName(p.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProfile, err, "profile name")
	}
	if err := errors.ValidateDensity(p.Density); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProfile, err, "profile %s", p.Name)
	}
	if p.Screen.IsEmpty() {
		return errors.New(errors.ErrCodeInvalidProfile, "profile %s: screen size must be positive", p.Name)
	}
	h := p.Hinge
	if err := errors.ValidateExtent(h.X, h.Y, h.Width, h.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProfile, err, "profile %s: hinge", p.Name)
	}
	if p.HasHinge() && !geom.FromSize(p.Screen).Intersects(h) {
		return errors.New(errors.ErrCodeInvalidProfile, "profile %s: hinge %v lies outside the screen", p.Name, h)
	}
	return nil
}

func (p Profile) String() string {
	if !p.HasHinge() {
		return fmt.Sprintf("%s %gx%gpx @%g", p.Name, p.Screen.Width, p.Screen.Height, p.Density)
	}
	return fmt.Sprintf("%s %gx%gpx @%g hinge %v", p.Name, p.Screen.Width, p.Screen.Height, p.Density, p.Hinge)
}

// profileFile is the TOML layout of a profile.
type profileFile struct {
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Density     float64 `toml:"density"`
	Screen      struct {
		Width  float64 `toml:"width"`
		Height float64 `toml:"height"`
	} `toml:"screen"`
	Hinge struct {
		X      float64 `toml:"x"`
		Y      float64 `toml:"y"`
		Width  float64 `toml:"width"`
		Height float64 `toml:"height"`
	} `toml:"hinge"`
}

// ParseProfile decodes and validates a TOML profile.
func ParseProfile(data []byte) (Profile, error) {
	var f profileFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidProfile, err, "decode profile")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Profile{}, errors.New(errors.ErrCodeInvalidProfile, "unknown profile key %q", undecoded[0].String())
	}

	p := Profile{
		Name:        f.Name,
		Description: f.Description,
		Density:     f.Density,
		Screen:      geom.Size{Width: f.Screen.Width, Height: f.Screen.Height},
		Hinge:       geom.NewRect(f.Hinge.X, f.Hinge.Y, f.Hinge.Width, f.Hinge.Height),
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// LoadProfile reads a TOML profile from path.
func LoadProfile(path string) (Profile, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Profile{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "profile %s", path)
		}
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	return ParseProfile(data)
}

// builtin holds the profiles shipped with the module, keyed by name.
var builtin = map[string]Profile{
	"surface-duo": {
		Name:        "surface-duo",
		Description: "Two 1350x1800 panels joined by an 84px hinge",
		Density:     2.5,
		Screen:      geom.Size{Width: 2784, Height: 1800},
		Hinge:       geom.NewRect(1350, 0, 84, 1800),
	},
	"surface-duo-2": {
		Name:        "surface-duo-2",
		Description: "Two 1344x1892 panels joined by a 66px hinge",
		Density:     2.625,
		Screen:      geom.Size{Width: 2754, Height: 1892},
		Hinge:       geom.NewRect(1344, 0, 66, 1892),
	},
	"single-screen": {
		Name:        "single-screen",
		Description: "Conventional phone with no hinge",
		Density:     2.75,
		Screen:      geom.Size{Width: 1080, Height: 2340},
	},
}

// DefaultProfile is the profile used when none is specified.
const DefaultProfile = "surface-duo"

// Builtin returns the built-in profiles sorted by name.
func Builtin() []Profile {
	out := make([]Profile, 0, len(builtin))
	for _, p := range builtin {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupProfile returns the built-in profile with the given name.
func LookupProfile(name string) (Profile, error) {
	p, ok := builtin[name]
	if !ok {
		return Profile{}, errors.New(errors.ErrCodeProfileNotFound, "unknown device profile %q", name)
	}
	return p, nil
}

// ResolveProfile treats ref as a TOML path when it ends in .toml and as a
// built-in profile name otherwise.
func ResolveProfile(ref string) (Profile, error) {
	if ref == "" {
		return LookupProfile(DefaultProfile)
	}
	if errors.ValidatePath(ref) == nil {
		return LoadProfile(ref)
	}
	return LookupProfile(ref)
}
