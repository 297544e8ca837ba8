package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDensity checks a display density scale (pixels per device-independent unit).
// Densities must be finite and strictly positive; anything else would turn the
// pixel-to-DIP conversion into a division by zero or NaN geometry.
func ValidateDensity(density float64) error {
	if math.IsNaN(density) || math.IsInf(density, 0) {
		return New(ErrCodeInvalidDensity, "density must be finite, got %v", density)
	}
	if density <= 0 {
		return New(ErrCodeInvalidDensity, "density must be positive, got %g", density)
	}
	return nil
}

// ValidateExtent checks a rectangle given as origin and size.
//
// Validation rules:
//   - All components finite
//   - Width and height not negative
//
// A rectangle with zero size is valid; it is the "no hinge" sentinel.
func ValidateExtent(x, y, width, height float64) error {
	for _, v := range []float64{x, y, width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidGeometry, "rectangle components must be finite")
		}
	}
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidGeometry, "rectangle size cannot be negative (%gx%g)", width, height)
	}
	return nil
}

// ValidateName validates a profile or scenario name.
// Names are used as lookup keys and in CLI output, so they are kept simple:
//   - No empty names
//   - Maximum length of 64 characters
//   - No control characters or whitespace
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "name contains invalid characters: %q", name)
		}
	}

	return nil
}

// ValidatePath validates a file path for profile and scenario files.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.HasSuffix(strings.ToLower(path), ".toml") {
		return New(ErrCodeInvalidPath, "expected a .toml file: %s", path)
	}

	return nil
}
