package errors

import (
	"strings"
	"unicode"
)

// ValidatePenSize validates a pen size at the request boundary.
// The engine assumes validated input, so sizes below 1 are rejected here.
func ValidatePenSize(size int) error {
	if size < 1 {
		return New(ErrCodeInvalidInput, "pen size must be at least 1, got %d", size)
	}
	if size > 256 {
		return New(ErrCodeInvalidInput, "pen size too large (max 256), got %d", size)
	}
	return nil
}

// ValidateOpacity validates an opacity value in [0,1].
func ValidateOpacity(opacity float64) error {
	if opacity < 0 || opacity > 1 {
		return New(ErrCodeInvalidInput, "opacity must be in [0,1], got %g", opacity)
	}
	return nil
}

// ValidateCanvasSize validates canvas dimensions for resize operations.
func ValidateCanvasSize(width, height int) error {
	if width < 1 || height < 1 {
		return New(ErrCodeInvalidInput, "canvas dimensions must be at least 1x1, got %dx%d", width, height)
	}
	if width > 4096 || height > 4096 {
		return New(ErrCodeInvalidInput, "canvas dimensions too large (max 4096x4096), got %dx%d", width, height)
	}
	return nil
}

// ValidateScale validates an export upscale factor.
func ValidateScale(scale int) error {
	if scale < 1 {
		return New(ErrCodeInvalidInput, "scale must be at least 1, got %d", scale)
	}
	if scale > 64 {
		return New(ErrCodeInvalidInput, "scale too large (max 64), got %d", scale)
	}
	return nil
}

// ValidateLayerName validates a layer name.
// Names appear in Separate-mode export filenames, so path separators and
// control characters are rejected.
func ValidateLayerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "layer name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "layer name too long (max 64 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "layer name contains control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "layer name cannot contain path separators")
	}
	return nil
}
