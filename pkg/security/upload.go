package security

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

const (
	// CSVExtension is the only accepted upload suffix. The match is case-sensitive.
	CSVExtension = ".csv"

	// MaxFilenameLength bounds filenames echoed back to clients and logs.
	MaxFilenameLength = 255
)

// ErrUploadTooLarge is returned when an upload exceeds the configured limit.
var ErrUploadTooLarge = errors.New("uploaded file is too large")

// IsCSVFilename reports whether name ends in ".csv".
func IsCSVFilename(name string) bool {
	return strings.HasSuffix(name, CSVExtension)
}

// SanitizeFilename strips directory components and control characters from a
// client supplied filename so it is safe to log and echo.
func SanitizeFilename(name string) string {
	if name == "" {
		return ""
	}

	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	if len(name) > MaxFilenameLength {
		name = name[:MaxFilenameLength]
	}
	return name
}

// ValidateUploadSize checks size against limit. A non-positive limit disables the check.
func ValidateUploadSize(size, limit int64) error {
	if limit > 0 && size > limit {
		return ErrUploadTooLarge
	}
	return nil
}
