package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCSVFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected bool
	}{
		{name: "plain csv", filename: "data.csv", expected: true},
		{name: "nested path", filename: "dir/report.csv", expected: true},
		{name: "extension only", filename: ".csv", expected: true},
		{name: "text file", filename: "test.txt", expected: false},
		{name: "upper case extension", filename: "DATA.CSV", expected: false},
		{name: "csv in the middle", filename: "data.csv.gz", expected: false},
		{name: "empty", filename: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCSVFilename(tt.filename))
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{name: "empty", filename: "", expected: ""},
		{name: "plain", filename: "data.csv", expected: "data.csv"},
		{name: "unix path", filename: "/etc/passwd.csv", expected: "passwd.csv"},
		{name: "windows path", filename: `C:\Users\me\report.csv`, expected: "report.csv"},
		{name: "traversal", filename: "../../secret.csv", expected: "secret.csv"},
		{name: "control characters", filename: "da\nta\x00.csv", expected: "data.csv"},
		{name: "root only", filename: "/", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.filename))
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("a", 400) + ".csv"
	assert.Len(t, SanitizeFilename(long), MaxFilenameLength)
}

func TestValidateUploadSize(t *testing.T) {
	assert.NoError(t, ValidateUploadSize(10, 10))
	assert.NoError(t, ValidateUploadSize(1<<30, 0))
	assert.ErrorIs(t, ValidateUploadSize(11, 10), ErrUploadTooLarge)
}
