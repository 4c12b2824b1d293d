package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for catalog files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// FileFormat identifies a catalog file encoding.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatJSON
	FormatTOML
)

// FormatInfo describes a supported catalog encoding.
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatJSON: {
		Format:      FormatJSON,
		Description: "JSON food mappings",
		Extensions:  []string{".json"},
		MinSize:     2, // {}
	},
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML food mappings",
		Extensions:  []string{".toml"},
		MinSize:     0,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFormat picks the format from the file extension.
func DetectFormat(filename string) FileFormat {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format
			}
		}
	}
	return FormatUnknown
}

// ValidateFile checks that filename exists, has a supported extension and is
// large enough for its format.
func ValidateFile(filename string) (FileFormat, error) {
	format := DetectFormat(filename)
	info, ok := supportedFormats[format]
	if !ok {
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	stat, err := os.Stat(filename)
	if err != nil {
		return format, fmt.Errorf("failed to stat catalog %s: %w", filename, err)
	}
	if stat.IsDir() {
		return format, fmt.Errorf("catalog %s is a directory", filename)
	}
	if stat.Size() < info.MinSize {
		return format, fmt.Errorf("catalog %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, stat.Size(), info.Description, info.MinSize)
	}
	return format, nil
}
