package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupportedFormat is returned for config files with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a config file syntax.
type Format struct {
	Name       string
	Extensions []string

	// Parse turns a document into a settings tree. Failures are
	// *ParseError values; source names the document in them.
	Parse func(source string, data []byte) (map[string]any, error)
}

// The supported formats.
var (
	TOML = Format{Name: "toml", Extensions: []string{".toml"}, Parse: parseTOML}
	YAML = Format{Name: "yaml", Extensions: []string{".yaml", ".yml"}, Parse: parseYAML}
	JSON = Format{Name: "json", Extensions: []string{".json"}, Parse: parseJSON}
)

// Formats lists the supported formats.
var Formats = []Format{TOML, YAML, JSON}

// FormatFor returns the format for the extension of path.
func FormatFor(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range Formats {
		if slices.Contains(f.Extensions, ext) {
			return f, true
		}
	}
	return Format{}, false
}

// Read parses a whole document from r.
func Read(format Format, r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s config: %w", format.Name, err)
	}
	return format.Parse("<reader>", data)
}

// File loads one config file.
type File struct {
	fs     FileSystem
	path   string
	format Format
}

// NewFile creates a loader for path in the given format. A nil fsys reads
// from the operating system.
func NewFile(fsys FileSystem, path string, format Format) *File {
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &File{fs: fsys, path: path, format: format}
}

// ForPath creates a loader for path, choosing the format by extension.
func ForPath(fsys FileSystem, path string) (*File, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return NewFile(fsys, path, format), nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Format returns the file format.
func (f *File) Format() Format { return f.format }

// Load reads and parses the file. A missing file yields nil, nil.
func (f *File) Load() (map[string]any, error) {
	data, err := f.fs.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", f.path, err)
	}
	return f.format.Parse(f.path, data)
}
