// Package loader reads configuration sources into nested maps.
//
// A File reads one config file in a Format (TOML, YAML or JSON, chosen by
// extension). EnvLoader maps prefixed environment variables onto the same
// dotted paths. All loaders produce map[string]any trees that are layered
// with DeepMerge.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Loader reads one configuration source. A missing source yields nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem reads config files. fstest.MapFS satisfies it.
type FileSystem interface {
	fs.FS
	ReadFile(name string) ([]byte, error)
}

// OSFS reads from the operating system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) { return os.Open(name) }

// ReadFile reads the whole file.
func (OSFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// DefaultFS returns the operating system file system.
func DefaultFS() FileSystem { return OSFS{} }

// ParseError reports a config document that could not be parsed.
type ParseError struct {
	Path    string
	Format  string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	loc := e.Path
	switch {
	case e.Line > 0 && e.Column > 0:
		loc = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	case e.Line > 0:
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return fmt.Sprintf("parsing %s %s: %s", e.Format, loc, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DeepMerge merges src into dst and returns dst. Nested maps merge key by
// key; any other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if cur, ok := dst[key].(map[string]any); ok {
				dst[key] = DeepMerge(cur, sub)
				continue
			}
		}
		dst[key] = v
	}
	return dst
}

// Lookup returns the value at a dotted path such as "editor.tabSize".
func Lookup(data map[string]any, path string) (any, bool) {
	key, rest, nested := strings.Cut(path, ".")
	v, ok := data[key]
	if !ok || !nested {
		return v, ok
	}
	sub, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Lookup(sub, rest)
}

// setPath stores value at a dotted path, creating intermediate maps.
func setPath(data map[string]any, path string, value any) {
	key, rest, nested := strings.Cut(path, ".")
	if !nested {
		data[key] = value
		return
	}
	sub, ok := data[key].(map[string]any)
	if !ok {
		sub = make(map[string]any)
		data[key] = sub
	}
	setPath(sub, rest, value)
}
