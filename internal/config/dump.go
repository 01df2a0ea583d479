package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// JSON returns c as an indented JSON document in the shape the loaders
// read. Durations are written as strings such as "400ms".
func (c *Config) JSON() ([]byte, error) {
	targets := c.targets()
	paths := make([]string, 0, len(targets))
	for path := range targets {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	doc := []byte("{}")
	for _, path := range paths {
		var v any
		switch t := targets[path].(type) {
		case *string:
			v = *t
		case *bool:
			v = *t
		case *int:
			v = *t
		case *time.Duration:
			v = t.String()
		}

		var err error
		doc, err = sjson.SetBytes(doc, path, v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", path, err)
		}
	}
	return pretty.Pretty(doc), nil
}
