package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func parseYAML(source string, data []byte) (map[string]any, error) {
	var tree map[string]any
	err := yaml.Unmarshal(data, &tree)
	if err == nil {
		return tree, nil
	}

	perr := &ParseError{Path: source, Format: "yaml", Message: err.Error(), Err: err}
	// yaml.v3 reports positions only inside the message.
	var line int
	if _, serr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); serr == nil {
		perr.Line = line
	}
	return nil, perr
}
