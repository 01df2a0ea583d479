package luamode

import (
	_ "embed"

	"github.com/dshills/textcore/internal/mode"
)

// PropertiesName is the name of the bundled properties mode.
const PropertiesName = "properties"

//go:embed scripts/properties.lua
var propertiesScript string

// Properties returns a factory for the bundled mode for Java properties
// and INI files: keys are "def", values "string", section headers
// "header". A value ending in a backslash continues on the next line.
func Properties(opts ...Option) mode.Factory {
	return Factory(PropertiesName, propertiesScript, opts...)
}
