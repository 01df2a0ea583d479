package loader

import (
	"errors"

	"github.com/tidwall/gjson"
)

var errNotObject = errors.New("top-level value is not an object")

func parseJSON(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Format: "json", Message: "invalid JSON"}
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, &ParseError{Path: source, Format: "json", Message: errNotObject.Error(), Err: errNotObject}
	}
	tree, _ := res.Value().(map[string]any)
	return tree, nil
}
