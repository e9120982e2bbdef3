// Package clone deep-copies data package descriptors.
package clone

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
)

// Types that may appear as values of a JSON-like descriptor.
func init() {
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
	var n json.Number
	gob.Register(n)
}

// Descriptor returns a deep copy of the passed-in descriptor. Values must be
// JSON-like: maps keyed by string, []interface{}, strings, numbers and booleans.
func Descriptor(d map[string]interface{}) (map[string]interface{}, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d); err != nil {
		return nil, err
	}
	var c map[string]interface{}
	if err := gob.NewDecoder(&buf).Decode(&c); err != nil {
		return nil, err
	}
	return c, nil
}
