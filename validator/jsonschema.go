package validator

import (
	"github.com/xeipuuv/gojsonschema"
)

// jsonSchema is a validator backed by JSONSchema parsing and validation.
type jsonSchema struct {
	schema *gojsonschema.Schema
}

// Validate checks the passed-in descriptor against the JSONSchema. All schema
// violations are reported in the returned error, one per line.
func (v *jsonSchema) Validate(descriptor map[string]interface{}) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(descriptor))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return coalesce(msgs)
}
