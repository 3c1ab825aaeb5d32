package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Generate reflects T into an inlined JSON Schema document. Required fields
// come from jsonschema struct tags. Extra properties stay allowed: the
// datasets may carry metadata keys that validation ignores.
func Generate[T any]() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	s := reflector.Reflect(v)
	if s == nil {
		return nil, fmt.Errorf("schema.Generate: reflect %T: empty schema", v)
	}
	return s, nil
}

// ToMap round-trips a schema through JSON for inspection.
func ToMap(s *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// MarshalIndent renders the schema for humans, ending with a newline.
func MarshalIndent(s *jsonschema.Schema) ([]byte, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("schema.MarshalIndent: marshal: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return nil, fmt.Errorf("schema.MarshalIndent: indent: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
