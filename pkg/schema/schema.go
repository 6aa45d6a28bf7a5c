package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Option tweaks the reflector.
type Option func(r *jsonschema.Reflector)

// WithFieldNameTag names properties after tag instead of json, e.g. yaml.
func WithFieldNameTag(tag string) Option {
	return func(r *jsonschema.Reflector) {
		r.FieldNameTag = tag
	}
}

// ToJSONSchema reflects t into an inline JSON schema document.
func ToJSONSchema[T any](t T, opts ...Option) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true

	for _, opt := range opts {
		opt(r)
	}

	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
