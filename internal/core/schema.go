package core

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
)

// SnapshotSchema returns the JSON Schema of the persisted layout: one array
// per bucket. Decimal amounts are serialized as strings.
func SnapshotSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case decimalType:
				return &jsonschema.Schema{Type: "string", Pattern: `^-?\d+(\.\d+)?$`}
			case nullDecimalType:
				return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
					{Type: "string", Pattern: `^-?\d+(\.\d+)?$`},
					{Type: "null"},
				}}
			}
			return nil
		},
	}
	schema := reflector.Reflect(&Snapshot{})
	schema.Title = "optics-shop persisted state"
	return json.MarshalIndent(schema, "", "  ")
}
