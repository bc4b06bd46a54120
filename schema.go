package hstore

import (
	"github.com/pkg/errors"
)

var ErrSchema = errors.New("hstore schema violation")

type FieldType uint8

const (
	StringType FieldType = iota
	IntType
	FloatType
	BoolType
)

func (ft FieldType) String() string {
	switch ft {
	case StringType:
		return "string"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case BoolType:
		return "bool"
	default:
		return "invalid"
	}
}

func (ft FieldType) valid() bool {
	return ft <= BoolType
}

// SchemaKey declares one permitted key of a SchemaDict. The zero Type is
// StringType, Blank and Null default to false, Default to nil. Blank is
// parsed and carried but not enforced anywhere yet.
type SchemaKey struct {
	Type    FieldType
	Blank   bool
	Null    bool
	Default interface{}
}

type Schema map[string]SchemaKey

// validateSchema returns a normalized copy of the schema, failing on
// anything that does not declare a recognizable type. The schema is
// validated once at construction and never mutated afterwards.
func validateSchema(schema Schema) (Schema, error) {
	if len(schema) == 0 {
		return nil, errors.Wrap(ErrSchema, "no valid schema specified")
	}

	validated := make(Schema, len(schema))
	for key, opt := range schema {
		if !opt.Type.valid() {
			return nil, errors.Wrapf(ErrSchema, "type specified for key %s is not a valid type", key)
		}

		validated[key] = opt
	}

	return validated, nil
}

// SchemaDict restricts writes to a declared set of keys, each with a
// required type, and round-trips values through a type preserving
// encoding. It is the only thing standing between "stored as text" and
// "observed as the original typed value".
type SchemaDict struct {
	Dict
	schema Schema
}

// NewSchemaDict validates the schema and builds the dict from a native
// map, nil or json object text. Native map values go through Set and its
// exact type check. Text input came back from the storage column, so its
// values must be encodings of the declared types, see adopt.
func NewSchemaDict(schema Schema, value interface{}) (*SchemaDict, error) {
	validated, err := validateSchema(schema)
	if err != nil {
		return nil, err
	}

	entries, err := decodeEntries(value)
	if err != nil {
		return nil, err
	}

	var fromText bool
	switch value.(type) {
	case string, []byte:
		fromText = true
	}

	sd := &SchemaDict{
		Dict:   Dict{entries: make(M, len(entries))},
		schema: validated,
	}

	for k, v := range entries {
		if fromText {
			if err := sd.adopt(k, v); err != nil {
				return nil, err
			}
			continue
		}

		if err := sd.Set(k, v); err != nil {
			return nil, err
		}
	}

	return sd, nil
}

// adopt takes one entry coming back from the storage column. The schema
// still applies: the key must be declared and the stored text must be the
// typed encoding of the declared type, otherwise the column no longer
// matches the schema (schema drift, corrupted value) and construction
// fails rather than smuggling the entry past validation.
func (sd *SchemaDict) adopt(key string, value interface{}) error {
	opt, ok := sd.schema[key]
	if !ok {
		return errors.Wrapf(ErrSchema, "%s is not a valid key", key)
	}

	s, isStr := value.(string)
	if !isStr {
		return errors.Wrapf(ErrSchema, "stored value for key %s is not text but %T", key, value)
	}

	decoded, ok := decodeTyped(s)
	if !ok {
		return errors.Wrapf(ErrSchema, "stored value for key %s is not a recognizable typed encoding", key)
	}

	if _, err := encodeTyped(opt.Type, decoded); err != nil {
		return errors.Wrapf(err, "stored value for key %s", key)
	}

	sd.entries[key] = s
	return nil
}

// Set rejects undeclared keys and values whose runtime type does not
// exactly match the declared type, then stores the type preserving
// encoding of the value.
func (sd *SchemaDict) Set(key string, value interface{}) error {
	opt, ok := sd.schema[key]
	if !ok {
		return errors.Wrapf(ErrSchema, "%s is not a valid key", key)
	}

	encoded, err := encodeTyped(opt.Type, value)
	if err != nil {
		return errors.Wrapf(err, "key %s", key)
	}

	sd.entries[key] = encoded
	return nil
}

// Get returns the decoded typed value for a declared key, or the schema
// declared default when the key was never written. Undeclared keys fail
// with ErrSchema.
func (sd *SchemaDict) Get(key string) (interface{}, error) {
	opt, ok := sd.schema[key]
	if !ok {
		return nil, errors.Wrapf(ErrSchema, "%s is not a valid key", key)
	}

	raw, has := sd.entries[key]
	if !has {
		return opt.Default, nil
	}

	if s, isStr := raw.(string); isStr {
		if v, decoded := decodeTyped(s); decoded {
			return v, nil
		}
		return s, nil
	}

	return raw, nil
}

// Update applies every entry of m through Set, stopping on the first
// schema violation.
func (sd *SchemaDict) Update(m M) error {
	for k, v := range m {
		if err := sd.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Schema returns a copy of the validated schema.
func (sd *SchemaDict) Schema() Schema {
	schema := make(Schema, len(sd.schema))
	for k, v := range sd.schema {
		schema[k] = v
	}
	return schema
}
