package hstore

import (
	"github.com/pkg/errors"
)

const hstoreColumnType = "hstore"

// FieldDescriptor is the surface the relational mapping layer consumes.
// A descriptor declares which dict variant a record attribute uses and
// converts between the in-memory dict and the storage column text.
type FieldDescriptor interface {
	Name() string
	ColumnType() string
	DefaultValue() (interface{}, error)
	ToStorageText(value interface{}) (string, error)
	FromStorageText(text string) (interface{}, error)
}

type FieldOption func(*fieldOptions)

type fieldOptions struct {
	def M
}

// WithDefault sets the map a fresh attribute starts from when the record
// has no stored value yet.
func WithDefault(def M) FieldOption {
	return func(o *fieldOptions) {
		o.def = def
	}
}

func applyFieldOptions(opts []FieldOption) fieldOptions {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DictionaryField backs a record attribute with a plain Dict.
type DictionaryField struct {
	name string
	def  M
}

func NewDictionaryField(name string, opts ...FieldOption) *DictionaryField {
	o := applyFieldOptions(opts)
	return &DictionaryField{name: name, def: o.def}
}

func (f *DictionaryField) Name() string {
	return f.name
}

func (f *DictionaryField) ColumnType() string {
	return hstoreColumnType
}

func (f *DictionaryField) DefaultValue() (interface{}, error) {
	d, err := NewDict(f.def)
	if err != nil {
		return nil, err
	}

	d.field = f
	return d, nil
}

func (f *DictionaryField) ToStorageText(value interface{}) (string, error) {
	switch tv := value.(type) {
	case nil:
		return "", nil
	case *Dict:
		return tv.StorageText()
	default:
		d, err := NewDict(value)
		if err != nil {
			return "", err
		}
		d.field = f
		return d.StorageText()
	}
}

func (f *DictionaryField) FromStorageText(text string) (interface{}, error) {
	d, err := NewDict(text)
	if err != nil {
		return nil, err
	}

	d.field = f
	return d, nil
}

// Attach wraps a raw assignment into a Dict bound to this field and
// record. An already wrapped dict is re-bound, not rebuilt.
func (f *DictionaryField) Attach(owner RecordHandle, value interface{}) (*Dict, error) {
	if d, ok := value.(*Dict); ok {
		d.bind(f, owner)
		return d, nil
	}

	d, err := NewDict(value)
	if err != nil {
		return nil, err
	}

	d.bind(f, owner)
	return d, nil
}

// ModeledField backs a record attribute with a SchemaDict.
type ModeledField struct {
	name   string
	schema Schema
	def    M
}

// NewModeledField fails fast on an invalid schema: a field with a bad
// schema would make every dict built from it unusable.
func NewModeledField(name string, schema Schema, opts ...FieldOption) (*ModeledField, error) {
	if _, err := NewSchemaDict(schema, nil); err != nil {
		return nil, err
	}

	o := applyFieldOptions(opts)
	return &ModeledField{name: name, schema: schema, def: o.def}, nil
}

func (f *ModeledField) Name() string {
	return f.name
}

func (f *ModeledField) ColumnType() string {
	return hstoreColumnType
}

func (f *ModeledField) DefaultValue() (interface{}, error) {
	sd, err := NewSchemaDict(f.schema, f.def)
	if err != nil {
		return nil, err
	}

	sd.field = f
	return sd, nil
}

func (f *ModeledField) ToStorageText(value interface{}) (string, error) {
	switch tv := value.(type) {
	case nil:
		return "", nil
	case *SchemaDict:
		return tv.StorageText()
	default:
		sd, err := NewSchemaDict(f.schema, value)
		if err != nil {
			return "", err
		}
		sd.field = f
		return sd.StorageText()
	}
}

func (f *ModeledField) FromStorageText(text string) (interface{}, error) {
	sd, err := NewSchemaDict(f.schema, text)
	if err != nil {
		return nil, err
	}

	sd.field = f
	return sd, nil
}

func (f *ModeledField) Attach(owner RecordHandle, value interface{}) (*SchemaDict, error) {
	if sd, ok := value.(*SchemaDict); ok {
		sd.bind(f, owner)
		return sd, nil
	}

	sd, err := NewSchemaDict(f.schema, value)
	if err != nil {
		return nil, err
	}

	sd.bind(f, owner)
	return sd, nil
}

// ReferencesField backs a record attribute with a RefDict. Values are
// persisted as record identifiers and resolved back on read.
type ReferencesField struct {
	name     string
	resolver ReferenceResolver
	def      M
}

func NewReferencesField(name string, resolver ReferenceResolver, opts ...FieldOption) *ReferencesField {
	o := applyFieldOptions(opts)
	return &ReferencesField{name: name, resolver: resolver, def: o.def}
}

func (f *ReferencesField) Name() string {
	return f.name
}

func (f *ReferencesField) ColumnType() string {
	return hstoreColumnType
}

func (f *ReferencesField) DefaultValue() (interface{}, error) {
	rd, err := NewRefDict(f.resolver, f.def)
	if err != nil {
		return nil, err
	}

	rd.field = f
	return rd, nil
}

// ToStorageText serializes record values to their identifiers before the
// dict itself is serialized.
func (f *ReferencesField) ToStorageText(value interface{}) (string, error) {
	var m M
	var conn Connection

	switch tv := value.(type) {
	case nil:
		return "", nil
	case *RefDict:
		m = tv.Map()
		conn = tv.conn
	case *Dict:
		m = tv.Map()
		conn = tv.conn
	case M:
		m = tv
	case map[string]interface{}:
		m = tv
	default:
		return "", errors.Wrapf(ErrMalformedInput, "cannot serialize %T as references", value)
	}

	refs, err := SerializeReferences(m)
	if err != nil {
		return "", err
	}

	d, err := NewDict(refs)
	if err != nil {
		return "", err
	}

	if conn != nil {
		d.Prepare(conn)
	}

	return d.StorageText()
}

func (f *ReferencesField) FromStorageText(text string) (interface{}, error) {
	rd, err := NewRefDict(f.resolver, text)
	if err != nil {
		return nil, err
	}

	rd.field = f
	return rd, nil
}

func (f *ReferencesField) Attach(owner RecordHandle, value interface{}) (*RefDict, error) {
	if rd, ok := value.(*RefDict); ok {
		rd.bind(f, owner)
		return rd, nil
	}

	rd, err := NewRefDict(f.resolver, value)
	if err != nil {
		return nil, err
	}

	rd.bind(f, owner)
	return rd, nil
}
