package hstore

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

var ErrMalformedInput = errors.New("hstore accepts only maps, nil and json formatted object text")
var ErrKeyDoesNotExist = errors.New("key does not exist in hstore dict")
var ErrNotBound = errors.New("hstore dict is not bound to a field and a record")
var ErrSerializationFailed = errors.New("hstore entries could not be serialized")

// Dict is the base dictionary behind an hstore backed attribute. Every
// value is passed through coerceValue before it is stored, so after any
// write the entries hold only text, apart from opaque record values that
// the reference variant resolves.
type Dict struct {
	entries M
	field   FieldDescriptor
	owner   RecordHandle
	conn    Connection
}

// NewDict builds a dict from a native map, nil (empty dict) or a json
// encoded object string. Anything else fails with ErrMalformedInput.
func NewDict(value interface{}) (*Dict, error) {
	entries, err := decodeEntries(value)
	if err != nil {
		return nil, err
	}

	for k, v := range entries {
		entries[k] = coerceValue(v)
	}

	return &Dict{entries: entries}, nil
}

func decodeEntries(value interface{}) (M, error) {
	switch tv := value.(type) {
	case nil:
		return make(M), nil
	case M:
		entries := make(M, len(tv))
		for k, v := range tv {
			entries[k] = v
		}
		return entries, nil
	case map[string]interface{}:
		entries := make(M, len(tv))
		for k, v := range tv {
			entries[k] = v
		}
		return entries, nil
	case map[string]string:
		entries := make(M, len(tv))
		for k, v := range tv {
			entries[k] = v
		}
		return entries, nil
	case string:
		return decodeJSONObject([]byte(tv))
	case []byte:
		return decodeJSONObject(tv)
	default:
		return nil, errors.Wrapf(ErrMalformedInput, "unsupported input type %T", value)
	}
}

// decodeJSONObject decodes text coming back from the storage column. The
// decoder keeps numbers as json.Number so their exact decimal text survives
// the round trip.
func decodeJSONObject(b []byte) (M, error) {
	if len(strings.TrimSpace(string(b))) == 0 {
		return make(M), nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	entries := make(M)
	if err := dec.Decode(&entries); err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}

	// a json null decodes into a nil map without an error
	if entries == nil {
		return nil, errors.Wrap(ErrMalformedInput, "json value is not an object")
	}

	if dec.More() {
		return nil, errors.Wrap(ErrMalformedInput, "unexpected content after json object")
	}

	return entries, nil
}

func (d *Dict) Set(key string, value interface{}) {
	d.entries[key] = coerceValue(value)
}

func (d *Dict) Get(key string) (interface{}, bool) {
	v, ok := d.entries[key]
	return v, ok
}

func (d *Dict) Has(key string) bool {
	_, ok := d.entries[key]
	return ok
}

func (d *Dict) Len() int {
	return len(d.entries)
}

func (d *Dict) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a shallow copy of the coerced entries.
func (d *Dict) Map() M {
	m := make(M, len(d.entries))
	for k, v := range d.entries {
		m[k] = v
	}
	return m
}

func (d *Dict) Update(m M) {
	for k, v := range m {
		d.Set(k, v)
	}
}

// ToText serializes the dict for storage: the empty string for an empty
// dict, otherwise the json encoding of the coerced entries.
func (d *Dict) ToText() (string, error) {
	if len(d.entries) == 0 {
		return "", nil
	}

	b, err := json.Marshal(d.entries)
	if err != nil {
		return "", errors.Wrap(ErrSerializationFailed, err.Error())
	}

	return string(b), nil
}

func (d *Dict) String() string {
	s, _ := d.ToText()
	return s
}

// Prepare late-binds the connection used for engine specific escaping.
// Construction may happen long before a connection is known, so this is a
// separate step right before serialization.
func (d *Dict) Prepare(conn Connection) {
	d.conn = conn
}

// StorageText serializes the dict and applies the prepared connection's
// escaping when one is bound.
func (d *Dict) StorageText() (string, error) {
	text, err := d.ToText()
	if err != nil {
		return "", err
	}

	if d.conn != nil {
		text = d.conn.EscapeText(text)
	}

	return text, nil
}

// Remove strips the given keys from the persisted value without rewriting
// the whole mapping. The partial update is delegated to the record's query
// layer, it is not an in-memory operation.
func (d *Dict) Remove(q Remover, keys ...string) error {
	if d.field == nil || d.owner == nil {
		return errors.Wrap(ErrNotBound, "remove requires an attached field and record")
	}

	return q.RemoveKeys(d.owner.PrimaryKey(), d.field.Name(), keys)
}

// Copy returns a shallow copy that keeps the same field, owner and
// connection binding. Copies are meant to be transient: mutating a copy
// and the original independently and writing both back is not safe.
func (d *Dict) Copy() *Dict {
	cp := &Dict{
		entries: make(M, len(d.entries)),
		field:   d.field,
		owner:   d.owner,
		conn:    d.conn,
	}

	if err := copier.Copy(&cp.entries, d.entries); err != nil {
		panic("could not copy hstore dict entries: " + err.Error())
	}

	return cp
}

// Json gives typed path access to the serialized form.
func (d *Dict) Json() *JsonValue {
	s, _ := d.ToText()
	return &JsonValue{b: []byte(s)}
}

func (d *Dict) bind(field FieldDescriptor, owner RecordHandle) {
	d.field = field
	d.owner = owner
}
