// Package hstore maps a postgres hstore column onto a native Go dictionary.
// The column itself only ever stores text keys and text values, so every
// value written through this package is coerced to a deterministic text
// form first. Three dictionary variants exist: the plain Dict, the
// SchemaDict which restricts keys to a declared schema and preserves the
// original value types through storage, and the RefDict which stores
// record identifiers and resolves them back to records on read.
package hstore

// RecordHandle identifies the persisted record a dict is attached to.
// It is only used to target partial updates, never to manage the record.
type RecordHandle interface {
	PrimaryKey() string
}

// Referenceable is any record that can be stored by identifier in a RefDict.
type Referenceable interface {
	ReferenceID() string
}

// ReferenceResolver converts a stored identifier back into a live record.
type ReferenceResolver interface {
	ResolveIdentifier(id string) (interface{}, error)
}

// Remover is the query layer hook for stripping keys from a persisted
// hstore value without rewriting the whole mapping.
type Remover interface {
	RemoveKeys(recordID, column string, keys []string) error
}

// Connection provides engine specific escaping for serialized values.
// It is attached late, right before a write, see Dict.Prepare.
type Connection interface {
	EscapeText(text string) string
}

type M map[string]interface{}

func (m M) String(k string) string {
	v, ok := m[k].(string)
	if !ok {
		return ""
	}
	return v
}

func (m M) HasString(k string) bool {
	_, ok := m[k].(string)
	return ok
}

func (m M) Int(k string) int {
	v, ok := m[k].(int)
	if !ok {
		return 0
	}
	return v
}

func (m M) HasInt(k string) bool {
	_, ok := m[k].(int)
	return ok
}

func (m M) Bool(k string) bool {
	v, ok := m[k].(bool)
	if !ok {
		return false
	}
	return v
}

func (m M) HasBool(k string) bool {
	_, ok := m[k].(bool)
	return ok
}

func (m M) Float(k string) float64 {
	v, ok := m[k].(float64)
	if !ok {
		return 0
	}
	return v
}

func (m M) HasFloat(k string) bool {
	_, ok := m[k].(float64)
	return ok
}
