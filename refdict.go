package hstore

import (
	"github.com/pkg/errors"
)

var ErrReferenceResolution = errors.New("hstore reference could not be resolved")

// RefDict stores references to other persisted records. Values go in as
// records or identifier strings and come out as resolved records: a read
// that finds a raw identifier resolves it through the resolver and keeps
// the record in place, so the lookup runs at most once per key per dict.
type RefDict struct {
	Dict
	resolver ReferenceResolver
}

func NewRefDict(resolver ReferenceResolver, value interface{}) (*RefDict, error) {
	d, err := NewDict(value)
	if err != nil {
		return nil, err
	}

	return &RefDict{Dict: *d, resolver: resolver}, nil
}

// Get returns the resolved record for key. Resolution failures are never
// swallowed and never cached, a later read may succeed if the record
// reappears.
func (rd *RefDict) Get(key string) (interface{}, error) {
	raw, ok := rd.entries[key]
	if !ok {
		return nil, errors.Wrapf(ErrKeyDoesNotExist, "no reference under key %s", key)
	}

	id, isRaw := raw.(string)
	if !isRaw {
		// already resolved on a previous read
		return raw, nil
	}

	if rd.resolver == nil {
		return nil, errors.Wrapf(ErrReferenceResolution, "no resolver attached, cannot resolve %s", id)
	}

	record, err := rd.resolver.ResolveIdentifier(id)
	if err != nil {
		return nil, errors.Wrapf(ErrReferenceResolution, "identifier %s: %s", id, err.Error())
	}

	rd.entries[key] = record
	return record, nil
}

// GetOrDefault returns def when the key is absent. Resolution failures
// for present keys still propagate.
func (rd *RefDict) GetOrDefault(key string, def interface{}) (interface{}, error) {
	record, err := rd.Get(key)
	if err != nil {
		if errors.Is(err, ErrKeyDoesNotExist) {
			return def, nil
		}
		return nil, err
	}

	return record, nil
}

// SerializeReferences converts every record value of m to its storage
// identifier. Identifier strings pass through untouched.
func SerializeReferences(m M) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case string:
			out[k] = tv
		case Referenceable:
			out[k] = tv.ReferenceID()
		default:
			return nil, errors.Wrapf(ErrMalformedInput, "value under key %s is neither an identifier nor a referenceable record: %T", k, v)
		}
	}

	return out, nil
}
