package hstore

import (
	"encoding/json"
	"reflect"
	"strconv"
)

// coerceValue converts a value to the text form the hstore column stores.
// Booleans become the literal "true"/"false" so that a json decode of the
// stored text regenerates a boolean, numbers become their canonical decimal
// text, slices and maps become json text. Everything else is left alone:
// it may be a record reference that the reference write path serializes
// later, coercing it here would double-encode.
func coerceValue(v interface{}) interface{} {
	switch tv := v.(type) {
	case nil:
		return nil
	case bool:
		if tv {
			return "true"
		}
		return "false"
	case string:
		return tv
	case []byte:
		return string(tv)
	case json.Number:
		return tv.String()
	case int:
		return strconv.FormatInt(int64(tv), 10)
	case int8:
		return strconv.FormatInt(int64(tv), 10)
	case int16:
		return strconv.FormatInt(int64(tv), 10)
	case int32:
		return strconv.FormatInt(int64(tv), 10)
	case int64:
		return strconv.FormatInt(tv, 10)
	case uint:
		return strconv.FormatUint(uint64(tv), 10)
	case uint8:
		return strconv.FormatUint(uint64(tv), 10)
	case uint16:
		return strconv.FormatUint(uint64(tv), 10)
	case uint32:
		return strconv.FormatUint(uint64(tv), 10)
	case uint64:
		return strconv.FormatUint(tv, 10)
	case float32:
		return strconv.FormatFloat(float64(tv), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		b, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return string(b)
	}

	return v
}
