package hstore

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// The schema variant stores values in a tag function form, e.g. itg(5) or
// btg(true), so that an integer and the text "1" stay distinguishable once
// the column has flattened everything to text.
const (
	boolTagFn  = "btg"
	strTagFn   = "stg"
	intTagFn   = "itg"
	floatTagFn = "ftg"
)

func encodeTyped(ft FieldType, v interface{}) (string, error) {
	switch ft {
	case StringType:
		tv, ok := v.(string)
		if !ok {
			return "", errors.Wrapf(ErrSchema, "expected a string value, got %T", v)
		}
		return fmt.Sprintf("%s(%s)", strTagFn, tv), nil
	case IntType:
		tv, ok := v.(int)
		if !ok {
			return "", errors.Wrapf(ErrSchema, "expected an int value, got %T", v)
		}
		return fmt.Sprintf("%s(%d)", intTagFn, tv), nil
	case FloatType:
		tv, ok := v.(float64)
		if !ok {
			return "", errors.Wrapf(ErrSchema, "expected a float64 value, got %T", v)
		}
		return fmt.Sprintf("%s(%s)", floatTagFn, strconv.FormatFloat(tv, 'f', -1, 64)), nil
	case BoolType:
		tv, ok := v.(bool)
		if !ok {
			return "", errors.Wrapf(ErrSchema, "expected a bool value, got %T", v)
		}
		return fmt.Sprintf("%s(%v)", boolTagFn, tv), nil
	default:
		return "", errors.Wrapf(ErrSchema, "unknown field type %d", ft)
	}
}

func decodeTyped(s string) (interface{}, bool) {
	if len(s) < 5 || s[3] != '(' || s[len(s)-1] != ')' {
		return nil, false
	}

	payload := s[4 : len(s)-1]

	switch s[:3] {
	case strTagFn:
		return payload, true
	case intTagFn:
		n, err := strconv.Atoi(payload)
		if err != nil {
			return nil, false
		}
		return n, true
	case floatTagFn:
		f, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case boolTagFn:
		b, err := strconv.ParseBool(payload)
		if err != nil {
			return nil, false
		}
		return b, true
	default:
		return nil, false
	}
}
