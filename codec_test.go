package hstore

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTyped(t *testing.T) {
	tt := []struct {
		name  string
		ft    FieldType
		value interface{}
		exp   string
	}{
		{"int", IntType, 5, "itg(5)"},
		{"negative int", IntType, -12, "itg(-12)"},
		{"float", FloatType, 3.14, "ftg(3.14)"},
		{"bool true", BoolType, true, "btg(true)"},
		{"bool false", BoolType, false, "btg(false)"},
		{"string", StringType, "foo", "stg(foo)"},
		{"string with parens", StringType, "a(b)", "stg(a(b))"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := encodeTyped(tc.ft, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, enc)

			dec, ok := decodeTyped(enc)
			require.True(t, ok)
			assert.Equal(t, tc.value, dec)
		})
	}
}

func TestEncodeTyped_TypeMismatch(t *testing.T) {
	tt := []struct {
		name  string
		ft    FieldType
		value interface{}
	}{
		{"text for int", IntType, "5"},
		{"float for int", IntType, 5.0},
		{"int for float", FloatType, 5},
		{"text for bool", BoolType, "true"},
		{"int for string", StringType, 42},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := encodeTyped(tc.ft, tc.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema))
		})
	}
}

func TestDecodeTyped_RejectsPlainText(t *testing.T) {
	for _, s := range []string{"", "5", "true", "plain text", "xyz(1)", "itg()", "itg(abc)", "itg(1"} {
		_, ok := decodeTyped(s)
		assert.False(t, ok, "should not decode %q", s)
	}
}
