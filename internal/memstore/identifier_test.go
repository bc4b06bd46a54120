package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier_Less(t *testing.T) {
	tt := []struct {
		id1  string
		id2  string
		less bool
	}{
		{"user:11", "user:100", true},
		{"user:1", "user:999", true},
		{"user:100", "user:11", false},
		{"usera", "userb", true},
		{"userc", "userb", false},
		{"user:a", "user:b", true},
		{"user:a:2", "user:b:1", true},
		{"user", "user:1", true},
		{"product", "user", true},
		{"product:9", "user:1", true},
		{"item:8976", "item:8976", false},
		{"product:1145", "product:1144", false},
		{"product:1145", "product:1146", true},
	}

	for _, tc := range tt {
		t.Run(tc.id1+"_"+tc.id2, func(t *testing.T) {
			a := ParseIdentifier(tc.id1)
			b := ParseIdentifier(tc.id2)

			assert.Equal(t, tc.less, a.Less(b))
		})
	}
}

func TestIdentifier_Match(t *testing.T) {
	tt := []struct {
		id       string
		patterns []string
		match    bool
	}{
		{"user:11", []string{"*"}, true},
		{"user:11", nil, true},
		{"user:11", []string{"user", "*"}, true},
		{"user:11", []string{"user", "11"}, true},
		{"user:11", []string{"user", "12"}, false},
		{"user:11", []string{"product", "*"}, false},
		{"user:11:pets", []string{"user", "11", "*"}, true},
		{"user:11", []string{"user", "11", "*"}, true},
		{"user:11", []string{"user", "11", "pets"}, false},
	}

	for _, tc := range tt {
		t.Run(tc.id, func(t *testing.T) {
			ident := ParseIdentifier(tc.id)
			assert.Equal(t, tc.match, ident.Match(tc.patterns))
		})
	}
}

func TestIdentifier_Parts(t *testing.T) {
	ident := NewIdentifier("users", "42")

	assert.Equal(t, "users:42", ident.String())
	assert.Equal(t, "users", ident.Table())

	other := ParseIdentifier("users:42")
	assert.True(t, ident.Equal(&other))
}
