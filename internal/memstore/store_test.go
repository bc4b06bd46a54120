package memstore_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vchan/hstore/internal/memstore"
)

func TestStore_PutAndGet(t *testing.T) {
	s := memstore.New()

	rec := s.Put("products", map[string]map[string]string{
		"attrs": {"color": "red"},
	})

	assert.True(t, strings.HasPrefix(rec.PrimaryKey(), "products:"))
	assert.Equal(t, "products", rec.Table())
	assert.Equal(t, rec.PrimaryKey(), rec.ReferenceID())

	got, err := s.Get(rec.PrimaryKey())
	require.NoError(t, err)
	assert.Same(t, rec, got)
	assert.Equal(t, map[string]string{"color": "red"}, got.Column("attrs"))

	_, err = s.Get("products:missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, memstore.ErrNotFound))
}

func TestStore_PutCopiesInput(t *testing.T) {
	s := memstore.New()

	columns := map[string]map[string]string{"attrs": {"a": "1"}}
	rec := s.Put("products", columns)

	columns["attrs"]["a"] = "mutated"
	assert.Equal(t, map[string]string{"a": "1"}, rec.Column("attrs"))

	// Column hands out copies too
	rec.Column("attrs")["a"] = "mutated"
	assert.Equal(t, map[string]string{"a": "1"}, rec.Column("attrs"))
}

func TestStore_Delete(t *testing.T) {
	s := memstore.New()

	rec := s.Put("products", nil)
	require.Equal(t, 1, s.Count())

	require.NoError(t, s.Delete(rec.PrimaryKey()))
	assert.Equal(t, 0, s.Count())

	_, err := s.Get(rec.PrimaryKey())
	require.Error(t, err)

	err = s.Delete(rec.PrimaryKey())
	require.Error(t, err)
	assert.True(t, errors.Is(err, memstore.ErrNotFound))
}

func TestStore_ResolveIdentifier(t *testing.T) {
	s := memstore.New()
	rec := s.Put("authors", nil)

	resolved, err := s.ResolveIdentifier(rec.PrimaryKey())
	require.NoError(t, err)
	assert.Same(t, rec, resolved)

	_, err = s.ResolveIdentifier("authors:missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, memstore.ErrNotFound))
}

func TestStore_RemoveKeys(t *testing.T) {
	s := memstore.New()

	rec := s.Put("products", map[string]map[string]string{
		"attrs": {"a": "1", "b": "2", "c": "3"},
		"meta":  {"x": "y"},
	})

	require.NoError(t, s.RemoveKeys(rec.PrimaryKey(), "attrs", []string{"a", "c", "ghost"}))
	assert.Equal(t, map[string]string{"b": "2"}, rec.Column("attrs"))
	assert.Equal(t, map[string]string{"x": "y"}, rec.Column("meta"), "other columns stay untouched")

	err := s.RemoveKeys(rec.PrimaryKey(), "nope", []string{"a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, memstore.ErrNotFound))

	err = s.RemoveKeys("products:missing", "attrs", []string{"a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, memstore.ErrNotFound))
}

func TestStore_Scan(t *testing.T) {
	s := memstore.New()

	for i := 0; i < 5; i++ {
		s.Put("products", nil)
	}
	for i := 0; i < 3; i++ {
		s.Put("authors", nil)
	}

	var products, all int
	s.Scan("products:*", func(r *memstore.Record) bool {
		products++
		return true
	})
	s.Scan("*", func(r *memstore.Record) bool {
		all++
		return true
	})

	assert.Equal(t, 5, products)
	assert.Equal(t, 8, all)

	// the walk honors identifier order and an early stop
	var previous string
	var seen int
	s.Scan("*", func(r *memstore.Record) bool {
		if previous != "" {
			assert.True(t, previous < r.PrimaryKey(), "scan must walk in identifier order")
		}
		previous = r.PrimaryKey()
		seen++
		return seen < 4
	})
	assert.Equal(t, 4, seen)
}

func TestStore_EscapeText(t *testing.T) {
	s := memstore.New()

	assert.Equal(t, "no quotes", s.EscapeText("no quotes"))
	assert.Equal(t, `{"note":"it''s"}`, s.EscapeText(`{"note":"it's"}`))
}
