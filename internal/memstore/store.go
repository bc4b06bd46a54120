// Package memstore is an in-memory implementation of the persistence
// collaborators the hstore package consumes: it resolves identifiers to
// records, applies partial key removal to stored hstore columns and
// provides connection style text escaping. It doubles as the executable
// documentation of those contracts and as the test double for them.
package memstore

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
)

var ErrNotFound = errors.New("record not found")

const recordShards = 16

// Record is a persisted row with one or more hstore columns.
type Record struct {
	id      Identifier
	columns map[string]map[string]string
}

// PrimaryKey implements hstore.RecordHandle.
func (r *Record) PrimaryKey() string {
	return r.id.String()
}

// ReferenceID implements hstore.Referenceable.
func (r *Record) ReferenceID() string {
	return r.id.String()
}

func (r *Record) Table() string {
	return r.id.Table()
}

// Column returns a copy of the named hstore column.
func (r *Record) Column(name string) map[string]string {
	kv := make(map[string]string, len(r.columns[name]))
	for k, v := range r.columns[name] {
		kv[k] = v
	}
	return kv
}

type recordMap struct {
	sync.RWMutex
	m map[string]*Record
}

type shardedRecordMap []*recordMap

func newShardedRecordMap(shardsNum int) shardedRecordMap {
	shards := make(shardedRecordMap, shardsNum)
	for i := range shards {
		shards[i] = &recordMap{m: make(map[string]*Record)}
	}
	return shards
}

func (srm shardedRecordMap) getShard(id string) *recordMap {
	hash := xxhash.Sum64String(id)
	return srm[hash%uint64(len(srm))]
}

type Store struct {
	shards shardedRecordMap

	mu  sync.Mutex
	ids *btree.BTree
}

func New() *Store {
	return &Store{
		shards: newShardedRecordMap(recordShards),
		ids:    btree.New(byIdentifier),
	}
}

func byIdentifier(a, b interface{}) bool {
	r1, r2 := a.(*Record), b.(*Record)
	return r1.id.Less(r2.id)
}

// Put stores a new record in the given table and returns it with a
// generated identifier.
func (s *Store) Put(table string, columns map[string]map[string]string) *Record {
	cp := make(map[string]map[string]string, len(columns))
	for col, kv := range columns {
		cp[col] = make(map[string]string, len(kv))
		for k, v := range kv {
			cp[col][k] = v
		}
	}

	rec := &Record{
		id:      NewIdentifier(table, uuid.NewString()),
		columns: cp,
	}

	shard := s.shards.getShard(rec.id.String())
	shard.Lock()
	shard.m[rec.id.String()] = rec
	shard.Unlock()

	s.mu.Lock()
	s.ids.Set(rec)
	s.mu.Unlock()

	return rec
}

func (s *Store) Get(id string) (*Record, error) {
	shard := s.shards.getShard(id)
	shard.RLock()
	defer shard.RUnlock()

	rec, ok := shard.m[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "record %s does not exist", id)
	}

	return rec, nil
}

func (s *Store) Delete(id string) error {
	shard := s.shards.getShard(id)
	shard.Lock()
	rec, ok := shard.m[id]
	if ok {
		delete(shard.m, id)
	}
	shard.Unlock()

	if !ok {
		return errors.Wrapf(ErrNotFound, "record %s does not exist", id)
	}

	s.mu.Lock()
	s.ids.Delete(rec)
	s.mu.Unlock()

	return nil
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ids.Len()
}

// Scan walks records in identifier order, calling fn for every record
// matching the colon separated pattern, "*" matching any segment. The
// walk stops when fn returns false.
func (s *Store) Scan(pattern string, fn func(*Record) bool) {
	patterns := strings.Split(pattern, ":")

	s.mu.Lock()
	matched := make([]*Record, 0)
	s.ids.Ascend(nil, func(item interface{}) bool {
		rec := item.(*Record)
		if rec.id.Match(patterns) {
			matched = append(matched, rec)
		}
		return true
	})
	s.mu.Unlock()

	for _, rec := range matched {
		if !fn(rec) {
			return
		}
	}
}

// ResolveIdentifier implements hstore.ReferenceResolver.
func (s *Store) ResolveIdentifier(id string) (interface{}, error) {
	rec, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// RemoveKeys implements the partial update hook of hstore.Remover: it
// deletes the given keys from a record's hstore column and leaves the
// rest of the stored value untouched.
func (s *Store) RemoveKeys(recordID, column string, keys []string) error {
	shard := s.shards.getShard(recordID)
	shard.Lock()
	defer shard.Unlock()

	rec, ok := shard.m[recordID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "record %s does not exist", recordID)
	}

	kv, ok := rec.columns[column]
	if !ok {
		return errors.Wrapf(ErrNotFound, "record %s has no column %s", recordID, column)
	}

	for _, k := range keys {
		delete(kv, k)
	}

	return nil
}

// EscapeText implements hstore.Connection with postgres style quote
// doubling.
func (s *Store) EscapeText(text string) string {
	return strings.ReplaceAll(text, "'", "''")
}
