package memstore

import (
	"strconv"
	"strings"
)

// Identifier is the storage form of a record reference, a colon separated
// path whose first segment is the table name, e.g. "users:42" or
// "blog:post:7f3a".
type Identifier struct {
	id       string
	segments []string
}

func NewIdentifier(table, id string) Identifier {
	return ParseIdentifier(table + ":" + id)
}

func ParseIdentifier(id string) Identifier {
	return Identifier{
		id:       id,
		segments: strings.Split(id, ":"),
	}
}

func (ident *Identifier) Table() string {
	return ident.segments[0]
}

func (ident *Identifier) String() string {
	return ident.id
}

func (ident *Identifier) Equal(other *Identifier) bool {
	return ident.id == other.id
}

// Match reports whether the identifier matches the segment patterns,
// where "*" matches any segment.
func (ident *Identifier) Match(patterns []string) bool {
	if len(patterns) == 0 || (len(patterns) == 1 && patterns[0] == "*") {
		return true
	}

	for i := 0; i < len(patterns); i++ {
		if i > len(ident.segments)-1 {
			return patterns[i] == "*"
		}

		if patterns[i] != ident.segments[i] && patterns[i] != "*" {
			return false
		}
	}

	return true
}

// Less orders identifiers segment by segment, comparing numeric segments
// as integers so that "post:9" sorts before "post:10".
func (ident *Identifier) Less(other Identifier) bool {
	l := smallestSegmentLen(ident.segments, other.segments)

	prevEq := false
	for i := 0; i < l; i++ {
		bothInts, a, b := segmentsAsInts(ident.segments[i], other.segments[i])
		if bothInts {
			if a != b {
				return a < b
			}

			prevEq = true
			continue
		}

		if ident.segments[i] != other.segments[i] {
			return ident.segments[i] < other.segments[i]
		}

		prevEq = true
	}

	return prevEq && len(other.segments) > len(ident.segments)
}

func smallestSegmentLen(a, b []string) int {
	if len(a) > len(b) {
		return len(b)
	}

	return len(a)
}

func segmentsAsInts(a, b string) (bool, int, int) {
	if a == "" || b == "" || a[0] == '0' || b[0] == '0' {
		return false, 0, 0
	}

	an, err := strconv.Atoi(a)
	if err != nil {
		return false, 0, 0
	}

	bn, err := strconv.Atoi(b)
	if err != nil {
		return false, 0, 0
	}

	return true, an, bn
}
