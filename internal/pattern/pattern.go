// Package pattern implements glob-based exclusion of dotted setting keys,
// with negation override.
//
// Patterns use doublestar glob syntax. Keys are dot-segmented strings, not
// paths, so `*` freely crosses dot boundaries: `editor*` matches
// `editor.fontSize`. A pattern prefixed with `!` is a negation pattern; if
// any negation pattern matches a key, the key is never excluded, no matter
// how many exclusion patterns also match it.
package pattern

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/wssync/wssync/pkg/types"
)

// Set is a compiled exclude-pattern set, partitioned into exclusion and
// negation patterns at construction time. Order within a partition does not
// affect the outcome.
type Set struct {
	exclude []string
	negate  []string
}

// NewSet builds a Set from raw patterns. Patterns starting with `!` are
// stripped of the prefix and placed in the negation partition.
func NewSet(patterns []string) *Set {
	s := &Set{}
	for _, p := range patterns {
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			s.negate = append(s.negate, rest)
			continue
		}
		s.exclude = append(s.exclude, p)
	}
	return s
}

// Excluded reports whether key is excluded by the set. An empty set excludes
// nothing.
func (s *Set) Excluded(key string) bool {
	for _, p := range s.negate {
		if match(p, key) {
			return false
		}
	}
	for _, p := range s.exclude {
		if match(p, key) {
			return true
		}
	}
	return false
}

// Filter returns a new map holding only the top-level entries whose key is
// not excluded. Values are passed through unmodified; nothing is filtered
// inside nested values.
func (s *Set) Filter(m types.SettingsMap) types.SettingsMap {
	out := make(types.SettingsMap, len(m))
	for key, value := range m {
		if s.Excluded(key) {
			continue
		}
		out[key] = value
	}
	return out
}

// match evaluates a single glob against a key. An invalid pattern matches
// nothing.
func match(p, key string) bool {
	ok, err := doublestar.Match(p, key)
	return err == nil && ok
}
