package model

import (
	"encoding/json"
	"sort"
)

// Set is an unordered collection of distinct strings. It is used for every id and attribute
// collection of the domain: only membership is meaningful.
type Set map[string]struct{}

// NewSet builds a set holding values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v and reports whether the set changed.
func (s *Set) Add(v string) bool {
	if *s == nil {
		*s = Set{}
	}
	if _, ok := (*s)[v]; ok {
		return false
	}
	(*s)[v] = struct{}{}
	return true
}

// Remove deletes v and reports whether the set changed.
func (s Set) Remove(v string) bool {
	if _, ok := s[v]; !ok {
		return false
	}
	delete(s, v)
	return true
}

// Has reports whether v is a member.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// HasAll reports whether every element of values is a member.
func (s Set) HasAll(values ...string) bool {
	for _, v := range values {
		if !s.Has(v) {
			return false
		}
	}
	return true
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Values returns the members in lexical order. It never returns nil.
func (s Set) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	return NewSet(s.Values()...)
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *Set) UnmarshalJSON(b []byte) error {
	var values []string
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	*s = NewSet(values...)
	return nil
}
