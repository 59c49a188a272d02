package globequiz

import (
	"slices"
	"strings"
)

// CountrySet is an immutable, name-indexed collection of countries. A nil
// *CountrySet behaves as an empty set.
type CountrySet struct {
	list   []Country
	byName map[string]int
	folded map[string]int
}

// NewCountrySet indexes countries by name. When names repeat the first one
// wins and the rest are dropped.
func NewCountrySet(countries []Country) *CountrySet {
	s := &CountrySet{
		list:   make([]Country, 0, len(countries)),
		byName: make(map[string]int, len(countries)),
		folded: make(map[string]int, len(countries)),
	}
	for _, c := range countries {
		if c.Name == "" {
			continue
		}
		if _, dup := s.byName[c.Name]; dup {
			continue
		}
		i := len(s.list)
		s.list = append(s.list, c)
		s.byName[c.Name] = i
		if _, ok := s.folded[strings.ToLower(c.Name)]; !ok {
			s.folded[strings.ToLower(c.Name)] = i
		}
	}
	return s
}

func (s *CountrySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.list)
}

// All returns every loaded country in load order.
func (s *CountrySet) All() []Country {
	if s == nil {
		return nil
	}
	return slices.Clone(s.list)
}

// Lookup resolves a player-entered name: exact match first, then a
// case-insensitive match on the trimmed input.
func (s *CountrySet) Lookup(name string) (Country, bool) {
	if s == nil {
		return Country{}, false
	}
	if i, ok := s.byName[name]; ok {
		return s.list[i], true
	}
	if i, ok := s.folded[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s.list[i], true
	}
	return Country{}, false
}

// Eligible returns the countries that may be drawn as a target.
func (s *CountrySet) Eligible() []Country {
	if s == nil {
		return nil
	}
	out := make([]Country, 0, len(s.list))
	for _, c := range s.list {
		if c.ISOCode != AntarcticaISO {
			out = append(out, c)
		}
	}
	return out
}

// Names returns every loaded name, sorted.
func (s *CountrySet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.list))
	for i, c := range s.list {
		names[i] = c.Name
	}
	slices.Sort(names)
	return names
}
