package dom

import (
	"sort"
	"strings"
)

const (
	UserSelect       = "user-select"
	WebkitUserSelect = "-webkit-user-select"
)

// Style holds a node's inline style declarations. The zero value is empty
// and ready to use.
type Style struct {
	props map[string]string
}

// Get returns the inline value of name, or "" when it is not set.
func (s *Style) Get(name string) string {
	return s.props[name]
}

// Set assigns an inline value. An empty value removes the declaration.
func (s *Style) Set(name, value string) {
	if value == "" {
		delete(s.props, name)
		return
	}
	if s.props == nil {
		s.props = map[string]string{}
	}
	s.props[name] = value
}

func (s *Style) Len() int {
	return len(s.props)
}

// String renders the declarations as a css text, sorted by property.
func (s *Style) String() string {
	names := make([]string, 0, len(s.props))
	for name := range s.props {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(s.props[name])
		b.WriteString(";")
	}
	return b.String()
}
