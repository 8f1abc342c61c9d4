package endpoint

import (
	"github.com/vango-dev/routestate/pkg/routeconfig"
)

// Root is the template of the application root.
const Root = "/"

// Set is an ordered sequence of distinct path templates.
type Set struct {
	templates []string
	index     map[string]int
}

// Compile validates root and compiles it into an endpoint set.
// Compile is pure: it may be called concurrently on the same configuration.
func Compile(root routeconfig.Node) (Set, error) {
	if err := routeconfig.Validate(root); err != nil {
		return Set{}, err
	}

	c := &compiler{set: newSet()}
	c.set.add(Root)
	c.compile(root, "")
	return c.set, nil
}

// MustCompile is like Compile but panics on error.
// It is intended for configurations declared in code.
func MustCompile(root routeconfig.Node) Set {
	s, err := Compile(root)
	if err != nil {
		panic(err)
	}
	return s
}

type compiler struct {
	set Set
}

func (c *compiler) record(prefix string) {
	// The empty prefix is the root, already seeded as "/".
	if prefix == "" {
		return
	}
	c.set.add(prefix)
}

func (c *compiler) compile(n routeconfig.Node, prefix string) {
	switch v := n.(type) {
	case nil:
		// An undefined entry compiles like an empty branch.
		c.record(prefix)

	case routeconfig.Branch:
		if v.Len() == 0 || !v.HasParamChild() {
			c.record(prefix)
		}
		for _, e := range v {
			c.compile(e.Node, prefix+"/"+e.Key)
		}

	case *routeconfig.Param:
		if !v.Def.Required {
			c.record(prefix)
		}
		prefix += "/:" + v.Name
		if !routeconfig.IsParam(v.Child) {
			c.record(prefix)
		}
		if v.Child != nil {
			c.compile(v.Child, prefix)
		}
	}
}

func newSet() Set {
	return Set{index: make(map[string]int)}
}

// add appends t unless it is already present.
func (s *Set) add(t string) {
	if _, ok := s.index[t]; ok {
		return
	}
	s.index[t] = len(s.templates)
	s.templates = append(s.templates, t)
}

// Templates returns a copy of the templates in compilation order.
func (s Set) Templates() []string {
	out := make([]string, len(s.templates))
	copy(out, s.templates)
	return out
}

// Len returns the number of templates.
func (s Set) Len() int { return len(s.templates) }

// At returns the i-th template.
func (s Set) At(i int) string { return s.templates[i] }

// Contains reports whether t is a compiled template.
func (s Set) Contains(t string) bool {
	_, ok := s.index[t]
	return ok
}

// Index returns the position of t, or -1.
func (s Set) Index(t string) int {
	if i, ok := s.index[t]; ok {
		return i
	}
	return -1
}

// All calls fn for each template in order until fn returns false.
func (s Set) All(fn func(i int, t string) bool) {
	for i, t := range s.templates {
		if !fn(i, t) {
			return
		}
	}
}
