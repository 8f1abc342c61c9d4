package routeconfig

// Node is a route configuration node: a Branch or a *Param.
// A nil Node inside a Branch stands for an undefined (leaf) entry.
type Node interface {
	node()
}

// Entry is one named child of a Branch.
type Entry struct {
	Key  string
	Node Node
}

// Branch maps static segment names to child nodes.
// Entries keep declaration order so compilation output is deterministic.
type Branch []Entry

func (Branch) node() {}

// Len returns the number of entries.
func (b Branch) Len() int { return len(b) }

// Keys returns the entry keys in declaration order.
func (b Branch) Keys() []string {
	keys := make([]string, len(b))
	for i, e := range b {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the node stored under key.
func (b Branch) Get(key string) (Node, bool) {
	for _, e := range b {
		if e.Key == key {
			return e.Node, true
		}
	}
	return nil, false
}

// HasParamChild reports whether any immediate value is a Param.
// Only one level is inspected.
func (b Branch) HasParamChild() bool {
	for _, e := range b {
		if _, ok := e.Node.(*Param); ok {
			return true
		}
	}
	return false
}

// Param introduces one dynamic path segment.
type Param struct {
	// Name is the segment identifier; it becomes ":Name" in a template.
	Name string

	// Def carries the required flag and value type.
	Def ParamDef

	// Child continues the tree: nil, another *Param or a Branch.
	Child Node
}

func (*Param) node() {}

// ParamDef is the metadata attached to a Param.
type ParamDef struct {
	Required bool      `json:"required" yaml:"required"`
	Type     ParamType `json:"type,omitempty" yaml:"type,omitempty"`
}

// B builds a Branch from entries.
func B(entries ...Entry) Branch {
	if entries == nil {
		return Branch{}
	}
	return Branch(entries)
}

// E builds a Branch entry.
func E(key string, n Node) Entry {
	return Entry{Key: key, Node: n}
}

// P builds a Param.
func P(name string, def ParamDef, child Node) *Param {
	return &Param{Name: name, Def: def, Child: child}
}

// Required returns a definition for a required param of type t.
func Required(t ParamType) ParamDef {
	return ParamDef{Required: true, Type: t}
}

// Optional returns a definition for an optional param of type t.
func Optional(t ParamType) ParamDef {
	return ParamDef{Required: false, Type: t}
}

// IsParam reports whether n is a Param.
func IsParam(n Node) bool {
	_, ok := n.(*Param)
	return ok
}
