package routeconfig

import (
	"strings"
	"unicode"

	"github.com/vango-dev/routestate/internal/errors"
)

// ErrMalformed matches every configuration error returned by this package,
// by Validate and by the decoders.
var ErrMalformed = errors.ErrConfig

// Validate checks the structural rules shared by the endpoint compiler and
// the param-state builder. The returned error is a *errors.RouteError whose
// Location is the path prefix of the offending node.
func Validate(root Node) error {
	if root == nil {
		return errors.New("E100").At("/")
	}
	return validateNode(root, "", newLevel())
}

// level records the names merged into one param-state object.
type level map[string]string

func newLevel() level { return make(level) }

// claim registers name at this level; kind is "param" or "key".
func (l level) claim(name, kind, prefix string) error {
	if prev, ok := l[name]; ok {
		return errors.New("E107").
			At(location(prefix)).
			WithDetailf("%q is used both as %s and as %s at the same state level", name, prev, kind)
	}
	l[name] = kind
	return nil
}

func validateNode(n Node, prefix string, lvl level) error {
	switch v := n.(type) {
	case Branch:
		seen := make(map[string]bool, len(v))
		for _, e := range v {
			if err := checkName(e.Key, prefix); err != nil {
				return err
			}
			if seen[e.Key] {
				return errors.New("E105").
					At(location(prefix)).
					WithDetailf("key %q appears more than once", e.Key)
			}
			seen[e.Key] = true
			if err := lvl.claim(e.Key, "key", prefix); err != nil {
				return err
			}
			if e.Node == nil {
				continue
			}
			if err := validateNode(e.Node, prefix+"/"+e.Key, newLevel()); err != nil {
				return err
			}
		}
		return nil

	case *Param:
		if v == nil {
			return errors.New("E103").At(location(prefix))
		}
		if err := checkName(v.Name, prefix); err != nil {
			return err
		}
		if !v.Def.Type.Valid() {
			return errors.New("E106").
				At(location(prefix + "/:" + v.Name)).
				WithDetailf("param %q declares type %q", v.Name, string(v.Def.Type))
		}
		if err := lvl.claim(v.Name, "param", prefix); err != nil {
			return err
		}
		if v.Child == nil {
			return nil
		}
		// Param children merge into the same state level.
		return validateNode(v.Child, prefix+"/:"+v.Name, lvl)
	}

	return errors.New("E103").At(location(prefix))
}

// checkName validates a branch key or param name.
func checkName(name, prefix string) error {
	if name == "" {
		return errors.New("E104").At(location(prefix)).WithSuggestion("Give every branch key and param a name")
	}
	if name == "." || name == ".." {
		return errors.New("E104").
			At(location(prefix)).
			WithDetailf("%q is a relative path segment", name)
	}
	// Names appear verbatim in endpoint templates and HTTP route patterns.
	if strings.ContainsAny(name, `/\:*?#%{}`) || strings.IndexFunc(name, spaceOrControl) >= 0 {
		return errors.New("E104").
			At(location(prefix)).
			WithDetailf("%q may not contain '/', '\\', ':', '*', '?', '#', '%%', '{', '}', whitespace or control characters", name)
	}
	return nil
}

func spaceOrControl(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

// location renders a prefix for error messages; the root is "/".
func location(prefix string) string {
	if prefix == "" {
		return "/"
	}
	return prefix
}

// Walk visits every node depth-first with its path prefix.
// Returning false from fn skips the node's children.
func Walk(root Node, fn func(prefix string, n Node) bool) {
	walk(root, "", fn)
}

func walk(n Node, prefix string, fn func(string, Node) bool) {
	if !fn(prefix, n) {
		return
	}
	switch v := n.(type) {
	case Branch:
		for _, e := range v {
			walk(e.Node, prefix+"/"+e.Key, fn)
		}
	case *Param:
		if v != nil && v.Child != nil {
			walk(v.Child, prefix+"/:"+v.Name, fn)
		}
	}
}
