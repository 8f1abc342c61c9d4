package router

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/vango-dev/routestate/internal/routegen"
	"github.com/vango-dev/routestate/pkg/paramstate"
	"github.com/vango-dev/routestate/pkg/routeconfig"
)

// samples maps each generated param type to a segment it parses.
var samples = map[routeconfig.ParamType]string{
	routeconfig.TypeString: "s",
	routeconfig.TypeInt:    "-3",
	routeconfig.TypeUint:   "4",
	routeconfig.TypeBool:   "true",
}

// concrete fills every param of template with a sample value by walking
// the configuration alongside it.
func concrete(root routeconfig.Node, template string) string {
	node := root
	var out []string
	for _, seg := range splitTemplate(template) {
		switch n := node.(type) {
		case routeconfig.Branch:
			node, _ = n.Get(seg)
			out = append(out, seg)
		case *routeconfig.Param:
			t := n.Def.Type
			if t == "" {
				t = routeconfig.TypeString
			}
			out = append(out, samples[t])
			node = n.Child
		}
	}
	return "/" + strings.Join(out, "/")
}

func TestRouterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2468)
	parameters.MinSuccessfulTests = 150

	properties := gopter.NewProperties(parameters)

	properties.Property("every endpoint is reachable by navigation", prop.ForAll(
		func(tree routegen.Tree) bool {
			r, err := New(tree.Root)
			if err != nil {
				return false
			}
			ok := true
			r.Endpoints().All(func(_ int, tpl string) bool {
				if err := r.Navigate(concrete(tree.Root, tpl)); err != nil || r.Template() != tpl {
					ok = false
				}
				return ok
			})
			return ok
		},
		routegen.Config(4, 3),
	))

	properties.Property("navigation sets exactly the params of the template", prop.ForAll(
		func(tree routegen.Tree) bool {
			r, err := New(tree.Root)
			if err != nil {
				return false
			}
			ok := true
			r.Endpoints().All(func(_ int, tpl string) bool {
				if r.Navigate(concrete(tree.Root, tpl)) != nil {
					ok = false
					return false
				}
				want := make(map[string]bool)
				for _, seg := range splitTemplate(tpl) {
					if name, isParam := strings.CutPrefix(seg, ":"); isParam {
						want[name] = true
					}
				}
				r.State().Walk(func(_ []string, st *paramstate.State) {
					for _, sl := range st.Slots() {
						if _, isSet := sl.Get(); isSet != want[sl.Name()] {
							ok = false
						}
					}
				})
				return ok
			})
			return ok
		},
		routegen.Config(4, 3),
	))

	properties.Property("endpoint names equal slot names and child keys", prop.ForAll(
		func(tree routegen.Tree) bool {
			r, err := New(tree.Root)
			if err != nil {
				return false
			}
			fromEndpoints := make(map[string]bool)
			r.Endpoints().All(func(_ int, tpl string) bool {
				for _, seg := range splitTemplate(tpl) {
					fromEndpoints[strings.TrimPrefix(seg, ":")] = true
				}
				return true
			})
			fromState := make(map[string]bool)
			for _, n := range r.State().SlotNames() {
				fromState[n] = true
			}
			for _, k := range r.State().ChildKeys() {
				fromState[k] = true
			}
			return equalSets(fromEndpoints, fromState)
		},
		routegen.Config(4, 3),
	))

	properties.TestingRun(t)
}

func equalSets(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
