package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/routestate/internal/errors"
	"github.com/vango-dev/routestate/pkg/paramstate"
	"github.com/vango-dev/routestate/pkg/routeconfig"
)

// View is a read cursor at one level of the router's state tree, addressed
// by the static keys leading to it.
type View struct {
	r     *Router
	keys  []string
	state *paramstate.State
}

// View returns the view of the root state.
func (r *Router) View() *View {
	return &View{r: r, state: r.state.Root()}
}

// Lookup returns the view reached by following keys from the root.
func (r *Router) Lookup(keys ...string) (*View, bool) {
	v := r.View()
	for _, k := range keys {
		if v = v.Sub(k); v == nil {
			return nil, false
		}
	}
	return v, true
}

// Sub returns the view of child key, or nil if this level has no such key.
func (v *View) Sub(key string) *View {
	st, ok := v.state.Child(key)
	if !ok {
		return nil
	}
	keys := make([]string, len(v.keys)+1)
	copy(keys, v.keys)
	keys[len(v.keys)] = key
	return &View{r: v.r, keys: keys, state: st}
}

// Keys returns the static keys leading to this view.
func (v *View) Keys() []string {
	return append([]string(nil), v.keys...)
}

// State returns the state level this view reads.
func (v *View) State() *paramstate.State { return v.state }

// Get returns the child key the current path descends into from this
// level, or "" if the path ends here or does not pass through this view.
func (v *View) Get() string {
	v.r.mu.RLock()
	defer v.r.mu.RUnlock()
	return v.r.active[v.state]
}

// Param returns the value of param name at this level; ok is false when it
// is unset or does not exist.
func (v *View) Param(name string) (routeconfig.Value, bool) {
	v.r.mu.RLock()
	defer v.r.mu.RUnlock()
	return v.state.Value(name)
}

// Value returns the value of the first param at this level.
func (v *View) Value() (routeconfig.Value, bool) {
	v.r.mu.RLock()
	defer v.r.mu.RUnlock()
	slots := v.state.Slots()
	if len(slots) == 0 {
		return nil, false
	}
	return slots[0].Get()
}

// Snapshot returns a JSON-friendly copy of the state below this view.
func (v *View) Snapshot() map[string]any {
	v.r.mu.RLock()
	defer v.r.mu.RUnlock()
	return v.state.Snapshot()
}

// Active reports whether the current path passes through this view.
func (v *View) Active() bool {
	v.r.mu.RLock()
	defer v.r.mu.RUnlock()
	if v.r.location.Get().Template == "" {
		return false
	}
	st := v.r.state.Root()
	for _, k := range v.keys {
		if v.r.active[st] != k {
			return false
		}
		st, _ = st.Child(k)
	}
	return true
}

// Href builds the path that leads to this view, using the current values
// of the params on the way, and continues it with segments. A segment in a
// static position is a branch key (string); a segment in a param position
// is a value of the param's type. The result must be an endpoint.
//
// The path stops at this view's key: params held at the view's own level
// are not filled from the current state, even when set, and must be passed
// as segments. After navigating to /docs/fr, the docs view's Href() is
// "/docs" and Href("fr") is "/docs/fr".
func (v *View) Href(segments ...any) (string, error) {
	v.r.mu.RLock()
	defer v.r.mu.RUnlock()

	var (
		path     []string
		template []string
		node     = v.r.config
		st       = v.r.state.Root()
	)

	for _, key := range v.keys {
		for {
			p, ok := node.(*routeconfig.Param)
			if !ok {
				break
			}
			val, set := st.Value(p.Name)
			if !set {
				return "", errors.New("E201").
					At(templatePath(append(template, ":"+p.Name))).
					WithDetailf("param %q has no value", p.Name)
			}
			seg, err := formatSegment(p, val, template)
			if err != nil {
				return "", err
			}
			path = append(path, seg)
			template = append(template, ":"+p.Name)
			node = p.Child
		}
		b, _ := node.(routeconfig.Branch)
		node, _ = b.Get(key)
		st, _ = st.Child(key)
		path = append(path, key)
		template = append(template, key)
	}

	for _, s := range segments {
		switch n := node.(type) {
		case routeconfig.Branch:
			key, ok := s.(string)
			if !ok {
				return "", errors.New("E203").
					At(templatePath(template)).
					WithDetailf("expected a branch key, got %T", s)
			}
			child, found := n.Get(key)
			if !found {
				return "", errors.New("E203").
					At(templatePath(template)).
					WithDetailf("no branch %q", key).
					WithSuggestion("Known keys: " + strings.Join(n.Keys(), ", "))
			}
			path = append(path, key)
			template = append(template, key)
			node = child
		case *routeconfig.Param:
			seg, err := formatSegment(n, s, template)
			if err != nil {
				return "", err
			}
			path = append(path, seg)
			template = append(template, ":"+n.Name)
			node = n.Child
		default:
			return "", errors.New("E203").
				At(templatePath(template)).
				WithDetailf("unexpected segment %v after a leaf", s)
		}
	}

	t := templatePath(template)
	if !v.r.endpoints.Contains(t) {
		return "", errors.New("E200").At(t)
	}
	return joinSegments(path), nil
}

// Navigate navigates to the path built by Href(segments...).
func (v *View) Navigate(segments ...any) error {
	href, err := v.Href(segments...)
	if err != nil {
		return err
	}
	return v.r.Navigate(href)
}

// formatSegment renders v as the segment of param p, which follows the
// template segments in template.
func formatSegment(p *routeconfig.Param, v routeconfig.Value, template []string) (string, error) {
	seg, err := p.Def.Type.Format(v)
	if err == nil && (seg == "" || strings.Contains(seg, "/")) {
		err = fmt.Errorf("segment %q is empty or contains a slash", seg)
	}
	if err != nil {
		return "", errors.New("E201").
			At(templatePath(append(template[:len(template):len(template)], ":"+p.Name))).
			Wrap(err)
	}
	return seg, nil
}

func templatePath(segments []string) string {
	return "/" + strings.Join(segments, "/")
}
