package router

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/vango-dev/routestate/internal/errors"
	"github.com/vango-dev/routestate/pkg/endpoint"
	"github.com/vango-dev/routestate/pkg/paramstate"
	"github.com/vango-dev/routestate/pkg/reactive"
	"github.com/vango-dev/routestate/pkg/routeconfig"
)

// Location is the router's current position.
type Location struct {
	// Path is the canonical concrete path, e.g. "/utilisateurs/42".
	Path string `json:"path"`

	// Template is the matched endpoint, e.g. "/utilisateurs/:utiId".
	Template string `json:"template"`

	// Params holds the raw segment of every param on the path.
	Params map[string]string `json:"params,omitempty"`
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for navigation events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMiddleware appends navigation middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Router) {
		r.middleware = append(r.middleware, mw...)
	}
}

// Router holds the endpoints, the param-state tree and the current location
// derived from one route configuration.
//
// Router is safe for concurrent use. Navigate holds the write lock while it
// updates the state and notifies listeners after releasing it; readers see
// either the state before or after a navigation, never a mix.
type Router struct {
	mu sync.RWMutex

	config    routeconfig.Node
	endpoints endpoint.Set
	state     *paramstate.Tree
	tree      *matchNode

	location *reactive.Signal[Location]

	// active maps a state to the child key the current path descends into.
	active map[*paramstate.State]string

	middleware []Middleware
	logger     *slog.Logger
}

// New validates root, compiles its endpoints and builds its state tree.
func New(root routeconfig.Node, opts ...Option) (*Router, error) {
	endpoints, err := endpoint.Compile(root)
	if err != nil {
		return nil, err
	}
	state, err := paramstate.Build(root)
	if err != nil {
		return nil, err
	}

	r := &Router{
		config:    root,
		endpoints: endpoints,
		state:     state,
		tree:      &matchNode{},
		location:  reactive.NewSignal(Location{}),
		active:    make(map[*paramstate.State]string),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	endpoints.All(func(_ int, t string) bool {
		r.tree.insert(t)
		return true
	})

	r.logger.Debug("router ready", "endpoints", endpoints.Len())
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(root routeconfig.Node, opts ...Option) *Router {
	r, err := New(root, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Config returns the route configuration the router was built from.
func (r *Router) Config() routeconfig.Node { return r.config }

// Endpoints returns the compiled endpoint set.
func (r *Router) Endpoints() endpoint.Set { return r.endpoints }

// State returns the param-state tree. Callers must not write to its slots;
// use Navigate.
func (r *Router) State() *paramstate.Tree { return r.state }

// Location returns the current location. It is the zero Location before
// the first navigation.
func (r *Router) Location() Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.location.Get()
}

// Path returns the current concrete path.
func (r *Router) Path() string { return r.Location().Path }

// Template returns the endpoint of the current path.
func (r *Router) Template() string { return r.Location().Template }

// Snapshot returns the current location together with a JSON-friendly copy
// of the state tree, read atomically.
func (r *Router) Snapshot() (Location, map[string]any) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.location.Get(), r.state.Snapshot()
}

// Subscribe registers l to be notified after every navigation that
// changed the location.
func (r *Router) Subscribe(l reactive.Listener) (unsubscribe func()) {
	return r.location.Subscribe(l)
}

// SubscribeFunc calls fn with the new location after every navigation that
// changed it.
func (r *Router) SubscribeFunc(fn func(Location)) (unsubscribe func()) {
	return r.Subscribe(reactive.ListenerFunc(func() {
		fn(r.Location())
	}))
}

// Subscribers returns the number of location listeners.
func (r *Router) Subscribers() int {
	return r.location.Subscribers()
}

// Match resolves path to an endpoint template and the raw param segments
// without navigating. When two params on the path share a name the later
// one wins in the map.
func (r *Router) Match(path string) (template string, params map[string]string, ok bool) {
	segments, err := canonicalize(path)
	if err != nil {
		return "", nil, false
	}
	template, values, ok := r.tree.match(segments, nil)
	if !ok {
		return "", nil, false
	}
	return template, paramMap(template, values), true
}

// Resolve reports where a navigation to path would lead and the state
// snapshot it would produce, without changing the router.
func (r *Router) Resolve(path string) (Location, map[string]any, error) {
	res, err := r.resolve(path)
	if err != nil {
		return Location{}, nil, err
	}
	return res.location, preview(r.state.Root(), res.values), nil
}

// preview renders st like State.Snapshot with the slot values of values.
func preview(st *paramstate.State, values map[*paramstate.Slot]routeconfig.Value) map[string]any {
	out := make(map[string]any)
	for _, sl := range st.Slots() {
		out[sl.Name()] = values[sl]
	}
	for _, k := range st.Keys() {
		child, _ := st.Child(k)
		out[k] = preview(child, values)
	}
	return out
}

// Navigate moves the router to path.
func (r *Router) Navigate(path string) error {
	return r.NavigateContext(context.Background(), path)
}

// NavigateContext moves the router to path. Every param on the path is set
// to its parsed value and every other param is unset, in one batch; the
// location listeners and the changed slots' listeners are notified once
// the state is committed. ctx is passed to middleware.
func (r *Router) NavigateContext(ctx context.Context, path string) error {
	nav := &Navigation{Path: path, From: r.Location()}
	err := compose(ctx, nav, r.middleware, func() error {
		return r.navigate(nav)
	})
	if err != nil {
		r.logger.Warn("navigation failed", "path", path, "error", err)
	}
	return err
}

func (r *Router) navigate(nav *Navigation) error {
	res, err := r.resolve(nav.Path)
	if err != nil {
		return err
	}
	nav.To = res.location

	b := reactive.NewBatch()
	r.mu.Lock()
	r.state.Walk(func(_ []string, st *paramstate.State) {
		for _, sl := range st.Slots() {
			sl.Set(b, res.values[sl])
		}
	})
	r.active = res.active
	r.location.SetIn(b, res.location)
	r.mu.Unlock()

	notified := b.Commit()
	r.logger.Debug("navigate",
		"path", res.location.Path,
		"template", res.location.Template,
		"notified", notified,
	)
	return nil
}

// resolution is a matched navigation before it is committed.
type resolution struct {
	location Location
	values   map[*paramstate.Slot]routeconfig.Value
	active   map[*paramstate.State]string
}

// resolve matches path and walks the configuration along the template,
// parsing each param segment with its declared type.
func (r *Router) resolve(path string) (*resolution, error) {
	segments, err := canonicalize(path)
	if err != nil {
		return nil, err
	}
	concrete := joinSegments(segments)

	template, values, ok := r.tree.match(segments, nil)
	if !ok {
		return nil, errors.New("E200").At(concrete)
	}

	res := &resolution{
		location: Location{
			Path:     concrete,
			Template: template,
			Params:   paramMap(template, values),
		},
		values: make(map[*paramstate.Slot]routeconfig.Value),
		active: make(map[*paramstate.State]string),
	}

	node := r.config
	st := r.state.Root()
	next := 0
	for _, seg := range splitTemplate(template) {
		switch n := node.(type) {
		case routeconfig.Branch:
			child, _ := n.Get(seg)
			childState, _ := st.Child(seg)
			res.active[st] = seg
			node, st = child, childState
		case *routeconfig.Param:
			raw := values[next]
			next++
			v, err := n.Def.Type.Parse(raw)
			if err != nil {
				return nil, errors.New("E201").
					At(concrete).
					WithDetailf("param %q of %s: %v", n.Name, template, err).
					Wrap(err)
			}
			slot, _ := st.Slot(n.Name)
			res.values[slot] = v
			node = n.Child
		}
	}
	return res, nil
}

// paramMap pairs the param names of template with positional values.
func paramMap(template string, values []string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	params := make(map[string]string, len(values))
	i := 0
	for _, seg := range splitTemplate(template) {
		if name, ok := strings.CutPrefix(seg, ":"); ok && i < len(values) {
			params[name] = values[i]
			i++
		}
	}
	return params
}
