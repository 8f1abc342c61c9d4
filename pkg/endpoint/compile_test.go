package endpoint

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/vango-dev/routestate/pkg/routeconfig"
)

var (
	b   = routeconfig.B
	e   = routeconfig.E
	p   = routeconfig.P
	req = routeconfig.Required(routeconfig.TypeInt)
	opt = routeconfig.Optional(routeconfig.TypeString)
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name string
		root routeconfig.Node
		want []string
	}{
		{
			name: "empty root branch",
			root: b(),
			want: []string{"/"},
		},
		{
			name: "empty nested branch is a leaf",
			root: b(e("about", b())),
			want: []string{"/", "/about"},
		},
		{
			name: "undefined entry is a leaf",
			root: b(e("about", nil)),
			want: []string{"/", "/about"},
		},
		{
			name: "optional param without children",
			root: b(e("search", p("q", opt, nil))),
			want: []string{"/", "/search", "/search/:q"},
		},
		{
			name: "required param without children",
			root: b(e("users", p("id", req, nil))),
			want: []string{"/", "/users/:id"},
		},
		{
			name: "required param with empty branch child",
			root: b(e("users", p("id", req, b()))),
			want: []string{"/", "/users/:id"},
		},
		{
			name: "end to end example",
			root: b(e("utilisateurs", p("utiId", req, b(e("detail", b()))))),
			want: []string{"/", "/utilisateurs/:utiId", "/utilisateurs/:utiId/detail"},
		},
		{
			name: "param chain records only after the last param",
			root: b(e("m", p("year", req, p("month", req, nil)))),
			want: []string{"/", "/m/:year/:month"},
		},
		{
			name: "optional first param in a chain",
			root: b(e("m", p("year", opt, p("month", req, nil)))),
			want: []string{"/", "/m", "/m/:year/:month"},
		},
		{
			name: "optional second param in a chain",
			root: b(e("m", p("year", req, p("month", opt, nil)))),
			want: []string{"/", "/m/:year", "/m/:year/:month"},
		},
		{
			name: "branch with a param child is a hub",
			root: b(e("app", b(e("users", p("id", req, nil)), e("about", b())))),
			want: []string{"/", "/app/users/:id", "/app/about"},
		},
		{
			name: "shallow check ignores deeper params",
			root: b(e("app", b(e("admin", b(e("users", p("id", req, nil))))))),
			want: []string{"/", "/app", "/app/admin/users/:id"},
		},
		{
			name: "root param",
			root: p("lang", opt, b(e("home", b()))),
			want: []string{"/", "/:lang", "/:lang/home"},
		},
		{
			name: "param fan-out after parameter",
			root: b(e("projects", p("pid", req, b(
				e("tasks", p("tid", opt, nil)),
				e("settings", b()),
			)))),
			want: []string{
				"/",
				"/projects/:pid",
				"/projects/:pid/tasks",
				"/projects/:pid/tasks/:tid",
				"/projects/:pid/settings",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Compile(tt.root)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if got := set.Templates(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Templates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileFirstIsRoot(t *testing.T) {
	roots := []routeconfig.Node{
		b(),
		p("id", req, nil),
		b(e("a", b(e("b", p("c", opt, nil))))),
	}
	for _, root := range roots {
		set := MustCompile(root)
		if set.At(0) != Root {
			t.Errorf("first template = %q, want %q", set.At(0), Root)
		}
	}
}

func TestCompileRejectsMalformed(t *testing.T) {
	_, err := Compile(b(e("a", p("", req, nil))))
	if err == nil {
		t.Fatal("Compile() should fail on an empty param name")
	}
	if !stderrors.Is(err, routeconfig.ErrMalformed) {
		t.Errorf("error %v does not match ErrMalformed", err)
	}

	if _, err := Compile(nil); err == nil {
		t.Error("Compile(nil) should fail")
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic")
		}
	}()
	MustCompile(b(e("a", b()), e("a", b())))
}

func TestSetAccessors(t *testing.T) {
	set := MustCompile(b(e("users", p("id", req, b(e("detail", b()))))))

	if set.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", set.Len())
	}
	if !set.Contains("/users/:id/detail") {
		t.Error("Contains(/users/:id/detail) = false")
	}
	if set.Contains("/users") {
		t.Error("Contains(/users) = true, the param is required")
	}
	if set.Index("/users/:id") != 1 || set.Index("/nope") != -1 {
		t.Errorf("Index mismatch: %d %d", set.Index("/users/:id"), set.Index("/nope"))
	}

	// Templates returns a copy.
	got := set.Templates()
	got[0] = "mutated"
	if set.At(0) != "/" {
		t.Error("Templates() exposed internal storage")
	}

	var visited []string
	set.All(func(i int, tpl string) bool {
		visited = append(visited, tpl)
		return i < 1
	})
	if len(visited) != 2 {
		t.Errorf("All visited %v, want early stop after 2", visited)
	}
}
