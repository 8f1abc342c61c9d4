// Package routeconfig defines the route configuration tree consumed by the
// endpoint compiler and the param-state builder.
//
// A configuration node is either a Branch (static, named sub-paths) or a
// Param (one dynamic, typed segment optionally followed by more structure):
//
//	cfg := routeconfig.B(
//	    routeconfig.E("utilisateurs", routeconfig.P("utiId", routeconfig.Required(routeconfig.TypeInt),
//	        routeconfig.B(routeconfig.E("detail", routeconfig.B())),
//	    )),
//	)
//
// The same tree can be persisted as JSON or YAML. A branch is a mapping and a
// param is a 3-element array:
//
//	{"utilisateurs": ["utiId", {"required": true, "type": "int"}, {"detail": {}}]}
//
// Validate runs the structural checks shared by every consumer of the tree,
// so the endpoint set and the state tree never disagree on what is
// well-formed.
package routeconfig
