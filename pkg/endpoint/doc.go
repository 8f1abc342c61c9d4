// Package endpoint compiles a route configuration into the ordered set of
// path templates an application may navigate to.
//
// Templates use "/" as separator and ":name" for dynamic segments. The set
// always starts with the root "/":
//
//	cfg := routeconfig.B(routeconfig.E("utilisateurs",
//	    routeconfig.P("utiId", routeconfig.Required(routeconfig.TypeInt),
//	        routeconfig.B(routeconfig.E("detail", routeconfig.B())))))
//
//	set, err := endpoint.Compile(cfg)
//	// set.Templates() == ["/", "/utilisateurs/:utiId", "/utilisateurs/:utiId/detail"]
//
// # Leaf Rules
//
// A branch is directly reachable when it has no entries or when none of its
// immediate values is a param. Only one level is inspected: a branch whose
// children are static branches is a page even if params appear deeper.
//
// A param records the prefix before it when it is optional, and the prefix
// after it unless it is immediately followed by another param.
package endpoint
