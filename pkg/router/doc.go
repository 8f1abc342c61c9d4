// Package router ties an endpoint set and a param-state tree to a live
// navigation state.
//
// A Router is built from one route configuration:
//
//	cfg := routeconfig.B(
//		routeconfig.E("accueil", nil),
//		routeconfig.E("utilisateurs", routeconfig.P("utiId", routeconfig.Required(routeconfig.TypeInt),
//			routeconfig.B(routeconfig.E("detail", nil)))),
//	)
//	r, err := router.New(cfg)
//
// The router compiles the configuration into its endpoint templates and
// builds the matching param-state tree. Navigate resolves a concrete path
// against the templates, parses the params with their declared types and
// commits the new values in one batch:
//
//	err = r.Navigate("/utilisateurs/42/detail")
//	id, _ := r.View().Sub("utilisateurs").Param("utiId") // int64(42)
//
// # Views
//
// A View is a read cursor at one level of the state tree. View.Get returns
// the key that is active below it, View.Href builds a path that starts at
// the current state and continues with the given segments:
//
//	href, _ := r.View().Sub("utilisateurs").Href(7, "detail") // "/utilisateurs/7/detail"
//
// # Listeners
//
// Listeners registered with Subscribe are called synchronously after a
// navigation has been committed, once per navigation.
//
// # Middleware
//
// Middleware wraps each navigation, in registration order:
//
//	r, err := router.New(cfg, router.WithMiddleware(middleware.Prometheus(), middleware.OpenTelemetry()))
package router
