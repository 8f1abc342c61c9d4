// Package middleware provides navigation middleware for routestate routers.
//
// # OpenTelemetry
//
// OpenTelemetry wraps every navigation in a span carrying the requested
// path, the matched template and the error code of failed navigations:
//
//	r, err := router.New(cfg, router.WithMiddleware(
//	    middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	))
//
// The tracer comes from the global provider unless WithTracerProvider is
// given.
//
// # Prometheus
//
// Prometheus counts navigations by template and status, observes their
// duration and counts errors by category and code:
//
//	r, err := router.New(cfg, router.WithMiddleware(middleware.Prometheus()))
//	http.Handle("/metrics", promhttp.Handler())
//
// Prometheus registers its collectors once on the default registerer.
// NewMetrics builds an independent set on any registerer, which is what
// tests and multi-router processes use.
package middleware
