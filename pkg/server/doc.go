// Package server exposes a router over HTTP.
//
// Every endpoint template is registered on a chi mux as a GET route that
// previews the navigation: it answers with the matched template, the
// concrete path, the raw params and the state the navigation would
// produce. The live router is driven through the control routes:
//
//	POST /_router/navigate   {"path": "/utilisateurs/42"}
//	GET  /_router/state      current location and state
//	GET  /_router/endpoints  compiled endpoint templates
//	GET  /_router/ws         WebSocket stream, one frame per navigation
//	GET  /metrics            Prometheus metrics, when enabled
//
// Unknown paths answer 404 with a JSON error body.
package server
