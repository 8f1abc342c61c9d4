package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routestate/pkg/middleware"
	"github.com/vango-dev/routestate/pkg/router"
	"github.com/vango-dev/routestate/pkg/routeconfig"
)

func testConfig() routeconfig.Node {
	return routeconfig.B(
		routeconfig.E("accueil", nil),
		routeconfig.E("utilisateurs", routeconfig.P("utiId", routeconfig.Required(routeconfig.TypeInt),
			routeconfig.B(routeconfig.E("detail", nil)))),
	)
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *router.Router) {
	t.Helper()
	rt, err := router.New(testConfig())
	require.NoError(t, err)
	return New(rt, opts...), rt
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChiPattern(t *testing.T) {
	tests := map[string]string{
		"/":                           "/",
		"/accueil":                    "/accueil",
		"/utilisateurs/:utiId":        "/utilisateurs/{utiId}",
		"/utilisateurs/:utiId/detail": "/utilisateurs/{utiId}/detail",
		"/:lang/:page":                "/{lang}/{page}",
	}
	for in, want := range tests {
		if got := chiPattern(in); got != want {
			t.Errorf("chiPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRoutesForUnusualNames(t *testing.T) {
	root := routeconfig.B(
		routeconfig.E("v1.2", routeconfig.P("item-id", routeconfig.Required(routeconfig.TypeString), nil)),
		routeconfig.E("~me", nil),
	)
	rt, err := router.New(root)
	require.NoError(t, err)

	var s *Server
	require.NotPanics(t, func() { s = New(rt) })

	rec := do(t, s, http.MethodGet, "/v1.2/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"item-id": "abc"}, resp.Params)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/~me", "").Code)
}

func TestPatternBreakingNamesRejected(t *testing.T) {
	roots := map[string]routeconfig.Node{
		"open brace param": routeconfig.B(routeconfig.E("a", routeconfig.P("{x", routeconfig.Required(routeconfig.TypeString), nil))),
		"braced key":       routeconfig.B(routeconfig.E("{a}", nil)),
		"closing brace":    routeconfig.P("x}", routeconfig.Optional(routeconfig.TypeString), nil),
	}
	for name, root := range roots {
		t.Run(name, func(t *testing.T) {
			_, err := router.New(root)
			require.Error(t, err)
			assert.ErrorIs(t, err, routeconfig.ErrMalformed)
		})
	}
}

func TestPreviewRoute(t *testing.T) {
	s, rt := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/utilisateurs/42/detail", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/utilisateurs/:utiId/detail", resp.Template)
	assert.Equal(t, "/utilisateurs/42/detail", resp.Path)
	assert.Equal(t, map[string]string{"utiId": "42"}, resp.Params)
	users := resp.State["utilisateurs"].(map[string]any)
	assert.Equal(t, float64(42), users["utiId"])

	assert.Equal(t, "", rt.Path(), "preview must not navigate")
}

func TestPreviewErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/nope", http.StatusNotFound, "E200"},
		{"/utilisateurs", http.StatusNotFound, "E200"},
		{"/utilisateurs/abc", http.StatusBadRequest, "E201"},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodGet, tt.path, "")
		assert.Equal(t, tt.status, rec.Code, tt.path)

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), tt.path)
		assert.Equal(t, tt.code, body.Error.Code, tt.path)
	}

	rec := do(t, s, http.MethodDelete, "/accueil", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNavigateRoute(t *testing.T) {
	s, rt := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/_router/navigate", `{"path":"/utilisateurs/7"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/utilisateurs/7", rt.Path())

	var resp StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/utilisateurs/:utiId", resp.Template)

	rec = do(t, s, http.MethodPost, "/_router/navigate", `{"path":"/missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/utilisateurs/7", rt.Path())

	rec = do(t, s, http.MethodPost, "/_router/navigate", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/_router/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/utilisateurs/7", resp.Path)
}

func TestEndpointsRoute(t *testing.T) {
	s, rt := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/_router/endpoints", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EndpointsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, rt.Endpoints().Templates(), resp.Endpoints)
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(middleware.WithRegistry(reg))

	rt, err := router.New(testConfig(), router.WithMiddleware(m.Middleware()))
	require.NoError(t, err)
	s := New(rt, WithMetrics(m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	do(t, s, http.MethodPost, "/_router/navigate", `{"path":"/accueil"}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `routestate_navigations_total{status="success",template="/accueil"} 1`)

	s2, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, s2, http.MethodGet, "/metrics", "").Code)
}

func TestSetRouterSwapsRoutes(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/docs", "").Code)

	next, err := router.New(routeconfig.B(routeconfig.E("docs", nil)))
	require.NoError(t, err)
	s.SetRouter(next)

	assert.Same(t, next, s.Router())
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/docs", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/accueil", "").Code)
}

func TestLiveRouteDisabledByDefault(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/_router/ws", "").Code)
}
