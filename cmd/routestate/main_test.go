package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routestate/internal/errors"
)

const demoRoutes = `{
	"accueil": {},
	"utilisateurs": ["utiId", {"required": true, "type": "int"}, {"detail": {}}]
}`

func writeRoutes(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	path := writeRoutes(t, "routes.json", demoRoutes)

	out, err := run(t, "compile", path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/",
		"/accueil",
		"/utilisateurs/:utiId",
		"/utilisateurs/:utiId/detail",
	}, strings.Fields(out))
}

func TestCompileCommandJSON(t *testing.T) {
	path := writeRoutes(t, "routes.json", demoRoutes)

	out, err := run(t, "compile", "--json", path)
	require.NoError(t, err)

	var got struct {
		Endpoints []string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Endpoints, 4)
	assert.Equal(t, "/utilisateurs/:utiId/detail", got.Endpoints[3])
}

func TestCompileCommandYAML(t *testing.T) {
	path := writeRoutes(t, "routes.yaml", "about: {}\n")

	out, err := run(t, "compile", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/about"}, strings.Fields(out))
}

func TestCompileCommandInvalidConfig(t *testing.T) {
	path := writeRoutes(t, "routes.json", `{"a": ["id", {"type": "int"}]}`)

	_, err := run(t, "compile", path)
	require.Error(t, err)
	assert.Equal(t, "E101", errors.CodeOf(err))
}

func TestCommandWithoutSource(t *testing.T) {
	_, err := run(t, "compile")
	require.Error(t, err)
	assert.Equal(t, "E100", errors.CodeOf(err))
}

func TestStateCommand(t *testing.T) {
	path := writeRoutes(t, "routes.json", demoRoutes)

	out, err := run(t, "state", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"utiId": null`)
	assert.Contains(t, out, `"detail"`)
}

func TestStateCommandSlots(t *testing.T) {
	path := writeRoutes(t, "routes.json", demoRoutes)

	out, err := run(t, "state", "--slots", path)
	require.NoError(t, err)
	assert.Contains(t, out, "utiId (int, required=true)")
}

func TestMatchCommand(t *testing.T) {
	path := writeRoutes(t, "routes.json", demoRoutes)

	out, err := run(t, "match", path, "/utilisateurs/42/detail")
	require.NoError(t, err)
	assert.Contains(t, out, "/utilisateurs/:utiId/detail")
	assert.Contains(t, out, "utiId = 42")
}

func TestMatchCommandJSON(t *testing.T) {
	path := writeRoutes(t, "routes.json", demoRoutes)

	out, err := run(t, "match", "--json", path, "/utilisateurs/7")
	require.NoError(t, err)

	var got struct {
		Template string            `json:"template"`
		Params   map[string]string `json:"params"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "/utilisateurs/:utiId", got.Template)
	assert.Equal(t, map[string]string{"utiId": "7"}, got.Params)
}

func TestMatchCommandErrors(t *testing.T) {
	path := writeRoutes(t, "routes.json", demoRoutes)

	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"unknown target", "/nowhere", "E200"},
		{"bad int", "/utilisateurs/abc", "E201"},
		{"traversal", "/../etc", "E202"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "match", path, tt.target)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
		})
	}
}

func TestMatchCommandUsesConfiguredRoutes(t *testing.T) {
	path := writeRoutes(t, "routes.json", demoRoutes)
	t.Setenv("ROUTESTATE_ROUTES", path)

	out, err := run(t, "match", "/accueil")
	require.NoError(t, err)
	assert.Contains(t, out, "/accueil")
}

func TestInvalidS3URI(t *testing.T) {
	_, err := run(t, "compile", "s3://bucket-only")
	require.Error(t, err)
	assert.Equal(t, "E109", errors.CodeOf(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}
