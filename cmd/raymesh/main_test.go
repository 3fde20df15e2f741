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

	"github.com/chazu/raymesh/pkg/app"
	"github.com/chazu/raymesh/pkg/geom"
)

const cubeScript = `(defobject "cube" (box :size (vec3 2 2 2)) :material "oak")
(view (vec3 0 0 10))`

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.scene")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	full := append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return out.String(), err
}

func TestParsePlane(t *testing.T) {
	pl, err := parsePlane("1, 0,0,-2.5")
	require.NoError(t, err)
	assert.Equal(t, geom.Plane{X: 1, Y: 0, Z: 0, W: -2.5}, pl)

	for _, bad := range []string{"", "1,0,0", "1,0,0,0,0", "a,b,c,d"} {
		_, err := parsePlane(bad)
		assert.Error(t, err, bad)
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("0,1,10")
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(0, 1, 10), p)

	_, err = parsePoint("0,1")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	out, err := run(t, "stats", writeScript(t, cubeScript))
	require.NoError(t, err)
	assert.Contains(t, out, "object cube")
	assert.Contains(t, out, `material="oak"`)
	assert.Contains(t, out, "triangles=12")
}

func TestStatsShelfExample(t *testing.T) {
	out, err := run(t, "stats", "../../examples/shelf.scene")
	require.NoError(t, err)
	for _, name := range []string{"left", "right", "top", "ball"} {
		assert.Contains(t, out, "object "+name)
	}
}

func TestSplitAndFilter(t *testing.T) {
	script := writeScript(t, cubeScript)
	for _, name := range []string{"split", "filter"} {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, name, "--plane", "1,0,0,0", script)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 2)
			assert.True(t, strings.HasPrefix(lines[0], "in "))
			assert.True(t, strings.HasPrefix(lines[1], "out "))
			assert.NotContains(t, out, "triangles=0\n")
		})
	}
}

func TestSplitBadPlane(t *testing.T) {
	_, err := run(t, "split", "--plane", "1,0", writeScript(t, cubeScript))
	assert.Error(t, err)
}

func TestPartition(t *testing.T) {
	script := writeScript(t, cubeScript)

	out, err := run(t, "partition", script)
	require.NoError(t, err)
	assert.Contains(t, out, "source")
	assert.Contains(t, out, "in ")
	assert.Equal(t, 1, strings.Count(out, "match "))

	_, err = run(t, "partition", "--source", "nope", script)
	assert.Error(t, err)
}

func TestSlice(t *testing.T) {
	script := writeScript(t, cubeScript)
	out, err := run(t, "slice", "--plane", "1,0,0,0", "--plane", "0,1,0,0", script)
	require.NoError(t, err)
	assert.Contains(t, out, "cell 00")
	assert.Contains(t, out, "cell 11")
	assert.Contains(t, out, "4 cells, 3 splits")
}

func TestSliceJSON(t *testing.T) {
	script := writeScript(t, cubeScript)
	out, err := run(t, "slice", "--json", "--plane", "0,0,1,0", script)
	require.NoError(t, err)

	var cells []app.MeshData
	require.NoError(t, json.Unmarshal([]byte(out), &cells))
	require.Len(t, cells, 2)
	assert.Equal(t, "cell-0", cells[0].Name)
	assert.Equal(t, "cell-1", cells[1].Name)
	assert.NotEmpty(t, cells[0].Indices)
}

func TestDump(t *testing.T) {
	out, err := run(t, "dump", writeScript(t, cubeScript))
	require.NoError(t, err)
	assert.Contains(t, out, "Vertices (8 items):")
	assert.Contains(t, out, "Triangles (12 items):")
}

func TestScriptErrors(t *testing.T) {
	_, err := run(t, "stats", writeScript(t, `(place (object "missing") :at (vec3 1 0 0))`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	_, err = run(t, "stats", filepath.Join(t.TempDir(), "absent.scene"))
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "--log-level", "debug", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "log_level")
	assert.Contains(t, out, "debug")
}

func TestBadLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "config")
	assert.Error(t, err)
}
