package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tintview/internal/glass"
	"github.com/Faultbox/tintview/internal/loader"
)

func TestInspectPlaceholder(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdInspect(&out, []string{placeholderArg}))

	text := out.String()
	assert.Contains(t, text, "Detected: 6")
	assert.Contains(t, text, "Proxies:  0")
	assert.Contains(t, text, "AREA")
	for _, k := range glass.Keys {
		assert.Contains(t, text, k.Label())
	}
	assert.NotContains(t, text, "true", "no proxy panes on the placeholder")
}

func TestInspectMissingModel(t *testing.T) {
	var out bytes.Buffer
	err := cmdInspect(&out, []string{filepath.Join(t.TempDir(), "missing.glb")})
	assert.Error(t, err)
}

func TestInspectUsage(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, cmdInspect(&out, nil), errUsage)
}

func TestInspectBadAxes(t *testing.T) {
	var out bytes.Buffer
	err := cmdInspect(&out, []string{"-axes", "z,z", placeholderArg})
	assert.ErrorIs(t, err, glass.ErrInvalidAxes)
}

func TestExportWritesTintedModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "car.glb")

	var out bytes.Buffer
	require.NoError(t, cmdExport(&out, []string{"-state", "u=1&s=35", placeholderArg, path}))
	assert.Contains(t, out.String(), "6 windows mapped, 6 tinted")

	root, err := loader.LoadFile(context.Background(), path)
	require.NoError(t, err)
	ws := root.Find("windshield")
	require.NotNil(t, ws)
	require.NotNil(t, ws.Mesh.Material)
	assert.InDelta(t, 0.15+2*0.35, ws.Mesh.Material.AttenuationDistance, 1e-4)
}

func TestExportUsage(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, cmdExport(&out, []string{placeholderArg}), errUsage)
}

func TestState(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdState(&out, []string{"?f=carbon&w=lf:50,rr:99&s=1"}))

	lines := strings.Split(out.String(), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "?v=outside&l=day&f=carbon&u=0&s=5&"), lines[0])

	text := out.String()
	assert.Regexp(t, `LF\s+50%`, text)
	assert.Regexp(t, `RR\s+70%`, text, "shades clamp to the maximum")
	assert.Regexp(t, `shade\s+5%`, text, "shades clamp to the minimum")
}

func TestStateDefault(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdState(&out, nil))
	assert.True(t, strings.HasPrefix(out.String(), "?v=outside&l=day&f=ceramic&u=0&s=15&w="))
}
