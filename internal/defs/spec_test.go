package defs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmaptools/fgdkit/internal/schema"
	"github.com/qmaptools/fgdkit/pkg/fgd"
)

const sampleYAML = `bundles:
  - id: func_detail
    doc: Detail brush entity.
    requires: [solid]
    fields:
      - name: _detail_level
        type: integer
        default: "0"
        doc: Detail level for vis.
      - name: _tint
        type: color
        default: "255 255 255"
      - name: _blend
        type: choices
        default: "1"
        choices:
          - { name: opaque, code: 0 }
          - { name: additive, code: 1 }
      - name: _note
        type: string
        optional: true
`

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "detail.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	defs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, "func_detail", def.ID)
	assert.Equal(t, []string{"solid"}, def.Requires)
	require.Len(t, def.Fields, 4)

	assert.Equal(t, fgd.TypeU32, def.Fields[0].Type)
	assert.Equal(t, uint32(0), def.Fields[0].Default)

	assert.Equal(t, fgd.White255, def.Fields[1].Default)

	assert.Equal(t, fgd.TypeEnum, def.Fields[2].Type)
	assert.Equal(t, 1, def.Fields[2].Default)
	name, ok := def.Fields[2].Enum.NameFor(1)
	require.True(t, ok)
	assert.Equal(t, "additive", name)

	assert.True(t, def.Fields[3].Optional)
	assert.Nil(t, def.Fields[3].Default)
}

func TestLoadedDefsJoinTheRegistry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "detail.yaml"), []byte(sampleYAML), 0644))

	loaded, err := LoadDir(dir)
	require.NoError(t, err)

	reg, err := schema.NewBuiltinRegistry(loaded...)
	require.NoError(t, err)

	closure, err := reg.Closure("func_detail")
	require.NoError(t, err)
	assert.Equal(t, []string{"func_detail", schema.BundleSolid}, closure)
}

func TestLoadDirOrderAndFiltering(t *testing.T) {
	dir := t.TempDir()
	a := `bundles: [{id: bundle_b, fields: []}]`
	b := `bundles: [{id: bundle_a, fields: []}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20-second.yaml"), []byte(b), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10-first.yaml"), []byte(a), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	defs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	// lexical filename order keeps registry order reproducible
	assert.Equal(t, "bundle_b", defs[0].ID)
	assert.Equal(t, "bundle_a", defs[1].ID)
}

func TestLoadDirMissingIsNotAnError(t *testing.T) {
	defs, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, defs)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown type", yaml: `bundles: [{id: x, fields: [{name: _a, type: quaternion}]}]`},
		{name: "bad default", yaml: `bundles: [{id: x, fields: [{name: _a, type: float, default: soft}]}]`},
		{name: "missing id", yaml: `bundles: [{fields: []}]`},
		{name: "default outside choices", yaml: `bundles: [{id: x, fields: [{name: _a, type: choices, default: "3", choices: [{name: one, code: 1}]}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))
			_, err := LoadFile(path)
			require.Error(t, err)
		})
	}
}
