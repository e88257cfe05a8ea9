package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmaptools/fgdkit/internal/schema"
	"github.com/qmaptools/fgdkit/pkg/fgd"
)

func TestRenderBuiltinRegistry(t *testing.T) {
	reg, err := schema.NewBuiltinRegistry()
	require.NoError(t, err)

	out := Render(reg)

	// one stanza per bundle, in declaration order
	solidAt := strings.Index(out, "@baseclass = solid")
	worldAt := strings.Index(out, "@baseclass base(solid) = worldspawn")
	lightAt := strings.Index(out, "@baseclass = light")
	require.GreaterOrEqual(t, solidAt, 0)
	require.Greater(t, worldAt, solidAt)
	require.Greater(t, lightAt, worldAt)

	// defaults appear in canonical encoded form
	assert.Contains(t, out, `light(float) : "Light intensity. Negative values subtract light." : 300`)
	assert.Contains(t, out, `_sunlight_color(color255) : "Color of the sunlight." : "255 255 255"`)
	assert.Contains(t, out, `_sunlight_mangle(string) : `)
	assert.Contains(t, out, `"0 -90 0"`)

	// enum fields expand to their choices
	assert.Contains(t, out, "delay(choices)")
	assert.Contains(t, out, `2 : "reciprocalsquare"`)
	assert.Contains(t, out, `5 : "reciprocalsquaretweaked"`)

	// optional fields carry no default
	assert.Contains(t, out, "_falloff(float) : \"Distance at which the light drops to zero, in map units. Linear attenuation only.\"\n")
}

// Generated documentation must be reproducible: the same registry renders
// to the same bytes every time.
func TestRenderIsDeterministic(t *testing.T) {
	build := func() string {
		reg, err := schema.NewBuiltinRegistry()
		require.NoError(t, err)
		return Render(reg)
	}
	first := build()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build())
	}
}

func TestWriteMatchesRender(t *testing.T) {
	reg, err := schema.NewBuiltinRegistry()
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, Write(&buf, reg))
	assert.Equal(t, Render(reg), buf.String())
}

func TestRenderExtraBundle(t *testing.T) {
	extra := &schema.Def{
		ID:       "func_detail",
		Doc:      "Detail brush entity.",
		Requires: []string{schema.BundleSolid},
		Fields: []schema.Field{
			{Name: "_detail_level", Type: fgd.TypeU32, Default: uint32(0), Doc: "Detail level."},
		},
	}
	reg, err := schema.NewBuiltinRegistry(extra)
	require.NoError(t, err)

	out := Render(reg)
	assert.Contains(t, out, `@baseclass base(solid) = func_detail : "Detail brush entity."`)
	assert.Contains(t, out, `_detail_level(integer) : "Detail level." : 0`)
}
