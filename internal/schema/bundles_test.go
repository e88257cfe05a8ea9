package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmaptools/fgdkit/pkg/fgd"
)

func TestBuiltinRegistryIsValid(t *testing.T) {
	reg, err := NewBuiltinRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{BundleSolid, BundleWorldspawn, BundleLight}, reg.IDs())
}

// Every declared default must survive decode(encode(default)) unchanged.
// Registry construction enforces this, but the law is worth asserting
// directly across the full builtin field set.
func TestBuiltinDefaultsRoundTrip(t *testing.T) {
	for _, def := range BuiltinDefs() {
		for _, f := range def.Fields {
			if f.Default == nil {
				assert.True(t, f.Optional, "%s.%s has no default but is not optional", def.ID, f.Name)
				continue
			}
			text := fgd.Encode(f.Type, f.Enum, f.Default)
			back, err := fgd.Decoder{}.Decode(f.Type, f.Enum, text)
			require.NoError(t, err, "%s.%s default %q", def.ID, f.Name, text)
			assert.Equal(t, f.Default, back, "%s.%s", def.ID, f.Name)
		}
	}
}

func TestBuiltinDefaults(t *testing.T) {
	reg, err := NewBuiltinRegistry()
	require.NoError(t, err)

	light, ok := reg.Lookup(BundleLight)
	require.True(t, ok)

	intensity, ok := light.Field("light")
	require.True(t, ok)
	assert.Equal(t, float32(300), intensity.Default)

	samples, ok := light.Field("_samples")
	require.True(t, ok)
	assert.Equal(t, uint32(16), samples.Default)

	world, ok := reg.Lookup(BundleWorldspawn)
	require.True(t, ok)
	assert.Equal(t, []string{BundleSolid}, world.Requires)

	mangle, ok := world.Field("_sunlight_mangle")
	require.True(t, ok)
	assert.Equal(t, fgd.Angles{Yaw: 0, Pitch: -90, Roll: 0}, mangle.Default)
	assert.Equal(t, "0 -90 0", fgd.Encode(mangle.Type, nil, mangle.Default))

	color, ok := world.Field("_sunlight_color")
	require.True(t, ok)
	assert.Equal(t, fgd.White255, color.Default)
}

func TestLightAttenuationCodes(t *testing.T) {
	name, ok := LightAttenuation.NameFor(2)
	require.True(t, ok)
	assert.Equal(t, "reciprocalsquare", name)

	_, ok = LightAttenuation.NameFor(9)
	assert.False(t, ok)
}

func TestNewBuiltinRegistryWithExtraDefs(t *testing.T) {
	extra := &Def{
		ID:       "func_detail",
		Requires: []string{BundleSolid},
		Fields: []Field{
			{Name: "_detail_level", Type: fgd.TypeU32, Default: uint32(0)},
		},
	}
	reg, err := NewBuiltinRegistry(extra)
	require.NoError(t, err)
	assert.Equal(t, []string{BundleSolid, BundleWorldspawn, BundleLight, "func_detail"}, reg.IDs())

	got, err := reg.Closure("func_detail")
	require.NoError(t, err)
	assert.Equal(t, []string{"func_detail", BundleSolid}, got)
}
