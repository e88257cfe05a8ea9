package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmaptools/fgdkit/internal/schema"
	"github.com/qmaptools/fgdkit/pkg/fgd"
)

func newTestRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.NewBuiltinRegistry()
	require.NoError(t, err)
	return reg
}

func TestAttachPullsRequirementClosure(t *testing.T) {
	reg := newTestRegistry(t)

	e := New(reg, "worldspawn")
	require.NoError(t, e.Attach(schema.BundleWorldspawn))

	// worldspawn requires solid; both must be present with their defaults
	assert.Equal(t, []string{schema.BundleWorldspawn, schema.BundleSolid}, e.Bundles())

	world, ok := e.Bundle(schema.BundleWorldspawn)
	require.True(t, ok)
	assert.Equal(t, float32(1), world.Float("_dist"))

	solid, ok := e.Bundle(schema.BundleSolid)
	require.True(t, ok)
	assert.Equal(t, float32(89), solid.Float("_phong_angle"))
}

func TestAttachIsIdempotent(t *testing.T) {
	reg := newTestRegistry(t)

	e := New(reg, "worldspawn")
	require.NoError(t, e.Attach(schema.BundleWorldspawn))

	solid, _ := e.Bundle(schema.BundleSolid)
	require.NoError(t, solid.Set("_phong_angle", float32(45)))

	// attaching again must not duplicate bundles or reset customized values
	require.NoError(t, e.Attach(schema.BundleWorldspawn))
	require.NoError(t, e.Attach(schema.BundleSolid))

	assert.Equal(t, []string{schema.BundleWorldspawn, schema.BundleSolid}, e.Bundles())
	solid, _ = e.Bundle(schema.BundleSolid)
	assert.Equal(t, float32(45), solid.Float("_phong_angle"))
}

func TestDecodeFillsFieldsAndDefaults(t *testing.T) {
	d := &Decoder{Registry: newTestRegistry(t)}

	e, diags := d.Decode("light", []string{schema.BundleLight}, []fgd.KeyValue{
		{Key: "light", Value: "600"},
		{Key: "_color", Value: "255 128 0"},
		{Key: "delay", Value: "2"},
	})
	require.Empty(t, diags)

	inst, ok := e.Bundle(schema.BundleLight)
	require.True(t, ok)
	assert.Equal(t, float32(600), inst.Float("light"))
	assert.Equal(t, fgd.Srgb{R: 1, G: float32(128) / 255, B: 0}, inst.Color("_color"))
	assert.Equal(t, 2, inst.Enum("delay"))

	// untouched fields read their declared defaults
	assert.Equal(t, float32(1), inst.Float("wait"))
	assert.Equal(t, uint32(16), inst.U32("_samples"))
	assert.False(t, inst.IsSet("wait"))

	// absent optionals stay absent, not empty
	_, present := inst.Get("_falloff")
	assert.False(t, present)
}

func TestDecodeCollectsErrorsAndContinues(t *testing.T) {
	d := &Decoder{Registry: newTestRegistry(t)}

	e, diags := d.Decode("light", []string{schema.BundleLight}, []fgd.KeyValue{
		{Key: "light", Value: "not-a-number"},
		{Key: "delay", Value: "9"}, // no such attenuation code
		{Key: "wait", Value: "2"},
	})

	require.Len(t, diags, 2)
	assert.Equal(t, "light", diags[0].Field)
	assert.Equal(t, "not-a-number", diags[0].Text)
	assert.ErrorIs(t, &diags[1], fgd.ErrUnknownEnumValue)

	inst, _ := e.Bundle(schema.BundleLight)
	// failed fields stay at their defaults, siblings still decode
	assert.Equal(t, float32(300), inst.Float("light"))
	assert.Equal(t, 0, inst.Enum("delay"))
	assert.Equal(t, float32(2), inst.Float("wait"))
}

func TestDecodePreservesUnknownKeys(t *testing.T) {
	d := &Decoder{Registry: newTestRegistry(t)}

	e, diags := d.Decode("light", []string{schema.BundleLight}, []fgd.KeyValue{
		{Key: "_custom_flag", Value: "7"},
		{Key: "light", Value: "600"},
		{Key: "origin", Value: "128 64 32"},
	})
	require.Empty(t, diags)

	assert.Equal(t, []fgd.KeyValue{
		{Key: "_custom_flag", Value: "7"},
		{Key: "origin", Value: "128 64 32"},
	}, e.Extra())

	// unknown keys reappear unchanged after decode-then-encode
	out := e.Encode()
	assert.Contains(t, out, fgd.KeyValue{Key: "_custom_flag", Value: "7"})
	assert.Contains(t, out, fgd.KeyValue{Key: "origin", Value: "128 64 32"})
}

func TestEncodeEmitsOnlySetFields(t *testing.T) {
	d := &Decoder{Registry: newTestRegistry(t)}

	e, diags := d.Decode("light", []string{schema.BundleLight}, []fgd.KeyValue{
		{Key: "light", Value: "600"},
		{Key: "_dirt", Value: "0"}, // explicitly unset override
	})
	require.Empty(t, diags)

	out := e.Encode()
	// the set field comes back in canonical form; the Unset override and all
	// untouched defaults are omitted
	assert.Equal(t, []fgd.KeyValue{{Key: "light", Value: "600"}}, out)
}

func TestDecodeSharedKeyFillsEveryBundle(t *testing.T) {
	d := &Decoder{Registry: newTestRegistry(t)}

	// worldspawn attaches both the worldspawn and solid bundles; _dirt lives
	// on solid, _sunlight_dirt on worldspawn
	e, diags := d.Decode("worldspawn", []string{schema.BundleWorldspawn}, []fgd.KeyValue{
		{Key: "_dirt", Value: "1"},
		{Key: "_sunlight_dirt", Value: "-1"},
	})
	require.Empty(t, diags)

	solid, _ := e.Bundle(schema.BundleSolid)
	assert.Equal(t, fgd.ForceTrue, solid.Override("_dirt"))

	world, _ := e.Bundle(schema.BundleWorldspawn)
	assert.Equal(t, fgd.ForceFalse, world.Override("_sunlight_dirt"))

	// encode emits each key once
	out := e.Encode()
	assert.Equal(t, []fgd.KeyValue{
		{Key: "_sunlight_dirt", Value: "-1"},
		{Key: "_dirt", Value: "1"},
	}, out)
}

func TestDecodeStrictBool(t *testing.T) {
	reg := newTestRegistry(t)

	permissive := &Decoder{Registry: reg}
	e, diags := permissive.Decode("func_door", []string{schema.BundleSolid}, []fgd.KeyValue{
		{Key: "_shadow", Value: "7"},
	})
	require.Empty(t, diags)
	inst, _ := e.Bundle(schema.BundleSolid)
	assert.True(t, inst.Bool("_shadow"))

	strict := &Decoder{Registry: reg, StrictBool: true}
	_, diags = strict.Decode("func_door", []string{schema.BundleSolid}, []fgd.KeyValue{
		{Key: "_shadow", Value: "7"},
	})
	require.Len(t, diags, 1)
	assert.Equal(t, "_shadow", diags[0].Field)
}

func TestDecodeUnknownBundle(t *testing.T) {
	d := &Decoder{Registry: newTestRegistry(t)}
	_, diags := d.Decode("thing", []string{"ghost"}, nil)
	require.Len(t, diags, 1)

	// the attachment failure is not a field decode and must not read as one
	assert.Equal(t, fgd.TypeNone, diags[0].Type)
	msg := diags[0].Error()
	assert.Contains(t, msg, "thing")
	assert.NotContains(t, msg, "cannot decode")
	assert.NotContains(t, msg, "float")
}

func TestBundlesFor(t *testing.T) {
	tests := []struct {
		name       string
		classname  string
		hasBrushes bool
		want       []string
	}{
		{name: "worldspawn", classname: "worldspawn", hasBrushes: true,
			want: []string{schema.BundleWorldspawn}},
		{name: "plain light", classname: "light",
			want: []string{schema.BundleLight}},
		{name: "light prefix", classname: "light_flame_small_yellow",
			want: []string{schema.BundleLight}},
		{name: "brush entity", classname: "func_door", hasBrushes: true,
			want: []string{schema.BundleSolid}},
		{name: "point entity", classname: "info_player_start",
			want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BundlesFor(tt.classname, tt.hasBrushes))
		})
	}
}

func TestRoundTripExplicitValues(t *testing.T) {
	d := &Decoder{Registry: newTestRegistry(t)}

	in := []fgd.KeyValue{
		{Key: "light", Value: "250"},
		{Key: "_color", Value: "1 0.5 0"},
		{Key: "_custom_flag", Value: "7"},
	}
	e, diags := d.Decode("light", []string{schema.BundleLight}, in)
	require.Empty(t, diags)

	out := e.Encode()
	// color re-encodes in the canonical 0-255 display form
	assert.Equal(t, []fgd.KeyValue{
		{Key: "light", Value: "250"},
		{Key: "_color", Value: "255 128 0"},
		{Key: "_custom_flag", Value: "7"},
	}, out)
}
