package schema

import "github.com/qmaptools/fgdkit/pkg/fgd"

// Bundle ids of the compiled-in schema.
const (
	BundleSolid      = "solid"
	BundleWorldspawn = "worldspawn"
	BundleLight      = "light"
)

// DirtMode selects ordered vs randomized dirtmapping sampling.
var DirtMode = &fgd.EnumSpec{
	Name: "_dirtmode",
	Values: []fgd.EnumValue{
		{Name: "ordered", Code: 0},
		{Name: "randomized", Code: 1},
	},
}

// LightAttenuation is the falloff formula for a light, keyed by the
// compiler's numeric "delay" codes.
var LightAttenuation = &fgd.EnumSpec{
	Name: "delay",
	Values: []fgd.EnumValue{
		{Name: "linear", Code: 0},
		{Name: "reciprocal", Code: 1},
		{Name: "reciprocalsquare", Code: 2},
		{Name: "none", Code: 3},
		{Name: "localminlight", Code: 4},
		{Name: "reciprocalsquaretweaked", Code: 5},
	},
}

// solidDef covers the compiler keys valid on any entity with a brush model.
func solidDef() *Def {
	return &Def{
		ID:  BundleSolid,
		Doc: "Compiler keys for any entity with a brush model.",
		Fields: []Field{
			{Name: "_lmscale", Type: fgd.TypeU32, Optional: true,
				Doc: "Generate an LMSHIFT lump at this lightmap scale."},
			{Name: "_mirrorinside", Type: fgd.TypeIntBool, Default: false,
				Doc: "Save mirrored inside faces so the model stays visible from within."},
			{Name: "_minlight", Type: fgd.TypeFloat, Default: float32(0),
				Doc: "Minimum light level for surfaces of this model (global on worldspawn)."},
			{Name: "_minlight_color", Type: fgd.TypeColor, Default: fgd.White255,
				Doc: "Color of the minlight. 0-255 or 0-1 components."},
			{Name: "_minlight_exclude", Type: fgd.TypeString, Optional: true,
				Doc: "Texture name excluded from receiving minlight."},
			{Name: "_shadow", Type: fgd.TypeIntBool, Default: false,
				Doc: "Cast shadows on other models and itself."},
			{Name: "_shadowself", Type: fgd.TypeIntBool, Default: false,
				Doc: "Cast shadows on itself only."},
			{Name: "_shadowworldonly", Type: fgd.TypeIntBool, Default: false,
				Doc: "Cast shadows on the world only, not other brush models."},
			{Name: "_switchableshadow", Type: fgd.TypeIntBool, Default: false,
				Doc: "Shadow toggleable at runtime through an assigned lightstyle."},
			{Name: "_dirt", Type: fgd.TypeOverride, Default: fgd.Unset,
				Doc: "Dirtmapping (ambient occlusion) on this model; unset defers to the world setting."},
			{Name: "_phong", Type: fgd.TypeIntBool, Default: false,
				Doc: "Phong shading with the default angle threshold."},
			{Name: "_phong_angle", Type: fgd.TypeFloat, Default: float32(89),
				Doc: "Smooth adjacent faces whose normals are at most this many degrees apart."},
			{Name: "_phong_angle_concave", Type: fgd.TypeFloat, Optional: true,
				Doc: "Separate smoothing threshold for concave joints."},
			{Name: "_lightignore", Type: fgd.TypeIntBool, Default: false,
				Doc: "Receive minlight only, ignoring all lights and sunlight."},
		},
	}
}

// worldspawnDef covers the world-level lighting keys. The worldspawn entity
// is itself a brush model, so it requires the solid bundle.
func worldspawnDef() *Def {
	return &Def{
		ID:       BundleWorldspawn,
		Doc:      "Compiler keys for the worldspawn entity.",
		Requires: []string{BundleSolid},
		Fields: []Field{
			{Name: "_dist", Type: fgd.TypeFloat, Default: float32(1),
				Doc: "Scale the fade distance of all lights."},
			{Name: "_range", Type: fgd.TypeFloat, Default: float32(0.5),
				Doc: "Scale the brightness range of all lights without affecting fade distance."},
			{Name: "_sunlight", Type: fgd.TypeFloat, Default: float32(0),
				Doc: "Brightness of sunlight emitted by sky surfaces."},
			{Name: "_anglescale", Type: fgd.TypeFloat, Default: float32(0.5),
				Doc: "Scale sunlight brightness by angle of incidence."},
			{Name: "_sunlight_mangle", Type: fgd.TypeAngles, Default: fgd.Angles{Yaw: 0, Pitch: -90, Roll: 0},
				Doc: "Sunlight direction as yaw/pitch/roll degrees. Default shines straight down."},
			{Name: "_sunlight_penumbra", Type: fgd.TypeFloat, Default: float32(0),
				Doc: "Penumbra width of sunlight, in degrees."},
			{Name: "_sunlight_color", Type: fgd.TypeColor, Default: fgd.White255,
				Doc: "Color of the sunlight."},
			{Name: "_sunlight2", Type: fgd.TypeFloat, Default: float32(0),
				Doc: "Brightness of the upper-hemisphere light dome."},
			{Name: "_sunlight2_color", Type: fgd.TypeColor, Default: fgd.White255,
				Doc: "Color of _sunlight2."},
			{Name: "_sunlight3", Type: fgd.TypeFloat, Default: float32(0),
				Doc: "Brightness of the lower-hemisphere light dome."},
			{Name: "_sunlight3_color", Type: fgd.TypeColor, Default: fgd.White255,
				Doc: "Color of _sunlight3."},
			{Name: "_sunlight_dirt", Type: fgd.TypeOverride, Default: fgd.Unset,
				Doc: "Dirtmapping on sunlight; unset defers to _dirt."},
			{Name: "_sunlight2_dirt", Type: fgd.TypeOverride, Default: fgd.Unset,
				Doc: "Dirtmapping on the hemisphere domes; unset defers to _dirt."},
			{Name: "_minlight_dirt", Type: fgd.TypeOverride, Default: fgd.Unset,
				Doc: "Dirtmapping on minlight; unset defers to _dirt."},
			{Name: "_dirtmode", Type: fgd.TypeEnum, Enum: DirtMode, Default: 0,
				Doc: "Ordered or randomized dirtmapping."},
			{Name: "_dirtdepth", Type: fgd.TypeFloat, Default: float32(128),
				Doc: "Maximum occlusion-check depth for dirtmapping."},
			{Name: "_dirtscale", Type: fgd.TypeFloat, Default: float32(1),
				Doc: "Scale factor in dirt calculations."},
			{Name: "_dirtgain", Type: fgd.TypeFloat, Default: float32(1),
				Doc: "Exponent in dirt calculations."},
			{Name: "_dirtangle", Type: fgd.TypeFloat, Default: float32(88),
				Doc: "Cone angle in degrees for occlusion testing."},
			{Name: "_lightmap_scale", Type: fgd.TypeFloat, Optional: true,
				Doc: "Force all surfaces and submodels to this lightmap scale."},
			{Name: "_bounce", Type: fgd.TypeIntBool, Default: false,
				Doc: "Enable bounce lighting."},
			{Name: "_bouncescale", Type: fgd.TypeFloat, Default: float32(1),
				Doc: "Scale brightness of bounce lighting."},
			{Name: "_bouncecolorscale", Type: fgd.TypeFloat, Default: float32(0),
				Doc: "Weight of map texture colors in bounce light (0 ignores, 1 multiplies)."},
			{Name: "_bouncestyled", Type: fgd.TypeIntBool, Default: false,
				Doc: "Make styled (flickering, switchable) lights bounce."},
			{Name: "_spotlightautofalloff", Type: fgd.TypeIntBool, Default: false,
				Doc: "Derive spotlight falloff from the distance to the targeted info_null."},
		},
	}
}

// lightDef covers point/spot light keys, applied to any entity whose
// classname starts with "light".
func lightDef() *Def {
	return &Def{
		ID:  BundleLight,
		Doc: "Compiler keys for light entities.",
		Fields: []Field{
			{Name: "light", Type: fgd.TypeFloat, Default: float32(300),
				Doc: "Light intensity. Negative values subtract light."},
			{Name: "wait", Type: fgd.TypeFloat, Default: float32(1),
				Doc: "Scale the fade distance of this light."},
			{Name: "delay", Type: fgd.TypeEnum, Enum: LightAttenuation, Default: 0,
				Doc: "Attenuation formula for the light."},
			{Name: "_falloff", Type: fgd.TypeFloat, Optional: true,
				Doc: "Distance at which the light drops to zero, in map units. Linear attenuation only."},
			{Name: "_color", Type: fgd.TypeColor, Default: fgd.White255,
				Doc: "Color of the light. 0-255 or 0-1 components."},
			{Name: "target", Type: fgd.TypeString, Optional: true,
				Doc: "Make this a spotlight aimed at the entity with this targetname."},
			{Name: "mangle", Type: fgd.TypeAngles, Default: fgd.Angles{},
				Doc: "Spotlight direction as yaw/pitch/roll degrees."},
			{Name: "angle", Type: fgd.TypeFloat, Default: float32(40),
				Doc: "Spotlight cone angle in degrees."},
			{Name: "_softangle", Type: fgd.TypeFloat, Default: float32(0),
				Doc: "Inner cone angle for a softer spotlight edge. 0 disables."},
			{Name: "targetname", Type: fgd.TypeString, Optional: true,
				Doc: "Make this a switchable light toggled by entities targeting this name."},
			{Name: "style", Type: fgd.TypeU32, Default: uint32(0),
				Doc: "Animated lightstyle slot."},
			{Name: "_anglescale", Type: fgd.TypeFloat, Default: float32(0.5),
				Doc: "Influence of angle of incidence on surface brightness, 0 to 1."},
			{Name: "_dirtscale", Type: fgd.TypeFloat, Optional: true,
				Doc: "Per-light override of the world _dirtscale."},
			{Name: "_dirtgain", Type: fgd.TypeFloat, Optional: true,
				Doc: "Per-light override of the world _dirtgain."},
			{Name: "_dirt", Type: fgd.TypeOverride, Default: fgd.Unset,
				Doc: "Dirtmapping for this light; unset defers to the world setting."},
			{Name: "_deviance", Type: fgd.TypeFloat, Default: float32(0),
				Doc: "Split the light into a sphere of this radius for wider penumbras."},
			{Name: "_samples", Type: fgd.TypeU32, Default: uint32(16),
				Doc: "Number of lights in the _deviance sphere."},
			{Name: "_surface", Type: fgd.TypeString, Optional: true,
				Doc: "Copy this light as a template across surfaces with the given texture."},
			{Name: "_surface_offset", Type: fgd.TypeFloat, Default: float32(2),
				Doc: "Offset of surface lights above their surface, in world units."},
			{Name: "_surface_spotlight", Type: fgd.TypeIntBool, Default: false,
				Doc: "Make each surface light a spotlight along the surface normal."},
			{Name: "_project_texture", Type: fgd.TypeString, Optional: true,
				Doc: "Project this texture from the light."},
			{Name: "_project_mangle", Type: fgd.TypeAngles, Optional: true,
				Doc: "Yaw/pitch/roll for the texture projection, overriding mangle."},
			{Name: "_project_fov", Type: fgd.TypeFloat, Default: float32(90),
				Doc: "Field of view for the texture projection, in degrees."},
			{Name: "_bouncescale", Type: fgd.TypeFloat, Default: float32(1),
				Doc: "Scale the bounce contribution of this light. 0 disables."},
			{Name: "_sun", Type: fgd.TypeIntBool, Default: false,
				Doc: "Treat this light as a sun instead of the worldspawn sunlight keys."},
		},
	}
}

// BuiltinDefs returns the compiled-in bundle definitions in declaration order.
func BuiltinDefs() []*Def {
	return []*Def{solidDef(), worldspawnDef(), lightDef()}
}

// NewBuiltinRegistry builds a registry of the compiled-in bundles plus any
// extra definitions (user-supplied bundles are appended after the builtins,
// keeping export order stable).
func NewBuiltinRegistry(extra ...*Def) (*Registry, error) {
	return NewRegistry(append(BuiltinDefs(), extra...)...)
}
