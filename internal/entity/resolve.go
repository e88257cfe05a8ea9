package entity

import "github.com/qmaptools/fgdkit/internal/schema"

// Consumer-side resolution of the dirtmapping override chains. Each level
// resolves against the broader scope's already-resolved value; the hard
// final default is no dirtmapping.

const dirtDefault = false

// WorldDirt resolves the global dirtmapping switch on worldspawn.
func WorldDirt(world *Entity) bool {
	if world == nil {
		return dirtDefault
	}
	inst, ok := world.Bundle(schema.BundleSolid)
	if !ok {
		return dirtDefault
	}
	return inst.Override("_dirt").Resolve(dirtDefault)
}

// ModelDirt resolves a brush model's dirtmapping against the world setting.
func ModelDirt(model, world *Entity) bool {
	fallback := WorldDirt(world)
	if model == nil {
		return fallback
	}
	inst, ok := model.Bundle(schema.BundleSolid)
	if !ok {
		return fallback
	}
	return inst.Override("_dirt").Resolve(fallback)
}

// LightDirt resolves a light's dirtmapping against the world setting.
func LightDirt(light, world *Entity) bool {
	fallback := WorldDirt(world)
	if light == nil {
		return fallback
	}
	inst, ok := light.Bundle(schema.BundleLight)
	if !ok {
		return fallback
	}
	return inst.Override("_dirt").Resolve(fallback)
}

// SunlightDirt resolves dirtmapping on sunlight. The worldspawn key defers
// to the world's own _dirt, which defers to the hard default.
func SunlightDirt(world *Entity) bool {
	return worldspawnOverride(world, "_sunlight_dirt")
}

// Sunlight2Dirt resolves dirtmapping on the hemisphere light domes.
func Sunlight2Dirt(world *Entity) bool {
	return worldspawnOverride(world, "_sunlight2_dirt")
}

// MinlightDirt resolves dirtmapping on minlight.
func MinlightDirt(world *Entity) bool {
	return worldspawnOverride(world, "_minlight_dirt")
}

func worldspawnOverride(world *Entity, field string) bool {
	fallback := WorldDirt(world)
	if world == nil {
		return fallback
	}
	inst, ok := world.Bundle(schema.BundleWorldspawn)
	if !ok {
		return fallback
	}
	return inst.Override(field).Resolve(fallback)
}
