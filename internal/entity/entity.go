// Package entity composes property bundles onto map entities and carries
// the serialization boundary between attached bundles and the flat
// key/value text form. Entities are exclusively owned; decoding many
// entities in parallel needs no locks because the registry is read-only
// and the codecs are pure.
package entity

import (
	"fmt"
	"strings"

	"github.com/qmaptools/fgdkit/internal/schema"
	"github.com/qmaptools/fgdkit/pkg/fgd"
)

// Instance is one bundle attached to one entity: the definition plus the
// explicitly-set values. Fields never set read through to the definition's
// defaults, so an instance costs nothing until customized.
type Instance struct {
	def    *schema.Def
	values map[string]any
}

// Def returns the bundle definition backing this instance.
func (i *Instance) Def() *schema.Def {
	return i.def
}

// IsSet reports whether the field was explicitly set (from source text or
// programmatically), as opposed to reading its default.
func (i *Instance) IsSet(name string) bool {
	_, ok := i.values[name]
	return ok
}

// Get returns the field's current value. For unset fields this is the
// declared default; for unset optional fields ok is false and the value nil,
// keeping "absent" distinct from "present but equal to the type default".
func (i *Instance) Get(name string) (any, bool) {
	if v, ok := i.values[name]; ok {
		return v, true
	}
	f, ok := i.def.Field(name)
	if !ok || f.Default == nil {
		return nil, false
	}
	return f.Default, true
}

// Set explicitly assigns a field value. The field must be declared.
func (i *Instance) Set(name string, v any) error {
	if _, ok := i.def.Field(name); !ok {
		return fmt.Errorf("bundle %q has no field %q", i.def.ID, name)
	}
	i.values[name] = v
	return nil
}

// Clear reverts a field to its unset state.
func (i *Instance) Clear(name string) {
	delete(i.values, name)
}

// Typed accessors for the consumer side. The downstream compiler reads
// resolved scalar values by field name; it never touches raw text.

func (i *Instance) Float(name string) float32 {
	v, _ := i.Get(name)
	f, _ := v.(float32)
	return f
}

func (i *Instance) U32(name string) uint32 {
	v, _ := i.Get(name)
	u, _ := v.(uint32)
	return u
}

func (i *Instance) Bool(name string) bool {
	v, _ := i.Get(name)
	b, _ := v.(bool)
	return b
}

func (i *Instance) String(name string) string {
	v, _ := i.Get(name)
	s, _ := v.(string)
	return s
}

func (i *Instance) Override(name string) fgd.Override {
	v, _ := i.Get(name)
	o, _ := v.(fgd.Override)
	return o
}

func (i *Instance) Color(name string) fgd.Srgb {
	v, _ := i.Get(name)
	c, _ := v.(fgd.Srgb)
	return c
}

func (i *Instance) Angles(name string) fgd.Angles {
	v, _ := i.Get(name)
	a, _ := v.(fgd.Angles)
	return a
}

func (i *Instance) Enum(name string) int {
	v, _ := i.Get(name)
	c, _ := v.(int)
	return c
}

// Entity is the composite of all attached bundle instances plus the unknown
// keys carried through for round-trip fidelity.
type Entity struct {
	Classname string

	reg     *schema.Registry
	bundles map[string]*Instance
	order   []string // attach order, drives deterministic encode

	extra      map[string]string
	extraOrder []string // first-seen order of unknown keys
}

// New creates an empty entity bound to a registry.
func New(reg *schema.Registry, classname string) *Entity {
	return &Entity{
		Classname: classname,
		reg:       reg,
		bundles:   make(map[string]*Instance),
		extra:     make(map[string]string),
	}
}

// Attach adds the given bundles and their requirement closure. Attaching a
// bundle that is already present is a no-op: fields are not duplicated and
// customized values are not reset.
func (e *Entity) Attach(ids ...string) error {
	closed, err := e.reg.Closure(ids...)
	if err != nil {
		return err
	}
	for _, id := range closed {
		if _, ok := e.bundles[id]; ok {
			continue
		}
		def, _ := e.reg.Lookup(id)
		e.bundles[id] = &Instance{def: def, values: make(map[string]any)}
		e.order = append(e.order, id)
	}
	return nil
}

// Bundle returns the attached instance for a bundle id.
func (e *Entity) Bundle(id string) (*Instance, bool) {
	inst, ok := e.bundles[id]
	return inst, ok
}

// Bundles returns the attached bundle ids in attach order.
func (e *Entity) Bundles() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// SetExtra records a key no attached bundle declares. Unknown keys reappear
// unchanged on encode; they are never discarded.
func (e *Entity) SetExtra(key, value string) {
	if _, ok := e.extra[key]; !ok {
		e.extraOrder = append(e.extraOrder, key)
	}
	e.extra[key] = value
}

// Extra returns the preserved unknown keys in first-seen order.
func (e *Entity) Extra() []fgd.KeyValue {
	out := make([]fgd.KeyValue, 0, len(e.extraOrder))
	for _, k := range e.extraOrder {
		out = append(out, fgd.KeyValue{Key: k, Value: e.extra[k]})
	}
	return out
}

// BundlesFor maps an entity classname to the bundle ids its keys belong to.
// The light bundle applies to any classname starting with "light"
// (light_globe, light_flame_small_yellow, ...); brush-carrying entities get
// the solid bundle; worldspawn pulls in solid through its requirement.
func BundlesFor(classname string, hasBrushes bool) []string {
	var ids []string
	if classname == "worldspawn" {
		ids = append(ids, schema.BundleWorldspawn)
	}
	if strings.HasPrefix(classname, "light") {
		ids = append(ids, schema.BundleLight)
	}
	if hasBrushes && classname != "worldspawn" {
		ids = append(ids, schema.BundleSolid)
	}
	return ids
}
