// Package schema defines property bundles — named groups of typed fields
// with defaults that attach to map entities — and the process-wide registry
// that catalogs them. Bundle definitions are static data; all decode/encode
// behavior lives in pkg/fgd and internal/entity.
package schema

import (
	"errors"
	"fmt"

	"github.com/qmaptools/fgdkit/pkg/fgd"
)

// Schema-authoring errors. These indicate a programming error in the bundle
// tables themselves and are fatal at registry construction, before any
// entity decode runs.
var (
	ErrDuplicateBundle    = errors.New("duplicate bundle id")
	ErrDuplicateField     = errors.New("duplicate field name")
	ErrMissingDefault     = errors.New("field has no default value")
	ErrBadDefault         = errors.New("default value fails its own round-trip")
	ErrUnknownRequirement = errors.New("requirement names an unknown bundle")
	ErrCyclicRequirement  = errors.New("requirement cycle")
)

// Field is one typed key of a bundle. Name matches the serialized key string
// exactly, including the leading underscore that marks compiler-specific keys.
type Field struct {
	Name     string
	Type     fgd.Type
	Enum     *fgd.EnumSpec // only for TypeEnum
	Optional bool          // absent-vs-set are distinct states; absent keys are omitted on encode
	Default  any           // nil only for optional fields
	Doc      string
}

// Def is a bundle definition: an immutable-shape record of fields with
// defaults, independently attachable to an entity.
type Def struct {
	ID       string
	Doc      string
	Requires []string // bundles that must accompany this one
	Fields   []Field
}

// Field returns the declared field with the given name.
func (d *Def) Field(name string) (*Field, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// Registry is the process-wide bundle catalog. It is built once, validated,
// and read-only afterward, so any number of decoders may consult it
// concurrently without synchronization.
type Registry struct {
	defs  map[string]*Def
	order []string
}

// NewRegistry validates the definitions and builds the catalog. Declaration
// order is preserved: IDs() and the schema export iterate in the order defs
// were passed, keeping generated documentation reproducible.
func NewRegistry(defs ...*Def) (*Registry, error) {
	r := &Registry{defs: make(map[string]*Def, len(defs))}
	for _, d := range defs {
		if _, ok := r.defs[d.ID]; ok {
			return nil, fmt.Errorf("bundle %q: %w", d.ID, ErrDuplicateBundle)
		}
		if err := validateFields(d); err != nil {
			return nil, err
		}
		r.defs[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	if err := r.validateRequirements(); err != nil {
		return nil, err
	}
	return r, nil
}

func validateFields(d *Def) error {
	seen := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("bundle %q field %q: %w", d.ID, f.Name, ErrDuplicateField)
		}
		seen[f.Name] = struct{}{}

		if f.Type == fgd.TypeEnum {
			if f.Enum == nil {
				return fmt.Errorf("bundle %q field %q: enum field without enum spec", d.ID, f.Name)
			}
			if err := f.Enum.Validate(); err != nil {
				return fmt.Errorf("bundle %q field %q: %w", d.ID, f.Name, err)
			}
		}

		if f.Default == nil {
			if !f.Optional {
				return fmt.Errorf("bundle %q field %q: %w", d.ID, f.Name, ErrMissingDefault)
			}
			continue
		}

		// Round-trip law: every declared default must survive its own
		// encode/decode unchanged.
		text := fgd.Encode(f.Type, f.Enum, f.Default)
		back, err := fgd.Decoder{}.Decode(f.Type, f.Enum, text)
		if err != nil {
			return fmt.Errorf("bundle %q field %q: %w: %v", d.ID, f.Name, ErrBadDefault, err)
		}
		if back != f.Default {
			return fmt.Errorf("bundle %q field %q: %w: %v re-decodes as %v",
				d.ID, f.Name, ErrBadDefault, f.Default, back)
		}
	}
	return nil
}

func (r *Registry) validateRequirements() error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(r.defs))

	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case grey:
			return fmt.Errorf("bundle %q: %w", id, ErrCyclicRequirement)
		case black:
			return nil
		}
		color[id] = grey
		for _, req := range r.defs[id].Requires {
			if _, ok := r.defs[req]; !ok {
				return fmt.Errorf("bundle %q requires %q: %w", id, req, ErrUnknownRequirement)
			}
			if err := visit(req); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}

	for _, id := range r.order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the definition for a bundle id.
func (r *Registry) Lookup(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// IDs returns every registered bundle id in declaration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Closure expands the given bundle ids to their transitive requirement
// closure. Each id appears once; requested ids come before the requirements
// they pull in, and the result is deterministic for a given input order.
func (r *Registry) Closure(ids ...string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})

	var visit func(id string) error
	visit = func(id string) error {
		if _, ok := seen[id]; ok {
			return nil
		}
		d, ok := r.defs[id]
		if !ok {
			return fmt.Errorf("bundle %q: not registered", id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
		for _, req := range d.Requires {
			if err := visit(req); err != nil {
				return err
			}
		}
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return out, nil
}
