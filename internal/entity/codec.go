package entity

import (
	"github.com/qmaptools/fgdkit/internal/schema"
	"github.com/qmaptools/fgdkit/pkg/fgd"
)

// Decoder turns flat key/value pairs into composed entities.
type Decoder struct {
	Registry *schema.Registry
	// StrictBool rejects integer-boolean text other than "0"/"1" instead of
	// the default permissive nonzero-is-true reading.
	StrictBool bool
}

// Decode attaches the requirement closure of bundleIDs and fills fields from
// the pairs. A key declared by several attached bundles fills each of them;
// a key declared by none is preserved verbatim as an extra. Per-field decode
// errors are collected, not short-circuited: the failed field stays at its
// default and every sibling key still decodes. The returned entity is always
// usable, even when diagnostics are non-empty.
func (d *Decoder) Decode(classname string, bundleIDs []string, pairs []fgd.KeyValue) (*Entity, []fgd.FieldError) {
	e := New(d.Registry, classname)
	if err := e.Attach(bundleIDs...); err != nil {
		return e, []fgd.FieldError{{Field: classname, Type: fgd.TypeNone, Err: err}}
	}

	scalar := fgd.Decoder{StrictBool: d.StrictBool}
	var diags []fgd.FieldError

	for _, kv := range pairs {
		recognized := false
		failed := false
		for _, id := range e.order {
			inst := e.bundles[id]
			f, ok := inst.def.Field(kv.Key)
			if !ok {
				continue
			}
			recognized = true
			v, err := scalar.Decode(f.Type, f.Enum, kv.Value)
			if err != nil {
				// one diagnostic per source key, even when several
				// bundles declare it
				if !failed {
					diags = append(diags, fgd.FieldError{
						Field: kv.Key, Text: kv.Value, Type: f.Type, Err: err,
					})
					failed = true
				}
				continue
			}
			inst.values[kv.Key] = v
		}
		if !recognized {
			e.SetExtra(kv.Key, kv.Value)
		}
	}

	return e, diags
}

// Encode renders the entity back to ordered key/value pairs. Only
// explicitly-set fields are emitted: untouched defaults, absent optionals
// and Unset overrides all stay out of the output, keeping generated text
// minimal. Unknown keys are re-emitted unchanged after the declared fields.
func (e *Entity) Encode() []fgd.KeyValue {
	var out []fgd.KeyValue
	seen := make(map[string]struct{})

	for _, id := range e.order {
		inst := e.bundles[id]
		for _, f := range inst.def.Fields {
			v, ok := inst.values[f.Name]
			if !ok {
				continue
			}
			if _, dup := seen[f.Name]; dup {
				// shared key already emitted by an earlier bundle
				continue
			}
			if o, isOverride := v.(fgd.Override); isOverride && o == fgd.Unset {
				continue
			}
			seen[f.Name] = struct{}{}
			out = append(out, fgd.KeyValue{
				Key:   f.Name,
				Value: fgd.Encode(f.Type, f.Enum, v),
			})
		}
	}

	for _, k := range e.extraOrder {
		out = append(out, fgd.KeyValue{Key: k, Value: e.extra[k]})
	}
	return out
}
