// Package export projects the schema registry into an FGD-style text file
// consumed by level editors for autocompletion. The output is a pure
// function of the registry: bundles in declaration order, fields in
// declaration order, defaults in canonical encoded form, so the file is
// byte-for-byte reproducible across runs.
package export

import (
	"io"
	"strings"

	"github.com/qmaptools/fgdkit/internal/schema"
	"github.com/qmaptools/fgdkit/pkg/fgd"
)

// Render builds the FGD document for every registered bundle.
func Render(reg *schema.Registry) string {
	var b strings.Builder
	for i, id := range reg.IDs() {
		if i > 0 {
			b.WriteByte('\n')
		}
		def, _ := reg.Lookup(id)
		renderBundle(&b, def)
	}
	return b.String()
}

// Write renders the registry to w.
func Write(w io.Writer, reg *schema.Registry) error {
	_, err := io.WriteString(w, Render(reg))
	return err
}

func renderBundle(b *strings.Builder, def *schema.Def) {
	b.WriteString("@baseclass")
	if len(def.Requires) > 0 {
		b.WriteString(" base(")
		b.WriteString(strings.Join(def.Requires, ", "))
		b.WriteString(")")
	}
	b.WriteString(" = ")
	b.WriteString(def.ID)
	if def.Doc != "" {
		b.WriteString(" : \"")
		b.WriteString(def.Doc)
		b.WriteString("\"")
	}
	b.WriteString("\n[\n")
	for i := range def.Fields {
		renderField(b, &def.Fields[i])
	}
	b.WriteString("]\n")
}

func renderField(b *strings.Builder, f *schema.Field) {
	b.WriteByte('\t')
	b.WriteString(f.Name)
	b.WriteByte('(')
	b.WriteString(editorType(f.Type))
	b.WriteString(") : \"")
	b.WriteString(f.Doc)
	b.WriteByte('"')

	if f.Default != nil {
		b.WriteString(" : ")
		b.WriteString(renderDefault(f))
	}

	if f.Type == fgd.TypeEnum {
		b.WriteString(" =\n\t[\n")
		for _, v := range f.Enum.Values {
			b.WriteString("\t\t")
			b.WriteString(fgd.Encode(fgd.TypeEnum, f.Enum, v.Code))
			b.WriteString(" : \"")
			b.WriteString(v.Name)
			b.WriteString("\"\n")
		}
		b.WriteString("\t]")
	}
	b.WriteByte('\n')
}

// editorType maps a scalar type tag to the editor-facing FGD type keyword.
func editorType(t fgd.Type) string {
	switch t {
	case fgd.TypeFloat:
		return "float"
	case fgd.TypeU32, fgd.TypeIntBool, fgd.TypeOverride:
		return "integer"
	case fgd.TypeColor:
		return "color255"
	case fgd.TypeEnum:
		return "choices"
	default:
		// strings and angle triples are free-form text in editors
		return "string"
	}
}

func renderDefault(f *schema.Field) string {
	text := fgd.Encode(f.Type, f.Enum, f.Default)
	switch f.Type {
	case fgd.TypeString, fgd.TypeColor, fgd.TypeAngles:
		return `"` + text + `"`
	default:
		return text
	}
}
