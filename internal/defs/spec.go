// Package defs loads user-supplied bundle definitions from YAML files.
// Custom bundles extend the compiled-in schema before the registry freezes;
// nothing here runs after registry construction.
package defs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/qmaptools/fgdkit/internal/schema"
	"github.com/qmaptools/fgdkit/pkg/fgd"
)

// FileSpec is the root of one definitions file.
type FileSpec struct {
	Bundles []BundleSpec `yaml:"bundles"`
}

// BundleSpec describes one bundle in YAML form.
type BundleSpec struct {
	ID       string      `yaml:"id"`
	Doc      string      `yaml:"doc"`
	Requires []string    `yaml:"requires"`
	Fields   []FieldSpec `yaml:"fields"`
}

// FieldSpec describes one field. Default is given in the field's own
// textual form and decoded through the same codec the map boundary uses,
// so a bad default fails exactly like bad map text would.
type FieldSpec struct {
	Name     string       `yaml:"name"`
	Type     string       `yaml:"type"`
	Optional bool         `yaml:"optional"`
	Default  string       `yaml:"default"`
	Doc      string       `yaml:"doc"`
	Choices  []ChoiceSpec `yaml:"choices"`
}

// ChoiceSpec is one named code of a choices field.
type ChoiceSpec struct {
	Name string `yaml:"name"`
	Code int    `yaml:"code"`
}

var typeTags = map[string]fgd.Type{
	"float":    fgd.TypeFloat,
	"integer":  fgd.TypeU32,
	"string":   fgd.TypeString,
	"intbool":  fgd.TypeIntBool,
	"override": fgd.TypeOverride,
	"color":    fgd.TypeColor,
	"angles":   fgd.TypeAngles,
	"choices":  fgd.TypeEnum,
}

// Def converts the YAML spec into a schema definition. Registry
// construction performs the full authoring validation afterward.
func (s *BundleSpec) Def() (*schema.Def, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("bundle with no id")
	}
	def := &schema.Def{
		ID:       s.ID,
		Doc:      s.Doc,
		Requires: s.Requires,
	}
	for _, fs := range s.Fields {
		f, err := fs.field()
		if err != nil {
			return nil, fmt.Errorf("bundle %q: %w", s.ID, err)
		}
		def.Fields = append(def.Fields, f)
	}
	return def, nil
}

func (s *FieldSpec) field() (schema.Field, error) {
	t, ok := typeTags[strings.ToLower(s.Type)]
	if !ok {
		return schema.Field{}, fmt.Errorf("field %q: unknown type %q", s.Name, s.Type)
	}

	f := schema.Field{
		Name:     s.Name,
		Type:     t,
		Optional: s.Optional,
		Doc:      s.Doc,
	}

	if t == fgd.TypeEnum {
		enum := &fgd.EnumSpec{Name: s.Name}
		for _, c := range s.Choices {
			enum.Values = append(enum.Values, fgd.EnumValue{Name: c.Name, Code: c.Code})
		}
		f.Enum = enum
	}

	if s.Default != "" {
		v, err := fgd.Decoder{}.Decode(t, f.Enum, s.Default)
		if err != nil {
			return schema.Field{}, fmt.Errorf("field %q: bad default %q: %w", s.Name, s.Default, err)
		}
		f.Default = v
	}
	return f, nil
}

// LoadFile reads one YAML definitions file.
func LoadFile(path string) ([]*schema.Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("defs: read %s: %w", path, err)
	}
	var spec FileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("defs: unmarshal %s: %w", path, err)
	}
	var out []*schema.Def
	for i := range spec.Bundles {
		def, err := spec.Bundles[i].Def()
		if err != nil {
			return nil, fmt.Errorf("defs: %s: %w", path, err)
		}
		out = append(out, def)
	}
	return out, nil
}

// LoadDir reads every .yaml/.yml file in dir, in lexical filename order so
// the resulting registry order is reproducible. A missing directory is not
// an error: custom definitions are optional.
func LoadDir(dir string) ([]*schema.Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("defs: read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isSpecFile(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	var out []*schema.Def
	for _, name := range files {
		defs, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, defs...)
	}
	return out, nil
}

func isSpecFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
