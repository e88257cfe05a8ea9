// Package mapfile reads and writes the flat text form map entities travel
// in: one { } block per entity, each line a quoted "key" "value" pair,
// with nested { } brush blocks carried through verbatim. It is a thin
// boundary for the schema engine, not a geometry parser.
package mapfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/qmaptools/fgdkit/pkg/fgd"
)

// Entity is one raw entity block: its key/value pairs in file order plus
// any brush blocks, preserved verbatim for write-through.
type Entity struct {
	Pairs   []fgd.KeyValue
	Brushes []string
}

// Classname returns the entity's classname key, or "" when missing.
func (e *Entity) Classname() string {
	for _, kv := range e.Pairs {
		if kv.Key == "classname" {
			return kv.Value
		}
	}
	return ""
}

// HasBrushes reports whether the entity carries brush geometry.
func (e *Entity) HasBrushes() bool {
	return len(e.Brushes) > 0
}

// KeyPairs returns the pairs without the classname key, which is identity
// rather than a schema field.
func (e *Entity) KeyPairs() []fgd.KeyValue {
	out := make([]fgd.KeyValue, 0, len(e.Pairs))
	for _, kv := range e.Pairs {
		if kv.Key == "classname" {
			continue
		}
		out = append(out, kv)
	}
	return out
}

type parser struct {
	src  string
	pos  int
	line int
}

// Parse reads every entity block from map text. Line comments (//) are
// skipped; brush blocks are captured raw.
func Parse(data []byte) ([]Entity, error) {
	p := &parser{src: string(data), line: 1}
	var ents []Entity

	for {
		p.skipSpace()
		if p.eof() {
			return ents, nil
		}
		if p.cur() != '{' {
			return nil, fmt.Errorf("line %d: expected '{', found %q", p.line, p.cur())
		}
		p.advance()
		ent, err := p.parseEntity()
		if err != nil {
			return nil, err
		}
		ents = append(ents, ent)
	}
}

func (p *parser) parseEntity() (Entity, error) {
	var ent Entity
	for {
		p.skipSpace()
		if p.eof() {
			return ent, fmt.Errorf("line %d: unterminated entity block", p.line)
		}
		switch p.cur() {
		case '}':
			p.advance()
			return ent, nil
		case '{':
			brush, err := p.parseBrush()
			if err != nil {
				return ent, err
			}
			ent.Brushes = append(ent.Brushes, brush)
		case '"':
			key, err := p.parseQuoted()
			if err != nil {
				return ent, err
			}
			p.skipSpace()
			if p.eof() || p.cur() != '"' {
				return ent, fmt.Errorf("line %d: key %q has no value", p.line, key)
			}
			value, err := p.parseQuoted()
			if err != nil {
				return ent, err
			}
			ent.Pairs = append(ent.Pairs, fgd.KeyValue{Key: key, Value: value})
		default:
			return ent, fmt.Errorf("line %d: unexpected %q in entity block", p.line, p.cur())
		}
	}
}

// parseBrush captures a nested block verbatim, brace-balanced.
func (p *parser) parseBrush() (string, error) {
	start := p.pos + 1
	depth := 0
	for !p.eof() {
		switch p.cur() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				body := p.src[start:p.pos]
				p.advance()
				return strings.TrimSpace(body), nil
			}
		case '\n':
			p.line++
		}
		p.advance()
	}
	return "", fmt.Errorf("line %d: unterminated brush block", p.line)
}

// parseQuoted reads a double-quoted string. Doubled quotes ("") inside the
// body collapse to a single quote, matching how editors escape them.
func (p *parser) parseQuoted() (string, error) {
	p.advance() // opening quote
	start := p.pos
	for !p.eof() {
		c := p.cur()
		if c == '\n' {
			return "", fmt.Errorf("line %d: newline inside quoted string", p.line)
		}
		if c == '"' {
			// doubled quote is an escaped quote, not a terminator
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '"' {
				p.advance()
				p.advance()
				continue
			}
			body := p.src[start:p.pos]
			p.advance()
			return strings.ReplaceAll(body, `""`, `"`), nil
		}
		p.advance()
	}
	return "", fmt.Errorf("line %d: unterminated quoted string", p.line)
}

func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.cur()
		switch {
		case c == '\n':
			p.line++
			p.advance()
		case c == ' ' || c == '\t' || c == '\r':
			p.advance()
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/':
			for !p.eof() && p.cur() != '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *parser) cur() byte { return p.src[p.pos] }
func (p *parser) eof() bool { return p.pos >= len(p.src) }
func (p *parser) advance()  { p.pos++ }

// Write renders entities back to map text: pairs in order, then brushes.
// Quotes inside values are escaped by doubling.
func Write(w io.Writer, ents []Entity) error {
	var b strings.Builder
	for _, ent := range ents {
		b.WriteString("{\n")
		for _, kv := range ent.Pairs {
			b.WriteByte('"')
			b.WriteString(escapeQuotes(kv.Key))
			b.WriteString(`" "`)
			b.WriteString(escapeQuotes(kv.Value))
			b.WriteString("\"\n")
		}
		for _, brush := range ent.Brushes {
			b.WriteString("{\n")
			b.WriteString(brush)
			b.WriteString("\n}\n")
		}
		b.WriteString("}\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
