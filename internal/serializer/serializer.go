// Package serializer renders a models.Document back to JSON text.
//
// Output keeps object key order and array order exactly as stored, writes
// number literals verbatim and escapes strings per RFC 8259. HTML-sensitive
// characters are left alone, unlike encoding/json's default.
package serializer

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/jsonrewrite/internal/models"
)

const hex = "0123456789abcdef"

// Serializer writes documents as JSON. The zero value writes compact JSON;
// a non-empty Indent switches to one member or element per line.
type Serializer struct {
	Indent string
}

// NewSerializer creates a Serializer producing compact JSON
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Serialize returns doc as compact JSON.
func Serialize(doc *models.Document) string {
	return NewSerializer().Serialize(doc)
}

// Serialize returns doc as JSON text.
func (s *Serializer) Serialize(doc *models.Document) string {
	var b strings.Builder
	w := &writer{out: &b, indent: s.Indent}
	w.node(doc, doc.Root, 0)
	return b.String()
}

// Write streams doc as JSON to out.
func (s *Serializer) Write(out io.Writer, doc *models.Document) error {
	bw := bufio.NewWriter(out)
	w := &writer{out: bw, indent: s.Indent}
	w.node(doc, doc.Root, 0)
	return bw.Flush()
}

type byteWriter interface {
	io.ByteWriter
	io.StringWriter
}

type writer struct {
	out    byteWriter
	indent string
}

func (w *writer) node(doc *models.Document, id models.NodeID, depth int) {
	n := doc.Node(id)
	switch n.Kind {
	case models.KindObject:
		if len(n.Members) == 0 {
			_, _ = w.out.WriteString("{}")
			return
		}
		_ = w.out.WriteByte('{')
		for i, m := range n.Members {
			if i > 0 {
				_ = w.out.WriteByte(',')
			}
			w.newline(depth + 1)
			w.str(m.Key)
			_ = w.out.WriteByte(':')
			if w.indent != "" {
				_ = w.out.WriteByte(' ')
			}
			w.node(doc, m.Value, depth+1)
		}
		w.newline(depth)
		_ = w.out.WriteByte('}')
	case models.KindArray:
		if len(n.Elements) == 0 {
			_, _ = w.out.WriteString("[]")
			return
		}
		_ = w.out.WriteByte('[')
		for i, e := range n.Elements {
			if i > 0 {
				_ = w.out.WriteByte(',')
			}
			w.newline(depth + 1)
			w.node(doc, e, depth+1)
		}
		w.newline(depth)
		_ = w.out.WriteByte(']')
	case models.KindString:
		w.str(n.Text)
	case models.KindNumber:
		_, _ = w.out.WriteString(n.Text)
	case models.KindBoolean:
		if n.Bool {
			_, _ = w.out.WriteString("true")
		} else {
			_, _ = w.out.WriteString("false")
		}
	case models.KindNull:
		_, _ = w.out.WriteString("null")
	}
}

func (w *writer) newline(depth int) {
	if w.indent == "" {
		return
	}
	_ = w.out.WriteByte('\n')
	for i := 0; i < depth; i++ {
		_, _ = w.out.WriteString(w.indent)
	}
}

// str writes s as a quoted JSON string. Invalid UTF-8 becomes U+FFFD.
func (w *writer) str(s string) {
	_ = w.out.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			_, _ = w.out.WriteString(s[start:i])
			switch c {
			case '"', '\\':
				_ = w.out.WriteByte('\\')
				_ = w.out.WriteByte(c)
			case '\b':
				_, _ = w.out.WriteString(`\b`)
			case '\f':
				_, _ = w.out.WriteString(`\f`)
			case '\n':
				_, _ = w.out.WriteString(`\n`)
			case '\r':
				_, _ = w.out.WriteString(`\r`)
			case '\t':
				_, _ = w.out.WriteString(`\t`)
			default:
				_, _ = w.out.WriteString(`\u00`)
				_ = w.out.WriteByte(hex[c>>4])
				_ = w.out.WriteByte(hex[c&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			_, _ = w.out.WriteString(s[start:i])
			_, _ = w.out.WriteString("\ufffd")
			i += size
			start = i
			continue
		}
		i += size
	}
	_, _ = w.out.WriteString(s[start:])
	_ = w.out.WriteByte('"')
}
