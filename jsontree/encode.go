package jsontree

import (
	"fmt"
	"strings"
)

// Encode serializes the element compactly. Numbers serialize as their
// original lexical form, objects in insertion order.
func Encode(e Element) string {
	var b strings.Builder
	encodeTo(&b, e, "", "")
	return b.String()
}

// EncodeIndent serializes the element with newlines and the given indent
// per nesting level.
func EncodeIndent(e Element, indent string) string {
	var b strings.Builder
	encodeTo(&b, e, indent, "")
	return b.String()
}

func encodeTo(b *strings.Builder, e Element, indent, prefix string) {
	switch v := e.(type) {
	case Null:
		b.WriteString("null")
	case Bool:
		if v {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		b.WriteString(v.Literal())
	case String:
		encodeString(b, string(v))
	case Array:
		if len(v) == 0 {
			b.WriteString("[]")
			return
		}
		inner := prefix + indent
		b.WriteByte('[')
		for i, el := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			newlineIndent(b, indent, inner)
			encodeTo(b, el, indent, inner)
		}
		newlineIndent(b, indent, prefix)
		b.WriteByte(']')
	case *Object:
		if v.Len() == 0 {
			b.WriteString("{}")
			return
		}
		inner := prefix + indent
		b.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			newlineIndent(b, indent, inner)
			encodeString(b, key)
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			encodeTo(b, v.values[key], indent, inner)
		}
		newlineIndent(b, indent, prefix)
		b.WriteByte('}')
	}
}

func newlineIndent(b *strings.Builder, indent, prefix string) {
	if indent == "" {
		return
	}
	b.WriteByte('\n')
	b.WriteString(prefix)
}

func encodeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(b, `\u%04x`, c)
			} else {
				b.WriteRune(c)
			}
		}
	}
	b.WriteByte('"')
}
