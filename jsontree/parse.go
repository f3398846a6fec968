package jsontree

import (
	"io"
	"strings"
)

// Parse tokenizes a single JSON element from r. Trailing whitespace is
// permitted; any other trailing input is an error. Parsing is
// all-or-nothing: on error the returned element is nil.
func Parse(r io.Reader) (Element, error) {
	src := NewSource(r)
	p := &parser{src: src}

	element, err := p.parseElement()
	if err != nil {
		return nil, err
	}

	src.SkipWhitespace()
	if _, err := src.Peek(); err == nil {
		return nil, src.errAt(src.Index(), "Unexpected token")
	}
	return element, nil
}

// ParseString tokenizes a single JSON element from s.
func ParseString(s string) (Element, error) {
	return Parse(strings.NewReader(s))
}

// parser holds the shared source; all parse state lives in the call
// stack, one frame per syntactic construct.
type parser struct {
	src *Source
}

// parseElement dispatches on one character of lookahead to the matching
// construct parser.
func (p *parser) parseElement() (Element, error) {
	p.src.SkipWhitespace()

	c, err := p.src.Peek()
	if err != nil {
		return nil, p.src.errAt(p.src.Index(), "Unexpected end of input")
	}

	switch {
	case c == '"':
		return p.parseString()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == 't':
		return p.parseLiteral("true", Bool(true), "Invalid Boolean")
	case c == 'f':
		return p.parseLiteral("false", Bool(false), "Invalid Boolean")
	case c == 'n':
		return p.parseLiteral("null", Null{}, "Invalid Null")
	default:
		index := p.src.Index()
		_, _ = p.src.Next()
		return nil, p.src.errAt(index, "Unexpected token")
	}
}

func (p *parser) parseObject() (Element, error) {
	if _, err := p.src.Next(); err != nil { // consume '{'
		return nil, p.src.errAt(p.src.Index(), "Unexpected end of input")
	}

	object := NewObject()
	haveMember := false

	for {
		p.src.SkipWhitespace()

		c, err := p.src.Peek()
		if err != nil {
			return nil, p.src.errAt(p.src.Index(), "Object is not closed")
		}

		switch c {
		case '}':
			_, _ = p.src.Next()
			return object, nil
		case ',':
			if !haveMember {
				return nil, p.src.errAt(p.src.Index(), "Misplaced comma")
			}
			_, _ = p.src.Next()
			haveMember = false
		default:
			if haveMember {
				return nil, p.src.errAt(p.src.Index(), "Expected: ,")
			}

			keyIndex := p.src.Index()
			key, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			keyString, ok := key.(String)
			if !ok {
				return nil, p.src.errAt(keyIndex, "Keys in objects must be strings")
			}

			p.src.SkipWhitespace()
			sep, err := p.src.Peek()
			if err != nil {
				return nil, p.src.errAt(p.src.Index(), "Object is not closed")
			}
			if sep != ':' {
				return nil, p.src.errAt(p.src.Index(), "Expected: :")
			}
			_, _ = p.src.Next()

			value, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			object.Set(string(keyString), value)
			haveMember = true
		}
	}
}

func (p *parser) parseArray() (Element, error) {
	if _, err := p.src.Next(); err != nil { // consume '['
		return nil, p.src.errAt(p.src.Index(), "Unexpected end of input")
	}

	var elements Array
	haveElement := false

	for {
		p.src.SkipWhitespace()

		c, err := p.src.Peek()
		if err != nil {
			return nil, p.src.errAt(p.src.Index(), "Array is not closed")
		}

		switch c {
		case ']':
			_, _ = p.src.Next()
			if elements == nil {
				elements = Array{}
			}
			return elements, nil
		case ',':
			if !haveElement {
				return nil, p.src.errAt(p.src.Index(), "Misplaced comma")
			}
			_, _ = p.src.Next()
			haveElement = false
		default:
			if haveElement {
				return nil, p.src.errAt(p.src.Index(), "Expected: ,")
			}
			element, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
			haveElement = true
		}
	}
}

func (p *parser) parseString() (Element, error) {
	if _, err := p.src.Next(); err != nil { // consume opening '"'
		return nil, p.src.errAt(p.src.Index(), "Unexpected end of input")
	}

	var b strings.Builder
	for {
		c, err := p.src.Next()
		if err != nil {
			return nil, p.src.errAt(p.src.Index(), "String is not closed")
		}

		switch c {
		case '"':
			return String(b.String()), nil
		case '\\':
			if err := p.parseEscape(&b); err != nil {
				return nil, err
			}
		default:
			b.WriteRune(c)
		}
	}
}

func (p *parser) parseEscape(b *strings.Builder) error {
	c, err := p.src.Next()
	if err != nil {
		return p.src.errAt(p.src.Index(), "String is not closed")
	}

	switch c {
	case '"':
		b.WriteByte('"')
	case '\\':
		b.WriteByte('\\')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		// Exactly 4 hex digits decoded as one UTF-16 code unit.
		var unit rune
		for i := 0; i < 4; i++ {
			h, err := p.src.Next()
			if err != nil {
				return p.src.errAt(p.src.Index(), "String is not closed")
			}
			digit, ok := hexDigit(h)
			if !ok {
				return p.src.errAt(p.src.Index()-1, "Encoded char must be in hex")
			}
			unit = unit<<4 | digit
		}
		b.WriteRune(unit)
	default:
		return p.src.errAt(p.src.Index()-1, "Invalid escaped char")
	}
	return nil
}

func hexDigit(c rune) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func (p *parser) parseNumber() (Element, error) {
	start := p.src.Index()

	var b strings.Builder
	for {
		c, err := p.src.Peek()
		if err != nil {
			break
		}
		if !isNumberChar(c) {
			break
		}
		_, _ = p.src.Next()
		b.WriteRune(c)
	}

	number, err := NewNumber(b.String())
	if err != nil {
		return nil, p.src.errAt(start, "Invalid Number")
	}
	return number, nil
}

func isNumberChar(c rune) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

func (p *parser) parseLiteral(lit string, value Element, msg string) (Element, error) {
	for _, want := range lit {
		c, err := p.src.Next()
		if err != nil {
			return nil, p.src.errAt(p.src.Index(), msg)
		}
		if c != want {
			return nil, p.src.errAt(p.src.Index()-1, msg)
		}
	}
	return value, nil
}
