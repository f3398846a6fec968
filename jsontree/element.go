// Package jsontree implements a hand-rolled recursive-descent JSON
// tokenizer producing an immutable element tree.
//
// The tokenizer reads from any io.Reader through a mark/resettable rune
// source that tracks an absolute character index. Every parse failure is
// a *SyntaxError carrying that index and a bounded context window around
// the offending character, so diagnostics are human-readable, not just
// offsets.
//
// Numbers are kept exact: the full lexical run of a JSON number is
// retained and its value is an arbitrary-precision rational, so
// tokenizing and re-serializing never loses precision. Objects preserve
// insertion order, and a duplicate key overwrites the earlier value.
//
// Elements are immutable once built; callers replace whole elements
// rather than mutating in place.
package jsontree

import (
	"fmt"
	"math/big"
)

// Kind discriminates the element variants.
type Kind int

// Element kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Element is a node in the parsed JSON tree: null, boolean, number,
// string, array, or object. The set of implementations is closed.
type Element interface {
	Kind() Kind
	element()
}

// Null is the JSON null value.
type Null struct{}

// Kind implements Element.
func (Null) Kind() Kind { return KindNull }
func (Null) element()   {}

// Bool is a JSON boolean.
type Bool bool

// Kind implements Element.
func (Bool) Kind() Kind { return KindBool }
func (Bool) element()   {}

// Number is a JSON number. The original lexical form is retained for
// serialization; the value is an arbitrary-precision rational, so numbers
// compare by numeric value rather than representation.
type Number struct {
	lit string
	rat *big.Rat
}

// NewNumber parses the lexical form of a JSON number (optional sign,
// digits, optional fraction, optional exponent) into an exact value.
func NewNumber(lit string) (Number, error) {
	rat, ok := new(big.Rat).SetString(lit)
	if !ok {
		return Number{}, fmt.Errorf("invalid number literal %q", lit)
	}
	return Number{lit: lit, rat: rat}, nil
}

// MustNumber is NewNumber for literals known to be valid; it panics
// otherwise.
func MustNumber(lit string) Number {
	n, err := NewNumber(lit)
	if err != nil {
		panic(err)
	}
	return n
}

// NumberFromInt returns the Number for an integer value.
func NumberFromInt(v int64) Number {
	return Number{lit: fmt.Sprintf("%d", v), rat: new(big.Rat).SetInt64(v)}
}

// Kind implements Element.
func (Number) Kind() Kind { return KindNumber }
func (Number) element()   {}

// Literal returns the original lexical form.
func (n Number) Literal() string { return n.lit }

// Rat returns a copy of the exact value. The zero Number is zero.
func (n Number) Rat() *big.Rat {
	if n.rat == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(n.rat)
}

// Cmp compares numeric values: -1 if n < other, 0 if equal, +1 if n > other.
func (n Number) Cmp(other Number) int {
	return n.Rat().Cmp(other.Rat())
}

// String is a JSON string holding decoded text.
type String string

// Kind implements Element.
func (String) Kind() Kind { return KindString }
func (String) element()   {}

// Array is an ordered list of elements.
type Array []Element

// Kind implements Element.
func (Array) Kind() Kind { return KindArray }
func (Array) element()   {}

// Object is an insertion-ordered string-to-element map. A duplicate key
// overwrites the earlier value and keeps its original position.
type Object struct {
	keys   []string
	values map[string]Element
}

// NewObject creates an empty object. Members are added with Set, which
// chains for literal-style construction.
func NewObject() *Object {
	return &Object{values: make(map[string]Element)}
}

// Kind implements Element.
func (*Object) Kind() Kind { return KindObject }
func (*Object) element()   {}

// Set inserts or replaces the member for key and returns the object for
// chaining during construction.
func (o *Object) Set(key string, value Element) *Object {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get returns the member for key and whether it exists.
func (o *Object) Get(key string) (Element, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the member keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Equal reports deep structural equality. Numbers compare by numeric
// value, objects by insertion order, keys, and member values.
func Equal(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		return av.Cmp(b.(Number)) == 0
	case String:
		return av == b.(String)
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if len(av.keys) != len(bv.keys) {
			return false
		}
		for i, k := range av.keys {
			if bv.keys[i] != k {
				return false
			}
			if !Equal(av.values[k], bv.values[k]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
