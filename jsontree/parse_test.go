package jsontree

import (
	"errors"
	"math/big"
	"strings"
	"testing"
)

func mustParse(t *testing.T, input string) Element {
	t.Helper()
	element, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", input, err)
	}
	return element
}

func syntaxError(t *testing.T, input string) *SyntaxError {
	t.Helper()
	_, err := ParseString(input)
	if err == nil {
		t.Fatalf("ParseString(%q): expected error", input)
	}
	var syn *SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("ParseString(%q): expected *SyntaxError, got %T", input, err)
	}
	return syn
}

func TestParseScalars(t *testing.T) {
	t.Run("Null", func(t *testing.T) {
		if got := mustParse(t, "null"); got.Kind() != KindNull {
			t.Errorf("kind = %v", got.Kind())
		}
	})

	t.Run("Booleans", func(t *testing.T) {
		if got := mustParse(t, "true"); got != Bool(true) {
			t.Errorf("got %v", got)
		}
		if got := mustParse(t, "false"); got != Bool(false) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("String", func(t *testing.T) {
		if got := mustParse(t, `"hello"`); got != String("hello") {
			t.Errorf("got %v", got)
		}
	})

	t.Run("Number Keeps Lexical Form", func(t *testing.T) {
		n := mustParse(t, "12.50").(Number)
		if n.Literal() != "12.50" {
			t.Errorf("literal = %q", n.Literal())
		}
	})
}

func TestParseNumberExactness(t *testing.T) {
	n := mustParse(t, "-0.3e+10").(Number)

	want, ok := new(big.Rat).SetString("-0.3e+10")
	if !ok {
		t.Fatal("reference parse failed")
	}
	if n.Rat().Cmp(want) != 0 {
		t.Errorf("value = %v, want %v", n.Rat(), want)
	}

	// No floating-point rounding on long fractions either.
	long := mustParse(t, "0.10000000000000000000000000001").(Number)
	wantLong, _ := new(big.Rat).SetString("0.10000000000000000000000000001")
	if long.Rat().Cmp(wantLong) != 0 {
		t.Error("long fraction lost precision")
	}
}

func TestParseContainers(t *testing.T) {
	t.Run("Nested Object Round-Trip", func(t *testing.T) {
		input := `{"x":{"y":90}}`
		element := mustParse(t, input)

		if got := Encode(element); got != input {
			t.Errorf("Encode = %q, want %q", got, input)
		}

		again := mustParse(t, Encode(element))
		if !Equal(element, again) {
			t.Error("round-tripped tree is not structurally equal")
		}
	})

	t.Run("Array With Whitespace", func(t *testing.T) {
		element := mustParse(t, " [ 1 ,\ttrue ,\nnull , \"x\" ] ")
		arr := element.(Array)
		if len(arr) != 4 {
			t.Fatalf("len = %d", len(arr))
		}
		if !Equal(arr[0], MustNumber("1")) || arr[1] != Bool(true) {
			t.Error("unexpected leading elements")
		}
		if arr[2].Kind() != KindNull || arr[3] != String("x") {
			t.Error("unexpected trailing elements")
		}
	})

	t.Run("Empty Containers", func(t *testing.T) {
		if arr := mustParse(t, "[]").(Array); len(arr) != 0 {
			t.Errorf("len = %d", len(arr))
		}
		if obj := mustParse(t, "{}").(*Object); obj.Len() != 0 {
			t.Errorf("len = %d", obj.Len())
		}
	})

	t.Run("Object Preserves Insertion Order", func(t *testing.T) {
		obj := mustParse(t, `{"z":1,"a":2,"m":3}`).(*Object)
		want := []string{"z", "a", "m"}
		for i, k := range obj.Keys() {
			if k != want[i] {
				t.Fatalf("keys = %v, want %v", obj.Keys(), want)
			}
		}
	})

	t.Run("Duplicate Key Last Write Wins", func(t *testing.T) {
		obj := mustParse(t, `{"a":1,"a":2}`).(*Object)
		if obj.Len() != 1 {
			t.Fatalf("len = %d, want 1", obj.Len())
		}
		v, _ := obj.Get("a")
		if !Equal(v, MustNumber("2")) {
			t.Errorf("a = %v, want 2", v)
		}
	})
}

func TestParseErrors(t *testing.T) {
	t.Run("Unterminated Array", func(t *testing.T) {
		input := `["element"`
		syn := syntaxError(t, input)
		if syn.Index != len(input) {
			t.Errorf("index = %d, want stream length %d", syn.Index, len(input))
		}
		if !strings.Contains(syn.Error(), "is not closed") {
			t.Errorf("message = %q, want a not-closed diagnostic", syn.Error())
		}
		if !strings.Contains(syn.Error(), `"element"`) {
			t.Errorf("message = %q, want the context window to show the source", syn.Error())
		}
	})

	t.Run("Missing Separator", func(t *testing.T) {
		syn := syntaxError(t, `["element""element"]`)
		if !strings.Contains(syn.Msg, "Expected: ,") {
			t.Errorf("msg = %q", syn.Msg)
		}
		if syn.Index != 10 {
			t.Errorf("index = %d, want 10 (the second opening quote)", syn.Index)
		}
	})

	t.Run("Misplaced Comma", func(t *testing.T) {
		for input, index := range map[string]int{
			`[,1]`:   1,
			`[1,,2]`: 3,
			`{,}`:    1,
		} {
			syn := syntaxError(t, input)
			if syn.Msg != "Misplaced comma" {
				t.Errorf("%q: msg = %q", input, syn.Msg)
			}
			if syn.Index != index {
				t.Errorf("%q: index = %d, want %d", input, syn.Index, index)
			}
		}
	})

	t.Run("Non-String Object Key", func(t *testing.T) {
		syn := syntaxError(t, `{1:2}`)
		if syn.Msg != "Keys in objects must be strings" {
			t.Errorf("msg = %q", syn.Msg)
		}
		if syn.Index != 1 {
			t.Errorf("index = %d, want 1", syn.Index)
		}
	})

	t.Run("Missing Colon", func(t *testing.T) {
		syn := syntaxError(t, `{"a" 1}`)
		if syn.Msg != "Expected: :" {
			t.Errorf("msg = %q", syn.Msg)
		}
	})

	t.Run("Unterminated Constructs", func(t *testing.T) {
		for input, msg := range map[string]string{
			`"abc`:   "String is not closed",
			`{"a":1`: "Object is not closed",
			`[1,2`:   "Array is not closed",
		} {
			syn := syntaxError(t, input)
			if syn.Msg != msg {
				t.Errorf("%q: msg = %q, want %q", input, syn.Msg, msg)
			}
			if syn.Index != len(input) {
				t.Errorf("%q: index = %d, want %d", input, syn.Index, len(input))
			}
		}
	})

	t.Run("Invalid Literals", func(t *testing.T) {
		if syn := syntaxError(t, "trux"); syn.Msg != "Invalid Boolean" {
			t.Errorf("msg = %q", syn.Msg)
		}
		if syn := syntaxError(t, "falze"); syn.Msg != "Invalid Boolean" {
			t.Errorf("msg = %q", syn.Msg)
		}
		if syn := syntaxError(t, "nulL"); syn.Msg != "Invalid Null" {
			t.Errorf("msg = %q", syn.Msg)
		}
	})

	t.Run("Unexpected Token", func(t *testing.T) {
		syn := syntaxError(t, "@")
		if syn.Msg != "Unexpected token" {
			t.Errorf("msg = %q", syn.Msg)
		}
		if syn.Index != 0 {
			t.Errorf("index = %d, want 0", syn.Index)
		}
	})

	t.Run("Trailing Input", func(t *testing.T) {
		syn := syntaxError(t, "{} x")
		if syn.Msg != "Unexpected token" {
			t.Errorf("msg = %q", syn.Msg)
		}
		if syn.Index != 3 {
			t.Errorf("index = %d, want 3", syn.Index)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		syn := syntaxError(t, "")
		if syn.Msg != "Unexpected end of input" {
			t.Errorf("msg = %q", syn.Msg)
		}
	})

	t.Run("Window Collapses Whitespace And Brackets Offender", func(t *testing.T) {
		syn := syntaxError(t, "[1,\n\t@]")
		if !strings.Contains(syn.Window, "<@>") {
			t.Errorf("window = %q, want the offending char bracketed", syn.Window)
		}
		if strings.ContainsAny(syn.Window, "\n\t") {
			t.Errorf("window = %q, want newlines and tabs collapsed", syn.Window)
		}
	})
}

func TestParseEscapes(t *testing.T) {
	t.Run("Decodes Standard And Unicode Escapes", func(t *testing.T) {
		input := `"\"Hello \\ \u0057\u006f\u0072\u006c\u0064\""`
		got := mustParse(t, input)
		want := String(`"Hello \ World"`)
		if got != want {
			t.Errorf("decoded = %q, want %q", got, want)
		}

		// Re-escaping produces the canonical escaped form and survives
		// another parse.
		encoded := Encode(got)
		if encoded != `"\"Hello \\ World\""` {
			t.Errorf("encoded = %q", encoded)
		}
		if again := mustParse(t, encoded); again != want {
			t.Errorf("re-parse = %q, want %q", again, want)
		}
	})

	t.Run("Control Escapes", func(t *testing.T) {
		got := mustParse(t, `"\b\f\n\r\t"`)
		if got != String("\b\f\n\r\t") {
			t.Errorf("decoded = %q", got)
		}
	})

	t.Run("Hex Case-Insensitive", func(t *testing.T) {
		if got := mustParse(t, `"\u00Ff"`); got != String("ÿ") {
			t.Errorf("decoded = %q", got)
		}
	})

	t.Run("Invalid Escape Char", func(t *testing.T) {
		syn := syntaxError(t, `"\x"`)
		if syn.Msg != "Invalid escaped char" {
			t.Errorf("msg = %q", syn.Msg)
		}
	})

	t.Run("Non-Hex In Unicode Escape", func(t *testing.T) {
		syn := syntaxError(t, `"\u00g0"`)
		if syn.Msg != "Encoded char must be in hex" {
			t.Errorf("msg = %q", syn.Msg)
		}
	})
}
