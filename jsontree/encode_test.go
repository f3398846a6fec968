package jsontree

import "testing"

func TestEncode(t *testing.T) {
	t.Run("Scalars", func(t *testing.T) {
		tests := map[string]Element{
			"null":     Null{},
			"true":     Bool(true),
			"false":    Bool(false),
			"-0.3e+10": MustNumber("-0.3e+10"),
			`"hi"`:     String("hi"),
		}
		for want, element := range tests {
			if got := Encode(element); got != want {
				t.Errorf("Encode(%v) = %q, want %q", element, got, want)
			}
		}
	})

	t.Run("Number Keeps Lexical Form", func(t *testing.T) {
		if got := Encode(MustNumber("12.50")); got != "12.50" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("Compact Containers", func(t *testing.T) {
		element := NewObject().
			Set("a", Array{MustNumber("1"), Bool(true)}).
			Set("b", Null{})
		want := `{"a":[1,true],"b":null}`
		if got := Encode(element); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("Empty Containers", func(t *testing.T) {
		if got := Encode(Array{}); got != "[]" {
			t.Errorf("got %q", got)
		}
		if got := Encode(NewObject()); got != "{}" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("String Escaping", func(t *testing.T) {
		got := Encode(String("a\"b\\c\nd"))
		want := "\"a\\\"b\\\\c\\nd\""
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("Control Chars As Unicode Escapes", func(t *testing.T) {
		got := Encode(String("\x01\x1f"))
		want := "\"\\u0001\\u001f\""
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if again := mustParse(t, got); again != String("\x01\x1f") {
			t.Errorf("re-parse = %q", again)
		}
	})
}

func TestEncodeIndent(t *testing.T) {
	element := NewObject().
		Set("name", String("flume")).
		Set("tags", Array{String("a"), String("b")}).
		Set("meta", NewObject().Set("ok", Bool(true)))

	want := `{
  "name": "flume",
  "tags": [
    "a",
    "b"
  ],
  "meta": {
    "ok": true
  }
}`
	if got := EncodeIndent(element, "  "); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	t.Run("Empty Containers Stay Flat", func(t *testing.T) {
		if got := EncodeIndent(Array{}, "  "); got != "[]" {
			t.Errorf("got %q", got)
		}
		if got := EncodeIndent(NewObject(), "  "); got != "{}" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("Round-Trips", func(t *testing.T) {
		again := mustParse(t, EncodeIndent(element, "\t"))
		if !Equal(element, again) {
			t.Error("indented output should parse back to an equal tree")
		}
	})
}
