package token_test

import (
	"reflect"
	"testing"

	"lavish/internal/source"
	"lavish/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k}
}

func TestKeywordClassification(t *testing.T) {
	for text, want := range map[string]token.Kind{
		"namespace": token.KwNamespace,
		"server":    token.KwServer,
		"timestamp": token.KwTimestamp,
		"option":    token.KwOption,
	} {
		got, ok := token.LookupKeyword(text)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v; want %v", text, got, ok, want)
		}
		if !tok(got).IsKeyword() {
			t.Fatalf("%v must be a keyword", got)
		}
	}
	if _, ok := token.LookupKeyword("Namespace"); ok {
		t.Fatalf("keywords are case-sensitive")
	}
	if tok(token.Ident).IsKeyword() || tok(token.Arrow).IsKeyword() {
		t.Fatalf("ident and punctuation are not keywords")
	}
}

func TestPrimitiveKinds(t *testing.T) {
	prims := []token.Kind{
		token.KwU8, token.KwU16, token.KwU32, token.KwU64,
		token.KwI8, token.KwI16, token.KwI32, token.KwI64,
		token.KwBool, token.KwString, token.KwData, token.KwTimestamp,
	}
	for _, k := range prims {
		if !k.IsPrimitive() {
			t.Fatalf("%v should be primitive", k)
		}
	}
	for _, k := range []token.Kind{token.KwArray, token.KwMap, token.KwOption, token.Ident, token.KwStruct} {
		if k.IsPrimitive() {
			t.Fatalf("%v must not be primitive", k)
		}
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		tok  token.Token
		want string
	}{
		{token.Token{Kind: token.Ident, Text: "Foo"}, "identifier 'Foo'"},
		{tok(token.EOF), "end of file"},
		{tok(token.Arrow), "'->'"},
		{tok(token.KwStruct), "'struct'"},
		{tok(token.RBrace), "'}'"},
	}
	for _, c := range cases {
		if got := c.tok.Describe(); got != c.want {
			t.Errorf("Describe(%v) = %q, want %q", c.tok.Kind, got, c.want)
		}
	}
}

func TestKindStringUnknown(t *testing.T) {
	if got := token.Kind(250).String(); got != "Kind(250)" {
		t.Fatalf("unexpected %q", got)
	}
}

func trivia(kind token.TriviaKind, start uint32, text string) token.Trivia {
	return token.Trivia{
		Kind: kind,
		Span: source.Span{Start: start, End: start + uint32(len(text))},
		Text: text,
	}
}

func TestDocLines(t *testing.T) {
	tests := []struct {
		name    string
		leading []token.Trivia
		want    []string
	}{
		{
			name: "run above token",
			leading: []token.Trivia{
				trivia(token.TriviaNewline, 10, "\n"),
				trivia(token.TriviaSpace, 11, "  "),
				trivia(token.TriviaLineComment, 13, "// Sends a message."),
				trivia(token.TriviaNewline, 32, "\n"),
				trivia(token.TriviaSpace, 33, "  "),
				trivia(token.TriviaDocLine, 35, "/// Second line"),
				trivia(token.TriviaNewline, 50, "\n"),
				trivia(token.TriviaSpace, 51, "  "),
			},
			want: []string{"Sends a message.", "Second line"},
		},
		{
			name: "blank line detaches",
			leading: []token.Trivia{
				trivia(token.TriviaNewline, 10, "\n"),
				trivia(token.TriviaLineComment, 11, "// stray"),
				trivia(token.TriviaNewline, 19, "\n\n"),
			},
			want: nil,
		},
		{
			name: "trailing comment of previous line",
			leading: []token.Trivia{
				trivia(token.TriviaSpace, 10, " "),
				trivia(token.TriviaLineComment, 11, "// about x"),
				trivia(token.TriviaNewline, 21, "\n"),
				trivia(token.TriviaSpace, 22, "    "),
			},
			want: nil,
		},
		{
			name: "file start",
			leading: []token.Trivia{
				trivia(token.TriviaLineComment, 0, "// header"),
				trivia(token.TriviaNewline, 9, "\n"),
			},
			want: []string{"header"},
		},
		{
			name: "block comment breaks the run",
			leading: []token.Trivia{
				trivia(token.TriviaNewline, 3, "\n"),
				trivia(token.TriviaLineComment, 4, "// kept out"),
				trivia(token.TriviaNewline, 15, "\n"),
				trivia(token.TriviaBlockComment, 16, "/* x */"),
				trivia(token.TriviaNewline, 23, "\n"),
				trivia(token.TriviaLineComment, 24, "// kept"),
				trivia(token.TriviaNewline, 31, "\n"),
			},
			want: []string{"kept"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := token.Token{Kind: token.KwStruct, Leading: tt.leading}.DocLines()
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("DocLines() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
