package token

import (
	"lavish/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwNamespace && t.Kind <= KwTimestamp
}

// IsPrimitive reports whether the token names a primitive scalar type.
func (t Token) IsPrimitive() bool {
	return t.Kind.IsPrimitive()
}

// IsPrimitive reports whether k names a primitive scalar type.
func (k Kind) IsPrimitive() bool {
	return k >= KwU8 && k <= KwTimestamp
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	return t.Kind >= LBrace && t.Kind <= Arrow
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Describe renders the token for "found X" parts of syntax errors.
func (t Token) Describe() string {
	switch t.Kind {
	case Ident:
		return "identifier '" + t.Text + "'"
	case StringLit:
		return "string literal " + t.Text
	case Invalid:
		if t.Text != "" {
			return "'" + t.Text + "'"
		}
	}
	return t.Kind.Describe()
}
