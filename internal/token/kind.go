package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks a lexing failure; the lexer has already reported it.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	// StringLit is "quoted text". The grammar has no use for it, but
	// lexing it lets an unterminated quote surface as a lexical error.
	StringLit

	KwNamespace // namespace
	KwStruct    // struct
	KwEnum      // enum
	KwServer    // server
	KwClient    // client
	KwFn        // fn

	KwArray  // array
	KwOption // option
	KwMap    // map

	KwU8        // u8
	KwU16       // u16
	KwU32       // u32
	KwU64       // u64
	KwI8        // i8
	KwI16       // i16
	KwI32       // i32
	KwI64       // i64
	KwBool      // bool
	KwString    // string
	KwData      // data
	KwTimestamp // timestamp

	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	Lt        // <
	Gt        // >
	Comma     // ,
	Colon     // :
	Semicolon // ;
	Dot       // .
	Arrow     // ->
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	StringLit:   "StringLit",
	KwNamespace: "KwNamespace",
	KwStruct:    "KwStruct",
	KwEnum:      "KwEnum",
	KwServer:    "KwServer",
	KwClient:    "KwClient",
	KwFn:        "KwFn",
	KwArray:     "KwArray",
	KwOption:    "KwOption",
	KwMap:       "KwMap",
	KwU8:        "KwU8",
	KwU16:       "KwU16",
	KwU32:       "KwU32",
	KwU64:       "KwU64",
	KwI8:        "KwI8",
	KwI16:       "KwI16",
	KwI32:       "KwI32",
	KwI64:       "KwI64",
	KwBool:      "KwBool",
	KwString:    "KwString",
	KwData:      "KwData",
	KwTimestamp: "KwTimestamp",
	LBrace:      "LBrace",
	RBrace:      "RBrace",
	LParen:      "LParen",
	RParen:      "RParen",
	Lt:          "Lt",
	Gt:          "Gt",
	Comma:       "Comma",
	Colon:       "Colon",
	Semicolon:   "Semicolon",
	Dot:         "Dot",
	Arrow:       "Arrow",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Describe returns the user-facing spelling used in "expected X, found Y"
// messages: the literal text for fixed tokens, a category name otherwise.
func (k Kind) Describe() string {
	switch k {
	case Invalid:
		return "invalid token"
	case EOF:
		return "end of file"
	case Ident:
		return "identifier"
	case StringLit:
		return "string literal"
	}
	if s, ok := spelling[k]; ok {
		return "'" + s + "'"
	}
	return k.String()
}

var spelling = map[Kind]string{
	LBrace: "{", RBrace: "}", LParen: "(", RParen: ")",
	Lt: "<", Gt: ">", Comma: ",", Colon: ":", Semicolon: ";", Dot: ".", Arrow: "->",
}

func init() {
	for text, k := range keywords {
		spelling[k] = text
	}
}
