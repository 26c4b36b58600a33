// Package token defines lexical token kinds and trivia for the lavish IDL.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Primitive type names (u8 ... timestamp) and the generic constructors
//     array, option, map are keywords, so a user type can never shadow them.
//   - Comments never reach the token stream; they travel as leading Trivia
//     and only line comments directly above a token become its documentation.
package token
