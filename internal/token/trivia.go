package token

import (
	"strings"

	"lavish/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment  // // ...
	TriviaBlockComment // /* ... */, может быть вложенным
	TriviaDocLine      // /// ...
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocLine:
		return "DocLine"
	default:
		return "Unknown"
	}
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// DocLines extracts documentation from the token's leading trivia: the
// run of line comments that ends right above the token. A blank line or a
// block comment ends the run, and a comment that shares its line with the
// previous token is a trailing comment and is never documentation.
func (t Token) DocLines() []string {
	lead := t.Leading
	var lines []string
	newlines := 0
	i := len(lead) - 1
	for ; i >= 0; i-- {
		tr := lead[i]
		switch tr.Kind {
		case TriviaSpace:
			continue
		case TriviaNewline:
			newlines += strings.Count(tr.Text, "\n")
			if newlines > 1 {
				return reverse(lines)
			}
			continue
		case TriviaLineComment, TriviaDocLine:
			if !startsLine(lead, i) {
				return reverse(lines)
			}
			lines = append(lines, commentText(tr))
			newlines = 0
		default:
			return reverse(lines)
		}
	}
	return reverse(lines)
}

// DocText joins DocLines with '\n'.
func (t Token) DocText() string {
	return strings.Join(t.DocLines(), "\n")
}

// startsLine reports whether the comment at lead[i] is the first thing on
// its line, i.e. preceded only by spaces and then a newline or file start.
func startsLine(lead []Trivia, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch lead[j].Kind {
		case TriviaSpace:
			continue
		case TriviaNewline:
			return true
		default:
			return false
		}
	}
	if len(lead) == 0 {
		return false
	}
	// leading trivia that starts at offset 0 belongs to the first token of the file
	return lead[0].Span.Start == 0
}

func commentText(tr Trivia) string {
	text := tr.Text
	switch tr.Kind {
	case TriviaDocLine:
		text = strings.TrimPrefix(text, "///")
	default:
		text = strings.TrimPrefix(text, "//")
	}
	text = strings.TrimPrefix(text, " ")
	return strings.TrimRight(text, " \t")
}

func reverse(lines []string) []string {
	for l, r := 0, len(lines)-1; l < r; l, r = l+1, r-1 {
		lines[l], lines[r] = lines[r], lines[l]
	}
	return lines
}
