package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectType         Code = 2003
	SynUnexpectedTopLevel Code = 2004
	SynStringNotAllowed   Code = 2005

	// Семантические
	SemaInfo                   Code = 3000
	SemaDuplicateDeclaration   Code = 3001
	SemaUnresolvedType         Code = 3002
	SemaUnresolvedNamespace    Code = 3003
	SemaInvalidGenericArgument Code = 3004
	SemaCyclicTypeDefinition   Code = 3005
	SemaUnresolvedFunction     Code = 3006
	SemaNestedSameRole         Code = 3007

	// Ошибки I/O
	IOLoadFileError Code = 4001
	IONoSources     Code = 4002

	// Ошибки проекта
	ProjInvalidManifest Code = 5001
	ProjMemberNotFound  Code = 5002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynUnexpectedTopLevel:       "Unexpected top level",
	SynStringNotAllowed:         "String literal not allowed",
	SemaInfo:                    "Semantic information",
	SemaDuplicateDeclaration:    "Duplicate declaration",
	SemaUnresolvedType:          "Unresolved type",
	SemaUnresolvedNamespace:     "Unresolved namespace",
	SemaInvalidGenericArgument:  "Invalid generic argument",
	SemaCyclicTypeDefinition:    "Cyclic type definition",
	SemaUnresolvedFunction:      "Unresolved function",
	SemaNestedSameRole:          "Nested function has the role of its parent",
	IOLoadFileError:             "I/O load file error",
	IONoSources:                 "No source files",
	ProjInvalidManifest:         "Invalid workspace manifest",
	ProjMemberNotFound:          "Workspace member not found",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Timings",
}

// ID returns the stable textual id, e.g. "SYN2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Phase groups codes by the pipeline stage that produces them.
type Phase uint8

const (
	PhaseUnknown Phase = iota
	PhaseLex
	PhaseSyntax
	PhaseSema
	PhaseIO
	PhaseProject
	PhaseObserv
)

// Phase returns the pipeline stage owning the code.
func (c Code) Phase() Phase {
	switch {
	case c >= 1000 && c < 2000:
		return PhaseLex
	case c >= 2000 && c < 3000:
		return PhaseSyntax
	case c >= 3000 && c < 4000:
		return PhaseSema
	case c >= 4000 && c < 5000:
		return PhaseIO
	case c >= 5000 && c < 6000:
		return PhaseProject
	case c >= 6000 && c < 7000:
		return PhaseObserv
	}
	return PhaseUnknown
}
