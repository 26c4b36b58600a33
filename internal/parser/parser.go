package parser

import (
	"slices"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/lexer"
	"lavish/internal/source"
	"lavish/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

type Result struct {
	File ast.FileID
	// OK is false once a lexical or syntax error stopped the parse.
	OK bool
}

// Parser - состояние парсера на один файл. Разбор останавливается на
// первой ошибке: восстановления нет.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	failed   bool
}

// ParseFile - входная точка для разбора одного файла.
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(lx.EmptySpan()),
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	p.parseNamespaces()
	if lx.Failed() {
		p.failed = true
	}
	return Result{
		File: p.file,
		OK:   !p.failed,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) at_or(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseNamespaces - верхний уровень: только `namespace NAME { ... }`.
func (p *Parser) parseNamespaces() {
	startSpan := p.lx.Peek().Span
	for !p.failed && !p.at(token.EOF) {
		if !p.at(token.KwNamespace) {
			p.fail(diag.SynUnexpectedTopLevel, "'namespace'")
			return
		}
		nsID, ok := p.parseNamespace()
		if !ok {
			return
		}
		p.arenas.PushNamespace(p.file, nsID)
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lx.Peek().Span)
}

// parseIdent - ожидает Ident и интернирует его.
func (p *Parser) parseIdent() (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.arenas.StringsInterner.Intern(tok.Text), tok.Span, true
	}
	p.fail(diag.SynExpectIdentifier, "identifier")
	return source.NoStringID, source.Span{}, false
}

// parseMemberName accepts identifiers and keywords: fields, parameters,
// results and variants live in their own namespace, so `data: string` or
// `map: bool` are fine there.
func (p *Parser) parseMemberName() (source.StringID, source.Span, bool) {
	if tok := p.lx.Peek(); tok.IsKeyword() {
		p.advance()
		return p.arenas.StringsInterner.Intern(tok.Text), tok.Span, true
	}
	return p.parseIdent()
}

// skipSemicolons eats optional item terminators.
func (p *Parser) skipSemicolons() {
	for p.at(token.Semicolon) {
		p.advance()
	}
}
