package parser

import (
	"lavish/internal/diag"
	"lavish/internal/source"
	"lavish/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points at the offending token. At EOF the span is moved
// right after the last consumed token so the caret lands on the line
// where something is missing.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect - ожидаем конкретный токен. Если нет - ошибка и разбор окончен.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.fail(diag.SynUnexpectedToken, k.Describe())
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

// fail reports "expected X, found Y" and stops the parse. Lexical errors
// were already reported by the lexer, so an Invalid token stops silently.
func (p *Parser) fail(code diag.Code, expected string) {
	if p.failed {
		return
	}
	p.failed = true
	found := p.lx.Peek()
	if found.Kind == token.Invalid || p.lx.Failed() {
		return
	}
	if found.Kind == token.StringLit {
		code = diag.SynStringNotAllowed
	}
	p.report(code, p.diagnosticSpan(), "expected "+expected+", found "+found.Describe())
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
}
