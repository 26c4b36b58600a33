package parser

import (
	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/token"
)

// parseNamespace разбирает `namespace NAME { ITEM* }`.
func (p *Parser) parseNamespace() (ast.ItemID, bool) {
	kw := p.advance() // 'namespace'
	doc := kw.DocText()

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok = p.expect(token.LBrace); !ok {
		return ast.NoItemID, false
	}

	nsID := p.arenas.NewNamespace(kw.Span, name, nameSpan, doc)
	for !p.at(token.RBrace) {
		itemID, ok := p.parseItem()
		if !ok {
			return ast.NoItemID, false
		}
		p.arenas.PushItem(nsID, itemID)
		p.skipSemicolons()
	}
	closing := p.advance()
	p.arenas.Items.Get(nsID).Span = kw.Span.Cover(closing.Span)
	return nsID, true
}

// parseItem выбирает распознаватель по первому токену.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwNamespace:
		return p.parseNamespace()
	case token.KwStruct:
		return p.parseStruct()
	case token.KwEnum:
		return p.parseEnum()
	case token.KwServer, token.KwClient:
		return p.parseFn()
	default:
		p.fail(diag.SynUnexpectedToken, "'namespace', 'struct', 'enum', 'server', 'client' or '}'")
		return ast.NoItemID, false
	}
}

// parseStruct разбирает `struct NAME { FIELD: TYPE, ... }`.
func (p *Parser) parseStruct() (ast.ItemID, bool) {
	kw := p.advance() // 'struct'
	doc := kw.DocText()

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok = p.expect(token.LBrace); !ok {
		return ast.NoItemID, false
	}
	fields, closing, ok := p.parseFields(token.RBrace)
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewStruct(kw.Span.Cover(closing), name, nameSpan, doc, fields), true
}

// parseEnum разбирает `enum NAME { A, B, ... }`.
func (p *Parser) parseEnum() (ast.ItemID, bool) {
	kw := p.advance() // 'enum'
	doc := kw.DocText()

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok = p.expect(token.LBrace); !ok {
		return ast.NoItemID, false
	}

	var variants []ast.Variant
	for !p.at(token.RBrace) {
		vdoc := p.lx.Peek().DocText()
		vname, vspan, ok := p.parseMemberName()
		if !ok {
			return ast.NoItemID, false
		}
		variants = append(variants, ast.Variant{Name: vname, Span: vspan, Doc: vdoc})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closing, ok := p.expect(token.RBrace)
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewEnum(kw.Span.Cover(closing.Span), name, nameSpan, doc, variants), true
}
