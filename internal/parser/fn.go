package parser

import (
	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/source"
	"lavish/internal/token"
)

// parseFn разбирает
//
//	(server|client) fn NAME(PARAMS) (-> (RESULTS))? ({ FN* })?
//
// Тело может содержать только вложенные функции.
func (p *Parser) parseFn() (ast.ItemID, bool) {
	roleTok := p.advance()
	doc := roleTok.DocText()

	decl := ast.FnDecl{RoleSpan: roleTok.Span}
	if roleTok.Kind == token.KwClient {
		decl.Role = ast.RoleClient
	}

	if _, ok := p.expect(token.KwFn); !ok {
		return ast.NoItemID, false
	}
	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}

	if _, ok = p.expect(token.LParen); !ok {
		return ast.NoItemID, false
	}
	var end source.Span
	if decl.Params, end, ok = p.parseFields(token.RParen); !ok {
		return ast.NoItemID, false
	}

	if p.at(token.Arrow) {
		p.advance()
		if _, ok = p.expect(token.LParen); !ok {
			return ast.NoItemID, false
		}
		if decl.Results, end, ok = p.parseFields(token.RParen); !ok {
			return ast.NoItemID, false
		}
	}

	if p.at(token.LBrace) {
		p.advance()
		for !p.at(token.RBrace) {
			if !p.at_or(token.KwServer, token.KwClient) {
				p.fail(diag.SynUnexpectedToken, "'server', 'client' or '}'")
				return ast.NoItemID, false
			}
			nested, ok := p.parseFn()
			if !ok {
				return ast.NoItemID, false
			}
			decl.Nested = append(decl.Nested, nested)
			p.skipSemicolons()
		}
		end = p.advance().Span
	}

	return p.arenas.NewFn(roleTok.Span.Cover(end), name, nameSpan, doc, decl), true
}

// parseFields разбирает `NAME: TYPE, ...` до закрывающего токена
// включительно; завершающая запятая допустима. Возвращает span
// закрывающего токена.
func (p *Parser) parseFields(closeKind token.Kind) ([]ast.Field, source.Span, bool) {
	var fields []ast.Field
	for !p.at(closeKind) {
		field, ok := p.parseField()
		if !ok {
			return nil, source.Span{}, false
		}
		fields = append(fields, field)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closing, ok := p.expect(closeKind)
	if !ok {
		return nil, source.Span{}, false
	}
	return fields, closing.Span, true
}

func (p *Parser) parseField() (ast.Field, bool) {
	doc := p.lx.Peek().DocText()
	name, nameSpan, ok := p.parseMemberName()
	if !ok {
		return ast.Field{}, false
	}
	if _, ok = p.expect(token.Colon); !ok {
		return ast.Field{}, false
	}
	typeID, ok := p.parseType()
	if !ok {
		return ast.Field{}, false
	}
	return ast.Field{
		Name:     name,
		NameSpan: nameSpan,
		Span:     nameSpan.Cover(p.lastSpan),
		Type:     typeID,
		Doc:      doc,
	}, true
}
