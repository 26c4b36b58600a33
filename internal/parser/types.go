package parser

import (
	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/token"
)

var primitiveKinds = map[token.Kind]ast.Primitive{
	token.KwU8:        ast.PrimU8,
	token.KwU16:       ast.PrimU16,
	token.KwU32:       ast.PrimU32,
	token.KwU64:       ast.PrimU64,
	token.KwI8:        ast.PrimI8,
	token.KwI16:       ast.PrimI16,
	token.KwI32:       ast.PrimI32,
	token.KwI64:       ast.PrimI64,
	token.KwBool:      ast.PrimBool,
	token.KwString:    ast.PrimString,
	token.KwData:      ast.PrimData,
	token.KwTimestamp: ast.PrimTimestamp,
}

// parseType разбирает
//
//	PRIM | array<T> | option<T> | map<K, V> | IDENT(.IDENT)*
func (p *Parser) parseType() (ast.TypeID, bool) {
	tok := p.lx.Peek()
	if prim, ok := primitiveKinds[tok.Kind]; ok {
		p.advance()
		return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprPrimitive, Span: tok.Span, Prim: prim}), true
	}

	switch tok.Kind {
	case token.KwArray, token.KwOption:
		p.advance()
		if _, ok := p.expect(token.Lt); !ok {
			return ast.NoTypeID, false
		}
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		closing, ok := p.expect(token.Gt)
		if !ok {
			return ast.NoTypeID, false
		}
		kind := ast.TypeExprArray
		if tok.Kind == token.KwOption {
			kind = ast.TypeExprOption
		}
		return p.arenas.Types.New(ast.TypeExpr{Kind: kind, Span: tok.Span.Cover(closing.Span), Elem: elem}), true

	case token.KwMap:
		p.advance()
		if _, ok := p.expect(token.Lt); !ok {
			return ast.NoTypeID, false
		}
		key, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		if _, ok = p.expect(token.Comma); !ok {
			return ast.NoTypeID, false
		}
		value, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		closing, ok := p.expect(token.Gt)
		if !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.New(ast.TypeExpr{
			Kind:  ast.TypeExprMap,
			Span:  tok.Span.Cover(closing.Span),
			Elem:  key,
			Value: value,
		}), true

	case token.Ident:
		return p.parseTypePath()

	default:
		p.fail(diag.SynExpectType, "type")
		return ast.NoTypeID, false
	}
}

// parseTypePath разбирает имя пользовательского типа, возможно
// квалифицированное пространством имён: `a.b.T`.
func (p *Parser) parseTypePath() (ast.TypeID, bool) {
	var segs []ast.PathSegment
	for {
		name, span, ok := p.parseIdent()
		if !ok {
			return ast.NoTypeID, false
		}
		segs = append(segs, ast.PathSegment{Name: name, Span: span})
		if !p.at(token.Dot) {
			break
		}
		p.advance()
	}
	span := segs[0].Span.Cover(segs[len(segs)-1].Span)
	return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprPath, Span: span, Path: segs}), true
}
