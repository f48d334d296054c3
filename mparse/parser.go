package mparse

import (
	"sort"

	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/tokenizer"
)

// noParent marks a production that has no real parent yet, either because
// it is the document root or because a precedence-climbing helper hasn't
// decided which node will end up owning it.
const noParent ast.NodeId = -1

// Result is everything a parse of one document produces: the structural
// index, the id of its root node, every leaf id in source order (sorted by
// start code unit, as the leaf selector expects), and whatever diagnostics the parser
// or lexer collected along the way.
type Result struct {
	IdMap       *ast.NodeIdMap
	RootId      ast.NodeId
	LeafIds     []ast.NodeId
	Diagnostics []Diagnostic
}

// Parse tokenizes and parses source text. It never fails outright: on
// malformed input the offending production closes as a Context node and a
// Diagnostic is recorded, and parsing continues on a best-effort basis.
func Parse(source string) *Result {
	var raw []tokenizer.Token
	var lexDiags []Diagnostic
	for tok, err := range tokenizer.New(source).Tokens() {
		if err != nil {
			lexDiags = append(lexDiags, Diagnostic{Message: err.Error()})
			continue
		}
		raw = append(raw, tok)
		if tok.Type == tokenizer.EOF {
			break
		}
	}

	result := ParseTokens(raw)
	result.Diagnostics = append(lexDiags, result.Diagnostics...)
	return result
}

// ParseTokens parses a token stream a caller has already lexed. It exists
// so a caller that also needs the raw tokens for its own purposes (a
// document's token accessor, an editor's semantic highlighter) can lex the
// source once and hand the same slice to both, rather than lexing twice.
// Trivia (whitespace and comments) is filtered here, same as Parse.
func ParseTokens(raw []tokenizer.Token) *Result {
	tokens := make([]tokenizer.Token, 0, len(raw))
	for _, tok := range raw {
		switch tok.Type {
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT:
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tokenizer.EOF {
		tokens = append(tokens, tokenizer.Token{Type: tokenizer.EOF})
	}

	p := &parser{tokens: tokens, idMap: ast.New()}
	root := p.parseDocument()

	sort.Slice(p.leafIds, func(i, j int) bool {
		ri, _ := p.idMap.XorNodeById(p.leafIds[i])
		rj, _ := p.idMap.XorNodeById(p.leafIds[j])
		return ri.Range().Start.CodeUnit < rj.Range().Start.CodeUnit
	})

	return &Result{
		IdMap:       p.idMap,
		RootId:      root.Id(),
		LeafIds:     p.leafIds,
		Diagnostics: p.diagnostics,
	}
}

type parser struct {
	tokens      []tokenizer.Token
	pos         int
	prevEnd     ast.TokenPosition
	idMap       *ast.NodeIdMap
	nextId      ast.NodeId
	leafIds     []ast.NodeId
	diagnostics []Diagnostic
}

func (p *parser) newId() ast.NodeId {
	id := p.nextId
	p.nextId++
	return id
}

func (p *parser) finish(parentId, id ast.NodeId) {
	if parentId != noParent {
		p.idMap.SetParent(parentId, id)
	}
}

func (p *parser) cur() tokenizer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return tokenizer.Token{Type: tokenizer.EOF}
}

func (p *parser) at(tt tokenizer.TokenType) bool { return p.cur().Type == tt }
func (p *parser) atEOF() bool                    { return p.cur().Type == tokenizer.EOF }

func (p *parser) advance() tokenizer.Token {
	tok := p.cur()
	p.prevEnd = tok.Range.End
	if !p.atEOF() {
		p.pos++
	}
	return tok
}

func (p *parser) lastEnd() ast.TokenPosition { return p.prevEnd }

func (p *parser) addDiag(msg string) {
	p.diagnostics = append(p.diagnostics, Diagnostic{Message: msg, At: p.cur().Range.Start.Position})
}

func (p *parser) expectAdvance(tt tokenizer.TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	p.addDiag("expected " + tt.String() + ", found " + p.cur().Type.String())
	return false
}

func (p *parser) expectIdentifierLikeAdvance() (tokenizer.Token, bool) {
	if p.cur().IsIdentifierLike() {
		return p.advance(), true
	}
	p.addDiag("expected identifier, found " + p.cur().Type.String())
	return tokenizer.Token{}, false
}

var generalizedIdentifierKeywords = map[tokenizer.TokenType]bool{
	tokenizer.KW_EACH: true, tokenizer.KW_TYPE: true, tokenizer.KW_META: true,
	tokenizer.KW_AS: true, tokenizer.KW_IS: true, tokenizer.KW_SHARED: true,
}

func (p *parser) expectGeneralizedIdentifierAdvance() (tokenizer.Token, bool) {
	tok := p.cur()
	if tok.IsIdentifierLike() || generalizedIdentifierKeywords[tok.Type] {
		return p.advance(), true
	}
	p.addDiag("expected identifier, found " + tok.Type.String())
	return tokenizer.Token{}, false
}

func (p *parser) zeroRange() ast.TokenRange {
	pos := p.cur().Range.Start
	return ast.TokenRange{Start: pos, End: pos}
}

// skipBalancedTail advances past whatever follows an unsupported construct
// (try/type/error/meta) until it finds a token that would end the
// enclosing expression: a comma, a closer, `in`, `then`, `else`, `;`, or
// EOF. Bracket/paren/brace nesting inside the skipped span is tracked so an
// inner closer doesn't look like the enclosing one.
func (p *parser) skipBalancedTail() ast.TokenPosition {
	depth := 0
	for {
		tok := p.cur()
		switch tok.Type {
		case tokenizer.OPENED_PARENS, tokenizer.OPENED_BRACKET, tokenizer.OPENED_BRACE:
			depth++
		case tokenizer.CLOSED_PARENS, tokenizer.CLOSED_BRACKET, tokenizer.CLOSED_BRACE:
			if depth == 0 {
				return p.lastEnd()
			}
			depth--
		case tokenizer.COMMA, tokenizer.SEMICOLON, tokenizer.KW_IN, tokenizer.KW_THEN,
			tokenizer.KW_ELSE, tokenizer.EOF:
			if depth == 0 {
				return p.lastEnd()
			}
		}
		p.advance()
		if tok.Type == tokenizer.EOF {
			return p.lastEnd()
		}
	}
}

// parseDocument parses either a section document or a single top-level
// expression, mirroring the two document shapes M source files come in.
func (p *parser) parseDocument() ast.XorNode {
	if p.at(tokenizer.KW_SECTION) || p.looksLikeSectionMetadata() {
		return p.parseSection(0)
	}
	return p.parseExpression(noParent, 0)
}

func (p *parser) looksLikeSectionMetadata() bool {
	if !p.at(tokenizer.OPENED_BRACKET) {
		return false
	}
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case tokenizer.OPENED_BRACKET:
			depth++
		case tokenizer.CLOSED_BRACKET:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Type == tokenizer.KW_SECTION
			}
		case tokenizer.EOF:
			return false
		}
	}
	return false
}

func (p *parser) skipSectionMetadata() {
	p.advance() // [
	depth := 1
	for depth > 0 && !p.atEOF() {
		switch p.cur().Type {
		case tokenizer.OPENED_BRACKET:
			depth++
		case tokenizer.CLOSED_BRACKET:
			depth--
		}
		p.advance()
	}
}

func (p *parser) parseSection(attrIndex int) ast.XorNode {
	id := p.newId()
	startPos := p.cur().Range.Start
	if p.looksLikeSectionMetadata() {
		p.skipSectionMetadata()
	}
	p.expectAdvance(tokenizer.KW_SECTION)
	name := ""
	if tok, ok := p.expectIdentifierLikeAdvance(); ok {
		name = tok.Value
	}
	p.expectAdvance(tokenizer.SEMICOLON)

	idx := 0
	for !p.atEOF() {
		p.parseSectionMember(id, idx)
		idx++
		if p.at(tokenizer.SEMICOLON) {
			p.advance()
			continue
		}
		break
	}

	node := ast.NewInterior(id, ast.Section, ast.TokenRange{Start: startPos, End: p.lastEnd()}, attrIndex, name)
	p.idMap.AddAst(node)
	p.finish(noParent, id)
	return ast.FromAst(node)
}

func (p *parser) parseSectionMember(parentId ast.NodeId, attrIndex int) {
	id := p.newId()
	startPos := p.cur().Range.Start
	if p.at(tokenizer.KW_SHARED) {
		p.advance()
	}
	pairId, ok := p.parseIdentifierPairedExpression(id, 0)
	pairXor, _ := p.idMap.XorNodeById(pairId)
	if !ok {
		node := ast.NewContextNode(id, ast.SectionMember, ast.TokenRange{Start: startPos, End: p.lastEnd()}, attrIndex, "member")
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return
	}
	node := ast.NewInterior(id, ast.SectionMember, ast.TokenRange{Start: startPos, End: pairXor.Range().End}, attrIndex, "member")
	p.idMap.AddAst(node)
	p.finish(parentId, id)
}

// parseIdentifierPairedExpression parses `name = value`, the shape shared
// by let-bindings and section members. It always registers a node (Ast on
// success, Context on failure) and returns its id.
func (p *parser) parseIdentifierPairedExpression(parentId ast.NodeId, attrIndex int) (ast.NodeId, bool) {
	id := p.newId()
	tok, ok := p.expectIdentifierLikeAdvance()
	if !ok {
		node := ast.NewContextNode(id, ast.IdentifierPairedExpression, p.zeroRange(), attrIndex, "binding")
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return id, false
	}
	nameId := p.newId()
	nameLeaf := ast.NewLeaf(nameId, ast.Identifier, tok.Range, 0, tok.Value)
	p.idMap.AddAst(nameLeaf)
	p.leafIds = append(p.leafIds, nameId)
	p.idMap.SetParent(id, nameId)

	if !p.expectAdvance(tokenizer.EQUAL) {
		node := ast.NewContextNode(id, ast.IdentifierPairedExpression, ast.TokenRange{Start: tok.Range.Start, End: p.lastEnd()}, attrIndex, "binding:"+tok.Value)
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return id, false
	}

	value := p.parseExpression(id, 1)
	node := ast.NewInterior(id, ast.IdentifierPairedExpression, ast.TokenRange{Start: tok.Range.Start, End: value.Range().End}, attrIndex, tok.Value)
	p.idMap.AddAst(node)
	p.finish(parentId, id)
	return id, true
}

func (p *parser) parseGeneralizedIdentifierPairedExpression(parentId ast.NodeId, attrIndex int) (ast.NodeId, bool) {
	id := p.newId()
	tok, ok := p.expectGeneralizedIdentifierAdvance()
	if !ok {
		node := ast.NewContextNode(id, ast.GeneralizedIdentifierPairedExpression, p.zeroRange(), attrIndex, "field")
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return id, false
	}
	nameId := p.newId()
	nameLeaf := ast.NewLeaf(nameId, ast.GeneralizedIdentifier, tok.Range, 0, tok.Value)
	p.idMap.AddAst(nameLeaf)
	p.leafIds = append(p.leafIds, nameId)
	p.idMap.SetParent(id, nameId)

	if !p.expectAdvance(tokenizer.EQUAL) {
		node := ast.NewContextNode(id, ast.GeneralizedIdentifierPairedExpression, ast.TokenRange{Start: tok.Range.Start, End: p.lastEnd()}, attrIndex, "field:"+tok.Value)
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return id, false
	}

	value := p.parseExpression(id, 1)
	node := ast.NewInterior(id, ast.GeneralizedIdentifierPairedExpression, ast.TokenRange{Start: tok.Range.Start, End: value.Range().End}, attrIndex, tok.Value)
	p.idMap.AddAst(node)
	p.finish(parentId, id)
	return id, true
}

// parseRecordFields parses the `[name = value, ...]` body shared by record
// expressions and `type [...]` record-type literals. It assumes the
// current token is the opening bracket.
func (p *parser) parseRecordFields(parentId ast.NodeId, attrIndex int, kind ast.NodeKind, startPos ast.TokenPosition) ast.XorNode {
	id := p.newId()
	p.advance() // [
	idx := 0
	for !p.at(tokenizer.CLOSED_BRACKET) && !p.atEOF() {
		_, ok := p.parseGeneralizedIdentifierPairedExpression(id, idx)
		idx++
		if !ok {
			break
		}
		if p.at(tokenizer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.expectAdvance(tokenizer.CLOSED_BRACKET) {
		node := ast.NewContextNode(id, kind, ast.TokenRange{Start: startPos, End: p.lastEnd()}, attrIndex, "record")
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return ast.FromContext(node)
	}
	node := ast.NewInterior(id, kind, ast.TokenRange{Start: startPos, End: p.lastEnd()}, attrIndex, "record")
	p.idMap.AddAst(node)
	p.finish(parentId, id)
	return ast.FromAst(node)
}

// parseExpression is the shared entry point for anything that can occupy
// an expression slot. Constructs that occupy the whole slot (let, each,
// if, and the unsupported keyword-led forms) are dispatched here; anything
// else falls through to the operator-precedence chain.
func (p *parser) parseExpression(parentId ast.NodeId, attrIndex int) ast.XorNode {
	switch p.cur().Type {
	case tokenizer.KW_LET:
		return p.parseLetExpression(parentId, attrIndex)
	case tokenizer.KW_EACH:
		return p.parseEachExpression(parentId, attrIndex)
	case tokenizer.KW_IF:
		return p.parseIfExpression(parentId, attrIndex)
	case tokenizer.KW_TRY, tokenizer.KW_TYPE, tokenizer.KW_ERROR, tokenizer.KW_META:
		return p.parseNotImplemented(parentId, attrIndex)
	default:
		return p.parseBinary(parentId, attrIndex, 0)
	}
}

func (p *parser) parseNotImplemented(parentId ast.NodeId, attrIndex int) ast.XorNode {
	startTok := p.advance()
	if startTok.Type == tokenizer.KW_TYPE && p.at(tokenizer.OPENED_BRACKET) {
		return p.parseRecordFields(parentId, attrIndex, ast.RecordLiteral, startTok.Range.Start)
	}
	endPos := p.skipBalancedTail()
	id := p.newId()
	leaf := ast.NewLeaf(id, ast.NotImplementedExpression, ast.TokenRange{Start: startTok.Range.Start, End: endPos}, attrIndex, startTok.Value)
	p.idMap.AddAst(leaf)
	p.leafIds = append(p.leafIds, id)
	p.finish(parentId, id)
	return ast.FromAst(leaf)
}

func (p *parser) parseLetExpression(parentId ast.NodeId, attrIndex int) ast.XorNode {
	id := p.newId()
	startTok := p.advance() // let
	idx := 0
	for !p.at(tokenizer.KW_IN) && !p.atEOF() {
		_, ok := p.parseIdentifierPairedExpression(id, idx)
		idx++
		if !ok {
			break
		}
		if p.at(tokenizer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.expectAdvance(tokenizer.KW_IN) {
		node := ast.NewContextNode(id, ast.LetExpression, ast.TokenRange{Start: startTok.Range.Start, End: p.lastEnd()}, attrIndex, "let")
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return ast.FromContext(node)
	}
	body := p.parseExpression(id, idx)
	node := ast.NewInterior(id, ast.LetExpression, ast.TokenRange{Start: startTok.Range.Start, End: body.Range().End}, attrIndex, "let")
	p.idMap.AddAst(node)
	p.finish(parentId, id)
	return ast.FromAst(node)
}

func (p *parser) parseEachExpression(parentId ast.NodeId, attrIndex int) ast.XorNode {
	id := p.newId()
	startTok := p.advance() // each

	// The implicit `_` parameter has no source text of its own, so it is
	// not added to leafIds: the caret can never land on it directly.
	paramId := p.newId()
	paramLeaf := ast.NewLeaf(paramId, ast.Parameter, ast.TokenRange{Start: startTok.Range.Start, End: startTok.Range.End}, 0, "_")
	p.idMap.AddAst(paramLeaf)
	p.idMap.SetParent(id, paramId)

	body := p.parseExpression(id, 1)
	node := ast.NewInterior(id, ast.EachExpression, ast.TokenRange{Start: startTok.Range.Start, End: body.Range().End}, attrIndex, "each")
	p.idMap.AddAst(node)
	p.finish(parentId, id)
	return ast.FromAst(node)
}

func (p *parser) parseIfExpression(parentId ast.NodeId, attrIndex int) ast.XorNode {
	id := p.newId()
	startTok := p.advance() // if
	cond := p.parseExpression(id, 0)
	if !p.expectAdvance(tokenizer.KW_THEN) {
		node := ast.NewContextNode(id, ast.IfExpression, ast.TokenRange{Start: startTok.Range.Start, End: cond.Range().End}, attrIndex, "if")
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return ast.FromContext(node)
	}
	thenExpr := p.parseExpression(id, 1)
	if !p.expectAdvance(tokenizer.KW_ELSE) {
		node := ast.NewContextNode(id, ast.IfExpression, ast.TokenRange{Start: startTok.Range.Start, End: thenExpr.Range().End}, attrIndex, "if")
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return ast.FromContext(node)
	}
	elseExpr := p.parseExpression(id, 2)
	node := ast.NewInterior(id, ast.IfExpression, ast.TokenRange{Start: startTok.Range.Start, End: elseExpr.Range().End}, attrIndex, "if")
	p.idMap.AddAst(node)
	p.finish(parentId, id)
	return ast.FromAst(node)
}

// precedenceLevels lists M's binary operators from loosest to tightest
// binding. Every level folds into a single ArithmeticExpression kind,
// labeled with the operator's source text.
var precedenceLevels = [][]tokenizer.TokenType{
	{tokenizer.KW_OR},
	{tokenizer.KW_AND},
	{tokenizer.EQUAL, tokenizer.NOT_EQUAL, tokenizer.LESS_THAN, tokenizer.LESS_EQUAL,
		tokenizer.GREATER_THAN, tokenizer.GREATER_EQUAL, tokenizer.KW_IS, tokenizer.KW_AS},
	{tokenizer.PLUS, tokenizer.MINUS, tokenizer.AMPERSAND},
	{tokenizer.MULTIPLY, tokenizer.DIVIDE},
}

func (p *parser) matchesAny(types []tokenizer.TokenType) bool {
	for _, t := range types {
		if p.at(t) {
			return true
		}
	}
	return false
}

// parseBinary climbs the precedence table. Nodes built while chaining
// left-associative operators (a+b+c), down to the primaries beneath them,
// are constructed with AttributeIndex 0 whatever slot they end up in;
// package inspect takes a child's slot from the NodeIdMap child order, not
// from AttributeIndex.
func (p *parser) parseBinary(parentId ast.NodeId, attrIndex, level int) ast.XorNode {
	if level >= len(precedenceLevels) {
		return p.parseUnary(parentId, attrIndex)
	}

	left := p.parseBinary(noParent, 0, level+1)
	for p.matchesAny(precedenceLevels[level]) {
		opTok := p.advance()
		id := p.newId()
		p.idMap.SetParent(id, left.Id())
		right := p.parseBinary(id, 1, level+1)
		node := ast.NewInterior(id, ast.ArithmeticExpression,
			ast.TokenRange{Start: left.Range().Start, End: right.Range().End}, 0, opTok.Value)
		p.idMap.AddAst(node)
		left = ast.FromAst(node)
	}
	p.finish(parentId, left.Id())
	return left
}

func (p *parser) parseUnary(parentId ast.NodeId, attrIndex int) ast.XorNode {
	if p.at(tokenizer.MINUS) || p.at(tokenizer.KW_NOT) {
		opTok := p.advance()
		id := p.newId()
		operand := p.parseUnary(id, 0)
		node := ast.NewInterior(id, ast.ArithmeticExpression,
			ast.TokenRange{Start: opTok.Range.Start, End: operand.Range().End}, attrIndex, "unary"+opTok.Value)
		p.idMap.AddAst(node)
		p.finish(parentId, id)
		return ast.FromAst(node)
	}
	return p.parsePostfix(parentId, attrIndex)
}

// parsePostfix chains item-access (`{}`), field-selection (`[]`/`[[]]`),
// and invocation (`()`) suffixes onto a primary. The primary and every
// wrapper are constructed with AttributeIndex 0; attrIndex is not applied
// to the node that ends up attached to parentId.
func (p *parser) parsePostfix(parentId ast.NodeId, attrIndex int) ast.XorNode {
	primary := p.parsePrimary(noParent, 0)
	for {
		switch {
		case p.at(tokenizer.OPENED_BRACE):
			id := p.newId()
			p.idMap.SetParent(id, primary.Id())
			p.advance()
			p.parseExpression(id, 1)
			p.expectAdvance(tokenizer.CLOSED_BRACE)
			node := ast.NewInterior(id, ast.ItemAccessExpression,
				ast.TokenRange{Start: primary.Range().Start, End: p.lastEnd()}, 0, "item-access")
			p.idMap.AddAst(node)
			primary = ast.FromAst(node)
		case p.at(tokenizer.OPENED_BRACKET):
			id := p.newId()
			p.idMap.SetParent(id, primary.Id())
			p.advance()
			doubled := false
			if p.at(tokenizer.OPENED_BRACKET) {
				p.advance()
				doubled = true
			}
			fieldId, hasField := ast.NodeId(-1), false
			if tok, ok := p.expectGeneralizedIdentifierAdvance(); ok {
				fieldId = p.newId()
				fieldLeaf := ast.NewLeaf(fieldId, ast.GeneralizedIdentifier, tok.Range, 1, tok.Value)
				p.idMap.AddAst(fieldLeaf)
				p.leafIds = append(p.leafIds, fieldId)
				p.idMap.SetParent(id, fieldId)
				hasField = true
			}
			if doubled {
				p.expectAdvance(tokenizer.CLOSED_BRACKET)
			}
			p.expectAdvance(tokenizer.CLOSED_BRACKET)
			node := ast.NewInterior(id, ast.FieldSelector,
				ast.TokenRange{Start: primary.Range().Start, End: p.lastEnd()}, 0, "field-selector")
			p.idMap.AddAst(node)
			// A field selector's field name is always its own rightmost leaf,
			// known the instant this production closes; cache it so a caller
			// walking a long a[b][c][d] chain for its final name doesn't have
			// to re-descend the whole subtree.
			if hasField {
				p.idMap.CacheRightMostLeaf(id, fieldId)
			}
			primary = ast.FromAst(node)
		case p.at(tokenizer.OPENED_PARENS):
			id := p.newId()
			p.idMap.SetParent(id, primary.Id())
			args := p.parseArgumentList(id, 1)
			node := ast.NewInterior(id, ast.InvokeExpression,
				ast.TokenRange{Start: primary.Range().Start, End: args.Range().End}, 0, "invoke")
			p.idMap.AddAst(node)
			primary = ast.FromAst(node)
		default:
			p.finish(parentId, primary.Id())
			return primary
		}
	}
}

func (p *parser) parseArgumentList(parentId ast.NodeId, attrIndex int) ast.XorNode {
	id := p.newId()
	startTok := p.advance() // (
	idx := 0
	for !p.at(tokenizer.CLOSED_PARENS) && !p.atEOF() {
		p.parseExpression(id, idx)
		idx++
		if p.at(tokenizer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expectAdvance(tokenizer.CLOSED_PARENS)
	node := ast.NewInterior(id, ast.ArgumentList, ast.TokenRange{Start: startTok.Range.Start, End: p.lastEnd()}, attrIndex, "args")
	p.idMap.AddAst(node)
	p.finish(parentId, id)
	return ast.FromAst(node)
}

// parsePrimary handles literals, identifiers, `@` self-references, lists,
// bare record expressions, and the paren/function-literal ambiguity.
func (p *parser) parsePrimary(parentId ast.NodeId, attrIndex int) ast.XorNode {
	tok := p.cur()
	switch tok.Type {
	case tokenizer.NUMBER, tokenizer.STRING, tokenizer.KW_TRUE, tokenizer.KW_FALSE, tokenizer.KW_NULL:
		p.advance()
		id := p.newId()
		leaf := ast.NewLeaf(id, ast.Constant, tok.Range, attrIndex, tok.Value)
		p.idMap.AddAst(leaf)
		p.leafIds = append(p.leafIds, id)
		p.finish(parentId, id)
		return ast.FromAst(leaf)

	case tokenizer.IDENTIFIER, tokenizer.QUOTED_IDENT:
		p.advance()
		id := p.newId()
		nameId := p.newId()
		nameLeaf := ast.NewLeaf(nameId, ast.Identifier, tok.Range, 0, tok.Value)
		p.idMap.AddAst(nameLeaf)
		p.leafIds = append(p.leafIds, nameId)
		p.idMap.SetParent(id, nameId)
		node := ast.NewInterior(id, ast.IdentifierExpression, tok.Range, attrIndex, tok.Value)
		p.idMap.AddAst(node)
		p.finish(parentId, id)
		return ast.FromAst(node)

	case tokenizer.AT:
		p.advance()
		id := p.newId()
		atId := p.newId()
		atLeaf := ast.NewLeaf(atId, ast.Constant, tok.Range, 0, "@")
		p.idMap.AddAst(atLeaf)
		p.leafIds = append(p.leafIds, atId)
		p.idMap.SetParent(id, atId)

		nameTok, ok := p.expectIdentifierLikeAdvance()
		if !ok {
			node := ast.NewContextNode(id, ast.IdentifierExpression, ast.TokenRange{Start: tok.Range.Start, End: p.lastEnd()}, attrIndex, "@")
			p.idMap.AddContext(node)
			p.finish(parentId, id)
			return ast.FromContext(node)
		}
		nameId := p.newId()
		nameLeaf := ast.NewLeaf(nameId, ast.Identifier, nameTok.Range, 1, nameTok.Value)
		p.idMap.AddAst(nameLeaf)
		p.leafIds = append(p.leafIds, nameId)
		p.idMap.SetParent(id, nameId)
		node := ast.NewInterior(id, ast.IdentifierExpression, ast.TokenRange{Start: tok.Range.Start, End: nameTok.Range.End}, attrIndex, "@"+nameTok.Value)
		p.idMap.AddAst(node)
		p.finish(parentId, id)
		return ast.FromAst(node)

	case tokenizer.OPENED_PARENS:
		if p.looksLikeFunctionLiteral() {
			return p.parseFunctionExpression(parentId, attrIndex)
		}
		p.advance() // (
		// Parentheses are transparent: they affect parsing, not the tree.
		inner := p.parseExpression(parentId, attrIndex)
		p.expectAdvance(tokenizer.CLOSED_PARENS)
		return inner

	case tokenizer.OPENED_BRACE:
		return p.parseListExpression(parentId, attrIndex)

	case tokenizer.OPENED_BRACKET:
		return p.parseRecordFields(parentId, attrIndex, ast.RecordExpression, tok.Range.Start)

	default:
		p.advance()
		endPos := p.skipBalancedTail()
		id := p.newId()
		leaf := ast.NewLeaf(id, ast.NotImplementedExpression, ast.TokenRange{Start: tok.Range.Start, End: endPos}, attrIndex, tok.Value)
		p.idMap.AddAst(leaf)
		p.leafIds = append(p.leafIds, id)
		p.addDiag("unexpected token " + tok.Type.String())
		p.finish(parentId, id)
		return ast.FromAst(leaf)
	}
}

func (p *parser) parseListExpression(parentId ast.NodeId, attrIndex int) ast.XorNode {
	id := p.newId()
	startTok := p.advance() // {
	idx := 0
	for !p.at(tokenizer.CLOSED_BRACE) && !p.atEOF() {
		p.parseExpression(id, idx)
		idx++
		if p.at(tokenizer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expectAdvance(tokenizer.CLOSED_BRACE)
	node := ast.NewInterior(id, ast.ListExpression, ast.TokenRange{Start: startTok.Range.Start, End: p.lastEnd()}, attrIndex, "list")
	p.idMap.AddAst(node)
	p.finish(parentId, id)
	return ast.FromAst(node)
}

// looksLikeFunctionLiteral scans ahead from an opening paren, balancing
// nested parens, to see whether the matching close is immediately followed
// by `=>`. It never consumes: parsePrimary re-reads from the same
// position once the branch is decided.
func (p *parser) looksLikeFunctionLiteral() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case tokenizer.OPENED_PARENS:
			depth++
		case tokenizer.CLOSED_PARENS:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Type == tokenizer.ARROW
			}
		case tokenizer.EOF:
			return false
		}
	}
	return false
}

func (p *parser) parseFunctionExpression(parentId ast.NodeId, attrIndex int) ast.XorNode {
	id := p.newId()
	startTok := p.advance() // (
	listId := p.newId()
	pIdx := 0
	for !p.at(tokenizer.CLOSED_PARENS) && !p.atEOF() {
		tok, ok := p.expectIdentifierLikeAdvance()
		if !ok {
			break
		}
		paramId := p.newId()
		paramLeaf := ast.NewLeaf(paramId, ast.Parameter, tok.Range, pIdx, tok.Value)
		p.idMap.AddAst(paramLeaf)
		p.leafIds = append(p.leafIds, paramId)
		p.idMap.SetParent(listId, paramId)
		pIdx++
		if p.at(tokenizer.KW_AS) {
			p.advance()
			p.skipBalancedTail()
		}
		if p.at(tokenizer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expectAdvance(tokenizer.CLOSED_PARENS)
	listNode := ast.NewInterior(listId, ast.ParameterList, ast.TokenRange{Start: startTok.Range.Start, End: p.lastEnd()}, 0, "params")
	p.idMap.AddAst(listNode)
	p.idMap.SetParent(id, listId)

	if p.at(tokenizer.KW_AS) {
		p.advance()
		p.skipBalancedTail()
	}
	if !p.expectAdvance(tokenizer.ARROW) {
		node := ast.NewContextNode(id, ast.FunctionExpression, ast.TokenRange{Start: startTok.Range.Start, End: p.lastEnd()}, attrIndex, "function")
		p.idMap.AddContext(node)
		p.finish(parentId, id)
		return ast.FromContext(node)
	}
	body := p.parseExpression(id, 1)
	node := ast.NewInterior(id, ast.FunctionExpression, ast.TokenRange{Start: startTok.Range.Start, End: body.Range().End}, attrIndex, "function")
	p.idMap.AddAst(node)
	p.finish(parentId, id)
	return ast.FromAst(node)
}
