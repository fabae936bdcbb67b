package parser

import (
	"caml/internal/ast"
	"caml/internal/token"
	"strings"
)

func (p *Parser) parseDisplay(l *line) ast.Statement {
	value := l.valueFrom(l.toks)
	if value == nil {
		return nil
	}
	return &ast.Display{
		Base:  l.base(),
		Value: value,
		Bold:  indexAny(l.toks, token.PLUS_BOLD) >= 0,
	}
}

func (p *Parser) parseInteract(l *line) ast.Statement {
	stmt := &ast.Interact{Base: l.base(), Bold: indexAny(l.toks, token.PLUS_BOLD) >= 0}

	promptSpan := l.toks
	if to := lastIndexAny(l.toks, token.TO); to >= 0 && to+1 < len(l.toks) && l.toks[to+1].Type == token.IDENTIFIER {
		stmt.Target = l.toks[to+1].Literal
		promptSpan = l.toks[:to]
	}
	if tok, i := firstOf(promptSpan, token.STRING, token.IDENTIFIER); i >= 0 {
		stmt.Prompt = l.literal(tok)
	} else {
		stmt.Prompt = l.null()
	}
	return stmt
}

func (p *Parser) parseObjectDecl(l *line) ast.Statement {
	kwAt := indexAny(l.toks, token.CREATE_WINDOW, token.WINDOW, token.CREATE_BUTTON, token.BUTTON, token.CREATE_OBJECT)
	decl := &ast.ObjectDecl{Base: l.base()}
	switch l.toks[kwAt].Type {
	case token.CREATE_WINDOW, token.WINDOW:
		decl.Kind = ast.Window
	case token.CREATE_BUTTON, token.BUTTON:
		decl.Kind = ast.Button
	default:
		decl.Kind = ast.PlainObject
	}

	rest := l.toks[kwAt+1:]
	if in := indexAny(rest, token.IN); in >= 0 {
		if parent, i := firstName(rest[in+1:]); i >= 0 {
			decl.Parent = parent.Literal
		}
		rest = rest[:in]
	}
	name, i := firstName(rest)
	if i < 0 {
		if tok, j := firstOf(rest, token.STRING); j >= 0 {
			name, i = tok, j
		}
	}

	body := p.parseBlock(l)
	if i < 0 {
		return nil
	}
	decl.Name = name.Literal
	decl.Body = bindProperties(decl.Name, body)
	return decl
}

// bindProperties turns bare Set/Change lines of an object body into property
// updates on that object.
func bindProperties(object string, body []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, len(body))
	for i, stmt := range body {
		switch s := stmt.(type) {
		case *ast.Set:
			out[i] = &ast.ObjectSetProp{Base: s.Base, Object: object, Property: s.Target, Value: s.Value}
		case *ast.Change:
			out[i] = &ast.ObjectChangeProp{Base: s.Base, Object: object, Property: s.Target, Value: s.Value}
		default:
			out[i] = stmt
		}
	}
	return out
}

func (p *Parser) parseObjectAddFunction(l *line) ast.Statement {
	at := indexAny(l.toks, token.ADD_FUNCTION)
	rest := l.toks[at+1:]
	fn, i := firstOf(rest, token.STRING, token.IDENTIFIER)
	if i < 0 {
		return nil
	}
	obj, j := lastName(rest[i+1:])
	if j < 0 {
		return nil
	}
	return &ast.ObjectAddFunction{Base: l.base(), Object: obj.Literal, Function: fn.Literal}
}

func (p *Parser) parseListDecl(l *line) ast.Statement {
	at := indexAny(l.toks, token.CREATE_LIST)
	name, i := firstName(l.toks[at+1:])
	if i < 0 {
		return nil
	}
	decl := &ast.ListDecl{Base: l.base(), Name: name.Literal, Elements: []ast.Expression{}}
	for _, tok := range l.toks[at+1+i+1:] {
		if tok.IsLiteral() {
			decl.Elements = append(decl.Elements, l.literal(tok))
		}
	}
	return decl
}

// collectionTarget splits `<verb> ... <marker> <name>` into the operand span between
// the verb and the marker, and the named collection.
func collectionTarget(toks []token.Token, verb token.TokenType, marker string) ([]token.Token, string, bool) {
	v := indexAny(toks, verb)
	m := indexWord(toks, marker)
	if v < 0 || m < v {
		return nil, "", false
	}
	name, i := firstName(toks[m+1:])
	if i < 0 {
		return nil, "", false
	}
	return withoutMarkers(toks[v+1 : m]), name.Literal, true
}

func (p *Parser) parseListAdd(l *line) ast.Statement {
	span, list, ok := collectionTarget(l.toks, token.ADD, "list")
	if !ok {
		return nil
	}
	value := l.valueFrom(span)
	if value == nil {
		return nil
	}
	return &ast.ListAdd{Base: l.base(), List: list, Value: value}
}

func (p *Parser) parseListRemove(l *line) ast.Statement {
	span, list, ok := collectionTarget(l.toks, token.REMOVE, "list")
	if !ok {
		return nil
	}
	value := l.valueFrom(span)
	if value == nil {
		return nil
	}
	return &ast.ListRemove{Base: l.base(), List: list, Value: value}
}

func (p *Parser) parseDictAdd(l *line) ast.Statement {
	span, dict, ok := collectionTarget(l.toks, token.ADD, "dictionary")
	if !ok {
		return nil
	}
	entries := l.entries(span)
	if len(entries) == 0 {
		return nil
	}
	return &ast.DictAdd{Base: l.base(), Dict: dict, Key: entries[0].Key, Value: entries[0].Value}
}

func (p *Parser) parseDictRemove(l *line) ast.Statement {
	span, dict, ok := collectionTarget(l.toks, token.REMOVE, "dictionary")
	if !ok {
		return nil
	}
	tok, i := firstOf(span, token.STRING, token.IDENTIFIER, token.INTEGER, token.FLOAT)
	if i < 0 {
		return nil
	}
	return &ast.DictRemove{Base: l.base(), Dict: dict, Key: tok.Literal}
}

// entries reads `key : value` pairs.
func (l *line) entries(toks []token.Token) []ast.DictEntry {
	var out []ast.DictEntry
	for i := 0; i+2 < len(toks); i++ {
		if toks[i+1].Type != token.COLON || !toks[i].IsLiteral() || !toks[i+2].IsLiteral() {
			continue
		}
		out = append(out, ast.DictEntry{Key: toks[i].Literal, Value: l.literal(toks[i+2])})
		i += 2
	}
	return out
}

func (p *Parser) parseVariableStatement(l *line) ast.Statement {
	at := variableKeyword(l.toks)
	switch l.toks[at].Type {
	case token.ASSIGN:
		return l.parseAssign(at)
	case token.SET, token.CHANGE:
		return l.parseSetOrChange(at)
	case token.BLOCK:
		return l.parseBlockVar(at)
	default:
		return l.parseUpdate(at)
	}
}

func (l *line) parseAssign(at int) ast.Statement {
	to := -1
	for i := len(l.toks) - 2; i > at; i-- {
		if l.toks[i].Type == token.TO && l.toks[i+1].Type == token.IDENTIFIER {
			to = i
			break
		}
	}

	if to < 0 {
		tok, i := firstOf(l.toks[at+1:], token.IDENTIFIER)
		if i < 0 {
			return nil
		}
		// `Assign x` declares x as null
		return &ast.Assign{Base: l.base(), Target: tok.Literal, Value: l.null()}
	}

	value := l.valueFrom(l.toks[at+1 : to])
	if value == nil {
		return nil
	}
	return &ast.Assign{Base: l.base(), Target: l.toks[to+1].Literal, Value: value}
}

// propertyRef recognizes `[property] <prop> of <Object>` and `<Object>.<prop>` within toks.
func propertyRef(toks []token.Token) (object, property string, ok bool) {
	if of := indexWord(toks, "of"); of > 0 {
		prop, i := lastName(toks[:of])
		obj, j := firstName(toks[of+1:])
		if i >= 0 && j >= 0 {
			return obj.Literal, prop.Literal, true
		}
	}
	if tok, i := firstName(toks); i >= 0 {
		if dot := strings.IndexByte(tok.Literal, '.'); dot > 0 && dot < len(tok.Literal)-1 {
			return tok.Literal[:dot], tok.Literal[dot+1:], true
		}
	}
	return "", "", false
}

func (l *line) parseSetOrChange(at int) ast.Statement {
	head := l.toks[at+1:]
	var tail []token.Token
	if to := indexAny(head, token.TO); to >= 0 {
		head, tail = head[:to], head[to+1:]
	}

	var value ast.Expression = l.null()
	if tail != nil {
		if value = l.valueFrom(tail); value == nil {
			return nil
		}
	}

	change := l.toks[at].Type == token.CHANGE
	if obj, prop, ok := propertyRef(head); ok {
		if change {
			return &ast.ObjectChangeProp{Base: l.base(), Object: obj, Property: prop, Value: value}
		}
		return &ast.ObjectSetProp{Base: l.base(), Object: obj, Property: prop, Value: value}
	}

	target, i := firstOf(head, token.IDENTIFIER)
	if i < 0 {
		return nil
	}
	if change {
		return &ast.Change{Base: l.base(), Target: target.Literal, Value: value}
	}
	return &ast.Set{Base: l.base(), Target: target.Literal, Value: value}
}

func (l *line) parseBlockVar(at int) ast.Statement {
	rest := l.toks[at+1:]
	if obj, prop, ok := propertyRef(rest); ok {
		return &ast.ObjectBlockProp{Base: l.base(), Object: obj, Property: prop}
	}
	target, i := firstOf(rest, token.IDENTIFIER)
	if i < 0 {
		return nil
	}
	return &ast.BlockVar{Base: l.base(), Target: target.Literal}
}

var updateOps = map[token.TokenType]ast.UpdateOp{
	token.INCREASE:     ast.Increase,
	token.DECREASE:     ast.Decrease,
	token.MULTIPLY:     ast.Multiply,
	token.DIVIDE:       ast.Divide,
	token.EXPONENTIATE: ast.Exponentiate,
}

func (l *line) parseUpdate(at int) ast.Statement {
	if at+1 >= len(l.toks) || l.toks[at+1].Type != token.IDENTIFIER {
		return nil
	}
	by := indexAny(l.toks[at+1:], token.BY)
	if by < 0 {
		return nil
	}
	operand := l.valueFrom(l.toks[at+1+by+1:])
	if operand == nil {
		return nil
	}
	return &ast.Update{
		Base:    l.base(),
		Op:      updateOps[l.toks[at].Type],
		Target:  l.toks[at+1].Literal,
		Operand: operand,
	}
}

func (p *Parser) parseFunctionDef(l *line) ast.Statement {
	at := indexAny(l.toks, token.DEFINE_FUNCTION)
	rest := l.toks[at+1:]
	body := p.parseBlock(l)

	name, i := firstOf(rest, token.STRING, token.IDENTIFIER)
	if i < 0 {
		return nil
	}
	def := &ast.FunctionDef{Base: l.base(), Name: name.Literal, Params: []string{}, Body: body}

	rest = rest[i+1:]
	var params []token.Token
	if open := indexAny(rest, token.LPAREN); open >= 0 {
		params = rest[open+1:]
		if end := indexAny(params, token.RPAREN); end >= 0 {
			params = params[:end]
		}
	} else if takes := indexAny(rest, token.WHICH_TAKES); takes >= 0 {
		params = rest[takes+1:]
		if does := indexAny(params, token.WHICH_DOES); does >= 0 {
			params = params[:does]
		}
	}
	for _, tok := range params {
		if tok.Type == token.IDENTIFIER {
			def.Params = append(def.Params, tok.Literal)
		}
	}
	return def
}

func (p *Parser) parseFunctionCallStatement(l *line) ast.Statement {
	if call := l.parseCall(l.toks); call != nil {
		return call
	}
	return nil
}

func (p *Parser) parseFunctionAbbrev(l *line) ast.Statement {
	at := indexAny(l.toks, token.ABBREV_FUNCTION)
	var names []token.Token
	for _, tok := range l.toks[at+1:] {
		if tok.Type == token.STRING || tok.Type == token.IDENTIFIER {
			names = append(names, tok)
		}
	}
	if len(names) < 2 {
		return nil
	}
	return &ast.FunctionAbbrev{Base: l.base(), Original: names[0].Literal, Alias: names[len(names)-1].Literal}
}

func (p *Parser) parseIf(l *line) ast.Statement {
	at := indexAny(l.toks, token.IF)
	body := p.parseBlock(l)
	cond := l.parseCondition(l.toks[at+1:])
	if cond == nil {
		return nil
	}
	return &ast.If{Base: l.base(), Condition: cond, Body: body}
}

func (p *Parser) parseOrIf(l *line) ast.Statement {
	at := indexAny(l.toks, token.ORIF)
	body := p.parseBlock(l)
	cond := l.parseCondition(l.toks[at+1:])
	if cond == nil {
		return nil
	}
	return &ast.OrIf{Base: l.base(), Condition: cond, Body: body}
}

func (p *Parser) parseOtherwise(l *line) ast.Statement {
	return &ast.Otherwise{Base: l.base(), Body: p.parseBlock(l)}
}

func (p *Parser) parseRepeat(l *line) ast.Statement {
	at := indexAny(l.toks, token.REPEAT)
	body := p.parseBlock(l)
	count, i := firstOf(l.toks[at+1:], token.INTEGER, token.FLOAT, token.IDENTIFIER)
	if i < 0 {
		return nil
	}
	return &ast.Repeat{Base: l.base(), Count: l.literal(count), Body: body}
}

func (p *Parser) parseDoUntil(l *line) ast.Statement {
	at := indexAny(l.toks, token.DOUNTIL)
	body := p.parseBlock(l)
	cond := l.parseCondition(l.toks[at+1:])
	if cond == nil {
		return nil
	}
	return &ast.DoUntil{Base: l.base(), Condition: cond, Body: body}
}

func (p *Parser) parseForEach(l *line) ast.Statement {
	at := indexAny(l.toks, token.FOREACH)
	body := p.parseBlock(l)
	rest := l.toks[at+1:]
	variable, i := firstOf(rest, token.IDENTIFIER)
	in := indexAny(rest, token.IN)
	if i < 0 || in < 0 {
		return nil
	}
	iterable, j := firstOf(rest[in+1:], token.IDENTIFIER)
	if j < 0 {
		return nil
	}
	return &ast.ForEach{Base: l.base(), Variable: variable.Literal, Iterable: iterable.Literal, Body: body}
}

func (p *Parser) parseMathStatement(l *line) ast.Statement {
	at := indexAny(l.toks, mathKinds...)
	if m := l.parseMath(l.toks[at:]); m != nil {
		return m
	}
	return nil
}

func (p *Parser) parseGetterStatement(l *line) ast.Statement {
	at := indexAny(l.toks, getterKinds...)
	if g, ok := l.parseGetter(l.toks[at:]).(ast.Statement); ok {
		return g
	}
	return nil
}

func (p *Parser) parseFileOp(l *line) ast.Statement {
	last := lastIndexAny(l.toks, fileKinds...)
	var operands []ast.Expression
	for _, tok := range l.toks {
		if tok.IsLiteral() {
			operands = append(operands, l.literal(tok))
		}
	}

	op := &ast.FileOp{Base: l.base()}
	need := 0
	switch l.toks[last].Type {
	case token.FILE_CREATE:
		op.Op, need = ast.FileCreate, 1
	case token.FILE_DELETE:
		op.Op, need = ast.FileDelete, 1
	case token.FILE_WRITE:
		op.Op, need = ast.FileAppend, 2
		if indexAny(l.toks, token.AT_FIRST) >= 0 {
			op.Op = ast.FilePrepend
		}
	case token.FILE_FIND, token.FILE_REPLACE:
		op.Op, need = ast.FileFindReplace, 3
	case token.FILE_RENAME:
		op.Op, need = ast.FileRename, 2
	default:
		return nil
	}
	if len(operands) < need {
		return nil
	}

	op.Path = operands[0]
	switch op.Op {
	case ast.FileAppend, ast.FilePrepend:
		op.Text = operands[1]
	case ast.FileFindReplace:
		op.Find, op.Replace = operands[1], operands[2]
	case ast.FileRename:
		op.NewPath = operands[1]
	}
	return op
}

func (p *Parser) parseImport(l *line) ast.Statement {
	imp := &ast.Import{Base: l.base(), Names: []string{}}
	for _, tok := range l.toks {
		switch {
		case tok.Type == token.STRING:
			imp.File = tok.Literal
		case tok.Type == token.IDENTIFIER && !tok.Is("from"):
			imp.Names = append(imp.Names, tok.Literal)
		}
	}
	return imp
}

func (p *Parser) parseExport(l *line) ast.Statement {
	exp := &ast.Export{Base: l.base(), Names: []string{}}
	for _, tok := range l.toks {
		if tok.Type == token.IDENTIFIER {
			exp.Names = append(exp.Names, tok.Literal)
		}
	}
	return exp
}

func (p *Parser) parseDictDecl(l *line) ast.Statement {
	name, i := firstName(l.toks)
	if i < 0 {
		return nil
	}
	decl := &ast.DictDecl{Base: l.base(), Name: name.Literal, Entries: l.entries(l.toks[i+1:])}
	if decl.Entries == nil {
		decl.Entries = []ast.DictEntry{}
	}
	return decl
}

func (p *Parser) parseObjectDeleteProp(l *line) ast.Statement {
	at := indexAny(l.toks, token.DELETE)
	obj, prop, ok := propertyRef(l.toks[at+1:])
	if !ok {
		return nil
	}
	return &ast.ObjectDeleteProp{Base: l.base(), Object: obj, Property: prop}
}
