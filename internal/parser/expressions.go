package parser

import (
	"caml/internal/ast"
	"caml/internal/token"
	"strconv"
	"strings"
)

var (
	mathKinds   = []token.TokenType{token.SQUARE, token.SQUAREROOT, token.GCD, token.LCM, token.RANDOM_INT}
	getterKinds = []token.TokenType{token.GET_LENGTH, token.GET_CASE, token.GET_TYPE}
	fileKinds   = []token.TokenType{
		token.FILE_CREATE, token.FILE_DELETE, token.FILE_WRITE, token.FILE_FIND,
		token.FILE_REPLACE, token.FILE_RENAME, token.FILE_ACCESS,
	}
	variableKinds = []token.TokenType{
		token.ASSIGN, token.SET, token.CHANGE, token.INCREASE, token.DECREASE,
		token.MULTIPLY, token.DIVIDE, token.EXPONENTIATE, token.BLOCK,
	}
	compareOps = map[token.TokenType]ast.CompareOp{
		token.EQ:  ast.Equal,
		token.NEQ: ast.NotEqual,
		token.GT:  ast.Greater,
		token.LT:  ast.Less,
	}
	mathNames = map[token.TokenType]string{
		token.SQUARE:     "square",
		token.SQUAREROOT: "squareroot",
		token.GCD:        "gcd",
		token.LCM:        "lcm",
		token.RANDOM_INT: "random_int",
	}
	caseModes = map[string]bool{"upper": true, "lower": true, "camel": true, "snake": true, "pascal": true}
)

// markers are plain words that shape a sentence but never name anything.
var markers = map[string]bool{
	"called":     true,
	"named":      true,
	"list":       true,
	"dictionary": true,
	"object":     true,
	"property":   true,
	"from":       true,
	"of":         true,
}

func isMarker(tok token.Token) bool {
	return tok.Type == token.IDENTIFIER && markers[strings.ToLower(tok.Literal)]
}

func hasAny(kinds ...token.TokenType) matchFn {
	return func(toks []token.Token) bool {
		return indexAny(toks, kinds...) >= 0
	}
}

func hasWithMarker(kind token.TokenType, word string) matchFn {
	return func(toks []token.Token) bool {
		return indexAny(toks, kind) >= 0 && indexWord(toks, word) >= 0
	}
}

// hasVariableKeyword ignores operator words used as a call target, as in
// "Call function multiply with (2, 3)".
func hasVariableKeyword(toks []token.Token) bool {
	return variableKeyword(toks) >= 0
}

func variableKeyword(toks []token.Token) int {
	for _, kind := range variableKinds {
		for i, tok := range toks {
			if tok.Type != kind {
				continue
			}
			if i > 0 && toks[i-1].Type == token.CALL_FUNCTION {
				continue
			}
			return i
		}
	}
	return -1
}

func looksLikeCall(toks []token.Token) bool {
	if indexAny(toks, token.CALL_FUNCTION) >= 0 {
		return true
	}
	if toks[0].Type == token.IDENTIFIER {
		for _, tok := range toks[1:] {
			switch tok.Type {
			case token.INTEGER, token.FLOAT, token.STRING, token.BOOLEAN:
				return true
			}
		}
	}
	return openParen(toks) >= 0
}

// openParen returns the index of an identifier directly followed by "(".
func openParen(toks []token.Token) int {
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Type == token.IDENTIFIER && toks[i+1].Type == token.LPAREN {
			return i
		}
	}
	return -1
}

func indexAny(toks []token.Token, kinds ...token.TokenType) int {
	for i, tok := range toks {
		for _, k := range kinds {
			if tok.Type == k {
				return i
			}
		}
	}
	return -1
}

func lastIndexAny(toks []token.Token, kinds ...token.TokenType) int {
	for i := len(toks) - 1; i >= 0; i-- {
		for _, k := range kinds {
			if toks[i].Type == k {
				return i
			}
		}
	}
	return -1
}

func indexWord(toks []token.Token, word string) int {
	for i, tok := range toks {
		if tok.Is(word) {
			return i
		}
	}
	return -1
}

func firstOf(toks []token.Token, kinds ...token.TokenType) (token.Token, int) {
	i := indexAny(toks, kinds...)
	if i < 0 {
		return token.Token{}, -1
	}
	return toks[i], i
}

// firstName returns the first identifier that is not a marker word.
func firstName(toks []token.Token) (token.Token, int) {
	for i, tok := range toks {
		if tok.Type == token.IDENTIFIER && !isMarker(tok) {
			return tok, i
		}
	}
	return token.Token{}, -1
}

func lastName(toks []token.Token) (token.Token, int) {
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].Type == token.IDENTIFIER && !isMarker(toks[i]) {
			return toks[i], i
		}
	}
	return token.Token{}, -1
}

func withoutMarkers(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if !isMarker(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func (l *line) literal(tok token.Token) *ast.Literal {
	lit := &ast.Literal{Base: ast.Base{Token: tok, Line: l.number}}
	switch tok.Type {
	case token.INTEGER:
		if n, err := strconv.ParseInt(tok.Literal, 10, 64); err == nil {
			lit.Kind, lit.Int = ast.IntegerLit, n
		} else {
			f, _ := strconv.ParseFloat(tok.Literal, 64)
			lit.Kind, lit.Float = ast.FloatLit, f
		}
	case token.FLOAT:
		f, _ := strconv.ParseFloat(tok.Literal, 64)
		lit.Kind, lit.Float = ast.FloatLit, f
	case token.BOOLEAN:
		lit.Kind, lit.Bool = ast.BooleanLit, tok.Literal == "true"
	case token.NULL:
		lit.Kind = ast.NullLit
	default:
		lit.Kind, lit.Text = ast.TextLit, tok.Literal
	}
	return lit
}

func (l *line) null() *ast.Literal {
	return &ast.Literal{Base: ast.Base{Token: token.Token{Type: token.NULL, Literal: "null"}, Line: l.number}, Kind: ast.NullLit}
}

// firstLiteral returns the first operand token as a literal, or nil.
func (l *line) firstLiteral(toks []token.Token) ast.Expression {
	for _, tok := range toks {
		if tok.IsLiteral() {
			return l.literal(tok)
		}
	}
	return nil
}

// valueFrom reads one value out of a token span: a nested call, math call or getter
// when one is present, otherwise the first operand token.
func (l *line) valueFrom(toks []token.Token) ast.Expression {
	if i := indexAny(toks, token.CALL_FUNCTION); i >= 0 {
		if call := l.parseCall(toks[i:]); call != nil {
			return call
		}
	}
	if i := indexAny(toks, mathKinds...); i >= 0 {
		if m := l.parseMath(toks[i:]); m != nil {
			return m
		}
	}
	if i := indexAny(toks, getterKinds...); i >= 0 {
		if g := l.parseGetter(toks[i:]); g != nil {
			return g
		}
	}
	if i := openParen(toks); i >= 0 {
		if call := l.parseCall(toks[i:]); call != nil {
			return call
		}
	}
	return l.firstLiteral(toks)
}

// parseCall reads `call [function] <name> [with ...] args`, `name(args)` or
// `name args`. The name after a call marker may be any word, keywords included.
func (l *line) parseCall(toks []token.Token) *ast.FunctionCall {
	nameAt := -1
	if i := indexAny(toks, token.CALL_FUNCTION); i >= 0 {
		for j := i + 1; j < len(toks); j++ {
			if toks[j].Type == token.WITH {
				continue
			}
			if toks[j].Type == token.STRING || toks[j].IsWord() {
				nameAt = j
			}
			break
		}
	} else {
		_, nameAt = firstOf(toks, token.IDENTIFIER)
	}
	if nameAt < 0 {
		return nil
	}

	call := &ast.FunctionCall{
		Base: ast.Base{Token: toks[nameAt], Line: l.number},
		Name: toks[nameAt].Literal,
		Args: []ast.Expression{},
	}

	rest := toks[nameAt+1:]
	if len(rest) > 0 && rest[0].Type == token.LPAREN {
		if end := indexAny(rest, token.RPAREN); end >= 0 {
			rest = rest[:end]
		}
	}
	for _, tok := range rest {
		if tok.IsLiteral() {
			call.Args = append(call.Args, l.literal(tok))
		}
	}
	return call
}

// parseMath expects the math keyword at toks[0].
func (l *line) parseMath(toks []token.Token) *ast.MathCall {
	if len(toks) == 0 {
		return nil
	}
	name, ok := mathNames[toks[0].Type]
	if !ok {
		return nil
	}
	m := &ast.MathCall{Base: ast.Base{Token: toks[0], Line: l.number}, Func: name, Args: []ast.Expression{}}
	for _, tok := range toks[1:] {
		switch tok.Type {
		case token.INTEGER, token.FLOAT, token.IDENTIFIER:
			m.Args = append(m.Args, l.literal(tok))
		}
	}
	return m
}

// parseGetter expects the getter keyword at toks[0].
func (l *line) parseGetter(toks []token.Token) ast.Expression {
	if len(toks) == 0 {
		return nil
	}
	var candidates []token.Token
	for _, tok := range toks[1:] {
		if tok.Type == token.IDENTIFIER || tok.Type == token.STRING {
			candidates = append(candidates, tok)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	base := ast.Base{Token: toks[0], Line: l.number}
	switch toks[0].Type {
	case token.GET_LENGTH:
		return &ast.GetLength{Base: base, Target: l.literal(candidates[0])}
	case token.GET_TYPE:
		return &ast.GetType{Base: base, Target: l.literal(candidates[0])}
	case token.GET_CASE:
		mode, modeAt := "", -1
		if len(candidates) > 1 {
			for i := len(candidates) - 1; i >= 0; i-- {
				if candidates[i].Type == token.IDENTIFIER && caseModes[strings.ToLower(candidates[i].Literal)] {
					mode, modeAt = strings.ToLower(candidates[i].Literal), i
					break
				}
			}
		}
		target := candidates[0]
		if modeAt == 0 {
			target = candidates[1]
		}
		return &ast.GetCase{Base: base, Target: l.literal(target), Mode: mode}
	}
	return nil
}

// parseCondition reads either a comparison between two operands or a single value.
func (l *line) parseCondition(toks []token.Token) ast.Expression {
	for i, tok := range toks {
		op, ok := compareOps[tok.Type]
		if !ok {
			continue
		}
		left := l.valueFrom(toks[:i])
		right := l.valueFrom(toks[i+1:])
		if left == nil || right == nil {
			return nil
		}
		return &ast.Comparison{Base: ast.Base{Token: tok, Line: l.number}, Left: left, Op: op, Right: right}
	}
	return l.valueFrom(toks)
}
