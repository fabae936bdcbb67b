package parser

import (
	"caml/internal/ast"
	"caml/internal/token"
	"fmt"
	"log/slog"
)

// Diagnostic is shared with the lexer; strict runs return it as an error.
type Diagnostic = token.Diagnostic

type Options struct {
	Strict bool
}

type (
	matchFn     func(toks []token.Token) bool
	statementFn func(l *line) ast.Statement
)

// rule pairs a dispatch predicate with the handler that builds the node. Rules are
// tried in registration order and the first match wins.
type rule struct {
	name  string
	match matchFn
	parse statementFn
}

// line is a source line with filler and period tokens removed.
type line struct {
	toks   []token.Token
	indent int
	number int
}

type Parser struct {
	lines []token.Line
	pos   int
	opts  Options
	rules []rule

	diagnostics []Diagnostic
}

func New(lines []token.Line, opts Options) *Parser {
	p := &Parser{lines: lines, opts: opts}

	p.registerStatement("display", hasAny(token.DISPLAY), p.parseDisplay)
	p.registerStatement("interact", hasAny(token.INTERACT), p.parseInteract)
	p.registerStatement("object", hasAny(token.CREATE_WINDOW, token.WINDOW, token.CREATE_BUTTON, token.BUTTON, token.CREATE_OBJECT), p.parseObjectDecl)
	p.registerStatement("add function", hasAny(token.ADD_FUNCTION), p.parseObjectAddFunction)
	p.registerStatement("list", hasAny(token.CREATE_LIST), p.parseListDecl)
	p.registerStatement("list add", hasWithMarker(token.ADD, "list"), p.parseListAdd)
	p.registerStatement("list remove", hasWithMarker(token.REMOVE, "list"), p.parseListRemove)
	p.registerStatement("dict add", hasWithMarker(token.ADD, "dictionary"), p.parseDictAdd)
	p.registerStatement("dict remove", hasWithMarker(token.REMOVE, "dictionary"), p.parseDictRemove)
	p.registerStatement("variable", hasVariableKeyword, p.parseVariableStatement)
	p.registerStatement("function", hasAny(token.DEFINE_FUNCTION), p.parseFunctionDef)
	p.registerStatement("call", looksLikeCall, p.parseFunctionCallStatement)
	p.registerStatement("abbreviate", hasAny(token.ABBREV_FUNCTION), p.parseFunctionAbbrev)
	p.registerStatement("if", hasAny(token.IF), p.parseIf)
	p.registerStatement("or if", hasAny(token.ORIF), p.parseOrIf)
	p.registerStatement("otherwise", hasAny(token.OTHERWISE), p.parseOtherwise)
	p.registerStatement("repeat", hasAny(token.REPEAT), p.parseRepeat)
	p.registerStatement("do until", hasAny(token.DOUNTIL), p.parseDoUntil)
	p.registerStatement("for each", hasAny(token.FOREACH), p.parseForEach)
	p.registerStatement("math", hasAny(mathKinds...), p.parseMathStatement)
	p.registerStatement("file", hasAny(fileKinds...), p.parseFileOp)
	p.registerStatement("getter", hasAny(getterKinds...), p.parseGetterStatement)
	p.registerStatement("import", hasAny(token.IMPORT), p.parseImport)
	p.registerStatement("export", hasAny(token.EXPORTS), p.parseExport)
	p.registerStatement("dictionary", hasAny(token.CREATE_DICT, token.CONTAINING), p.parseDictDecl)
	p.registerStatement("delete", hasAny(token.DELETE), p.parseObjectDeleteProp)

	return p
}

// Parse is a convenience wrapper for New(lines, opts).ParseProgram().
func Parse(lines []token.Line, opts Options) (*ast.Program, error) {
	return New(lines, opts).ParseProgram()
}

func (p *Parser) registerStatement(name string, match matchFn, parse statementFn) {
	p.rules = append(p.rules, rule{name: name, match: match, parse: parse})
}

func (p *Parser) Diagnostics() []Diagnostic {
	return p.diagnostics
}

// ParseProgram consumes every line. Unrecognized lines are skipped with a diagnostic;
// in strict mode the first one is returned as the error alongside the partial program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{Statements: []ast.Statement{}}

	for p.pos < len(p.lines) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}

	if p.opts.Strict && len(p.diagnostics) > 0 {
		return program, p.diagnostics[0]
	}
	return program, nil
}

// parseStatement consumes the current line, plus its block when the statement has one.
func (p *Parser) parseStatement() ast.Statement {
	raw := p.lines[p.pos]
	p.pos++

	l := &line{toks: filter(raw.Tokens), indent: raw.Indent, number: raw.Number}
	if len(l.toks) == 0 {
		return nil
	}

	for _, r := range p.rules {
		if !r.match(l.toks) {
			continue
		}
		stmt := r.parse(l)
		if stmt == nil {
			p.skip(l, fmt.Sprintf("incomplete %s statement", r.name))
		}
		return stmt
	}

	p.skip(l, "unrecognized statement")
	return nil
}

// parseBlock collects the statements indented under a header line. The first deeper
// line fixes the baseline; any later line at or beyond it stays in the block.
func (p *Parser) parseBlock(header *line) []ast.Statement {
	body := []ast.Statement{}
	if p.pos >= len(p.lines) || p.lines[p.pos].Indent <= header.indent {
		return body
	}

	baseline := p.lines[p.pos].Indent
	for p.pos < len(p.lines) && p.lines[p.pos].Indent >= baseline {
		if stmt := p.parseStatement(); stmt != nil {
			body = append(body, stmt)
		}
	}
	return body
}

func (p *Parser) skip(l *line, msg string) {
	col := 0
	if len(l.toks) > 0 {
		col = l.toks[0].Column
	}
	d := Diagnostic{Kind: token.ParseSkip, Line: l.number, Column: col, Message: msg}
	slog.Debug("skipping line", slog.Int("line", l.number), slog.String("reason", msg))
	p.diagnostics = append(p.diagnostics, d)
}

func filter(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Type == token.IGNORED || tok.Type == token.DOT {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (l *line) base() ast.Base {
	return ast.Base{Token: l.toks[0], Line: l.number}
}
