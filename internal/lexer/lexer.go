package lexer

import (
	"caml/internal/token"
	"fmt"
	"strings"
	"unicode/utf8"
)

type Lexer struct {
	input          string
	maxPhraseWords int
	diagnostics    []token.Diagnostic
}

func New(input string) *Lexer {
	return &Lexer{input: input, maxPhraseWords: token.DefaultMaxPhraseWords}
}

// WithMaxPhraseWords bounds the keyword phrase window; values below 1 keep the default.
func (l *Lexer) WithMaxPhraseWords(n int) *Lexer {
	if n > 0 {
		l.maxPhraseWords = n
	}
	return l
}

// Tokenize is a convenience wrapper for New(input).Tokenize().
func Tokenize(input string) []token.Line {
	return New(input).Tokenize()
}

func (l *Lexer) Diagnostics() []token.Diagnostic {
	return l.diagnostics
}

// Tokenize returns one Line per non-blank source line left after comment removal.
// It never fails; malformed input degrades to best-effort tokens and diagnostics.
func (l *Lexer) Tokenize() []token.Line {
	l.diagnostics = nil
	lines := preprocess(l.input)

	out := make([]token.Line, 0, len(lines))
	for i, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		indent := len(raw) - len(strings.TrimLeft(raw, " "))
		s := &lineScanner{lexer: l, src: raw, pos: indent, number: i + 1}
		out = append(out, token.Line{
			Indent: indent,
			Number: i + 1,
			Tokens: s.scan(),
		})
	}
	return out
}

func (l *Lexer) anomaly(line, col int, format string, args ...any) {
	l.diagnostics = append(l.diagnostics, token.Diagnostic{
		Kind:    token.LexAnomaly,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	})
}

type lineScanner struct {
	lexer  *Lexer
	src    string
	pos    int
	number int
	depth  int // open parentheses
	tokens []token.Token
}

func (s *lineScanner) scan() []token.Token {
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		switch {
		case isSpace(ch):
			s.pos++
		case ch == '"':
			s.readString()
		case isDigit(ch) || (ch == '-' && isDigit(s.peek(1))):
			s.readNumber()
		case isPunctuation(ch):
			switch ch {
			case '(':
				s.depth++
			case ')':
				s.depth = max(0, s.depth-1)
			}
			s.emit(token.TokenType(string(ch)), string(ch), s.pos)
			s.pos++
		case ch == '.':
			s.emit(token.DOT, ".", s.pos)
			s.pos++
		default:
			s.readWords()
		}
	}
	return s.tokens
}

func (s *lineScanner) emit(t token.TokenType, literal string, col int) {
	s.tokens = append(s.tokens, token.Token{Type: t, Literal: literal, Column: col})
}

func (s *lineScanner) peek(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

// readString consumes a double-quoted literal. An unterminated literal runs to the
// end of the line.
func (s *lineScanner) readString() {
	start := s.pos
	s.pos++ // opening quote

	var result strings.Builder
	for {
		if s.pos >= len(s.src) {
			s.lexer.anomaly(s.number, start, "unterminated string literal")
			break
		}
		ch := s.src[s.pos]
		if ch == '"' {
			s.pos++
			break
		}
		if ch == '\\' && s.pos+1 < len(s.src) {
			s.pos++
			switch s.src[s.pos] {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			case '\\':
				result.WriteByte('\\')
			case '"':
				result.WriteByte('"')
			default:
				result.WriteByte('\\')
				result.WriteByte(s.src[s.pos])
			}
			s.pos++
			continue
		}
		result.WriteByte(ch)
		s.pos++
	}
	s.emit(token.STRING, result.String(), start)
}

func (s *lineScanner) readNumber() {
	start := s.pos
	if s.src[s.pos] == '-' {
		s.pos++
	}
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	kind := token.TokenType(token.INTEGER)
	if s.pos+1 < len(s.src) && s.src[s.pos] == '.' && isDigit(s.src[s.pos+1]) {
		kind = token.FLOAT
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	s.emit(kind, s.src[start:s.pos], start)
}

type word struct {
	start, end int // end excludes trailing periods
}

// readWords tries the longest keyword phrase starting at the current word, then
// falls back to a single filler or identifier word. Inside parentheses every
// non-keyword word is an operand, so `(a, b)` keeps both names.
func (s *lineScanner) readWords() {
	words := s.collectWords()
	if len(words) == 0 {
		// not reachable for well-formed scanner states; skip one rune
		_, size := utf8.DecodeRuneInString(s.src[s.pos:])
		s.pos += size
		return
	}

	for n := len(words); n >= 1; n-- {
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = s.src[words[i].start:words[i].end]
		}
		phrase := strings.ToLower(strings.Join(parts, " "))
		if kind, ok := token.LookupPhrase(phrase); ok {
			s.emit(kind, phrase, words[0].start)
			s.pos = words[n-1].end
			return
		}
	}

	first := words[0]
	text := s.src[first.start:first.end]
	if token.IsFiller(text) && s.depth == 0 {
		s.emit(token.IGNORED, strings.ToLower(text), first.start)
	} else {
		s.emit(token.IDENTIFIER, text, first.start)
	}
	s.pos = first.end
}

// collectWords gathers up to maxPhraseWords space-separated words from the current
// position. A word with trailing periods closes the window.
func (s *lineScanner) collectWords() []word {
	var words []word
	p := s.pos
	for len(words) < s.lexer.maxPhraseWords {
		for p < len(s.src) && isSpace(s.src[p]) {
			p++
		}
		if p >= len(s.src) || !isWordChar(s.src[p]) {
			break
		}
		start := p
		for p < len(s.src) && isWordChar(s.src[p]) {
			p++
		}
		end := p
		for end > start && s.src[end-1] == '.' {
			end--
		}
		if end == start {
			break
		}
		words = append(words, word{start: start, end: end})
		if end != p {
			break
		}
	}
	return words
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isPunctuation(ch byte) bool {
	return strings.IndexByte("(),:+-*/^", ch) >= 0
}

func isWordChar(ch byte) bool {
	return !isSpace(ch) && !isPunctuation(ch) && ch != '"'
}
