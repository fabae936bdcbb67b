package lexer

import (
	"caml/internal/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expected struct {
	kind    token.TokenType
	literal string
}

func kinds(line token.Line) []expected {
	out := make([]expected, len(line.Tokens))
	for i, tok := range line.Tokens {
		out[i] = expected{tok.Type, tok.Literal}
	}
	return out
}

func TestTokenizeStatements(t *testing.T) {
	tests := []struct {
		input string
		want  []expected
	}{
		{
			`set variable x to 5`,
			[]expected{{token.SET, "set variable"}, {token.IDENTIFIER, "x"}, {token.TO, "to"}, {token.INTEGER, "5"}},
		},
		{
			`Assign 5 to x`,
			[]expected{{token.ASSIGN, "assign"}, {token.INTEGER, "5"}, {token.TO, "to"}, {token.IDENTIFIER, "x"}},
		},
		{
			`Display "Hello, World!" plus bold.`,
			[]expected{{token.DISPLAY, "display"}, {token.STRING, "Hello, World!"}, {token.PLUS_BOLD, "plus bold"}, {token.DOT, "."}},
		},
		{
			`Increase the counter by -2.5`,
			[]expected{{token.INCREASE, "increase"}, {token.IGNORED, "the"}, {token.IDENTIFIER, "counter"}, {token.BY, "by"}, {token.FLOAT, "-2.5"}},
		},
		{
			`Define function "adder" which takes (a, b) which does:`,
			[]expected{
				{token.DEFINE_FUNCTION, "define function"}, {token.STRING, "adder"}, {token.WHICH_TAKES, "which takes"},
				{token.LPAREN, "("}, {token.IDENTIFIER, "a"}, {token.COMMA, ","}, {token.IDENTIFIER, "b"}, {token.RPAREN, ")"},
				{token.WHICH_DOES, "which does"}, {token.COLON, ":"},
			},
		},
		{
			`If x is not equal to 3 do:`,
			[]expected{{token.IF, "if"}, {token.IDENTIFIER, "x"}, {token.NEQ, "is not equal to"}, {token.INTEGER, "3"}, {token.DO, "do"}, {token.COLON, ":"}},
		},
		{
			`Create a new button called Ok in Main`,
			[]expected{{token.CREATE_BUTTON, "create a new button"}, {token.IDENTIFIER, "called"}, {token.IDENTIFIER, "Ok"}, {token.IN, "in"}, {token.IDENTIFIER, "Main"}},
		},
		{
			`Display Person.name`,
			[]expected{{token.DISPLAY, "display"}, {token.IDENTIFIER, "Person.name"}},
		},
		{
			`FOR EACH item IN MyList`,
			[]expected{{token.FOREACH, "for each"}, {token.IDENTIFIER, "item"}, {token.IN, "in"}, {token.IDENTIFIER, "MyList"}},
		},
		{
			`x 3-1`,
			[]expected{{token.IDENTIFIER, "x"}, {token.INTEGER, "3"}, {token.INTEGER, "-1"}},
		},
		{
			`5 - 3`,
			[]expected{{token.INTEGER, "5"}, {token.MINUS, "-"}, {token.INTEGER, "3"}},
		},
		{
			`Otherwise.`,
			[]expected{{token.OTHERWISE, "otherwise"}, {token.DOT, "."}},
		},
		{
			`Assign true to flag and null to nothing`,
			[]expected{
				{token.ASSIGN, "assign"}, {token.BOOLEAN, "true"}, {token.TO, "to"}, {token.IDENTIFIER, "flag"},
				{token.AND, "and"}, {token.NULL, "null"}, {token.TO, "to"}, {token.IDENTIFIER, "nothing"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lines := Tokenize(tt.input)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, kinds(lines[0]))
		})
	}
}

func TestTokenizeIsCaseInsensitiveForKeywordsOnly(t *testing.T) {
	lines := Tokenize(`DISPLAY MyVar`)
	require.Len(t, lines, 1)
	assert.Equal(t, []expected{{token.DISPLAY, "display"}, {token.IDENTIFIER, "MyVar"}}, kinds(lines[0]))
}

func TestTokenizeColumns(t *testing.T) {
	lines := Tokenize(`  Display "a" x`)
	require.Len(t, lines, 1)
	cols := []int{}
	for _, tok := range lines[0].Tokens {
		cols = append(cols, tok.Column)
	}
	assert.Equal(t, []int{2, 10, 14}, cols)
}

func TestTokenizeComments(t *testing.T) {
	input := `Display 1 $ trailing comment
$ whole line
$$$
Display 2
Display 3
$$$
Display "cost: $5 $$$" $ real comment
Display 4`

	lines := Tokenize(input)
	require.Len(t, lines, 3)

	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, []expected{{token.DISPLAY, "display"}, {token.INTEGER, "1"}}, kinds(lines[0]))

	assert.Equal(t, 7, lines[1].Number)
	assert.Equal(t, []expected{{token.DISPLAY, "display"}, {token.STRING, "cost: $5 $$$"}}, kinds(lines[1]))

	assert.Equal(t, 8, lines[2].Number)
}

func TestTokenizeStringsKeepFillerAndKeywords(t *testing.T) {
	lines := Tokenize(`Display "the display of a set"`)
	require.Len(t, lines, 1)
	assert.Equal(t, []expected{{token.DISPLAY, "display"}, {token.STRING, "the display of a set"}}, kinds(lines[0]))
}

func TestTokenizeStringEscapes(t *testing.T) {
	lines := Tokenize(`Display "a\tb\nc \"q\" \\ \x"`)
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Tokens, 2)
	assert.Equal(t, "a\tb\nc \"q\" \\ \\x", lines[0].Tokens[1].Literal)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	l := New(`Display "never closed`)
	lines := l.Tokenize()

	require.Len(t, lines, 1)
	assert.Equal(t, []expected{{token.DISPLAY, "display"}, {token.STRING, "never closed"}}, kinds(lines[0]))

	diags := l.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, token.LexAnomaly, diags[0].Kind)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 8, diags[0].Column)
}

func TestTokenizeIndentationAndBlankLines(t *testing.T) {
	input := "If x do:\r\n\r\n    Repeat this 2 times:\n        Display x\n\n  \nOtherwise:\n\tDisplay y"

	lines := Tokenize(input)
	require.Len(t, lines, 5)

	indents := []int{}
	numbers := []int{}
	for _, line := range lines {
		indents = append(indents, line.Indent)
		numbers = append(numbers, line.Number)
	}
	assert.Equal(t, []int{0, 4, 8, 0, 0}, indents)
	assert.Equal(t, []int{1, 3, 4, 7, 8}, numbers)
}

func TestTokenizeFillerOnlyLineIsEmitted(t *testing.T) {
	lines := Tokenize("the a an .")
	require.Len(t, lines, 1)
	assert.Equal(t, []expected{
		{token.IGNORED, "the"}, {token.IGNORED, "a"}, {token.IGNORED, "an"}, {token.DOT, "."},
	}, kinds(lines[0]))
}

func TestMaxPhraseWords(t *testing.T) {
	lines := New(`is not equal to`).WithMaxPhraseWords(2).Tokenize()
	require.Len(t, lines, 1)
	assert.Equal(t, []expected{
		{token.IDENTIFIER, "is"}, {token.IDENTIFIER, "not"}, {token.IDENTIFIER, "equal"}, {token.TO, "to"},
	}, kinds(lines[0]))
}

func TestTokenizeIsDeterministic(t *testing.T) {
	input := "Create list called nums containing contents 1, 2, 3\nFor each n in nums do:\n    Display n"
	assert.Equal(t, Tokenize(input), Tokenize(input))
}

func TestFillerWordsInsideParenthesesAreOperands(t *testing.T) {
	lines := Tokenize(`adder (a, b) a`)
	require.Len(t, lines, 1)
	assert.Equal(t, []expected{
		{token.IDENTIFIER, "adder"}, {token.LPAREN, "("}, {token.IDENTIFIER, "a"}, {token.COMMA, ","},
		{token.IDENTIFIER, "b"}, {token.RPAREN, ")"}, {token.IGNORED, "a"},
	}, kinds(lines[0]))
}
