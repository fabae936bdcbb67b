package token

import "strings"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"

	// Literals
	IDENTIFIER = "IDENTIFIER" // x, mylist, Main
	INTEGER    = "INTEGER"    // 42, -7
	FLOAT      = "FLOAT"      // 3.14
	STRING     = "STRING"     // "hello"
	BOOLEAN    = "BOOLEAN"    // true, false
	NULL       = "NULL"       // null, undefined

	// Filler words and sentence periods, dropped by the parser
	IGNORED = "IGNORED"
	DOT     = "DOT"

	// Punctuation
	LPAREN   = "("
	RPAREN   = ")"
	COMMA    = ","
	COLON    = ":"
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	CARET    = "^"

	// Console
	DISPLAY   = "DISPLAY"
	INTERACT  = "INTERACT"
	PLUS_BOLD = "PLUS_BOLD"

	// Variables
	ASSIGN       = "ASSIGN"
	SET          = "SET"
	CHANGE       = "CHANGE"
	INCREASE     = "INCREASE"
	DECREASE     = "DECREASE"
	MULTIPLY     = "MULTIPLY"
	DIVIDE       = "DIVIDE"
	EXPONENTIATE = "EXPONENTIATE"
	BLOCK        = "BLOCK"
	TO           = "TO"
	BY           = "BY"

	// Functions
	DEFINE_FUNCTION = "DEFINE_FUNCTION"
	WHICH_TAKES     = "WHICH_TAKES"
	WHICH_DOES      = "WHICH_DOES"
	CALL_FUNCTION   = "CALL_FUNCTION"
	WITH            = "WITH"
	ABBREV_FUNCTION = "ABBREV_FUNCTION"
	RETURN          = "RETURN"

	// Conditionals and loops
	IF        = "IF"
	ORIF      = "ORIF"
	OTHERWISE = "OTHERWISE"
	REPEAT    = "REPEAT"
	TIMES     = "TIMES"
	DOUNTIL   = "DOUNTIL"
	FOREACH   = "FOREACH"
	IN        = "IN"
	DO        = "DO"

	// Comparison and logic
	EQ     = "EQ"
	NEQ    = "NEQ"
	GT     = "GT"
	LT     = "LT"
	AND    = "AND"
	OR     = "OR"
	EXCEPT = "EXCEPT"

	// Math
	SQUARE     = "SQUARE"
	SQUAREROOT = "SQUAREROOT"
	GCD        = "GCD"
	LCM        = "LCM"
	RANDOM_INT = "RANDOM_INT"
	BETWEEN    = "BETWEEN"

	// Lists and dictionaries
	CREATE_LIST = "CREATE_LIST"
	CONTENTS    = "CONTENTS"
	ADD         = "ADD"
	REMOVE      = "REMOVE"
	CREATE_DICT = "CREATE_DICT"
	CONTAINING  = "CONTAINING"

	// Objects
	CREATE_OBJECT = "CREATE_OBJECT"
	CREATE_WINDOW = "CREATE_WINDOW"
	CREATE_BUTTON = "CREATE_BUTTON"
	WINDOW        = "WINDOW"
	BUTTON        = "BUTTON"
	DELETE        = "DELETE"
	ADD_FUNCTION  = "ADD_FUNCTION"

	// Files
	FILE_CREATE  = "FILE_CREATE"
	FILE_DELETE  = "FILE_DELETE"
	FILE_WRITE   = "FILE_WRITE"
	FILE_FIND    = "FILE_FIND"
	FILE_REPLACE = "FILE_REPLACE"
	FILE_RENAME  = "FILE_RENAME"
	FILE_ACCESS  = "FILE_ACCESS"
	AT_FIRST     = "AT_FIRST"

	// Getters
	GET_LENGTH = "GET_LENGTH"
	GET_CASE   = "GET_CASE"
	GET_TYPE   = "GET_TYPE"

	// Modules
	IMPORT  = "IMPORT"
	EXPORTS = "EXPORTS"
)

type Token struct {
	Type    TokenType
	Literal string
	Column  int // byte offset of the token within its source line
}

// Line is one source line reduced to its indentation and tokens.
type Line struct {
	Indent int
	Number int // 1-based source line
	Tokens []Token
}

// DefaultMaxPhraseWords is the longest keyword phrase the lexer tries.
const DefaultMaxPhraseWords = 4

var keywords = map[string]TokenType{
	"display":   DISPLAY,
	"interact":  INTERACT,
	"plus bold": PLUS_BOLD,

	"assign":       ASSIGN,
	"set":          SET,
	"set variable": SET,
	"change":       CHANGE,
	"increase":     INCREASE,
	"decrease":     DECREASE,
	"multiply":     MULTIPLY,
	"divide":       DIVIDE,
	"exponentiate": EXPONENTIATE,
	"block":        BLOCK,
	"to":           TO,
	"by":           BY,

	"define function":     DEFINE_FUNCTION,
	"which takes":         WHICH_TAKES,
	"which does":          WHICH_DOES,
	"call":                CALL_FUNCTION,
	"call function":       CALL_FUNCTION,
	"with":                WITH,
	"with argument":       WITH,
	"with arguments":      WITH,
	"abbreviate":          ABBREV_FUNCTION,
	"abbreviate function": ABBREV_FUNCTION,
	"return":              RETURN,

	"if":            IF,
	"or if":         ORIF,
	"otherwise":     OTHERWISE,
	"repeat":        REPEAT,
	"repeat this":   REPEAT,
	"times":         TIMES,
	"do this until": DOUNTIL,
	"for each":      FOREACH,
	"in":            IN,
	"do":            DO,

	"is equal to":     EQ,
	"is not equal to": NEQ,
	"is greater than": GT,
	"is less than":    LT,
	"and":             AND,
	"or":              OR,
	"except":          EXCEPT,

	"square of":           SQUARE,
	"squareroot of":       SQUAREROOT,
	"gcd":                 GCD,
	"gcd of":              GCD,
	"lcm":                 LCM,
	"lcm of":              LCM,
	"generate random int": RANDOM_INT,
	"between":             BETWEEN,

	"create list":         CREATE_LIST,
	"containing contents": CONTENTS,
	"add":                 ADD,
	"remove":              REMOVE,
	"create dictionary":   CREATE_DICT,
	"containing":          CONTAINING,

	"create object":       CREATE_OBJECT,
	"create window":       CREATE_WINDOW,
	"create button":       CREATE_BUTTON,
	"create a new button": CREATE_BUTTON,
	"window":              WINDOW,
	"button":              BUTTON,
	"delete":              DELETE,
	"add function":        ADD_FUNCTION,

	"create new file": FILE_CREATE,
	"delete file":     FILE_DELETE,
	"write":           FILE_WRITE,
	"find":            FILE_FIND,
	"replace":         FILE_REPLACE,
	"rename file":     FILE_RENAME,
	"access file":     FILE_ACCESS,
	"at first line":   AT_FIRST,

	"get length of":    GET_LENGTH,
	"get case of":      GET_CASE,
	"get data type of": GET_TYPE,
	"get data type":    GET_TYPE,
	"get type of":      GET_TYPE,

	"import":      IMPORT,
	"exports":     EXPORTS,
	"exports are": EXPORTS,

	"true":      BOOLEAN,
	"false":     BOOLEAN,
	"null":      NULL,
	"undefined": NULL,
}

var fillerWords = map[string]bool{
	"the": true,
	"a":   true,
	"an":  true,
}

// LookupPhrase reports the keyword kind for a space-joined phrase, ignoring case.
func LookupPhrase(phrase string) (TokenType, bool) {
	tok, ok := keywords[strings.ToLower(phrase)]
	return tok, ok
}

func IsFiller(word string) bool {
	return fillerWords[strings.ToLower(word)]
}

// IsLiteral reports whether the token carries a value usable as an operand.
func (t Token) IsLiteral() bool {
	switch t.Type {
	case INTEGER, FLOAT, STRING, BOOLEAN, NULL, IDENTIFIER:
		return true
	}
	return false
}

// IsWord reports whether the token came from a word run (identifier or keyword).
func (t Token) IsWord() bool {
	switch t.Type {
	case INTEGER, FLOAT, STRING, IGNORED, DOT,
		LPAREN, RPAREN, COMMA, COLON, PLUS, MINUS, ASTERISK, SLASH, CARET:
		return false
	}
	return true
}

func (t Token) Is(word string) bool {
	return t.Type == IDENTIFIER && strings.EqualFold(t.Literal, word)
}

func (t Token) String() string {
	if t.Literal == string(t.Type) {
		return string(t.Type)
	}
	return string(t.Type) + "(" + t.Literal + ")"
}
