// Package token defines the lexical tokens produced by internal/lexer and
// consumed by internal/parser.
package token

// Kind identifies a token's lexical category.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	IDENT
	INT
	FLOAT
	STRING
	POLYGLOT // an entire <<lang[...] ... >> literal, captured whole by the lexer

	// Keywords
	LET
	CONST
	IF
	ELSE
	WHILE
	FOR
	BREAK
	CONTINUE
	RETURN
	FUNCTION
	STRUCT
	ENUM
	USE
	AS
	IMPORT
	EXPORT
	MAIN
	TRY
	CATCH
	FINALLY
	THROW
	NEW
	TRUE
	FALSE
	NULL
	AND
	OR
	NOT

	// Operators & punctuation
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN
	EQ
	NEQ
	LT
	LTE
	GT
	GTE
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	COLON
	SEMI
	ARROW
	QUESTION
	PIPE // the pipeline operator `|>`
	UNION_PIPE // `|` inside a union type; the lexer emits PIPE only when `|` is followed by `>`
)

// Keywords maps reserved words to their token kind. Any of these used
// where an identifier is expected is a ReservedKeywordAsIdentifier parse
// error (spec §4.1).
var Keywords = map[string]Kind{
	"let": LET, "const": CONST, "if": IF, "else": ELSE, "while": WHILE,
	"for": FOR, "break": BREAK, "continue": CONTINUE, "return": RETURN,
	"function": FUNCTION, "struct": STRUCT, "enum": ENUM, "use": USE,
	"as": AS, "import": IMPORT, "export": EXPORT, "main": MAIN,
	"try": TRY, "catch": CATCH, "finally": FINALLY, "throw": THROW,
	"new": NEW, "true": TRUE, "false": FALSE, "null": NULL,
	"and": AND, "or": OR, "not": NOT,
}

// Position is a 1-indexed line/column source location, carried by every
// token and every AST node.
type Position struct {
	Line   int
	Column int
}

// Token is one lexical unit: a kind, its literal text, and its position.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

var kindNames = map[Kind]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL", IDENT: "IDENT", INT: "INT",
	FLOAT: "FLOAT", STRING: "STRING", POLYGLOT: "POLYGLOT",
	LET: "let", CONST: "const", IF: "if", ELSE: "else", WHILE: "while",
	FOR: "for", BREAK: "break", CONTINUE: "continue", RETURN: "return",
	FUNCTION: "function", STRUCT: "struct", ENUM: "enum", USE: "use",
	AS: "as", IMPORT: "import", EXPORT: "export", MAIN: "main",
	TRY: "try", CATCH: "catch", FINALLY: "finally", THROW: "throw",
	NEW: "new", TRUE: "true", FALSE: "false", NULL: "null",
	AND: "and", OR: "or", NOT: "not",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	ASSIGN: "=", EQ: "==", NEQ: "!=", LT: "<", LTE: "<=", GT: ">", GTE: ">=",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", DOT: ".", COLON: ":",
	SEMI: ";", ARROW: "->", QUESTION: "?", PIPE: "|>", UNION_PIPE: "|",
}
