package main

import "strconv"

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

// Definition of token types
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Layout tokens: Python-style logical lines and suites
	NEWLINE TokenType = "NEWLINE"
	INDENT  TokenType = "INDENT"
	DEDENT  TokenType = "DEDENT"

	// Identifiers + literals
	IDENT  TokenType = "IDENT" // counter, fib, _total
	INT    TokenType = "INT"   // 12345
	FLOAT  TokenType = "FLOAT" // 3.14
	STRING TokenType = "STRING"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	POWER    TokenType = "**"
	FLOORDIV TokenType = "//"

	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="
	PERCENT_ASSIGN  TokenType = "%="
	POWER_ASSIGN    TokenType = "**="
	FLOORDIV_ASSIGN TokenType = "//="

	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	GT     TokenType = ">"
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA    TokenType = ","
	COLON    TokenType = ":"
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"
	DOT      TokenType = "."

	// Keywords
	DEF      TokenType = "DEF"
	IF       TokenType = "IF"
	ELIF     TokenType = "ELIF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	IN       TokenType = "IN"
	AND      TokenType = "AND"
	OR       TokenType = "OR"
	NOT      TokenType = "NOT"
	RETURN   TokenType = "RETURN"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	PASS     TokenType = "PASS"
	IMPORT   TokenType = "IMPORT"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	NONE     TokenType = "NONE"
)

var keywords = map[string]TokenType{
	"def":      DEF,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"pass":     PASS,
	"import":   IMPORT,
	"True":     TRUE,
	"False":    FALSE,
	"None":     NONE,
}

// Lexer scans null-terminated source text into tokens. The current token is
// exposed through the Curr* fields; call NextToken repeatedly until
// CurrTokenType == EOF. Indentation is translated into INDENT/DEDENT tokens
// using a stack of indent widths; newlines inside brackets are swallowed
// (implicit line joining).
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int

	indents        []int
	atLineStart    bool
	pendingDedents int
	bracketDepth   int

	CurrTokenType  TokenType
	CurrLiteral    string
	CurrIntValue   int64   // only meaningful when CurrTokenType == INT
	CurrFloatValue float64 // only meaningful when CurrTokenType == FLOAT
	CurrLine       int
	CurrCol        int

	Errors *ErrorList
}

// NewLexer creates a lexer for the given input. The input must end with a
// 0 byte.
func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input:       input,
		line:        1,
		col:         1,
		indents:     []int{0},
		atLineStart: true,
		Errors:      NewErrorList(),
	}
}

func (l *Lexer) set(typ TokenType, literal string, line, col int) {
	l.CurrTokenType = typ
	l.CurrLiteral = literal
	l.CurrLine = line
	l.CurrCol = col
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekByteAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() byte {
	c := l.peekByte()
	if c != 0 {
		l.pos++
		l.col++
	}
	return c
}

// NextToken scans the next token into the Curr* fields.
func (l *Lexer) NextToken() {
	if l.pendingDedents > 0 {
		l.pendingDedents--
		l.set(DEDENT, "", l.line, l.col)
		return
	}

	if l.atLineStart && l.bracketDepth == 0 {
		if l.handleLineStart() {
			return
		}
	}

	l.skipSpacesAndComments()

	c := l.peekByte()
	line, col := l.line, l.col

	if c == 0 {
		// Close any open suites before reporting end of input.
		if len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			l.set(DEDENT, "", line, col)
			return
		}
		l.set(EOF, "", line, col)
		return
	}

	if c == '\n' {
		l.pos++
		l.line++
		l.col = 1
		if l.bracketDepth > 0 {
			l.NextToken()
			return
		}
		l.atLineStart = true
		l.set(NEWLINE, "\n", line, col)
		return
	}

	if isDigit(c) {
		l.readNumber()
		return
	}
	if isLetter(c) {
		l.readIdentifier()
		return
	}
	if c == '"' || c == '\'' {
		l.readString(c)
		return
	}

	l.readOperator()
}

// handleLineStart measures indentation and emits INDENT/DEDENT as needed.
// Returns true if it produced a token.
func (l *Lexer) handleLineStart() bool {
	width := 0
	for {
		c := l.peekByte()
		if c == ' ' {
			width++
		} else if c == '\t' {
			width += 4
		} else {
			break
		}
		l.advance()
	}

	c := l.peekByte()

	// Blank and comment-only lines do not affect indentation.
	if c == '\n' {
		l.pos++
		l.line++
		l.col = 1
		return l.restartLine()
	}
	if c == '#' {
		for l.peekByte() != '\n' && l.peekByte() != 0 {
			l.advance()
		}
		if l.peekByte() == '\n' {
			l.pos++
			l.line++
			l.col = 1
		}
		return l.restartLine()
	}
	if c == 0 {
		l.atLineStart = false
		return false
	}

	l.atLineStart = false
	current := l.indents[len(l.indents)-1]

	if width > current {
		l.indents = append(l.indents, width)
		l.set(INDENT, "", l.line, 1)
		return true
	}
	if width < current {
		dedents := 0
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			dedents++
		}
		if l.indents[len(l.indents)-1] != width {
			l.Errors.Add(l.line, 1, "unindent does not match any outer indentation level")
		}
		l.pendingDedents = dedents - 1
		l.set(DEDENT, "", l.line, 1)
		return true
	}
	return false
}

func (l *Lexer) restartLine() bool {
	l.atLineStart = true
	l.NextToken()
	return true
}

func (l *Lexer) skipSpacesAndComments() {
	for {
		c := l.peekByte()
		if c == ' ' || c == '\t' || c == '\r' {
			l.advance()
			continue
		}
		if c == '#' {
			for l.peekByte() != '\n' && l.peekByte() != 0 {
				l.advance()
			}
			continue
		}
		return
	}
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func (l *Lexer) readIdentifier() {
	line, col := l.line, l.col
	start := l.pos
	for isLetter(l.peekByte()) || isDigit(l.peekByte()) {
		l.advance()
	}
	word := string(l.input[start:l.pos])
	if typ, ok := keywords[word]; ok {
		l.set(typ, word, line, col)
		return
	}
	l.set(IDENT, word, line, col)
}

func (l *Lexer) readNumber() {
	line, col := l.line, l.col
	start := l.pos
	for isDigit(l.peekByte()) {
		l.advance()
	}
	isFloat := false
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peekByte()) {
			l.advance()
		}
	}
	text := string(l.input[start:l.pos])
	if isFloat {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.Errors.Add(line, col, "invalid float literal %q", text)
		}
		l.set(FLOAT, text, line, col)
		l.CurrFloatValue = value
		return
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.Errors.Add(line, col, "invalid integer literal %q", text)
	}
	l.set(INT, text, line, col)
	l.CurrIntValue = value
}

func (l *Lexer) readString(quote byte) {
	line, col := l.line, l.col
	l.advance() // opening quote
	var out []byte
	for {
		c := l.peekByte()
		if c == 0 || c == '\n' {
			l.Errors.Add(line, col, "unterminated string literal")
			break
		}
		l.advance()
		if c == quote {
			l.set(STRING, string(out), line, col)
			return
		}
		if c == '\\' {
			esc := l.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '\'':
				out = append(out, '\'')
			case '"':
				out = append(out, '"')
			case 0:
				l.Errors.Add(line, col, "unterminated string literal")
			default:
				// Unknown escapes pass through verbatim.
				out = append(out, '\\', esc)
			}
			continue
		}
		out = append(out, c)
	}
	l.set(STRING, string(out), line, col)
}

func (l *Lexer) readOperator() {
	line, col := l.line, l.col
	c := l.advance()
	switch c {
	case '+':
		if l.peekByte() == '=' {
			l.advance()
			l.set(PLUS_ASSIGN, "+=", line, col)
			return
		}
		l.set(PLUS, "+", line, col)
	case '-':
		if l.peekByte() == '=' {
			l.advance()
			l.set(MINUS_ASSIGN, "-=", line, col)
			return
		}
		l.set(MINUS, "-", line, col)
	case '*':
		if l.peekByte() == '*' {
			l.advance()
			if l.peekByte() == '=' {
				l.advance()
				l.set(POWER_ASSIGN, "**=", line, col)
				return
			}
			l.set(POWER, "**", line, col)
			return
		}
		if l.peekByte() == '=' {
			l.advance()
			l.set(ASTERISK_ASSIGN, "*=", line, col)
			return
		}
		l.set(ASTERISK, "*", line, col)
	case '/':
		if l.peekByte() == '/' {
			l.advance()
			if l.peekByte() == '=' {
				l.advance()
				l.set(FLOORDIV_ASSIGN, "//=", line, col)
				return
			}
			l.set(FLOORDIV, "//", line, col)
			return
		}
		if l.peekByte() == '=' {
			l.advance()
			l.set(SLASH_ASSIGN, "/=", line, col)
			return
		}
		l.set(SLASH, "/", line, col)
	case '%':
		if l.peekByte() == '=' {
			l.advance()
			l.set(PERCENT_ASSIGN, "%=", line, col)
			return
		}
		l.set(PERCENT, "%", line, col)
	case '=':
		if l.peekByte() == '=' {
			l.advance()
			l.set(EQ, "==", line, col)
			return
		}
		l.set(ASSIGN, "=", line, col)
	case '!':
		if l.peekByte() == '=' {
			l.advance()
			l.set(NOT_EQ, "!=", line, col)
			return
		}
		l.Errors.Add(line, col, "unexpected character '!'")
		l.set(ILLEGAL, "!", line, col)
	case '<':
		if l.peekByte() == '=' {
			l.advance()
			l.set(LE, "<=", line, col)
			return
		}
		l.set(LT, "<", line, col)
	case '>':
		if l.peekByte() == '=' {
			l.advance()
			l.set(GE, ">=", line, col)
			return
		}
		l.set(GT, ">", line, col)
	case ',':
		l.set(COMMA, ",", line, col)
	case ':':
		l.set(COLON, ":", line, col)
	case '.':
		l.set(DOT, ".", line, col)
	case '(':
		l.bracketDepth++
		l.set(LPAREN, "(", line, col)
	case ')':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		l.set(RPAREN, ")", line, col)
	case '[':
		l.bracketDepth++
		l.set(LBRACKET, "[", line, col)
	case ']':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		l.set(RBRACKET, "]", line, col)
	case '{':
		l.bracketDepth++
		l.set(LBRACE, "{", line, col)
	case '}':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		l.set(RBRACE, "}", line, col)
	default:
		l.Errors.Add(line, col, "unexpected character %q", string(c))
		l.set(ILLEGAL, string(c), line, col)
	}
}
