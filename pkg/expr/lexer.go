package expr

import (
	"strings"
	"unicode"
)

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ILLEGAL

	// Literals
	TOKEN_IDENT     // identifiers: variable names
	TOKEN_INT       // integer literals
	TOKEN_FLOAT     // floating point literals
	TOKEN_STRING    // string literals 'hello' or "hello"
	TOKEN_BADSTRING // string literal missing its closing quote

	// Operators and delimiters
	TOKEN_COMMA    // ,
	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
	TOKEN_LBRACE   // {
	TOKEN_RBRACE   // }
	TOKEN_STAR     // *
	TOKEN_PLUS     // +
	TOKEN_MINUS    // -
	TOKEN_SLASH    // /
	TOKEN_PERCENT  // %
	TOKEN_EQ       // ==
	TOKEN_NE       // !=
	TOKEN_LT       // <
	TOKEN_LE       // <=
	TOKEN_GT       // >
	TOKEN_GE       // >=
	TOKEN_BANG     // !
	TOKEN_ANDAND   // &&
	TOKEN_OROR     // ||

	// Keywords
	TOKEN_AND
	TOKEN_OR
	TOKEN_NOT
	TOKEN_IN
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_NONE
)

// Keyword lookup is case-sensitive but accepts the Python-style spellings
// True/False/None alongside true/false/none, so tables can be written in
// either style.
var keywords = map[string]TokenType{
	"and":   TOKEN_AND,
	"or":    TOKEN_OR,
	"not":   TOKEN_NOT,
	"in":    TOKEN_IN,
	"true":  TOKEN_TRUE,
	"True":  TOKEN_TRUE,
	"false": TOKEN_FALSE,
	"False": TOKEN_FALSE,
	"none":  TOKEN_NONE,
	"None":  TOKEN_NONE,
	"nil":   TOKEN_NONE,
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

// Lexer tokenizes expression input.
type Lexer struct {
	input   string
	pos     int  // current position
	readPos int  // next position to read
	ch      byte // current character
}

// NewLexer creates a new Lexer for the input string.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	var tok Token
	tok.Pos = l.pos

	switch l.ch {
	case 0:
		tok.Type = TOKEN_EOF
		tok.Literal = ""
	case ',':
		tok = Token{Type: TOKEN_COMMA, Literal: ",", Pos: l.pos}
		l.readChar()
	case '(':
		tok = Token{Type: TOKEN_LPAREN, Literal: "(", Pos: l.pos}
		l.readChar()
	case ')':
		tok = Token{Type: TOKEN_RPAREN, Literal: ")", Pos: l.pos}
		l.readChar()
	case '[':
		tok = Token{Type: TOKEN_LBRACKET, Literal: "[", Pos: l.pos}
		l.readChar()
	case ']':
		tok = Token{Type: TOKEN_RBRACKET, Literal: "]", Pos: l.pos}
		l.readChar()
	case '{':
		tok = Token{Type: TOKEN_LBRACE, Literal: "{", Pos: l.pos}
		l.readChar()
	case '}':
		tok = Token{Type: TOKEN_RBRACE, Literal: "}", Pos: l.pos}
		l.readChar()
	case '*':
		tok = Token{Type: TOKEN_STAR, Literal: "*", Pos: l.pos}
		l.readChar()
	case '+':
		tok = Token{Type: TOKEN_PLUS, Literal: "+", Pos: l.pos}
		l.readChar()
	case '-':
		tok = Token{Type: TOKEN_MINUS, Literal: "-", Pos: l.pos}
		l.readChar()
	case '/':
		tok = Token{Type: TOKEN_SLASH, Literal: "/", Pos: l.pos}
		l.readChar()
	case '%':
		tok = Token{Type: TOKEN_PERCENT, Literal: "%", Pos: l.pos}
		l.readChar()
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TOKEN_EQ, Literal: "==", Pos: l.pos - 1}
			l.readChar()
		} else {
			tok = Token{Type: TOKEN_ILLEGAL, Literal: string(l.ch), Pos: l.pos}
			l.readChar()
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TOKEN_LE, Literal: "<=", Pos: l.pos - 1}
			l.readChar()
		} else {
			tok = Token{Type: TOKEN_LT, Literal: "<", Pos: l.pos}
			l.readChar()
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TOKEN_GE, Literal: ">=", Pos: l.pos - 1}
			l.readChar()
		} else {
			tok = Token{Type: TOKEN_GT, Literal: ">", Pos: l.pos}
			l.readChar()
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TOKEN_NE, Literal: "!=", Pos: l.pos - 1}
			l.readChar()
		} else {
			tok = Token{Type: TOKEN_BANG, Literal: "!", Pos: l.pos}
			l.readChar()
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = Token{Type: TOKEN_ANDAND, Literal: "&&", Pos: l.pos - 1}
			l.readChar()
		} else {
			tok = Token{Type: TOKEN_ILLEGAL, Literal: string(l.ch), Pos: l.pos}
			l.readChar()
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = Token{Type: TOKEN_OROR, Literal: "||", Pos: l.pos - 1}
			l.readChar()
		} else {
			tok = Token{Type: TOKEN_ILLEGAL, Literal: string(l.ch), Pos: l.pos}
			l.readChar()
		}
	case '\'', '"':
		s, terminated := l.readString(l.ch)
		tok.Type = TOKEN_STRING
		if !terminated {
			tok.Type = TOKEN_BADSTRING
		}
		tok.Literal = s
	default:
		if isLetter(l.ch) {
			tok.Pos = l.pos
			tok.Literal = l.readIdentifier()
			tok.Type = lookupKeyword(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Pos = l.pos
			tok.Literal, tok.Type = l.readNumber()
			return tok
		}
		tok = Token{Type: TOKEN_ILLEGAL, Literal: string(l.ch), Pos: l.pos}
		l.readChar()
	}
	return tok
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readNumber() (string, TokenType) {
	pos := l.pos
	typ := TOKEN_INT
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		typ = TOKEN_FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[pos:l.pos], typ
}

// readString scans a quoted string literal. The second return is false
// when the input ends before the closing quote.
func (l *Lexer) readString(quote byte) (string, bool) {
	l.readChar() // consume opening quote
	var sb strings.Builder
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			switch l.peekChar() {
			case quote, '\\':
				l.readChar()
			case 'n':
				l.readChar()
				sb.WriteByte('\n')
				l.readChar()
				continue
			case 't':
				l.readChar()
				sb.WriteByte('\t')
				l.readChar()
				continue
			}
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	if l.ch != quote {
		return sb.String(), false
	}
	l.readChar() // consume closing quote
	return sb.String(), true
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func lookupKeyword(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}
