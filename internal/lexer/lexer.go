// Package lexer tokenizes the value-tree surface syntax of spec.md §6.2.
// Structurally this is the teacher's own internal/lexer/lexer.go: a
// single hand-rolled scanner carrying position/readPosition/ch/line/
// column and a rune-at-a-time readChar/peekChar pair, driving one big
// NextToken switch. What changed is the token set itself — the teacher
// scans an entire statement/expression/trait grammar with dozens of
// operators; this grammar has exactly three bracket pairs, two
// punctuation separators (`:` and `,`), one solve-call marker (`?`), and
// atoms, so NextToken's
// switch is correspondingly smaller.
package lexer

import (
	"math/big"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/weave/internal/token"
)

type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}

func newTok(tt token.TokenType, ch rune, line, col int) token.Token {
	lex := string(ch)
	return token.Token{Type: tt, Lexeme: lex, Literal: lex, Line: line, Column: col}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	line, col := l.line, l.column

	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Line: line, Column: col}
	case l.ch == '(':
		l.readChar()
		return newTok(token.LPAREN, '(', line, col)
	case l.ch == ')':
		l.readChar()
		return newTok(token.RPAREN, ')', line, col)
	case l.ch == '[':
		l.readChar()
		return newTok(token.LBRACKET, '[', line, col)
	case l.ch == ']':
		l.readChar()
		return newTok(token.RBRACKET, ']', line, col)
	case l.ch == '{':
		l.readChar()
		return newTok(token.LBRACE, '{', line, col)
	case l.ch == '}':
		l.readChar()
		return newTok(token.RBRACE, '}', line, col)
	case l.ch == ':':
		l.readChar()
		return newTok(token.COLON, ':', line, col)
	case l.ch == ',':
		l.readChar()
		return newTok(token.COMMA, ',', line, col)
	case l.ch == '?':
		l.readChar()
		return newTok(token.QUESTION, '?', line, col)
	case l.ch == '"':
		return l.readText(line, col)
	case isDigit(l.ch) || ((l.ch == '+' || l.ch == '-') && isDigit(l.peekChar())):
		return l.readNumber(line, col)
	case isSymbolStart(l.ch):
		return l.readSymbol(line, col)
	default:
		ch := l.ch
		l.readChar()
		return newTok(token.ILLEGAL, ch, line, col)
	}
}

// readText reads a double-quoted Text literal with backslash escapes
// (spec §6.2: "quoted text with `\`-escapes"), mirroring the teacher's
// own escape table (readStringWithInterpolation's non-interpolating
// subset) minus the ${...} interpolation feature the value-tree grammar
// has no use for.
func (l *Lexer) readText(line, col int) token.Token {
	l.readChar() // consume opening "
	var out []byte
	buf := make([]byte, 4)
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				n := utf8.EncodeRune(buf, l.ch)
				out = append(out, buf[:n]...)
			}
			l.readChar()
			continue
		}
		n := utf8.EncodeRune(buf, l.ch)
		out = append(out, buf[:n]...)
		l.readChar()
	}
	l.readChar() // consume closing "
	s := string(out)
	return token.Token{Type: token.TEXT, Lexeme: s, Literal: s, Line: line, Column: col}
}

// readNumber reads an Int, Number (decimal), or Byte (0x…) literal.
// A bare "0" or "1" with no sign, no following digit, and no decimal
// point lexes as BIT per spec §6.2's "0/1 bit" atom — any other numeric
// shape (multi-digit, signed, or with a decimal point) is an Int or
// Number. This disambiguation is a design decision: the grammar as
// described gives Bit and Int overlapping single-character lexemes.
func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.position
	if l.ch == '+' || l.ch == '-' {
		l.readChar()
	}
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		lexeme := l.input[start:l.position]
		return token.Token{Type: token.BYTE, Lexeme: lexeme, Literal: lexeme[2:], Line: line, Column: col}
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]
	if !isFloat && (lexeme == "0" || lexeme == "1") {
		return token.Token{Type: token.BIT, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
	}
	if isFloat {
		return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
	}
	if _, ok := new(big.Int).SetString(lexeme, 10); !ok {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "invalid integer", Line: line, Column: col}
	}
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
}

// readSymbol reads a bare identifier (spec §6.2: "identifiers as
// symbols"), including a leading prefix character (`.`, `@`, `$`) since
// spec §3.3 treats the prefix as part of the symbol's own text, stripped
// during Eval rather than during lexing.
func (l *Lexer) readSymbol(line, col int) token.Token {
	start := l.position
	if isPrefixChar(l.ch) {
		l.readChar()
	}
	for isSymbolStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	s := l.input[start:l.position]
	return token.Token{Type: token.SYMBOL, Lexeme: s, Literal: s, Line: line, Column: col}
}

func isPrefixChar(ch rune) bool { return ch == '.' || ch == '@' || ch == '$' }

func isSymbolStart(ch rune) bool {
	if isPrefixChar(ch) {
		return true
	}
	return unicode.IsLetter(ch) || ch == '_' || ch == '-' || ch == '+' || ch == '*' || ch == '/' ||
		ch == '=' || ch == '<' || ch == '>' || ch == '!' || ch == '%' || ch == '&' || ch == '|'
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
