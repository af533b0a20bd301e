// Package parser builds a value.Value tree from the surface syntax of
// spec.md §6.2. Grounded on original_source/lib/src/syntax/parser.rs for
// the overall shape (a Pratt-style recursive-descent reader building a
// generic Pair/List/Map/Task tree rather than a fixed-arity AST,
// matching this language's homoiconic "the tree IS the program" model)
// and on the teacher's internal/parser package for Go idiom (a *Parser
// holding cur/peek tokens, parseX methods returning (value.Value,
// error), advance()/expect() helpers) — though the teacher's own parser
// is unusable as a base directly: it builds a typed statement/expression
// AST for an entirely different (statically-typed, trait-based)
// surface grammar that has no Pair/List/Map/Task equivalent.
package parser

import (
	"fmt"
	"math/big"

	"github.com/funvibe/weave/internal/lexer"
	"github.com/funvibe/weave/internal/token"
	"github.com/funvibe/weave/internal/value"
)

type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token
}

// Parse reads a single top-level Value from src (spec §6.2).
func Parse(src string) (value.Value, error) {
	p := &Parser{l: lexer.New(src)}
	p.advance()
	p.advance()
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.EOF {
		return nil, fmt.Errorf("unexpected trailing token %s at line %d, column %d", p.cur.Type, p.cur.Line, p.cur.Column)
	}
	return v, nil
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) expect(tt token.TokenType) error {
	if p.cur.Type != tt {
		return fmt.Errorf("expected %s, got %s at line %d, column %d", tt, p.cur.Type, p.cur.Line, p.cur.Column)
	}
	p.advance()
	return nil
}

// parseExpr is a primary followed by the postfix Task-call forms: an
// explicit f(input)/f?(input) (spec §6.2's two Task literal forms), or
// an implicit juxtaposition limited to a directly-following compound
// literal (spec's own worked scenarios write `do [...]` and never
// `do .a`): this is a deliberate grammar restriction that avoids the
// ambiguity a general "f x"
// juxtaposition would create against adjacent List/Map items (`[.a .b
// .c]` must stay three siblings, not fold into Task(.a, .b)).
func (p *Parser) parseExpr() (value.Value, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case token.LPAREN:
			p.advance()
			input, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			left = value.NewTask(value.ActionCall, left, value.Unit{}, input)
		case token.QUESTION:
			p.advance()
			if err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			input, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			left = value.NewTask(value.ActionSolve, left, value.Unit{}, input)
		case token.LBRACKET, token.LBRACE:
			input, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			left = value.NewTask(value.ActionCall, left, value.Unit{}, input)
		default:
			return left, nil
		}
	}
}

func (p *Parser) parsePrimary() (value.Value, error) {
	switch p.cur.Type {
	case token.SYMBOL:
		if !value.ValidSymbol(p.cur.Literal) {
			return nil, fmt.Errorf("invalid symbol %q at line %d, column %d", p.cur.Literal, p.cur.Line, p.cur.Column)
		}
		s := value.Symbol(p.cur.Literal)
		p.advance()
		return s, nil
	case token.INT:
		i := new(big.Int)
		if _, ok := i.SetString(p.cur.Literal, 10); !ok {
			return nil, fmt.Errorf("invalid integer literal %q", p.cur.Literal)
		}
		p.advance()
		return value.Int{V: i}, nil
	case token.NUMBER:
		n, err := parseNumber(p.cur.Literal)
		if err != nil {
			return nil, err
		}
		p.advance()
		return n, nil
	case token.BIT:
		b := value.Bit(p.cur.Literal == "1")
		p.advance()
		return b, nil
	case token.TEXT:
		t := value.Text(p.cur.Literal)
		p.advance()
		return t, nil
	case token.BYTE:
		b, err := parseByte(p.cur.Literal)
		if err != nil {
			return nil, err
		}
		p.advance()
		return b, nil
	case token.LPAREN:
		return p.parseParen()
	case token.LBRACKET:
		return p.parseList()
	case token.LBRACE:
		return p.parseMap()
	default:
		return nil, fmt.Errorf("unexpected token %s at line %d, column %d", p.cur.Type, p.cur.Line, p.cur.Column)
	}
}

// parseParen implements spec §6.2's "(first second)" Pair surface
// syntax, the ": " separator sugar seen throughout spec §8's worked
// scenarios (`(x : 1)`), and plain grouping "(expr)" for a single
// sub-expression — the grammar distinguishes them by what follows the
// first parsed sub-expression, not by a separate token.
func (p *Parser) parseParen() (value.Value, error) {
	p.advance() // consume (
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch p.cur.Type {
	case token.RPAREN:
		p.advance()
		return first, nil
	case token.COLON:
		p.advance()
		second, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return value.NewPair(first, second), nil
	case token.SYMBOL:
		if isInfixOperator(p.cur.Literal) {
			op := value.Symbol(p.cur.Literal)
			p.advance()
			second, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			return value.NewTask(value.ActionCall, op, value.Unit{}, value.NewPair(first, second)), nil
		}
		fallthrough
	default:
		second, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return value.NewPair(first, second), nil
	}
}

// isInfixOperator reports whether a symbol lexeme is built entirely
// from operator punctuation (no letters, no prefix char), the signal
// the parser uses to read "(a OP b)" as Task(OP, Pair(a,b)) rather than
// as a three-way Pair — the concrete realization of the infix shorthand
// spec §8's worked scenarios write (`@i < 3`, `@x + @x`, `x -> body`).
func isInfixOperator(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '+', '-', '*', '/', '=', '<', '>', '!', '%', '&', '|':
		default:
			return false
		}
	}
	return true
}

// parseList implements spec §6.2's "[e1 e2 …]" List surface syntax;
// commas are accepted as optional separator sugar between items.
func (p *Parser) parseList() (value.Value, error) {
	p.advance() // consume [
	var items []value.Value
	for p.cur.Type != token.RBRACKET {
		if p.cur.Type == token.EOF {
			return nil, fmt.Errorf("unterminated list")
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur.Type == token.COMMA {
			p.advance()
		}
	}
	p.advance() // consume ]
	return value.NewList(items), nil
}

// parseMap implements spec §6.2's "{k1 v1, k2 v2, …}" Map surface
// syntax: space-separated key/value, commas optional between entries.
func (p *Parser) parseMap() (value.Value, error) {
	p.advance() // consume {
	m := value.EmptyMap()
	for p.cur.Type != token.RBRACE {
		if p.cur.Type == token.EOF {
			return nil, fmt.Errorf("unterminated map")
		}
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.Type == token.COLON {
			p.advance()
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		m.Put(key, val)
		if p.cur.Type == token.COMMA {
			p.advance()
		}
	}
	p.advance() // consume }
	return m, nil
}

// parseNumber turns a decimal lexeme like "-12.340" into a Number
// (mantissa * 10^exponent), per spec §3.1: Number is not normalized, so
// the mantissa keeps any written trailing zeros and the exponent is
// exactly -(digit count after the point).
func parseNumber(lexeme string) (value.Number, error) {
	negative := false
	s := lexeme
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	dot := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return value.Number{}, fmt.Errorf("not a decimal literal: %q", lexeme)
	}
	digits := s[:dot] + s[dot+1:]
	exponent := -int64(len(s) - dot - 1)
	m := new(big.Int)
	if _, ok := m.SetString(digits, 10); !ok {
		return value.Number{}, fmt.Errorf("invalid decimal literal %q", lexeme)
	}
	return value.NewNumber(m, exponent, negative), nil
}

// parseByte decodes a "0x…" literal's hex digits (already stripped of
// the "0x" prefix by the lexer) into a Byte vector.
func parseByte(hex string) (value.Byte, error) {
	if len(hex)%2 != 0 {
		hex = "0" + hex
	}
	out := make([]byte, len(hex)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexDigit(hex[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexDigit(hex[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return value.Byte(out), nil
}

func hexDigit(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}
