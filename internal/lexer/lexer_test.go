package lexer

import (
	"testing"

	"github.com/funvibe/weave/internal/token"
)

func lexAll(src string) []token.Token {
	l := New(src)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestNextTokenBrackets(t *testing.T) {
	toks := lexAll("()[]{}")
	wantTypes := []token.TokenType{
		token.LPAREN, token.RPAREN, token.LBRACKET, token.RBRACKET,
		token.LBRACE, token.RBRACE, token.EOF,
	}
	if len(toks) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(wantTypes))
	}
	for i, want := range wantTypes {
		if toks[i].Type != want {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, want)
		}
	}
}

func TestNextTokenBitVsInt(t *testing.T) {
	toks := lexAll("0 1 42 -7")
	want := []token.TokenType{token.BIT, token.BIT, token.INT, token.INT, token.EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestNextTokenNumber(t *testing.T) {
	toks := lexAll("3.14")
	if toks[0].Type != token.NUMBER || toks[0].Literal != "3.14" {
		t.Fatalf("expected NUMBER 3.14, got %s %q", toks[0].Type, toks[0].Literal)
	}
}

func TestNextTokenByte(t *testing.T) {
	toks := lexAll("0xFF")
	if toks[0].Type != token.BYTE || toks[0].Literal != "FF" {
		t.Fatalf("expected BYTE FF, got %s %q", toks[0].Type, toks[0].Literal)
	}
}

func TestNextTokenSymbolWithPrefix(t *testing.T) {
	toks := lexAll("@foo $bar .baz plain-name")
	want := []string{"@foo", "$bar", ".baz", "plain-name"}
	for i, w := range want {
		if toks[i].Type != token.SYMBOL || toks[i].Lexeme != w {
			t.Errorf("token %d: got %s %q, want SYMBOL %q", i, toks[i].Type, toks[i].Lexeme, w)
		}
	}
}

func TestNextTokenText(t *testing.T) {
	toks := lexAll(`"hello\nworld"`)
	if toks[0].Type != token.TEXT || toks[0].Literal != "hello\nworld" {
		t.Fatalf("expected escaped TEXT, got %q", toks[0].Literal)
	}
}

func TestNextTokenSkipsLineComments(t *testing.T) {
	toks := lexAll("1 // a comment\n2")
	if toks[0].Type != token.BIT || toks[1].Type != token.INT {
		t.Fatalf("comment should be skipped entirely: %v", toks[:2])
	}
}

func TestNextTokenPunctuationAndSolveMarker(t *testing.T) {
	toks := lexAll(": , ?")
	want := []token.TokenType{token.COLON, token.COMMA, token.QUESTION, token.EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestNextTokenDigitRunThenLettersSplits(t *testing.T) {
	// readNumber consumes only the digit run, so letters glued to it
	// start a new token instead of making the number malformed.
	toks := lexAll("123abc")
	// "123" lexes first (digits only), then "abc" is a separate symbol.
	if toks[0].Type != token.INT {
		t.Fatalf("expected INT for the digit run, got %s", toks[0].Type)
	}
	if toks[1].Type != token.SYMBOL || toks[1].Literal != "abc" {
		t.Fatalf("expected SYMBOL abc after the digit run, got %s %q", toks[1].Type, toks[1].Literal)
	}
}
