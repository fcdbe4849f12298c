package lexer

import "testing"

func TestNextTokenCoversRecognizedConstructs(t *testing.T) {
	input := `const x = 1;
let y += 2;
if (x > y) { return x; } else if (x == y) { return y; }
function add(a, b) { return a + b; }
for (let i = 0; i < 10; i++) {}
for (const v of arr) {}
switch (x) { case 1: break; default: break; }
class Foo {}
"hi there"
`
	l := New(input, "test.ts")

	want := []TokenType{
		CONST, IDENT, ASSIGN, NUMBER, SEMICOLON,
		LET, IDENT, PLUS_EQ, NUMBER, SEMICOLON,
		IF, LPAREN, IDENT, GT, IDENT, RPAREN, LBRACE, RETURN, IDENT, SEMICOLON, RBRACE,
		ELSE, IF, LPAREN, IDENT, EQ, IDENT, RPAREN, LBRACE, RETURN, IDENT, SEMICOLON, RBRACE,
		FUNCTION, IDENT, LPAREN, IDENT, COMMA, IDENT, RPAREN, LBRACE, RETURN, IDENT, PLUS, IDENT, SEMICOLON, RBRACE,
		FOR, LPAREN, LET, IDENT, ASSIGN, NUMBER, SEMICOLON, IDENT, LT, NUMBER, SEMICOLON, IDENT, INCR, RPAREN, LBRACE, RBRACE,
		FOR, LPAREN, CONST, IDENT, OF, IDENT, RPAREN, LBRACE, RBRACE,
		SWITCH, LPAREN, IDENT, RPAREN, LBRACE, CASE, NUMBER, COLON, BREAK, SEMICOLON, DEFAULT, COLON, BREAK, SEMICOLON, RBRACE,
		CLASS, IDENT, LBRACE, RBRACE,
		STRING,
		EOF,
	}

	for i, wantType := range want {
		tok := l.NextToken()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %v, want %v (literal %q)", i, tok.Type, wantType, tok.Literal)
		}
	}
}

func TestReadStringHandlesEscapes(t *testing.T) {
	l := New(`"a\nb"`, "")
	tok := l.NextToken()
	if tok.Type != STRING || tok.Literal != "a\nb" {
		t.Errorf("got %q, want %q", tok.Literal, "a\nb")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	l := New("// line comment\nlet /* inline */ x = 1;", "")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	want := []TokenType{LET, IDENT, ASSIGN, NUMBER, SEMICOLON, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(types), len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, types[i], want[i])
		}
	}
}
