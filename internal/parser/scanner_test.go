package parser

import (
	"testing"
)

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := "class extends if else while for return throw new this null requires ensures invariant loop_invariant decreases assert assume public customIdent"
	expected := []TokenType{
		CLASS, EXTENDS, IF, ELSE, WHILE, FOR, RETURN, THROW, NEW, THIS, NULL,
		REQUIRES, ENSURES, INVARIANT, LOOP_INVARIANT, DECREASES, ASSERT, ASSUME, MODIFIER, IDENTIFIER,
	}

	scanner := NewScanner(input)
	tokens := scanner.ScanTokens()

	if len(tokens) < len(expected) {
		t.Fatalf("expected at least %d tokens, got %d", len(expected), len(tokens))
	}

	for i, exp := range expected {
		if tokens[i].Type != exp {
			t.Errorf("token %d: expected %s, got %s", i, exp, tokens[i].Type)
		}
	}
}

func TestContractWords(t *testing.T) {
	input := `\result \old \forall \exists`
	expected := []TokenType{RESULT, OLD, FORALL, EXISTS, EOF}

	tokens := NewScanner(input).ScanTokens()
	for i, exp := range expected {
		if tokens[i].Type != exp {
			t.Errorf("token %d: expected %s, got %s", i, exp, tokens[i].Type)
		}
	}
}

func TestUnknownContractWord(t *testing.T) {
	scanner := NewScanner(`\nope`)
	scanner.ScanTokens()
	if len(scanner.Errors()) != 1 {
		t.Fatalf("expected one scan error, got %d", len(scanner.Errors()))
	}
}

func TestNumbers(t *testing.T) {
	input := "42 0 12345 0x1F 7L"
	expected := []TokenType{NUMBER, NUMBER, NUMBER, HEX_NUMBER, NUMBER, EOF}

	tokens := NewScanner(input).ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Type != exp {
			t.Errorf("token %d: expected %s, got %s", i, exp, tokens[i].Type)
		}
	}
	if tokens[4].Lexeme != "7" {
		t.Errorf("expected long suffix to be dropped, got %q", tokens[4].Lexeme)
	}
}

func TestStrings(t *testing.T) {
	input := `"hello" "say \"hi\""`
	tokens := NewScanner(input).ScanTokens()

	if tokens[0].Type != STRING || tokens[0].Lexeme != "hello" {
		t.Errorf("expected STRING 'hello', got %s %s", tokens[0].Type, tokens[0].Lexeme)
	}
	if tokens[1].Type != STRING || tokens[1].Lexeme != `say "hi"` {
		t.Errorf("expected STRING with escaped quotes, got %s %s", tokens[1].Type, tokens[1].Lexeme)
	}
}

func TestOperatorsAndBrackets(t *testing.T) {
	input := `(){}[],.;@ + ++ += - -- -= * *= / /= % %= ! != = == ==> <==> < <= > >= && ||`
	expected := []TokenType{
		LEFT_PAREN, RIGHT_PAREN, LEFT_BRACE, RIGHT_BRACE, LEFT_BRACKET, RIGHT_BRACKET,
		COMMA, DOT, SEMICOLON, AT,
		PLUS, INCREMENT, PLUS_EQUAL, MINUS, DECREMENT, MINUS_EQUAL,
		STAR, STAR_EQUAL, SLASH, SLASH_EQUAL, PERCENT, PERCENT_EQUAL,
		BANG, BANG_EQUAL, EQUAL, EQUAL_EQUAL, IMPLIES, EQUIVALENT,
		LESS, LESS_EQUAL, GREATER, GREATER_EQUAL, AND, OR, EOF,
	}

	tokens := NewScanner(input).ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Type != exp {
			t.Errorf("token %d: expected %s, got %s (%q)", i, exp, tokens[i].Type, tokens[i].Lexeme)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := "a // line\n/* block\n comment */ b"
	tokens := NewScanner(input).ScanTokens()

	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[1].Lexeme != "b" || tokens[1].Position.Line != 3 {
		t.Errorf("expected 'b' on line 3, got %q on line %d", tokens[1].Lexeme, tokens[1].Position.Line)
	}
}

func TestPositions(t *testing.T) {
	tokens := NewScanner("x\n  y").ScanTokens()

	if tokens[1].Position.Line != 2 || tokens[1].Position.Column != 3 || tokens[1].Position.Offset != 4 {
		t.Errorf("unexpected position %+v", tokens[1].Position)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	scanner := NewScanner("a # b")
	scanner.ScanTokens()
	if len(scanner.Errors()) != 1 {
		t.Fatalf("expected one scan error, got %d", len(scanner.Errors()))
	}
}
