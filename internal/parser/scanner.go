package parser

import (
	"fmt"
	"strings"
	"unicode"
)

type Token struct {
	Type     TokenType
	Lexeme   string
	Position Position
}

type ScanError struct {
	Message  string
	Position Position
	Length   int // number of bytes covered
}

// operators lists every punctuation token, longest spelling first so that
// the first match is the longest one.
var operators = []struct {
	text string
	typ  TokenType
}{
	{"<==>", EQUIVALENT},
	{"==>", IMPLIES},
	{"==", EQUAL_EQUAL},
	{"!=", BANG_EQUAL},
	{"<=", LESS_EQUAL},
	{">=", GREATER_EQUAL},
	{"&&", AND},
	{"||", OR},
	{"++", INCREMENT},
	{"--", DECREMENT},
	{"+=", PLUS_EQUAL},
	{"-=", MINUS_EQUAL},
	{"*=", STAR_EQUAL},
	{"/=", SLASH_EQUAL},
	{"%=", PERCENT_EQUAL},
	{"(", LEFT_PAREN},
	{")", RIGHT_PAREN},
	{"{", LEFT_BRACE},
	{"}", RIGHT_BRACE},
	{"[", LEFT_BRACKET},
	{"]", RIGHT_BRACKET},
	{",", COMMA},
	{".", DOT},
	{";", SEMICOLON},
	{"@", AT},
	{"+", PLUS},
	{"-", MINUS},
	{"*", STAR},
	{"/", SLASH},
	{"%", PERCENT},
	{"!", BANG},
	{"=", EQUAL},
	{"<", LESS},
	{">", GREATER},
}

// Scanner splits annotated source text into tokens. Errors are collected and
// scanning continues after them.
type Scanner struct {
	source string
	tokens []Token
	errors []ScanError

	// pos is the next byte to read, start the first byte of the current token
	pos, start Position
}

func NewScanner(source string) *Scanner {
	return &Scanner{source: source, pos: Position{Line: 1, Column: 1}}
}

func (s *Scanner) ScanTokens() []Token {
	for !s.isAtEnd() {
		s.start = s.pos
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: EOF, Position: s.pos})
	return s.tokens
}

// Errors returns the scan errors found so far.
func (s *Scanner) Errors() []ScanError {
	return s.errors
}

func (s *Scanner) scanToken() {
	rest := s.source[s.pos.Offset:]
	switch c := rest[0]; {
	case c == ' ' || c == '\t' || c == '\r' || c == '\n':
		s.advance()
	case strings.HasPrefix(rest, "//"):
		s.skipLine()
	case strings.HasPrefix(rest, "/*"):
		s.skipBlockComment()
	case c == '"':
		s.scanString()
	case c == '\\':
		s.scanContractWord()
	case isDigit(c):
		s.scanNumber()
	case isAlpha(c):
		s.scanIdentifier()
	default:
		s.scanOperator(rest)
	}
}

func (s *Scanner) scanOperator(rest string) {
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			s.skip(len(op.text))
			s.emit(op.typ)
			return
		}
	}
	c := s.advance()
	s.fail(fmt.Sprintf("Unexpected character: %q", c))
}

func (s *Scanner) scanContractWord() {
	s.advance()
	s.skipWhile(isAlpha)
	word := s.lexeme()
	if t, ok := SPECIAL_WORDS[word]; ok {
		s.emit(t)
		return
	}
	s.fail("Unknown contract word: " + word)
}

func (s *Scanner) scanIdentifier() {
	s.skipWhile(func(c byte) bool { return isAlpha(c) || isDigit(c) })
	if t, ok := KEYWORDS[s.lexeme()]; ok {
		s.emit(t)
		return
	}
	s.emit(IDENTIFIER)
}

// scanNumber reads a decimal or 0x-prefixed literal. A trailing long suffix
// is consumed but not part of the lexeme.
func (s *Scanner) scanNumber() {
	s.advance()
	if c := s.peek(); c == 'x' || c == 'X' {
		s.advance()
		if !isHexDigit(s.peek()) {
			s.fail("Invalid hex literal: expected hex digit after 0x")
			return
		}
		s.skipWhile(isHexDigit)
		s.emit(HEX_NUMBER)
		return
	}
	s.skipWhile(isDigit)
	s.emit(NUMBER)
	if c := s.peek(); c == 'L' || c == 'l' {
		s.advance()
	}
}

// scanString reads a double-quoted literal; the token lexeme is the unescaped
// content. Annotation texts depend on \" inside strings.
func (s *Scanner) scanString() {
	s.advance()
	var b strings.Builder
	for !s.isAtEnd() && s.peek() != '"' {
		c := s.advance()
		if c == '\\' && !s.isAtEnd() && (s.peek() == '"' || s.peek() == '\\') {
			c = s.advance()
		}
		b.WriteByte(c)
	}
	if s.isAtEnd() {
		s.fail("Unterminated string.")
		return
	}
	s.advance()
	s.tokens = append(s.tokens, Token{Type: STRING, Lexeme: b.String(), Position: s.start})
}

func (s *Scanner) skipLine() {
	s.skipWhile(func(c byte) bool { return c != '\n' })
}

func (s *Scanner) skipBlockComment() {
	s.skip(2)
	end := strings.Index(s.source[s.pos.Offset:], "*/")
	if end < 0 {
		s.skip(len(s.source) - s.pos.Offset)
		s.fail("Unterminated block comment.")
		return
	}
	s.skip(end + 2)
}

func (s *Scanner) advance() byte {
	c := s.source[s.pos.Offset]
	s.pos.Offset++
	if c == '\n' {
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}
	return c
}

func (s *Scanner) skip(n int) {
	for i := 0; i < n && !s.isAtEnd(); i++ {
		s.advance()
	}
}

func (s *Scanner) skipWhile(accept func(byte) bool) {
	for !s.isAtEnd() && accept(s.peek()) {
		s.advance()
	}
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.pos.Offset]
}

func (s *Scanner) isAtEnd() bool {
	return s.pos.Offset >= len(s.source)
}

func (s *Scanner) lexeme() string {
	return s.source[s.start.Offset:s.pos.Offset]
}

func (s *Scanner) emit(t TokenType) {
	s.tokens = append(s.tokens, Token{Type: t, Lexeme: s.lexeme(), Position: s.start})
}

func (s *Scanner) fail(message string) {
	s.errors = append(s.errors, ScanError{
		Message:  message,
		Position: s.start,
		Length:   s.pos.Offset - s.start.Offset,
	})
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isAlpha(c byte) bool {
	return unicode.IsLetter(rune(c)) || c == '_' || c == '$'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
