package cf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType int

const (
	TokenTypeEmpty TokenType = iota
	TokenIdent
	TokenInt
	TokenFloat
	TokenChar
	TokenString
	TokenLParen
	TokenRParen
	TokenLCurly
	TokenRCurly
	TokenLSquare
	TokenRSquare
	TokenComma
	TokenSemicolon
	TokenOp
	TokenEnd
)

type Token struct {
	typ  TokenType
	str  string
	line int
}

var EndTk = Token{typ: TokenEnd}

func (t Token) String() string {
	switch t.typ {
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLCurly:
		return "{"
	case TokenRCurly:
		return "}"
	case TokenLSquare:
		return "["
	case TokenRSquare:
		return "]"
	case TokenComma:
		return ","
	case TokenSemicolon:
		return ";"
	case TokenChar:
		return "'" + t.str + "'"
	case TokenString:
		return strconv.Quote(t.str)
	case TokenEnd:
		return "<end>"
	}
	return t.str
}

// operators, longest first so the scanner takes the maximal munch.
// Note // is floor division, not a comment; comments use #.
var operatorTokens = []string{
	"//=",
	"++", "--", "+=", "-=", "*=", "/=", "%=",
	"==", "!=", "<=", ">=", "//",
	"+", "-", "*", "/", "%", "<", ">", "=", "!", "~", "&",
}

type Lexer struct {
	src     string
	pos     int
	linenum int
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, linenum: 1}
}

func (lex *Lexer) Linenum() int {
	return lex.linenum
}

func (lex *Lexer) peekRune() (rune, int) {
	if lex.pos >= len(lex.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(lex.src[lex.pos:])
}

func (lex *Lexer) token(typ TokenType, str string) Token {
	return Token{typ: typ, str: str, line: lex.linenum}
}

// Tokens scans the whole source. The returned slice always ends
// with EndTk.
func (lex *Lexer) Tokens() ([]Token, error) {
	var toks []Token
	for {
		tok, err := lex.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.typ == TokenEnd {
			return toks, nil
		}
	}
}

func (lex *Lexer) next() (Token, error) {
	lex.skipSpace()
	r, w := lex.peekRune()
	if w == 0 {
		return lex.token(TokenEnd, ""), nil
	}

	switch {
	case r == '(':
		lex.pos += w
		return lex.token(TokenLParen, ""), nil
	case r == ')':
		lex.pos += w
		return lex.token(TokenRParen, ""), nil
	case r == '{':
		lex.pos += w
		return lex.token(TokenLCurly, ""), nil
	case r == '}':
		lex.pos += w
		return lex.token(TokenRCurly, ""), nil
	case r == '[':
		lex.pos += w
		return lex.token(TokenLSquare, ""), nil
	case r == ']':
		lex.pos += w
		return lex.token(TokenRSquare, ""), nil
	case r == ',':
		lex.pos += w
		return lex.token(TokenComma, ""), nil
	case r == ';':
		lex.pos += w
		return lex.token(TokenSemicolon, ""), nil
	case r == '\'':
		return lex.charLit()
	case r == '"':
		return lex.stringLit()
	case unicode.IsDigit(r):
		return lex.number()
	case unicode.IsLetter(r) || r == '_':
		return lex.identifier()
	}

	for _, op := range operatorTokens {
		if strings.HasPrefix(lex.src[lex.pos:], op) {
			lex.pos += len(op)
			return lex.token(TokenOp, op), nil
		}
	}
	return EndTk, fmt.Errorf("line %d: unexpected character %q", lex.linenum, r)
}

func (lex *Lexer) skipSpace() {
	for lex.pos < len(lex.src) {
		c := lex.src[lex.pos]
		switch {
		case c == '\n':
			lex.linenum++
			lex.pos++
		case c == ' ' || c == '\t' || c == '\r':
			lex.pos++
		case c == '#':
			for lex.pos < len(lex.src) && lex.src[lex.pos] != '\n' {
				lex.pos++
			}
		default:
			return
		}
	}
}

func (lex *Lexer) identifier() (Token, error) {
	start := lex.pos
	for lex.pos < len(lex.src) {
		r, w := lex.peekRune()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		lex.pos += w
	}
	return lex.token(TokenIdent, lex.src[start:lex.pos]), nil
}

func (lex *Lexer) number() (Token, error) {
	start := lex.pos
	isFloat := false
	for lex.pos < len(lex.src) {
		c := lex.src[lex.pos]
		if c == '.' && !isFloat && lex.pos+1 < len(lex.src) && isDigitByte(lex.src[lex.pos+1]) {
			isFloat = true
			lex.pos++
			continue
		}
		if !isDigitByte(c) {
			break
		}
		lex.pos++
	}
	if isFloat {
		return lex.token(TokenFloat, lex.src[start:lex.pos]), nil
	}
	return lex.token(TokenInt, lex.src[start:lex.pos]), nil
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

func EscapeChar(char rune) (rune, error) {
	switch char {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '0':
		return 0, nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	}
	return ' ', fmt.Errorf("invalid escape sequence \\%c", char)
}

func (lex *Lexer) charLit() (Token, error) {
	lex.pos++ // opening quote
	r, w := lex.peekRune()
	if w == 0 {
		return EndTk, fmt.Errorf("line %d: unterminated char literal", lex.linenum)
	}
	lex.pos += w
	if r == '\\' {
		esc, w2 := lex.peekRune()
		if w2 == 0 {
			return EndTk, fmt.Errorf("line %d: unterminated char literal", lex.linenum)
		}
		lex.pos += w2
		var err error
		r, err = EscapeChar(esc)
		if err != nil {
			return EndTk, fmt.Errorf("line %d: %v", lex.linenum, err)
		}
	}
	if lex.pos >= len(lex.src) || lex.src[lex.pos] != '\'' {
		return EndTk, fmt.Errorf("line %d: unterminated char literal", lex.linenum)
	}
	lex.pos++
	return lex.token(TokenChar, string(r)), nil
}

func (lex *Lexer) stringLit() (Token, error) {
	lex.pos++ // opening quote
	var sb strings.Builder
	for {
		r, w := lex.peekRune()
		if w == 0 || r == '\n' {
			return EndTk, fmt.Errorf("line %d: unterminated string literal", lex.linenum)
		}
		lex.pos += w
		if r == '"' {
			return lex.token(TokenString, sb.String()), nil
		}
		if r == '\\' {
			esc, w2 := lex.peekRune()
			if w2 == 0 {
				return EndTk, fmt.Errorf("line %d: unterminated string literal", lex.linenum)
			}
			lex.pos += w2
			dec, err := EscapeChar(esc)
			if err != nil {
				return EndTk, fmt.Errorf("line %d: %v", lex.linenum, err)
			}
			sb.WriteRune(dec)
			continue
		}
		sb.WriteRune(r)
	}
}
