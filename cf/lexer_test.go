package cf

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func tokenStrings(toks []Token) (out []string) {
	for _, tk := range toks {
		if tk.typ == TokenEnd {
			break
		}
		out = append(out, tk.String())
	}
	return
}

func Test020LexingADeclaration(t *testing.T) {

	cv.Convey(`Given 'byte x = 40;' the lexer should produce the identifier, identifier, operator, number and semicolon tokens in order`, t, func() {

		lex := NewLexer(`byte x = 40;`)
		toks, err := lex.Tokens()
		panicOn(err)
		cv.So(tokenStrings(toks), cv.ShouldResemble, []string{"byte", "x", "=", "40", ";"})
	})
}

func Test021DoubleSlashIsFloorDivisionNotAComment(t *testing.T) {

	cv.Convey(`Given '7 // 2' the // must lex as the floor division operator`, t, func() {

		lex := NewLexer(`7 // 2`)
		toks, err := lex.Tokens()
		panicOn(err)
		cv.So(tokenStrings(toks), cv.ShouldResemble, []string{"7", "//", "2"})
	})

	cv.Convey(`while '#' starts a comment that runs to end of line`, t, func() {

		lex := NewLexer("x # the rest vanishes\ny")
		toks, err := lex.Tokens()
		panicOn(err)
		cv.So(tokenStrings(toks), cv.ShouldResemble, []string{"x", "y"})

		cv.Convey(`and line numbers still advance past the comment`, func() {
			cv.So(toks[1].line, cv.ShouldEqual, 2)
		})
	})
}

func Test022CompoundOperatorsLexGreedily(t *testing.T) {

	cv.Convey(`Given 'x //= 2; y <= 1; z++;' the multi-rune operators must win over their prefixes`, t, func() {

		lex := NewLexer(`x //= 2; y <= 1; z++;`)
		toks, err := lex.Tokens()
		panicOn(err)
		cv.So(tokenStrings(toks), cv.ShouldResemble,
			[]string{"x", "//=", "2", ";", "y", "<=", "1", ";", "z", "++", ";"})
	})
}

func Test023CharAndStringEscapes(t *testing.T) {

	cv.Convey(`Given character and string literals with escapes, the lexer should decode them`, t, func() {

		lex := NewLexer(`'\n' "a\tb"`)
		toks, err := lex.Tokens()
		panicOn(err)
		cv.So(toks[0].typ, cv.ShouldEqual, TokenChar)
		cv.So(toks[0].str, cv.ShouldEqual, "\n")
		cv.So(toks[1].typ, cv.ShouldEqual, TokenString)
		cv.So(toks[1].str, cv.ShouldEqual, "a\tb")
	})

	cv.Convey(`and an unterminated string is an error`, t, func() {

		lex := NewLexer(`"never closed`)
		_, err := lex.Tokens()
		cv.So(err, cv.ShouldNotBeNil)
	})
}
