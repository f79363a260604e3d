package cf

import (
	"errors"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test030ParsingAWholeProgram(t *testing.T) {

	cv.Convey(`Given a program with two functions, the parser should record both with their parameters and return types`, t, func() {

		src := `
u8 add(byte a, byte b) {
	a += b;
	return a;
}
u8 main() {
	byte r = add(3, 4);
	write(r);
}
`
		prog, err := ParseString(src)
		panicOn(err)
		cv.So(len(prog.Funcs), cv.ShouldEqual, 2)
		cv.So(prog.Funcs[0].Name, cv.ShouldEqual, "add")
		cv.So(len(prog.Funcs[0].Params), cv.ShouldEqual, 2)
		cv.So(prog.Funcs[0].Params[1].Name, cv.ShouldEqual, "b")
		cv.So(prog.Funcs[1].Name, cv.ShouldEqual, "main")
		cv.So(len(prog.Funcs[1].Body), cv.ShouldEqual, 2)
	})
}

func Test031OperatorPrecedence(t *testing.T) {

	cv.Convey(`Given '1 + 2 * 3', multiplication should bind tighter than addition`, t, func() {

		prog, err := ParseString(`u8 main() { x = 1 + 2 * 3; }`)
		panicOn(err)
		es := prog.Funcs[0].Body[0].(*ExprStmt)
		cv.So(es.X.String(), cv.ShouldEqual, `(x = (1 + (2 * 3)))`)
	})

	cv.Convey(`and comparison binds looser than addition`, t, func() {

		prog, err := ParseString(`u8 main() { x = 1 + 2 == 3; }`)
		panicOn(err)
		es := prog.Funcs[0].Body[0].(*ExprStmt)
		cv.So(es.X.String(), cv.ShouldEqual, `(x = ((1 + 2) == 3))`)
	})

	cv.Convey(`and '//' parses as floor division at multiplicative level`, t, func() {

		prog, err := ParseString(`u8 main() { x = 7 // 2 + 1; }`)
		panicOn(err)
		es := prog.Funcs[0].Body[0].(*ExprStmt)
		cv.So(es.X.String(), cv.ShouldEqual, `(x = ((7 // 2) + 1))`)
	})
}

func Test032DeclarationsAndControlFlowParse(t *testing.T) {

	cv.Convey(`Given declarations, if/while/whilevar, free and return, each should produce its statement node`, t, func() {

		src := `
u8 main() {
	byte x = 3;
	byte[4] buf;
	if (x) { write(x); }
	whilevar (x) { x -= 1; }
	while (&x) { x -= 1; }
	free x;
	return 0;
}
`
		prog, err := ParseString(src)
		panicOn(err)
		body := prog.Funcs[0].Body
		cv.So(len(body), cv.ShouldEqual, 7)

		d := body[0].(*DeclStmt)
		cv.So(d.Name, cv.ShouldEqual, "x")
		cv.So(d.Init, cv.ShouldNotBeNil)

		arr := body[1].(*DeclStmt)
		cv.So(arr.Type.Name, cv.ShouldEqual, "byte")
		cv.So(arr.Type.Len, cv.ShouldNotBeNil)

		cv.So(body[2], cv.ShouldHaveSameTypeAs, &IfStmt{})
		cv.So(body[3], cv.ShouldHaveSameTypeAs, &WhilevarStmt{})
		cv.So(body[4], cv.ShouldHaveSameTypeAs, &WhileStmt{})
		cv.So(body[5], cv.ShouldHaveSameTypeAs, &FreeStmt{})
		cv.So(body[6], cv.ShouldHaveSameTypeAs, &ReturnStmt{})
	})
}

func Test033TupleAndIndexTargets(t *testing.T) {

	cv.Convey(`Given '(a, b) = (1, 2);' the left side should parse as a tuple literal`, t, func() {

		prog, err := ParseString(`u8 main() { (a, b) = (1, 2); }`)
		panicOn(err)
		es := prog.Funcs[0].Body[0].(*ExprStmt)
		asn := es.X.(*Binary)
		cv.So(asn.Op, cv.ShouldEqual, "=")
		cv.So(asn.X, cv.ShouldHaveSameTypeAs, &TupleLit{})
		cv.So(asn.Y, cv.ShouldHaveSameTypeAs, &TupleLit{})
	})

	cv.Convey(`and 'buf[2] = 'z';' parses as an index target`, t, func() {

		prog, err := ParseString(`u8 main() { buf[2] = 'z'; }`)
		panicOn(err)
		es := prog.Funcs[0].Body[0].(*ExprStmt)
		asn := es.X.(*Binary)
		cv.So(asn.X, cv.ShouldHaveSameTypeAs, &Index{})
		cv.So(asn.Y, cv.ShouldHaveSameTypeAs, &CharLit{})
	})

	cv.Convey(`and a bad token reports a syntax error with its line`, t, func() {

		_, err := ParseString("u8 main() {\n\tbyte x = ;\n}")
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(IsErrKind(err, ErrSyntax), cv.ShouldBeTrue)
	})

	cv.Convey(`and input that stops mid-block reports unexpected end`, t, func() {

		_, err := ParseString(`u8 main() { byte x = 1;`)
		cv.So(errors.Is(err, UnexpectedEnd), cv.ShouldBeTrue)
	})
}
