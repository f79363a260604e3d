package cf

import (
	"strings"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func compileOne(src string) (*CompiledProgram, error) {
	return NewCompiler().CompileString(src)
}

func mustCompile(src string) *CompiledProgram {
	prog, err := compileOne(src)
	panicOn(err)
	return prog
}

func runOn(prog *CompiledProgram, input string) string {
	out, err := NewMachine().RunString(prog.Code, input)
	panicOn(err)
	return out
}

func Test100StraightLineConstructionAndWrite(t *testing.T) {

	cv.Convey(`Given 'byte x; x = 3; x += 2; write(x);' the compiler should construct 3 into a pristine cell with bare increments, add 2 as a fixed count, and write 5`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x;
	x = 3;
	x += 2;
	write(x);
}
`)
		cv.So(string(prog.Code), cv.ShouldEqual, "+++++.")
		cv.So(runOn(prog, ""), cv.ShouldEqual, "\x05")

		cv.Convey(`and the source fingerprint is stamped on the program`, func() {
			cv.So(prog.Blake2, cv.ShouldEqual, Blake2bUint64([]byte(prog.Source)))
		})
	})
}

func Test101ReadThenWriteEmitsAdjacentPrimitives(t *testing.T) {

	cv.Convey(`Given 'u8 a = read(); write(a);' the input and output primitives should act on the same cell with no movement between them`, t, func() {

		prog := mustCompile(`
u8 main() {
	u8 a = read();
	write(a);
}
`)
		cv.So(string(prog.Code), cv.ShouldEqual, ",.")
		cv.So(runOn(prog, "A"), cv.ShouldEqual, "A")
	})
}

func Test102VirtualOperandsFoldAtCompileTime(t *testing.T) {

	cv.Convey(`Given 'byte x = 3 == 3;' the comparison should fold to 1 with no loops emitted`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = 3 == 3;
	write(x);
}
`)
		cv.So(string(prog.Code), cv.ShouldEqual, "+.")
	})

	cv.Convey(`and arithmetic on literals folds the same way`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte q = 7 // 2;
	write(q);
}
`)
		cv.So(string(prog.Code), cv.ShouldEqual, "+++.")
	})

	cv.Convey(`and division by a literal zero is rejected at compile time`, t, func() {

		_, err := compileOne(`u8 main() { byte q = 7 / 0; }`)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(IsErrKind(err, ErrTypeMismatch), cv.ShouldBeTrue)
	})
}

func Test103IfRunsAtMostOnceAndDestroysItsCondition(t *testing.T) {

	cv.Convey(`Given 'if (c) { write(c); }' the body must close with forced zeroing so it cannot loop, and c must not survive the statement`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte c = read();
	if (c) { write(c); }
}
`)
		cv.So(string(prog.Code), cv.ShouldEqual, ",[.[-]]")
		cv.So(runOn(prog, "A"), cv.ShouldEqual, "A")
		cv.So(runOn(prog, "\x00"), cv.ShouldEqual, "")

		cv.Convey(`so using c after the if is an undeclared variable error`, func() {
			_, err := compileOne(`
u8 main() {
	byte c = read();
	if (c) { }
	write(c);
}
`)
			cv.So(err, cv.ShouldNotBeNil)
			cv.So(IsErrKind(err, ErrUndeclaredVariable), cv.ShouldBeTrue)
		})
	})
}

func Test104WhilevarPreservesItsConditionVariable(t *testing.T) {

	cv.Convey(`Given a countdown driven by whilevar, the condition cell survives and drives the loop directly`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	whilevar (x) {
		write(x);
		x -= 1;
	}
}
`)
		cv.So(string(prog.Code), cv.ShouldEqual, ",[.-]")
		cv.So(runOn(prog, "\x03"), cv.ShouldEqual, "\x03\x02\x01")

		cv.Convey(`and x is still a valid name after the loop`, func() {
			prog2 := mustCompile(`
u8 main() {
	byte x = read();
	whilevar (x) { x -= 1; }
	write(x);
}
`)
			cv.So(runOn(prog2, "\x05"), cv.ShouldEqual, "\x00")
		})
	})
}

func Test105WhileReevaluatesItsCondition(t *testing.T) {

	cv.Convey(`Given 'while (&x) { ... }' the condition is copied fresh at the end of every iteration`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	while (&x) {
		write(x);
		x -= 1;
	}
}
`)
		cv.So(runOn(prog, "\x02"), cv.ShouldEqual, "\x02\x01")
		cv.So(runOn(prog, "\x00"), cv.ShouldEqual, "")
	})
}

func Test106FunctionCallsInlineWithMoveSemantics(t *testing.T) {

	cv.Convey(`Given an add function, the call should expand in place: the arguments move into the callee and the return value's storage comes back to the caller`, t, func() {

		prog := mustCompile(`
u8 add(byte a, byte b) {
	a += b;
	return a;
}
u8 main() {
	byte r = add(read(), read());
	write(r);
}
`)
		cv.So(string(prog.Code), cv.ShouldEqual, ",>,[-<+>]<.")
		cv.So(runOn(prog, "\x02\x03"), cv.ShouldEqual, "\x05")
	})

	cv.Convey(`and each call site re-expands the body`, t, func() {

		prog := mustCompile(`
u8 twice(byte v) {
	v += v;
	return v;
}
u8 main() {
	write(twice(read()));
	write(twice(read()));
}
`)
		cv.So(runOn(prog, "\x02\x05"), cv.ShouldEqual, "\x04\x0a")
	})

	cv.Convey(`and calling an unknown function is an error`, t, func() {

		_, err := compileOne(`u8 main() { nope(); }`)
		cv.So(IsErrKind(err, ErrUnknownFunction), cv.ShouldBeTrue)
	})

	cv.Convey(`and a wrong argument count is an arity error`, t, func() {

		_, err := compileOne(`
u8 id(byte v) { return v; }
u8 main() { byte r = id(); write(r); }
`)
		cv.So(IsErrKind(err, ErrArityMismatch), cv.ShouldBeTrue)
	})

	cv.Convey(`and unbounded recursion is rejected rather than expanded forever`, t, func() {

		_, err := compileOne(`
u8 f() {
	byte r = f();
	return r;
}
u8 main() {
	byte x = f();
	write(x);
}
`)
		cv.So(err, cv.ShouldNotBeNil)
	})
}

func Test107RuntimeDivisionAndModulo(t *testing.T) {

	cv.Convey(`Given a runtime dividend, /= computes the quotient by repeated subtraction`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	x /= 2;
	write(x);
}
`)
		cv.So(runOn(prog, "\x07"), cv.ShouldEqual, "\x03")
		cv.So(runOn(prog, "\x08"), cv.ShouldEqual, "\x04")
		cv.So(runOn(prog, "\x01"), cv.ShouldEqual, "\x00")
	})

	cv.Convey(`and %= keeps the remaining dividend`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	x %= 3;
	write(x);
}
`)
		cv.So(runOn(prog, "\x07"), cv.ShouldEqual, "\x01")
		cv.So(runOn(prog, "\x06"), cv.ShouldEqual, "\x00")
	})
}

func Test108RuntimeComparisons(t *testing.T) {

	cv.Convey(`Given two runtime bytes, a < b derives from the parallel decrement residues`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte a = read();
	byte b = read();
	byte r = a < b;
	write(r);
}
`)
		cv.So(runOn(prog, "\x02\x05"), cv.ShouldEqual, "\x01")
		cv.So(runOn(prog, "\x05\x02"), cv.ShouldEqual, "\x00")
		cv.So(runOn(prog, "\x03\x03"), cv.ShouldEqual, "\x00")
	})

	cv.Convey(`and == answers equality for runtime values`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	byte y = read();
	byte e = x == y;
	write(e);
}
`)
		cv.So(runOn(prog, "\x05\x05"), cv.ShouldEqual, "\x01")
		cv.So(runOn(prog, "\x05\x03"), cv.ShouldEqual, "\x00")
	})

	cv.Convey(`and the comparison destroys both named operands`, t, func() {

		_, err := compileOne(`
u8 main() {
	byte x = read();
	byte y = read();
	byte e = x == y;
	write(x);
}
`)
		cv.So(IsErrKind(err, ErrUndeclaredVariable), cv.ShouldBeTrue)
	})

	cv.Convey(`while copying with & keeps the original alive`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	byte e = &x == 3;
	write(e);
	write(x);
}
`)
		cv.So(runOn(prog, "\x03"), cv.ShouldEqual, "\x01\x03")
		cv.So(runOn(prog, "\x04"), cv.ShouldEqual, "\x00\x04")
	})
}

func Test109FreeReturnsStorageForReuse(t *testing.T) {

	cv.Convey(`Given 'byte x = 1; free x; byte y = 2;' the second declaration should land on the just-freed cell, with the dirty-cell zeroing idiom emitted`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = 1;
	free x;
	byte y = 2;
	write(y);
}
`)
		cv.So(string(prog.Code), cv.ShouldEqual, "+[-]++.")
		cv.So(strings.Contains(string(prog.Code), ">"), cv.ShouldBeFalse)
		cv.So(runOn(prog, ""), cv.ShouldEqual, "\x02")
	})

	cv.Convey(`and freeing a variable declared outside an enclosing loop is illegal`, t, func() {

		_, err := compileOne(`
u8 main() {
	byte x = read();
	byte y = 1;
	whilevar (x) {
		free y;
		x -= 1;
	}
}
`)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(IsErrKind(err, ErrIllegalFree), cv.ShouldBeTrue)
	})

	cv.Convey(`while freeing a variable declared inside the loop body is fine`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	whilevar (x) {
		byte t = 1;
		free t;
		x -= 1;
	}
}
`)
		cv.So(runOn(prog, "\x02"), cv.ShouldEqual, "")
	})
}

func Test110ScopeAndInitializationErrors(t *testing.T) {

	cv.Convey(`Using an undeclared name is an error`, t, func() {
		_, err := compileOne(`u8 main() { write(missing); }`)
		cv.So(IsErrKind(err, ErrUndeclaredVariable), cv.ShouldBeTrue)
	})

	cv.Convey(`Using a declared but never assigned variable is an error`, t, func() {
		_, err := compileOne(`u8 main() { byte x; write(x); }`)
		cv.So(IsErrKind(err, ErrUninitializedUse), cv.ShouldBeTrue)
	})

	cv.Convey(`Redeclaring a live name in the same scope is an error`, t, func() {
		_, err := compileOne(`u8 main() { byte x = 1; byte x = 2; }`)
		cv.So(IsErrKind(err, ErrSyntax), cv.ShouldBeTrue)
	})

	cv.Convey(`A return that is not the last statement is rejected`, t, func() {
		_, err := compileOne(`
u8 f() {
	return 1;
	byte x = 2;
}
u8 main() { byte r = f(); write(r); }
`)
		cv.So(IsErrKind(err, ErrMisplacedReturn), cv.ShouldBeTrue)
	})

	cv.Convey(`A block-local variable vanishes when its scope ends`, t, func() {
		_, err := compileOne(`
u8 main() {
	byte c = read();
	if (c) { byte inner = 1; }
	write(inner);
}
`)
		cv.So(IsErrKind(err, ErrUndeclaredVariable), cv.ShouldBeTrue)
	})

	cv.Convey(`A float initializer cannot be constructed into a byte cell`, t, func() {
		_, err := compileOne(`u8 main() { byte x = 1.5; }`)
		cv.So(IsErrKind(err, ErrUnsupportedConstruction), cv.ShouldBeTrue)
	})
}

func Test111TupleAssignment(t *testing.T) {

	cv.Convey(`Given '(a, b) = (1, 2);' each field constructs into its own target`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte a;
	byte b;
	(a, b) = (1, 2);
	write(a);
	write(b);
}
`)
		cv.So(runOn(prog, ""), cv.ShouldEqual, "\x01\x02")
	})

	cv.Convey(`and a length mismatch is an arity error`, t, func() {

		_, err := compileOne(`
u8 main() {
	byte a;
	byte b;
	(a, b) = (1, 2, 3);
}
`)
		cv.So(IsErrKind(err, ErrArityMismatch), cv.ShouldBeTrue)
	})
}

func Test112ArraysConstructAndIndex(t *testing.T) {

	cv.Convey(`Given a byte array initialized from a string, indexing reads the element cells in place`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte[3] s = "abc";
	write(s[0]);
	write(s[2]);
	write(s[1]);
}
`)
		cv.So(runOn(prog, ""), cv.ShouldEqual, "acb")
	})

	cv.Convey(`and element assignment writes through the borrowed view`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte[3] s = "abc";
	s[1] = 'z';
	write(s[1]);
}
`)
		cv.So(runOn(prog, ""), cv.ShouldEqual, "z")
	})

	cv.Convey(`and a list literal of the right length also constructs`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte[2] v = [10, 20];
	write(v[0]);
	write(v[1]);
}
`)
		cv.So(runOn(prog, ""), cv.ShouldEqual, "\x0a\x14")
	})

	cv.Convey(`while a length mismatch is a type error`, t, func() {

		_, err := compileOne(`u8 main() { byte[2] s = "abc"; }`)
		cv.So(IsErrKind(err, ErrTypeMismatch), cv.ShouldBeTrue)
	})

	cv.Convey(`and an out of range index is caught at compile time`, t, func() {

		_, err := compileOne(`u8 main() { byte[2] s = "ab"; write(s[5]); }`)
		cv.So(IsErrKind(err, ErrTypeMismatch), cv.ShouldBeTrue)
	})
}

func Test113MultiplicationAndPlainArithmetic(t *testing.T) {

	cv.Convey(`Given runtime values, *= accumulates the multiplicand per unit of the multiplier`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	byte y = read();
	x *= y;
	write(x);
}
`)
		cv.So(runOn(prog, "\x03\x04"), cv.ShouldEqual, "\x0c")
		cv.So(runOn(prog, "\x05\x00"), cv.ShouldEqual, "\x00")
	})

	cv.Convey(`and plain + copies named operands instead of destroying them`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte a = read();
	byte b = read();
	byte s = a + b;
	write(s);
	write(a);
	write(b);
}
`)
		cv.So(runOn(prog, "\x02\x03"), cv.ShouldEqual, "\x05\x02\x03")
	})

	cv.Convey(`and ++ mutates a tape value in place`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	++x;
	write(x);
}
`)
		cv.So(runOn(prog, "\x08"), cv.ShouldEqual, "\x09")
	})

	cv.Convey(`and ! toggles zero and nonzero`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	byte r = !x;
	write(r);
}
`)
		cv.So(runOn(prog, "\x00"), cv.ShouldEqual, "\x01")
		cv.So(runOn(prog, "\x07"), cv.ShouldEqual, "\x00")
	})
}

func Test114TapeLimitSurfacesAsOutOfSpace(t *testing.T) {

	cv.Convey(`Given a compiler capped at two cells, a three-byte program cannot allocate`, t, func() {

		c := NewCompiler()
		c.SetTapeLimit(2)
		_, err := c.CompileString(`
u8 main() {
	byte a = 1;
	byte b = 2;
	byte d = 3;
}
`)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(IsErrKind(err, ErrOutOfSpace), cv.ShouldBeTrue)
	})
}

func Test115CharLiteralsAndEscapes(t *testing.T) {

	cv.Convey(`Given character literals, construction uses their byte values`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte nl = '\n';
	byte a = 'A';
	write(a);
	write(nl);
}
`)
		cv.So(runOn(prog, ""), cv.ShouldEqual, "A\n")
	})
}

func Test116LoopBodyAllocationsRezeroEachIteration(t *testing.T) {

	cv.Convey(`Given a loop body that declares a fresh local, the local must construct from zero on every pass, not just the first`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte i = 3;
	whilevar (i) {
		byte t = 5;
		write(t);
		i -= 1;
	}
}
`)
		cv.So(runOn(prog, ""), cv.ShouldEqual, "\x05\x05\x05")
	})

	cv.Convey(`and a plain-arithmetic temporary inside the body starts clean every pass`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte i = read();
	whilevar (i) {
		write(i + 48);
		i -= 1;
	}
}
`)
		cv.So(runOn(prog, "\x03"), cv.ShouldEqual, "321")
	})

	cv.Convey(`and a while loop's end-of-iteration copies behave the same way`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = read();
	while (&x) {
		byte d = 1;
		x -= d;
		write(x + 48);
	}
}
`)
		cv.So(runOn(prog, "\x03"), cv.ShouldEqual, "210")
	})
}
