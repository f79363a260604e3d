package cf

import (
	"path/filepath"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test300SaveAndLoadRoundTrip(t *testing.T) {

	cv.Convey(`Given a compiled program saved to disk, loading it back should reproduce the source, fingerprint and code`, t, func() {

		prog := mustCompile(`
u8 main() {
	byte x = 3;
	write(x);
}
`)
		path := filepath.Join(t.TempDir(), "prog.cfb")
		err := SaveProgram(prog, path)
		panicOn(err)

		back, err := LoadProgram(path)
		panicOn(err)
		cv.So(back.Source, cv.ShouldEqual, prog.Source)
		cv.So(back.Blake2, cv.ShouldEqual, prog.Blake2)
		cv.So(string(back.Code), cv.ShouldEqual, string(prog.Code))

		cv.Convey(`and a second save to the same path is refused`, func() {
			err := SaveProgram(prog, path)
			cv.So(err, cv.ShouldNotBeNil)
		})
	})
}

func Test301LoadRejectsATamperedFingerprint(t *testing.T) {

	cv.Convey(`Given a saved program whose recorded hash does not match its source, LoadProgram should refuse it`, t, func() {

		prog := mustCompile(`
u8 main() {
	write(1);
}
`)
		prog.Blake2++
		path := filepath.Join(t.TempDir(), "bad.cfb")
		err := SaveProgram(prog, path)
		panicOn(err)

		_, err = LoadProgram(path)
		cv.So(err, cv.ShouldNotBeNil)
	})
}

func Test302MarshalUnmarshalRoundTrip(t *testing.T) {

	cv.Convey(`Given a program marshalled to bytes, unmarshalling should restore it`, t, func() {

		prog := &CompiledProgram{Source: "u8 main() { }", Blake2: 42, Code: []byte("+-<>")}
		by, err := prog.MarshalMsg(nil)
		panicOn(err)

		back := &CompiledProgram{}
		left, err := back.UnmarshalMsg(by)
		panicOn(err)
		cv.So(len(left), cv.ShouldEqual, 0)
		cv.So(back.Source, cv.ShouldEqual, prog.Source)
		cv.So(back.Blake2, cv.ShouldEqual, uint64(42))
		cv.So(string(back.Code), cv.ShouldEqual, "+-<>")
	})
}
