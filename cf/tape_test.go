package cf

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test001FirstFitAllocationGrowsFromCellZero(t *testing.T) {

	cv.Convey(`Given a fresh tape, allocations should hand out the lowest free cells first`, t, func() {

		tape := NewTape()
		a, err := tape.Allocate(1)
		panicOn(err)
		b, err := tape.Allocate(1)
		panicOn(err)
		c, err := tape.Allocate(3)
		panicOn(err)

		cv.So(a.Start, cv.ShouldEqual, 0)
		cv.So(b.Start, cv.ShouldEqual, 1)
		cv.So(c.Start, cv.ShouldEqual, 2)
		cv.So(c.Width, cv.ShouldEqual, 3)
		cv.So(tape.NumOwned(), cv.ShouldEqual, 5)
	})
}

func Test002FreedRegionIsReusedByTheNextSameSizedAllocation(t *testing.T) {

	cv.Convey(`Given an allocated then freed region, the next allocation of the same width should land on the just-freed cells, not past the high-water mark`, t, func() {

		tape := NewTape()
		a, err := tape.Allocate(1)
		panicOn(err)
		_, err = tape.Allocate(1)
		panicOn(err)

		tape.Free(a)
		again, err := tape.Allocate(1)
		panicOn(err)
		cv.So(again.Start, cv.ShouldEqual, a.Start)

		cv.Convey(`and a freed cell is no longer pristine`, func() {
			cv.So(tape.Pristine(a.Start), cv.ShouldBeFalse)
			cv.So(tape.Pristine(1), cv.ShouldBeTrue)
		})
	})
}

func Test003WideAllocationSkipsOverOwnedCells(t *testing.T) {

	cv.Convey(`Given a gap narrower than the request, a wide allocation should skip past it to the first run of free cells that fits`, t, func() {

		tape := NewTape()
		a, err := tape.Allocate(1) // cell 0
		panicOn(err)
		_, err = tape.Allocate(1) // cell 1
		panicOn(err)
		_, err = tape.Allocate(1) // cell 2
		panicOn(err)
		tape.Free(a) // gap of width 1 at cell 0

		wide, err := tape.Allocate(2)
		panicOn(err)
		cv.So(wide.Start, cv.ShouldEqual, 3)

		narrow, err := tape.Allocate(1)
		panicOn(err)
		cv.So(narrow.Start, cv.ShouldEqual, 0)
	})
}

func Test004TapeLimitAndDoubleFree(t *testing.T) {

	cv.Convey(`Given a tape capped at two cells, a third allocation should report out of space`, t, func() {

		tape := NewTape()
		tape.MaxCells = 2
		_, err := tape.Allocate(1)
		panicOn(err)
		_, err = tape.Allocate(1)
		panicOn(err)
		_, err = tape.Allocate(1)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(IsErrKind(err, ErrOutOfSpace), cv.ShouldBeTrue)
	})

	cv.Convey(`Given a region freed twice, the second free should panic since it means the compiler lost track of ownership`, t, func() {

		tape := NewTape()
		r, err := tape.Allocate(1)
		panicOn(err)
		tape.Free(r)
		cv.So(func() { tape.Free(r) }, cv.ShouldPanic)
	})
}
