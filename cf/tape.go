package cf

import (
	"fmt"
	"sort"
)

// Region is an ordered, contiguous run of tape cells backing one
// real value. Width 1 for byte, wider for arrays.
type Region struct {
	Start int
	Width int
}

func (r Region) Cell() int {
	if r.Width != 1 {
		panic(fmt.Sprintf("Cell() on region of width %d", r.Width))
	}
	return r.Start
}

// CellAt returns the i-th cell index of the region.
func (r Region) CellAt(i int) int {
	if i < 0 || i >= r.Width {
		panic(fmt.Sprintf("cell %d out of region of width %d", i, r.Width))
	}
	return r.Start + i
}

// Sub carves the element view [off, off+width) out of r. The view
// borrows r's cells; it is never freed on its own.
func (r Region) Sub(off, width int) Region {
	if off < 0 || off+width > r.Width {
		panic(fmt.Sprintf("sub region [%d,%d) out of region of width %d", off, off+width, r.Width))
	}
	return Region{Start: r.Start + off, Width: width}
}

func (r Region) String() string {
	if r.Width == 1 {
		return fmt.Sprintf("cell %d", r.Start)
	}
	return fmt.Sprintf("cells [%d..%d]", r.Start, r.Start+r.Width-1)
}

// Tape tracks compile-time ownership of the target machine's cells.
// Cells are either free or owned by exactly one live region.
// Allocation is first-fit from cell 0 upward; this policy is part of
// the compiler's contract since it fixes the physical layout and
// therefore the exact output program.
//
// Freeing only marks cells available. It never emits instructions,
// so a reused cell may still hold the previous occupant's value at
// runtime. The stale set remembers which cells have ever been owned;
// anything outside it is above the high-water mark and guaranteed to
// read zero.
type Tape struct {
	owned map[int]bool
	stale map[int]bool

	// MaxCells, when positive, caps the tape. Zero means unbounded.
	MaxCells int
}

func NewTape() *Tape {
	return &Tape{
		owned: make(map[int]bool),
		stale: make(map[int]bool),
	}
}

func (t *Tape) Reset() {
	t.owned = make(map[int]bool)
	t.stale = make(map[int]bool)
}

// Allocate returns the leftmost run of width free cells and marks
// them owned.
func (t *Tape) Allocate(width int) (Region, error) {
	if width <= 0 {
		panic(fmt.Sprintf("allocate width %d", width))
	}
	for start := 0; ; start++ {
		if t.MaxCells > 0 && start+width > t.MaxCells {
			return Region{}, errAt(ErrOutOfSpace, 0,
				"no run of %d free cells within the %d cell tape limit", width, t.MaxCells)
		}
		fit := true
		for i := 0; i < width; i++ {
			if t.owned[start+i] {
				fit = false
				start += i // resume scanning past the collision
				break
			}
		}
		if fit {
			r := Region{Start: start, Width: width}
			for i := 0; i < width; i++ {
				t.owned[start+i] = true
			}
			return r, nil
		}
	}
}

// Free returns every cell of r to the free pool. The cells keep
// whatever runtime values they held.
func (t *Tape) Free(r Region) {
	for i := 0; i < r.Width; i++ {
		c := r.Start + i
		if !t.owned[c] {
			panic(fmt.Sprintf("double free of cell %d", c))
		}
		delete(t.owned, c)
		t.stale[c] = true
	}
}

// Pristine reports whether cell has never been freed, i.e. no prior
// occupant can have left a value behind: either the cell is above
// the high-water mark, or it belongs to its first owner. Pristine
// cells are guaranteed to read zero before their owner writes them.
func (t *Tape) Pristine(cell int) bool {
	return !t.stale[cell]
}

// OwnedCells returns the sorted set of currently owned cells.
func (t *Tape) OwnedCells() []int {
	cells := make([]int, 0, len(t.owned))
	for c := range t.owned {
		cells = append(cells, c)
	}
	sort.Ints(cells)
	return cells
}

// NumOwned returns how many cells are currently owned.
func (t *Tape) NumOwned() int {
	return len(t.owned)
}
