package cf

import (
	"bytes"
	"reflect"

	"github.com/ugorji/go/codec"
)

// CompileReport summarizes one compilation for tooling: the source
// fingerprint, output size, the per-primitive instruction counts, and
// the allocator's final view of the tape.
type CompileReport struct {
	Blake2     uint64         `json:"blake2"`
	CodeLen    int            `json:"codeLen"`
	Ops        map[string]int `json:"ops"`
	OwnedCells []int          `json:"ownedCells"`
	NumOwned   int            `json:"numOwned"`
	HighCell   int            `json:"highCell"`
}

type codecHelper struct {
	initialized bool
	mh          codec.MsgpackHandle
	jh          codec.JsonHandle
}

func (m *codecHelper) init() {
	if m.initialized {
		return
	}
	m.mh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.mh.RawToString = true
	m.mh.WriteExt = true
	m.mh.SignedInteger = true
	m.mh.Canonical = true // sort maps before writing them

	m.jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.jh.SignedInteger = true
	m.jh.Canonical = true

	m.initialized = true
}

var cdcHelper codecHelper

func init() {
	cdcHelper.init()
}

// Report builds a CompileReport from the compiler's state after a
// successful CompileString.
func (c *Compiler) Report(prog *CompiledProgram) *CompileReport {
	rep := &CompileReport{
		Blake2:  prog.Blake2,
		CodeLen: len(prog.Code),
		Ops:     map[string]int{},
	}
	for _, op := range prog.Code {
		rep.Ops[string(op)]++
	}
	rep.OwnedCells = c.tape.OwnedCells()
	rep.NumOwned = len(rep.OwnedCells)
	for _, cell := range rep.OwnedCells {
		if cell > rep.HighCell {
			rep.HighCell = cell
		}
	}
	return rep
}

// Json renders the report with canonical key ordering.
func (r *CompileReport) Json() []byte {
	var w bytes.Buffer
	enc := codec.NewEncoder(&w, &cdcHelper.jh)
	err := enc.Encode(r)
	panicOn(err)
	return w.Bytes()
}

// Msgpack renders the report in msgpack form.
func (r *CompileReport) Msgpack() []byte {
	var w bytes.Buffer
	enc := codec.NewEncoder(&w, &cdcHelper.mh)
	err := enc.Encode(r)
	panicOn(err)
	return w.Bytes()
}
