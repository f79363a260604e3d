package cf

import (
	"fmt"
	"os"

	"github.com/tinylib/msgp/msgp"
)

// SaveProgram writes a compiled program to path in msgpack form.
// It refuses to clobber an existing file.
func SaveProgram(prog *CompiledProgram, path string) error {
	if FileExists(path) {
		return fmt.Errorf("refusing to write to existing file '%s'", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create '%s': %v", path, err)
	}
	defer f.Close()

	w := msgp.NewWriter(f)
	if err := prog.EncodeMsg(w); err != nil {
		return fmt.Errorf("encoding to '%s': %v", path, err)
	}
	return w.Flush()
}

// LoadProgram reads a program saved by SaveProgram and verifies that
// the stored source still hashes to the stored fingerprint.
func LoadProgram(path string) (*CompiledProgram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prog := &CompiledProgram{}
	if err := prog.DecodeMsg(msgp.NewReader(f)); err != nil {
		return nil, fmt.Errorf("decoding '%s': %v", path, err)
	}
	if got := Blake2bUint64([]byte(prog.Source)); got != prog.Blake2 {
		return nil, fmt.Errorf("'%s' is corrupt: source hash %x, recorded %x",
			path, got, prog.Blake2)
	}
	return prog, nil
}

func FileExists(name string) bool {
	fi, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !fi.IsDir()
}
