package cf

import (
	"flag"
	"fmt"
)

// configure the cfc compiler and repl
type CfConfig struct {
	Flags *flag.FlagSet

	Command   string
	OutPath   string
	Run       bool
	ShowAst   bool
	Report    bool
	TapeLimit int
	MaxSteps  int64
	Quiet     bool
	Trace     bool

	// liner bombs under emacs, avoid it with this flag.
	NoLiner bool
	Prompt  string // default "cf> "
}

func NewCfConfig(cmdname string) *CfConfig {
	return &CfConfig{
		Flags: flag.NewFlagSet(cmdname, flag.ExitOnError),
	}
}

// call DefineFlags before myflags.Parse()
func (c *CfConfig) DefineFlags() {
	c.Flags.StringVar(&c.Command, "c", "", "source to compile instead of reading a file or starting the repl")
	c.Flags.StringVar(&c.OutPath, "o", "", "write the compiled program to this path (msgpack; refuses to overwrite)")
	c.Flags.BoolVar(&c.Run, "run", false, "run the compiled program on the built-in machine")
	c.Flags.BoolVar(&c.ShowAst, "ast", false, "dump the parse tree instead of compiling")
	c.Flags.BoolVar(&c.Report, "report", false, "print a json compile report")
	c.Flags.IntVar(&c.TapeLimit, "tape", 0, "cap the number of tape cells the compiler may allocate (0 = unbounded)")
	c.Flags.Int64Var(&c.MaxSteps, "steps", 0, "cap the machine's step count when running (0 = default cap)")
	c.Flags.BoolVar(&c.Quiet, "quiet", false, "start repl without printing the banner")
	c.Flags.BoolVar(&c.Trace, "trace", false, "trace compilation (warning: verbose)")
	c.Flags.BoolVar(&c.NoLiner, "noliner", false, "avoid the liner library; plain stdin reads")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *CfConfig) ValidateConfig() error {
	if c.Prompt == "" {
		c.Prompt = "cf> "
	}
	if c.TapeLimit < 0 {
		return fmt.Errorf("-tape must be >= 0, got %d", c.TapeLimit)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("-steps must be >= 0, got %d", c.MaxSteps)
	}
	return nil
}
