/*
The CF compiler command line is known as `cfc`.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/glycerine/cfc/cf"
)

func usage(myflags *flag.FlagSet) {
	fmt.Printf("cfc command line help:\n")
	myflags.PrintDefaults()
	os.Exit(1)
}

func main() {
	cfg := cf.NewCfConfig("cfc")
	cfg.DefineFlags()
	err := cfg.Flags.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		usage(cfg.Flags)
	}

	if err != nil {
		panic(err)
	}
	err = cfg.ValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cfc command line error: '%v'\n", err)
		usage(cfg.Flags)
	}

	// the library does all the heavy lifting.
	cf.ReplMain(cfg)
}
