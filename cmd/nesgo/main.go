// Command nesgo runs an iNES ROM in a window.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/mtakeda/nesgo/nes"
	"github.com/mtakeda/nesgo/ui"
)

var debug = flag.Bool("debug", false, "run an interactive debugger console on stdio instead of opening a window")

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		glog.Exitf("usage: %s [-debug] <path-to-rom.nes>", os.Args[0])
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		glog.Fatalf("reading %s: %v", path, err)
	}
	cartridge, err := nes.NewCartridge(data)
	if err != nil {
		glog.Fatalf("parsing %s: %v", path, err)
	}
	console, err := nes.NewConsole(cartridge, *debug)
	if err != nil {
		glog.Fatalf("creating console: %v", err)
	}
	console.Reset()

	if *debug {
		for {
			if _, err := console.Step(); err != nil {
				glog.Fatalf("debug step: %v", err)
			}
		}
	}
	ui.Start(console, 256*3, 240*3)
}
