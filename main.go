// Command c8 executes CHIP-8 ROMs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"golang.org/x/term"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/host"
)

func main() {
	log.SetPrefix("c8: ")
	log.SetFlags(0)

	var (
		uiFlag    = flag.String("ui", "gui", "user interface: `gui`, term, or none")
		hzFlag    = flag.Int("hz", chip8.DefaultHz, "instructions executed per second")
		seedFlag  = flag.Int64("seed", 0, "random number `seed` (0 seeds from the clock)")
		devFlag   = flag.Bool("dev", false, "enable developer mode (reload the ROM when it changes)")
		debugFlag = flag.Bool("debug", false, "enable debugger (implies -dev)")
		statsFlag = flag.Bool("statsview", false, "serve runtime statistics at "+statsAddr)

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.ch8>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	fe, err := newFrontend(*uiFlag, filepath.Base(flag.Arg(0)))
	if err != nil {
		log.Fatal(err)
	}
	if _, ok := fe.(*host.Terminal); ok && *debugFlag {
		log.Fatal("-debug cannot be used with -ui term")
	}
	if _, ok := fe.(*host.Terminal); (ok || *debugFlag) && !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatal("standard input is not a terminal")
	}
	if *hzFlag <= 0 {
		log.Fatalf("invalid -hz %d", *hzFlag)
	}

	if *statsFlag {
		launchStats(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := host.Config{
		Frontend: fe,
		Hz:       *hzFlag,
		Seed:     *seedFlag,
	}

	if *devFlag || *debugFlag {
		if err := devMode(ctx, cfg, *debugFlag, flag.Arg(0)); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err = run(ctx, cfg, flag.Arg(0))

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		var h chip8.HaltError
		if errors.As(err, &h) {
			log.Fatalf("halt: %v", err)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg host.Config, romFile string) error {
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return err
	}
	return host.NewRunner(cfg).Run(ctx, rom)
}

func newFrontend(ui, title string) (host.Frontend, error) {
	switch strings.ToLower(ui) {
	case "gui":
		return &host.GUI{Title: "c8: " + title}, nil
	case "term":
		return &host.Terminal{}, nil
	case "none":
		return host.Headless{}, nil
	}
	return nil, fmt.Errorf("unknown user interface %q", ui)
}
