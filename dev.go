package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/c8/host"
)

func devMode(ctx context.Context, cfg host.Config, debug bool, romFile string) error {
	romFile = filepath.Clean(romFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(romFile)); err != nil {
		return err
	}

	rom, err := os.ReadFile(romFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg.Dev = true
	var d *debugger
	if debug {
		d = newDebugger()
		cfg.State = d.StateFunc
	}
	runner := host.NewRunner(cfg)

	if d != nil {
		d.run = runner
		d.loadSymbols(romFile)
		log.SetPrefix("")
		log.SetOutput(d.log)
		go func() {
			if err := d.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("c8: ")
			cancel()
		}()
	}

	go func() {
		var reload <-chan time.Time
		for {
			select {
			case <-reload:
				reload = nil
				rom, err := os.ReadFile(romFile)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				if d != nil {
					d.loadSymbols(romFile)
				}
				log.Printf("dev: reload %s", filepath.Base(romFile))
				if err := runner.Swap(rom); err != nil {
					log.Printf("dev: %v", err)
				}
			case ev := <-watcher.Event:
				name := filepath.Clean(ev.Name)
				if (name == romFile || name == romFile+".sym") && !ev.IsAttrib() {
					reload = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				log.Printf("dev: watcher: %v", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Printf("dev: start %s", filepath.Base(romFile))
	err = runner.Run(ctx, rom)
	if d != nil {
		d.app.Stop()
	}
	return err
}
