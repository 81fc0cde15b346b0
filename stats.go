package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const (
	statsAddr = "localhost:12600"
	statsURL  = "/debug/statsview"
)

// launchStats starts the runtime statistics server in a new goroutine.
func launchStats(w io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(statsAddr))
		mgr := statsview.New()
		mgr.Start()
	}()
	fmt.Fprintf(w, "stats server available at http://%s%s\n", statsAddr, statsURL)
}
