package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/host"
)

type debugger struct {
	run *host.Runner

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	mu      sync.Mutex
	syms    symbols
	breaks  []symbol
	watches []watch
}

type watch struct {
	symbol
	word bool
}

func (d *debugger) symbols() symbols {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syms
}

func (d *debugger) loadSymbols(romFile string) {
	syms, err := loadSymbols(romFile)
	if err != nil {
		log.Printf("reading symbols: %v", err)
		return
	}
	d.mu.Lock()
	d.syms = syms
	d.mu.Unlock()
}

func newDebugger() *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 4, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if cmd, arg, ok := strings.Cut(t, " "); ok {
			switch cmd {
			case "b", "break", "w", "w2", "watch", "watch2":
				for _, s := range d.symbols().withLabelPrefix(arg) {
					entries = append(entries, cmd+" "+s.label)
				}
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		if cmd == "" {
			return
		}
		d.input.SetText("")
		if err := d.command(cmd); err != nil {
			log.Print(err)
		}
	})
	return d
}

// command executes a line entered by the user.
func (d *debugger) command(line string) error {
	cmd, arg, hasArg := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "exit", "quit":
		d.app.Stop()
		return nil
	case "p", "pause":
		return d.run.Debug("pause", 0)
	case "c", "cont":
		return d.run.Debug("cont", 0)
	case "s", "step":
		return d.run.Debug("step", 0)
	case "b", "break":
		if !hasArg {
			d.mu.Lock()
			d.breaks = nil
			d.mu.Unlock()
			log.Print("cleared breaks")
			return d.run.Debug("clear", 0)
		}
		s, ok := d.symbols().resolve(arg)
		if !ok {
			return fmt.Errorf("invalid address %q", arg)
		}
		d.mu.Lock()
		d.breaks = append(d.breaks, s)
		d.mu.Unlock()
		log.Printf("set break %.3x", s.addr)
		return d.run.Debug("break", s.addr)
	case "w", "w2", "watch", "watch2":
		if !hasArg {
			d.mu.Lock()
			d.watches = nil
			d.mu.Unlock()
			log.Print("cleared watches")
			return nil
		}
		s, ok := d.symbols().resolve(arg)
		if !ok {
			return fmt.Errorf("invalid address %q", arg)
		}
		word := strings.HasSuffix(cmd, "2")
		if word && s.addr >= chip8.MemSize-1 {
			return fmt.Errorf("invalid word address %.3x", s.addr)
		}
		d.mu.Lock()
		d.watches = append(d.watches, watch{symbol: s, word: word})
		d.mu.Unlock()
		log.Printf("watching %.3x", s.addr)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (d *debugger) Run() error { return d.app.Run() }

func (d *debugger) StateFunc(m *chip8.Machine, k host.StateKind) {
	var (
		watch = d.watchContent(m)
		state = stateMsg(d.symbols(), m, k)
	)
	d.app.QueueUpdateDraw(func() {
		switch k {
		case host.RunState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case host.BreakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case host.PauseState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case host.HaltState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		d.state.SetText(state)
	})
}

func stateMsg(syms symbols, m *chip8.Machine, k host.StateKind) string {
	var (
		inst  = "????"
		pcSym string
		sym   string
	)
	if int(m.PC)+1 < chip8.MemSize {
		w := uint16(m.Mem[m.PC])<<8 | uint16(m.Mem[m.PC+1])
		if in, err := chip8.Decode(w); err == nil {
			inst = in.String()
		} else {
			inst = fmt.Sprintf("%.4x ???", w)
		}
	}
	if s := syms.forAddr(m.PC); len(s) > 0 {
		pcSym = s[0].String() + " -> "
	}
	if addr, ok := operandAddr(m); ok {
		if s := syms.forAddr(addr); len(s) > 0 {
			sym = s[0].String()
		}
	}
	kind := "       "
	switch k {
	case host.BreakState:
		kind = "[break]"
	case host.PauseState:
		kind = "[pause]"
	case host.HaltState:
		kind = "[HALT!]"
	}
	wait := ""
	if m.Waiting() {
		wait = " (waiting for key)"
	}
	ret := "---"
	if addr, ok := m.Stack.Peek(); ok {
		ret = fmt.Sprintf("%.3x", addr)
		if s := syms.forAddr(addr); len(s) > 0 {
			ret = s[0].String()
		}
	}
	return fmt.Sprintf("%.3x %-16s %s %s%s%s\nV: % x\nI: %.3x  DT: %.2x  ST: %.2x  ret: %s  stack: %v\n",
		m.PC, inst, kind, pcSym, sym, wait, m.V[:], m.I, m.DT, m.ST, ret, m.Stack)
}

func (d *debugger) watchContent(m *chip8.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	for _, s := range d.breaks {
		fmt.Fprintf(&b, "%s [%.3x] brk!\n", s.label, s.addr)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s [%.3x] ", w.label, w.addr)
		if w.word {
			fmt.Fprintf(&b, "%.2x%.2x", m.Mem[w.addr], m.Mem[w.addr+1])
		} else {
			fmt.Fprintf(&b, "  %.2x", m.Mem[w.addr])
		}
	}
	return b.String()
}
