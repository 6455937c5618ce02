// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monitor implements an interactive inspection shell for a
// loaded program: registers, memory dump, LED, serial feed, single
// stepping, free-running, and reloading a fresh bytecode image.
package monitor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/cmd"

	"go8t/disasm"
	"go8t/vm"
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
)

// Monitor wraps a running Machine with the interactive command shell.
type Monitor struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool

	m      *vm.Machine
	serial *FeedSerial

	lastCmd  *cmd.Selection
	state    state
	settings *settings
}

// New creates a monitor around an already-loaded machine. serial may be
// nil if the program never touches the SER source/destination.
func New(m *vm.Machine, serial *FeedSerial) *Monitor {
	return &Monitor{
		m:        m,
		serial:   serial,
		settings: newSettings(),
	}
}

// RunCommands accepts monitor commands from r and writes results to w.
// If interactive, a prompt is displayed before each line is read.
func (mon *Monitor) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	mon.input = bufio.NewScanner(r)
	mon.output = bufio.NewWriter(w)
	mon.interactive = interactive

	if interactive {
		mon.println()
		mon.displayPC()
	}

	for {
		mon.prompt()

		line, err := mon.getLine()
		if err != nil {
			break
		}

		if err := mon.processCommand(line); err != nil {
			break
		}
	}
}

func (mon *Monitor) processCommand(line string) error {
	var c cmd.Selection
	if line != "" {
		var err error
		c, err = cmds.Lookup(line)
		switch {
		case err == cmd.ErrNotFound:
			mon.println("Command not found.")
			return nil
		case err == cmd.ErrAmbiguous:
			mon.println("Command is ambiguous.")
			return nil
		case err != nil:
			mon.printf("ERROR: %v.\n", err)
			return nil
		}
	} else if mon.lastCmd != nil {
		c = *mon.lastCmd
	}

	if c.Command == nil {
		return nil
	}
	if c.Command.Data == nil && c.Command.Subtree != nil {
		mon.displayCommands(c.Command.Subtree)
		return nil
	}

	mon.lastCmd = &c

	handler := c.Command.Data.(func(*Monitor, cmd.Selection) error)
	return handler(mon, c)
}

func (mon *Monitor) printf(format string, args ...any) {
	fmt.Fprintf(mon.output, format, args...)
	mon.output.Flush()
}

func (mon *Monitor) println(args ...any) {
	fmt.Fprintln(mon.output, args...)
	mon.output.Flush()
}

func (mon *Monitor) getLine() (string, error) {
	if mon.input.Scan() {
		return mon.input.Text(), nil
	}
	if mon.input.Err() != nil {
		return "", mon.input.Err()
	}
	return "", io.EOF
}

func (mon *Monitor) prompt() {
	if !mon.interactive {
		return
	}
	mon.printf("* ")
}

func (mon *Monitor) displayPC() {
	if mon.interactive {
		mon.println(mon.disassembleAt(mon.m.PC.Get()))
	}
}

func (mon *Monitor) disassembleAt(addr uint16) string {
	lines := disasm.Disassemble(mon.m.Program())
	for _, l := range lines {
		if l.Addr == addr {
			return fmt.Sprintf("%04X- %-8s  %s", l.Addr, l.Code, l.Text)
		}
	}
	return fmt.Sprintf("%04X- (no instruction decoded here)", addr)
}

func (mon *Monitor) cmdHelp(c cmd.Selection) error {
	switch {
	case len(c.Args) == 0:
		mon.displayCommands(cmds)
	default:
		s, err := cmds.Lookup(strings.Join(c.Args, " "))
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		if s.Command.Usage != "" {
			mon.printf("Usage: %s\n\n", s.Command.Usage)
		}
		switch {
		case s.Command.Description != "":
			mon.printf("%s\n", s.Command.Description)
		case s.Command.Brief != "":
			mon.printf("%s.\n", s.Command.Brief)
		}
	}
	return nil
}

func (mon *Monitor) cmdRegisters(c cmd.Selection) error {
	mon.printf("A=%02X PC=%04X PCL=%02X CARRY=%v ONE=%v LED=%02X\n",
		mon.m.Acc, mon.m.PC.Get(), mon.m.PC.LatchValue(), mon.m.FlagCarry, mon.m.FlagOne, mon.m.Led)
	mon.displayPC()
	return nil
}

func (mon *Monitor) cmdMemoryDump(c cmd.Selection) error {
	addr := mon.settings.NextMemDumpAddr
	if len(c.Args) > 0 && c.Args[0] != "$" {
		a, err := parseAddr(c.Args[0])
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	count := mon.settings.MemDumpBytes
	if len(c.Args) > 1 {
		n, err := strconv.ParseUint(c.Args[1], 10, 16)
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		count = uint16(n)
	}

	mon.dumpMemory(addr, count)
	mon.settings.NextMemDumpAddr = addr + count
	return nil
}

func (mon *Monitor) dumpMemory(addr, count uint16) {
	for row := uint16(0); row < count; row += 16 {
		mon.printf("%04X- ", addr+row)
		line := make([]byte, 0, 16)
		for col := uint16(0); col < 16 && row+col < count; col++ {
			b := mon.m.Mem.Peek(addr + row + col)
			line = append(line, b)
			mon.printf("%02X ", b)
		}
		mon.printf(" %s\n", printableString(line))
	}
}

func printableString(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 0x20 && c < 0x7f {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

func (mon *Monitor) cmdLed(c cmd.Selection) error {
	mon.printf("LED = $%02X\n", mon.m.Led)
	return nil
}

func (mon *Monitor) cmdSerialFeed(c cmd.Selection) error {
	if mon.serial == nil {
		mon.println("No serial port attached to this machine.")
		return nil
	}
	if len(c.Args) == 0 {
		mon.println("Usage: serial feed <byte> [<byte> ...]")
		return nil
	}
	bytes := make([]byte, 0, len(c.Args))
	for _, a := range c.Args {
		n, err := strconv.ParseUint(a, 16, 8)
		if err != nil {
			mon.printf("invalid byte %q: %v\n", a, err)
			return nil
		}
		bytes = append(bytes, byte(n))
	}
	mon.serial.Feed(bytes)
	mon.printf("Queued %d byte(s) for serial input.\n", len(bytes))
	return nil
}

func (mon *Monitor) cmdSerialOutput(c cmd.Selection) error {
	if mon.serial == nil {
		mon.println("No serial port attached to this machine.")
		return nil
	}
	out := mon.serial.Output()
	if len(out) == 0 {
		mon.println("No serial output pending.")
		return nil
	}
	mon.printf("%s\n", hexString(out))
	return nil
}

func (mon *Monitor) cmdStep(c cmd.Selection) error {
	count := 1
	if len(c.Args) > 0 {
		n, err := strconv.Atoi(c.Args[0])
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		count = n
	}

	for i := 0; i < count; i++ {
		if err := mon.m.Step(); err != nil {
			mon.printf("Stopped: %v\n", err)
			break
		}
		if i < mon.settings.MaxStepLines {
			mon.displayPC()
		} else if i == mon.settings.MaxStepLines {
			mon.println("...")
		}
	}
	return nil
}

func (mon *Monitor) cmdRun(c cmd.Selection) error {
	mon.printf("Running from $%04X.\n", mon.m.PC.Get())
	mon.state = stateRunning
	for mon.state == stateRunning {
		if err := mon.m.Step(); err != nil {
			mon.printf("Stopped: %v\n", err)
			break
		}
	}
	mon.state = stateProcessingCommands
	mon.displayPC()
	return nil
}

func (mon *Monitor) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		mon.println("Usage: load <filename>")
		return nil
	}

	code, err := os.ReadFile(c.Args[0])
	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}

	m, err := vm.NewMachine(code, mon.serial)
	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}

	mon.m = m
	mon.printf("Loaded %d bytes from '%s'.\n", len(code), c.Args[0])
	mon.displayPC()
	return nil
}

func (mon *Monitor) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		mon.println("Settings:")
		mon.settings.Display(mon.output)
		mon.output.Flush()

	case 1:
		mon.println("Usage: set <name> <value>")

	default:
		key, value := strings.ToLower(c.Args[0]), c.Args[1]

		if f, err := registerTree.FindValue(key); err == nil {
			n, err := strconv.ParseUint(value, 16, 16)
			if err != nil {
				mon.printf("%v\n", err)
				return nil
			}
			f.set(mon.m, uint16(n))
			mon.println("Register updated.")
			return nil
		}

		switch mon.settings.Kind(key) {
		case reflect.Invalid:
			mon.printf("no register or setting named %q\n", key)
		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				mon.printf("%v\n", err)
				return nil
			}
			if err := mon.settings.Set(key, b); err != nil {
				mon.printf("%v\n", err)
				return nil
			}
			mon.println("Setting updated.")
		default:
			n, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				mon.printf("%v\n", err)
				return nil
			}
			if err := mon.settings.Set(key, uint16(n)); err != nil {
				mon.printf("%v\n", err)
				return nil
			}
			mon.println("Setting updated.")
		}
	}
	return nil
}

func (mon *Monitor) cmdQuit(c cmd.Selection) error {
	return errors.New("exiting monitor")
}

func (mon *Monitor) displayCommands(tree *cmd.Tree) {
	mon.printf("%s commands:\n", tree.Title)
	for _, c := range tree.Commands {
		if c.Brief != "" {
			mon.printf("    %-15s  %s\n", c.Name, c.Brief)
		}
	}
}

func parseAddr(s string) (uint16, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "$"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(n), nil
}

var hexDigits = "0123456789ABCDEF"

func hexString(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2+0] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}
