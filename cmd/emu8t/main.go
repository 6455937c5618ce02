// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command emu8t runs an 8-bit accumulator machine bytecode image,
// either free-running to completion or, with -mon, inside the
// interactive monitor shell.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"go8t/monitor"
	"go8t/vm"
)

// stdioSerial binds the SER source/destination directly to the
// process's stdin/stdout, one byte at a time. Per SPEC_FULL.md's
// serial-EOF decision, a closed or exhausted stream surfaces as an
// error rather than blocking the machine forever.
type stdioSerial struct {
	in  *bufio.Reader
	out *bufio.Writer
}

func newStdioSerial() *stdioSerial {
	return &stdioSerial{
		in:  bufio.NewReader(os.Stdin),
		out: bufio.NewWriter(os.Stdout),
	}
}

func (s *stdioSerial) Read() (byte, error) {
	return s.in.ReadByte()
}

func (s *stdioSerial) Write(b byte) error {
	if err := s.out.WriteByte(b); err != nil {
		return err
	}
	return s.out.Flush()
}

func main() {
	mon := flag.Bool("mon", false, "drop into the interactive monitor instead of free-running")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: emu8t [-mon] <program.bin>")
		os.Exit(1)
	}

	code, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *mon {
		serial := monitor.NewFeedSerial()
		m, err := vm.NewMachine(code, serial)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		monitor.New(m, serial).RunCommands(os.Stdin, os.Stdout, true)
		return
	}

	m, err := vm.NewMachine(code, newStdioSerial())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lastLed := m.Led
	for {
		if err := m.Step(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if m.Led != lastLed {
			fmt.Fprintf(os.Stderr, "LED -> $%02X\n", m.Led)
			lastLed = m.Led
		}
	}
}
