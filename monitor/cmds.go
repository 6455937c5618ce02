// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree("go8t-monitor")
	root.AddCommand(cmd.Command{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Monitor).cmdHelp,
	})
	root.AddCommand(cmd.Command{
		Name:  "registers",
		Brief: "Display machine state",
		Description: "Display the accumulator, flags, program counter," +
			" LED port, and the instruction at the current program counter.",
		Usage: "registers",
		Data:  (*Monitor).cmdRegisters,
	})

	// Memory commands.
	mem := cmd.NewTree("Memory")
	root.AddCommand(cmd.Command{
		Name:    "memory",
		Brief:   "Memory commands",
		Subtree: mem,
	})
	mem.AddCommand(cmd.Command{
		Name:  "dump",
		Brief: "Dump RAM at an address",
		Description: "Dump the contents of RAM starting from the" +
			" specified address. The number of bytes to dump may be" +
			" given as an option; if no address is given, the dump" +
			" continues from where the last one left off.",
		Usage: "memory dump [<address>] [<bytes>]",
		Data:  (*Monitor).cmdMemoryDump,
	})

	root.AddCommand(cmd.Command{
		Name:        "led",
		Brief:       "Display the LED port's value",
		Description: "Display the byte last written to the LED destination.",
		Usage:       "led",
		Data:        (*Monitor).cmdLed,
	})

	// Serial commands.
	ser := cmd.NewTree("Serial")
	root.AddCommand(cmd.Command{
		Name:    "serial",
		Brief:   "Serial port commands",
		Subtree: ser,
	})
	ser.AddCommand(cmd.Command{
		Name:  "feed",
		Brief: "Queue bytes for the program to read from SER",
		Description: "Queue one or more hexadecimal byte values for the" +
			" running program's next reads from the serial source.",
		Usage: "serial feed <byte> [<byte> ...]",
		Data:  (*Monitor).cmdSerialFeed,
	})
	ser.AddCommand(cmd.Command{
		Name:        "output",
		Brief:       "Display bytes the program wrote to SER",
		Description: "Display and clear the bytes the program has written to the serial destination.",
		Usage:       "serial output",
		Data:        (*Monitor).cmdSerialOutput,
	})

	root.AddCommand(cmd.Command{
		Name:  "step",
		Brief: "Step the machine",
		Description: "Execute a single operation at the current program" +
			" counter. The number of steps may be given as an option.",
		Usage: "step [<count>]",
		Data:  (*Monitor).cmdStep,
	})
	root.AddCommand(cmd.Command{
		Name:  "run",
		Brief: "Run the machine",
		Description: "Run the machine until it hits a decode or I/O" +
			" error, or until interrupted.",
		Usage: "run",
		Data:  (*Monitor).cmdRun,
	})
	root.AddCommand(cmd.Command{
		Name:  "load",
		Brief: "Load a bytecode image",
		Description: "Load a bytecode image file from disk and reset the" +
			" machine to run it from the start.",
		Usage: "load <filename>",
		Data:  (*Monitor).cmdLoad,
	})
	root.AddCommand(cmd.Command{
		Name:  "set",
		Brief: "Set a register or configuration variable",
		Description: "Set the value of a register (A, PC, PCL, CARRY," +
			" ONE, LED) or a configuration variable. Called without" +
			" arguments, displays the current configuration variables.",
		Usage: "set [<name> <value>]",
		Data:  (*Monitor).cmdSet,
	})
	root.AddCommand(cmd.Command{
		Name:        "quit",
		Brief:       "Quit the monitor",
		Description: "Quit the monitor.",
		Usage:       "quit",
		Data:        (*Monitor).cmdQuit,
	})

	root.AddShortcut("r", "registers")
	root.AddShortcut(".", "registers")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("s", "step")
	root.AddShortcut("l", "load")
	root.AddShortcut("q", "quit")
	root.AddShortcut("?", "help")

	cmds = root
}
