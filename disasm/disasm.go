// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a disassembler for the 8-bit accumulator
// machine's bytecode: the mirror image of package asm's encode step.
package disasm

import (
	"fmt"

	"go8t/vm"
)

var hex = "0123456789ABCDEF"

// hexString returns a hexadecimal string representation of b.
func hexString(b []byte) string {
	s := make([]byte, len(b)*2)
	for i, n := range b {
		s[i*2+0] = hex[n>>4]
		s[i*2+1] = hex[n&0xf]
	}
	return string(s)
}

// A Line is one disassembled operation, or a trailing decode error if
// the byte stream ends mid-operation.
type Line struct {
	Addr uint16
	Text string
	Code string
}

// Disassemble walks code from offset 0, decoding one operation per
// line until the bytes are exhausted or a decode error occurs. A
// decode error terminates the listing with one final Line describing
// the failure.
func Disassemble(code []byte) []Line {
	var lines []Line
	offset := 0
	for offset < len(code) {
		op, n, err := vm.Decode(code, offset)
		if err != nil {
			lines = append(lines, Line{Addr: uint16(offset), Text: fmt.Sprintf("; %v", err)})
			return lines
		}
		lines = append(lines, Line{
			Addr: uint16(offset),
			Text: format(op),
			Code: hexString(code[offset : offset+n]),
		})
		offset += n
	}
	return lines
}

// format renders op in the same surface syntax package asm parses,
// e.g. "5F -> LED" or "00 -> PC.latch : if_1". Since the decoder
// never recovers label names, label-valued sources always render as
// their resolved immediate byte.
func format(op vm.Operation) string {
	s := sourceString(op.Src) + " -> " + destString(op.Dest.Kind)
	if cond := conditionString(op); cond != "" {
		s += " : " + cond
	}
	return s
}

func sourceString(src vm.Source) string {
	switch src.Kind {
	case vm.SourceAccumulator:
		return "ACC"
	case vm.SourceMemory:
		return "RAM"
	case vm.SourceOperand:
		return hexString([]byte{src.Imm})
	default:
		// SourceExpansion: "SER" is the only surface spelling that
		// assembles to this tag, so it's the canonical rendering even
		// though raw bytecode can reach tag 00 without ever having
		// been assembled from "SER -> ...".
		return "SER"
	}
}

func destString(k vm.DestKind) string {
	switch k {
	case vm.DestMemory:
		return "RAM"
	case vm.DestAccumulatorPlus:
		return "ACC.plus"
	case vm.DestAccumulatorNand:
		return "ACC.nand"
	case vm.DestAccumulator:
		return "ACC"
	case vm.DestProgramCounterLatch:
		return "PC.latch"
	case vm.DestProgramCounter:
		return "PC"
	case vm.DestMemAddressLo:
		return "RAM.low"
	case vm.DestMemAddressHi:
		return "RAM.high"
	case vm.DestSerial:
		return "SER"
	case vm.DestLed:
		return "LED"
	case vm.DestCarrySet:
		return "carry.set"
	case vm.DestCarryReset:
		return "carry.reset"
	case vm.DestExpansionSelect:
		// Unreachable through the assembler grammar (no surface token
		// names this destination); only hand-crafted bytecode reaches it.
		return "EXP.select"
	default:
		return "?"
	}
}

func conditionString(op vm.Operation) string {
	switch {
	case op.CondOne && op.CondCarry:
		return "if_1 | if_carry"
	case op.CondOne:
		return "if_1"
	case op.CondCarry:
		return "if_carry"
	default:
		return ""
	}
}
