// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements the parser and two-pass assembler for the
// 8-bit accumulator machine's symbolic assembly language.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go8t/vm"
)

// Error describes a single source line that the parser or assembler
// rejected. Line is the 1-based line number of the offending source.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Statement is a single parsed line of source: either a label
// declaration (Label non-empty) or an operation (Op non-nil). Line is
// the originating 1-based line number, kept for diagnostics.
type Statement struct {
	Label string
	Op    *vm.Operation
	Line  int
}

func (s *Statement) isLabel() bool {
	return s.Label != ""
}

// ParseLine parses one line of source text. It returns a nil statement
// (and nil error) for blank lines, whitespace-only lines, and lines
// beginning with "//" or "%".
func ParseLine(row int, text string) (*Statement, error) {
	l := newFstring(row, text).consumeWhitespace()

	if l.isEmpty() || l.startsWithString("//") || l.startsWithString("%") {
		return nil, nil
	}

	if label, ok := tryParseLabel(l); ok {
		return &Statement{Label: label, Line: row}, nil
	}

	op, err := parseOperation(l)
	if err != nil {
		return nil, &Error{Line: row, Msg: err.Error()}
	}
	return &Statement{Op: &op, Line: row}, nil
}

// tryParseLabel recognizes "name:" with no space before the colon, per
// the grammar's label production. It does not consume trailing text.
func tryParseLabel(l fstring) (string, bool) {
	if !l.startsWith(labelChar) {
		return "", false
	}
	name, remain := l.consumeWhile(labelChar)
	if !remain.startsWithChar(':') {
		return "", false
	}
	return name.String(), true
}

// parseOperation parses "source WS -> WS destination [ WS : WS conditions ]".
// Trailing text after a valid operation is accepted and ignored; it is
// the end-of-line-comment convention.
func parseOperation(l fstring) (vm.Operation, error) {
	src, remain, err := parseSource(l)
	if err != nil {
		return vm.Operation{}, err
	}

	remain = remain.consumeWhitespace()
	if !remain.startsWithString("->") {
		return vm.Operation{}, fmt.Errorf("expected '->'")
	}
	remain = remain.consume(2).consumeWhitespace()

	dest, remain, err := parseDestination(remain)
	if err != nil {
		return vm.Operation{}, err
	}
	op := vm.Operation{Src: src, Dest: dest}

	afterDest := remain.consumeWhitespace()
	if afterDest.startsWithChar(':') {
		condOne, condCarry, err := parseConditions(afterDest.consume(1).consumeWhitespace())
		if err != nil {
			return vm.Operation{}, err
		}
		op.CondOne, op.CondCarry = condOne, condCarry
	}

	return op, nil
}

// parseSource recognizes the source grammar alternatives, in the order
// the EBNF requires. Order matters for "ACC": its first two letters are
// hex digits, so it must be tried before the hex-byte alternative.
func parseSource(l fstring) (vm.Source, fstring, error) {
	switch {
	case l.startsWithString("SER"):
		// "SER" has no spare opcode tag of its own: it assembles to the
		// same tag (00) as Expansion, since the encoding has room for
		// only four distinct source tags. vm.Machine.pull's Expansion
		// arm performs the live serial read this token means.
		return vm.Source{Kind: vm.SourceExpansion}, l.consume(3), nil
	case l.startsWithString("ACC"):
		return vm.Source{Kind: vm.SourceAccumulator}, l.consume(3), nil
	case l.startsWithString("RAM"):
		return vm.Source{Kind: vm.SourceMemory}, l.consume(3), nil
	case l.startsWithString("lo@"):
		name, remain := l.consume(3).consumeWhile(labelChar)
		if name.isEmpty() {
			return vm.Source{}, l, fmt.Errorf("expected a label name after 'lo@'")
		}
		return vm.Source{Kind: vm.SourceLabelLo, Label: name.String()}, remain, nil
	case l.startsWithString("hi@"):
		name, remain := l.consume(3).consumeWhile(labelChar)
		if name.isEmpty() {
			return vm.Source{}, l, fmt.Errorf("expected a label name after 'hi@'")
		}
		return vm.Source{Kind: vm.SourceLabelHi, Label: name.String()}, remain, nil
	case l.startsWithChar('\''):
		if len(l.str) < 3 || l.str[2] != '\'' {
			return vm.Source{}, l, fmt.Errorf("malformed character literal")
		}
		return vm.Source{Kind: vm.SourceOperand, Imm: l.str[1]}, l.consume(3), nil
	case l.startsWith(hexadecimal):
		if len(l.str) < 2 || !hexadecimal(l.str[1]) {
			return vm.Source{}, l, fmt.Errorf("malformed hex byte")
		}
		return vm.Source{Kind: vm.SourceOperand, Imm: hexToByte(l.str[:2])}, l.consume(2), nil
	default:
		return vm.Source{}, l, fmt.Errorf("unrecognized source")
	}
}

// parseDestination recognizes the destination grammar alternatives.
// Order matters here: "RAM.low"/"RAM.high" must be tried before the
// bare "RAM", "ACC.plus"/"ACC.nand" before the bare "ACC", and
// "PC.latch" before the bare "PC".
func parseDestination(l fstring) (vm.Destination, fstring, error) {
	switch {
	case l.startsWithString("RAM.low"):
		return vm.Destination{Kind: vm.DestMemAddressLo}, l.consume(7), nil
	case l.startsWithString("RAM.high"):
		return vm.Destination{Kind: vm.DestMemAddressHi}, l.consume(8), nil
	case l.startsWithString("RAM"):
		return vm.Destination{Kind: vm.DestMemory}, l.consume(3), nil
	case l.startsWithString("ACC.plus"):
		return vm.Destination{Kind: vm.DestAccumulatorPlus}, l.consume(8), nil
	case l.startsWithString("ACC.nand"):
		return vm.Destination{Kind: vm.DestAccumulatorNand}, l.consume(8), nil
	case l.startsWithString("ACC"):
		return vm.Destination{Kind: vm.DestAccumulator}, l.consume(3), nil
	case l.startsWithString("PC.latch"):
		return vm.Destination{Kind: vm.DestProgramCounterLatch}, l.consume(8), nil
	case l.startsWithString("PC"):
		return vm.Destination{Kind: vm.DestProgramCounter}, l.consume(2), nil
	case l.startsWithString("LED"):
		return vm.Destination{Kind: vm.DestLed}, l.consume(3), nil
	case l.startsWithString("carry.set"):
		return vm.Destination{Kind: vm.DestCarrySet}, l.consume(9), nil
	case l.startsWithString("carry.reset"):
		return vm.Destination{Kind: vm.DestCarryReset}, l.consume(11), nil
	case l.startsWithString("SER"):
		return vm.Destination{Kind: vm.DestSerial}, l.consume(3), nil
	default:
		return vm.Destination{}, l, fmt.Errorf("unrecognized destination")
	}
}

// parseConditions recognizes the four condition alternatives. Both
// orderings of the two-flag disjunction are accepted, matching the
// grammar's explicit "if_carry | if_1" and "if_1 | if_carry" forms.
func parseConditions(l fstring) (condOne, condCarry bool, err error) {
	switch {
	case l.startsWithString("if_carry"):
		remain := l.consume(8).consumeWhitespace()
		if !remain.startsWithChar('|') {
			return false, true, nil
		}
		remain = remain.consume(1).consumeWhitespace()
		if !remain.startsWithString("if_1") {
			return false, false, fmt.Errorf("expected 'if_1' after 'if_carry |'")
		}
		return true, true, nil
	case l.startsWithString("if_1"):
		remain := l.consume(4).consumeWhitespace()
		if !remain.startsWithChar('|') {
			return true, false, nil
		}
		remain = remain.consume(1).consumeWhitespace()
		if !remain.startsWithString("if_carry") {
			return false, false, fmt.Errorf("expected 'if_carry' after 'if_1 |'")
		}
		return true, true, nil
	default:
		return false, false, fmt.Errorf("expected a condition ('if_1' or 'if_carry')")
	}
}

// needsImmediate reports whether a source kind consumes a following
// immediate byte in the bytecode stream.
func needsImmediate(k vm.SourceKind) bool {
	switch k {
	case vm.SourceOperand, vm.SourceLabelLo, vm.SourceLabelHi:
		return true
	default:
		return false
	}
}

// Result is the output of a successful assembly.
type Result struct {
	Code   []byte            // the assembled bytecode image, prologue included
	Labels map[string]uint16 // label name -> resolved byte offset
}

// assembler holds the transient state of a single Assemble call.
type assembler struct {
	verbose    bool
	statements []Statement
	labels     map[string]uint16
	code       []byte
}

// Assemble reads line-oriented source from r and assembles it into a
// bytecode image. The image always begins with the synthetic prologue
// byte 0x4C. An empty program (no statements at all) is an error.
func Assemble(r io.Reader, verbose bool) (*Result, error) {
	a := &assembler{verbose: verbose, labels: make(map[string]uint16)}

	a.logSection("Parsing assembly code")
	if err := a.parse(r); err != nil {
		return nil, err
	}
	if len(a.statements) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	a.logSection("Resolving labels")
	if err := a.resolveLabels(); err != nil {
		return nil, err
	}

	a.logSection("Generating code")
	if err := a.generateCode(); err != nil {
		return nil, err
	}

	return &Result{Code: a.code, Labels: a.labels}, nil
}

func (a *assembler) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	row := 1
	for scanner.Scan() {
		text := scanner.Text()
		stmt, err := ParseLine(row, text)
		if err != nil {
			return err
		}
		if stmt != nil {
			a.logLine(row, text)
			a.statements = append(a.statements, *stmt)
		}
		row++
	}
	return scanner.Err()
}

// resolveLabels is pass 1: compute each label's byte offset under a
// running program counter. The counter starts at 1, not 0, because the
// synthetic prologue already occupies offset 0 before any user
// statement is considered.
func (a *assembler) resolveLabels() error {
	pc := uint16(1)
	for _, stmt := range a.statements {
		if stmt.isLabel() {
			if _, exists := a.labels[stmt.Label]; exists {
				return &Error{Line: stmt.Line, Msg: fmt.Sprintf("label %q repeated", stmt.Label)}
			}
			a.labels[stmt.Label] = pc
			a.log("%-20s -> $%04X", stmt.Label, pc)
			continue
		}
		pc += uint16(stmt.Op.Size())
	}
	return nil
}

// generateCode is pass 2: emit the prologue byte, then walk the
// statements again, emitting each operation's opcode byte and any
// immediate it requires, resolving label references along the way.
func (a *assembler) generateCode() error {
	a.code = append(a.code, vm.PrologueByte)

	for _, stmt := range a.statements {
		if stmt.isLabel() {
			continue
		}
		op := *stmt.Op

		if needsImmediate(op.Src.Kind) && op.Dest.Kind == vm.DestMemory {
			return &Error{Line: stmt.Line, Msg: "forbidden instruction: immediate source cannot write to memory"}
		}

		addr := len(a.code)
		a.code = append(a.code, op.Encode())

		if needsImmediate(op.Src.Kind) {
			imm, err := a.immediateByte(op.Src, stmt.Line)
			if err != nil {
				return err
			}
			a.code = append(a.code, imm)
		}

		a.logBytes(addr, a.code[addr:])
	}
	return nil
}

func (a *assembler) immediateByte(src vm.Source, line int) (byte, error) {
	switch src.Kind {
	case vm.SourceOperand:
		return src.Imm, nil
	case vm.SourceLabelLo, vm.SourceLabelHi:
		addr, ok := a.labels[src.Label]
		if !ok {
			return 0, &Error{Line: line, Msg: fmt.Sprintf("unrecognized label %q", src.Label)}
		}
		if src.Kind == vm.SourceLabelLo {
			return byte(addr), nil
		}
		return byte(addr >> 8), nil
	default:
		return 0, nil
	}
}

// In verbose mode, log a string to standard output.
func (a *assembler) log(format string, args ...interface{}) {
	if a.verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// In verbose mode, log a source line as it's accepted into the
// statement list.
func (a *assembler) logLine(row int, text string) {
	if a.verbose {
		fmt.Printf("%4d | %s\n", row, text)
	}
}

// In verbose mode, log a run of emitted bytes with its starting offset.
func (a *assembler) logBytes(addr int, b []byte) {
	if a.verbose {
		a.log("%04X- %s", addr, byteString(b))
	}
}

// In verbose mode, log a section header.
func (a *assembler) logSection(name string) {
	if a.verbose {
		fmt.Println(strings.Repeat("-", len(name)+6))
		fmt.Printf("-- %s --\n", name)
		fmt.Println(strings.Repeat("-", len(name)+6))
	}
}
