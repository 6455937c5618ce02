// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import "testing"

func newTestMachine(t *testing.T, code []byte) *Machine {
	t.Helper()
	m, err := NewMachine(code, nil)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m
}

func step(t *testing.T, m *Machine) {
	t.Helper()
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

// Scenario C: accumulator arithmetic.
func TestAccumulatorArithmetic(t *testing.T) {
	code := []byte{
		PrologueByte,
		0xCC, 0xFF, // FF -> ACC
		0xC4, 0x01, // 01 -> ACC.plus
	}
	m := newTestMachine(t, code)
	step(t, m) // prologue
	step(t, m) // FF -> ACC
	step(t, m) // 01 -> ACC.plus

	if m.Acc != 0x00 {
		t.Errorf("acc = %#x, want 0x00", m.Acc)
	}
	if !m.FlagCarry {
		t.Error("flag_carry = false, want true")
	}
	if !m.FlagOne {
		t.Error("flag_one = false, want true (set by the prior ACC write of 0xFF)")
	}
}

// Scenario D: latched jump.
func TestLatchedJump(t *testing.T) {
	code := []byte{
		PrologueByte,
		0xD0, 0x02, // 02 -> PC.latch
		0xD4, 0x00, // 00 -> PC
	}
	m := newTestMachine(t, code)
	step(t, m) // prologue
	step(t, m) // 02 -> PC.latch
	step(t, m) // 00 -> PC

	if m.PC.Get() != 0x0200 {
		t.Errorf("pc = %#x, want 0x0200", m.PC.Get())
	}
}

// Scenario E: illegal instruction at runtime.
func TestIllegalInstructionAtRuntime(t *testing.T) {
	code := []byte{PrologueByte, 0xC0, 0x42}
	m := newTestMachine(t, code)
	step(t, m) // prologue

	err := m.Step()
	if err != ErrIllegalInstruction {
		t.Errorf("Step error = %v, want ErrIllegalInstruction", err)
	}
}

func TestFlagOneOnlyFromAccumulatorWrite(t *testing.T) {
	code := []byte{
		PrologueByte,
		0xCC, 0xFE, // FE -> ACC (not 0xFF: flag_one stays false)
		0xC4, 0x01, // 01 -> ACC.plus -> acc becomes 0xFF, but flag_one must NOT be set
	}
	m := newTestMachine(t, code)
	step(t, m)
	step(t, m)
	if m.FlagOne {
		t.Fatal("flag_one set after ACC write of 0xFE")
	}
	step(t, m)
	if m.Acc != 0xFF {
		t.Fatalf("acc = %#x, want 0xFF", m.Acc)
	}
	if m.FlagOne {
		t.Error("flag_one set by ACC.plus; it must be updated only by writes to ACC")
	}
}

func TestCarrySetResetIdempotence(t *testing.T) {
	set := Operation{Src: Source{Kind: SourceAccumulator}, Dest: Destination{Kind: DestCarrySet}}
	reset := Operation{Src: Source{Kind: SourceAccumulator}, Dest: Destination{Kind: DestCarryReset}}
	code := []byte{PrologueByte, set.Encode(), reset.Encode()}

	m := newTestMachine(t, code)
	m.FlagCarry = true
	step(t, m) // prologue
	step(t, m) // carry.set
	if !m.FlagCarry {
		t.Fatal("flag_carry = false after carry.set")
	}
	step(t, m) // carry.reset
	if m.FlagCarry {
		t.Error("flag_carry = true after carry.reset")
	}
}

func TestAccumulatorNandTruthTable(t *testing.T) {
	nand := Operation{Src: Source{Kind: SourceOperand, Imm: 0}, Dest: Destination{Kind: DestAccumulatorNand}}
	for _, tc := range []struct{ acc, v, want byte }{
		{0xFF, 0xFF, 0x00},
		{0x00, 0xFF, 0xFF},
		{0xFF, 0x00, 0xFF},
		{0x0F, 0xF0, 0xFF},
		{0xFF, 0xF0, 0x0F},
	} {
		nand.Src.Imm = tc.v
		m := newTestMachine(t, []byte{PrologueByte, nand.Encode(), tc.v})
		m.Acc = tc.acc
		step(t, m)
		step(t, m)
		if m.Acc != tc.want {
			t.Errorf("NOT(%#x AND %#x) = %#x, want %#x", tc.acc, tc.v, m.Acc, tc.want)
		}
	}
}

func TestConditionalDisjunction(t *testing.T) {
	op := Operation{
		Src:       Source{Kind: SourceOperand, Imm: 1},
		Dest:      Destination{Kind: DestLed},
		CondOne:   true,
		CondCarry: true,
	}
	m := newTestMachine(t, []byte{PrologueByte, op.Encode(), 1})

	m.FlagOne, m.FlagCarry = false, false
	step(t, m)
	step(t, m)
	if m.Led != 0 {
		t.Fatal("op executed with both flags clear")
	}

	m.PC.Set(1)
	m.FlagOne, m.FlagCarry = true, false
	step(t, m)
	if m.Led != 1 {
		t.Error("op with cond_one|cond_carry didn't execute when only flag_one was set")
	}
}

func TestMissingInitialNOP(t *testing.T) {
	_, err := NewMachine([]byte{0x00, 0x01}, nil)
	if err != ErrMissingInitialNOP {
		t.Errorf("err = %v, want ErrMissingInitialNOP", err)
	}
}

func TestPCAdvancesByConsumedBytes(t *testing.T) {
	code := []byte{PrologueByte, 0x40, 0xCC, 0x01}
	m := newTestMachine(t, code)
	step(t, m)
	if m.PC.Get() != 1 {
		t.Fatalf("pc after prologue = %d, want 1", m.PC.Get())
	}
	step(t, m) // ACC -> RAM (1 byte)
	if m.PC.Get() != 2 {
		t.Fatalf("pc = %d, want 2", m.PC.Get())
	}
	step(t, m) // 01 -> ACC (2 bytes)
	if m.PC.Get() != 4 {
		t.Fatalf("pc = %d, want 4", m.PC.Get())
	}
}
