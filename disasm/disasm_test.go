// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm

import "testing"

func TestDisassembleScenarioA(t *testing.T) {
	code := []byte{0x4C, 0xE4, 0x5F, 0xD2, 0x00, 0xD0, 0x01, 0xD4, 0x00, 0xDB, 0x55, 0xDF, 0xFF, 0xD0, 0x0D}
	lines := Disassemble(code)

	want := []string{
		"ACC -> ACC",
		"5F -> LED",
		"00 -> PC.latch : if_1",
		"01 -> PC.latch",
		"00 -> PC",
		"55 -> RAM.low : if_1 | if_carry",
		"FF -> RAM.high : if_1 | if_carry",
		"0D -> PC.latch",
	}

	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Errorf("line %d = %q, want %q", i, lines[i].Text, w)
		}
	}
}

func TestDisassembleTruncated(t *testing.T) {
	code := []byte{0x4C, 0xC0}
	lines := Disassemble(code)
	last := lines[len(lines)-1]
	if last.Addr != 1 {
		t.Errorf("truncation reported at addr %d, want 1", last.Addr)
	}
}
