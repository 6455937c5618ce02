// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"bytes"
	"strings"
	"testing"

	"go8t/asm"
	"go8t/vm"
)

func newTestMonitor(t *testing.T) (*Monitor, *FeedSerial) {
	t.Helper()
	src := `
FF -> ACC
01 -> ACC.plus
5F -> LED
`
	r, err := asm.Assemble(strings.NewReader(src), false)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	serial := NewFeedSerial()
	m, err := vm.NewMachine(r.Code, serial)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return New(m, serial), serial
}

func runLines(t *testing.T, mon *Monitor, lines string) string {
	t.Helper()
	var out bytes.Buffer
	mon.RunCommands(strings.NewReader(lines), &out, false)
	return out.String()
}

func TestMonitorRegistersAndStep(t *testing.T) {
	mon, _ := newTestMonitor(t)
	out := runLines(t, mon, "step 4\nregisters\n")

	if !strings.Contains(out, "A=00") {
		t.Errorf("output missing accumulator after FF+01 wraps to 0: %q", out)
	}
	if !strings.Contains(out, "LED=5F") {
		t.Errorf("output missing LED write: %q", out)
	}
}

func TestMonitorMemoryDump(t *testing.T) {
	mon, _ := newTestMonitor(t)
	out := runLines(t, mon, "memory dump 0 4\n")
	if !strings.Contains(out, "0000-") {
		t.Errorf("expected a dump line starting at $0000: %q", out)
	}
}

func TestMonitorSetRegister(t *testing.T) {
	mon, _ := newTestMonitor(t)
	runLines(t, mon, "set led 7\n")
	if mon.m.Led != 0x07 {
		t.Errorf("LED = %#x, want 0x07", mon.m.Led)
	}
}

func TestMonitorSerialFeedAndOutput(t *testing.T) {
	mon, serial := newTestMonitor(t)
	runLines(t, mon, "serial feed 01 02 03\n")

	b, err := serial.Read()
	if err != nil || b != 0x01 {
		t.Fatalf("Read() = %#x, %v; want 0x01, nil", b, err)
	}

	if err := serial.Write(0xAB); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := runLines(t, mon, "serial output\n")
	if !strings.Contains(out, "AB") {
		t.Errorf("expected queued output byte AB in %q", out)
	}
}

func TestMonitorQuitStopsLoop(t *testing.T) {
	mon, _ := newTestMonitor(t)
	var out bytes.Buffer
	mon.RunCommands(strings.NewReader("quit\nregisters\n"), &out, false)
	if strings.Contains(out.String(), "A=") {
		t.Errorf("a command after quit should never run: %q", out.String())
	}
}
