// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"strings"

	"github.com/beevik/prefixtree/v2"

	"go8t/vm"
)

// regField describes one named, gettable/settable piece of machine
// state, keyed by a prefix-matched name the set command resolves
// through. The registers command reads the machine fields directly.
type regField struct {
	name string
	get  func(m *vm.Machine) uint16
	set  func(m *vm.Machine, v uint16)
}

var (
	registerTree   = prefixtree.New[*regField]()
	registerFields = []regField{
		{
			name: "A",
			get:  func(m *vm.Machine) uint16 { return uint16(m.Acc) },
			set:  func(m *vm.Machine, v uint16) { m.Acc = byte(v) },
		},
		{
			name: "PC",
			get:  func(m *vm.Machine) uint16 { return m.PC.Get() },
			set:  func(m *vm.Machine, v uint16) { m.PC.Set(v) },
		},
		{
			name: "PCL",
			get:  func(m *vm.Machine) uint16 { return uint16(m.PC.LatchValue()) },
			set:  func(m *vm.Machine, v uint16) { m.PC.Latch(byte(v)) },
		},
		{
			name: "CARRY",
			get:  func(m *vm.Machine) uint16 { return boolToUint16(m.FlagCarry) },
			set:  func(m *vm.Machine, v uint16) { m.FlagCarry = v != 0 },
		},
		{
			name: "ONE",
			get:  func(m *vm.Machine) uint16 { return boolToUint16(m.FlagOne) },
			set:  func(m *vm.Machine, v uint16) { m.FlagOne = v != 0 },
		},
		{
			name: "LED",
			get:  func(m *vm.Machine) uint16 { return uint16(m.Led) },
			set:  func(m *vm.Machine, v uint16) { m.Led = byte(v) },
		},
	}
)

func init() {
	for i := range registerFields {
		registerTree.Add(strings.ToLower(registerFields[i].name), &registerFields[i])
	}
}

func boolToUint16(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
