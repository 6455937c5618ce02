// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"errors"
)

// errNoInputFed is returned by FeedSerial.Read when the "serial feed"
// command hasn't queued a byte for the running program to consume.
// Unlike the CLI's stdin/stdout binding (vm.SerialPort doc comment),
// the monitor never blocks waiting for operator input mid-step.
var errNoInputFed = errors.New("monitor: no serial input queued; use 'serial feed'")

// FeedSerial is the vm.SerialPort the monitor binds to a running
// Machine. Input bytes are queued ahead of time by the "serial feed"
// command; output bytes are appended to a log the "serial output"
// command displays and clears.
type FeedSerial struct {
	in  []byte
	out []byte
}

// NewFeedSerial returns an empty serial port.
func NewFeedSerial() *FeedSerial {
	return &FeedSerial{}
}

// Feed appends bytes to the input queue a subsequent Read will drain.
func (f *FeedSerial) Feed(b []byte) {
	f.in = append(f.in, b...)
}

// Read implements vm.SerialPort.
func (f *FeedSerial) Read() (byte, error) {
	if len(f.in) == 0 {
		return 0, errNoInputFed
	}
	b := f.in[0]
	f.in = f.in[1:]
	return b, nil
}

// Write implements vm.SerialPort.
func (f *FeedSerial) Write(b byte) error {
	f.out = append(f.out, b)
	return nil
}

// Output returns and clears the bytes written by the program so far.
func (f *FeedSerial) Output() []byte {
	out := f.out
	f.out = nil
	return out
}
