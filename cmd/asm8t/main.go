// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command asm8t assembles an 8-bit accumulator machine program from
// symbolic source into a raw bytecode image.
package main

import (
	"flag"
	"fmt"
	"os"

	"go8t/asm"
)

func main() {
	verbose := flag.Bool("v", false, "log each assembly pass to stdout")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: asm8t [-v] <input.asm> <output.bin>")
		os.Exit(1)
	}
	inputPath, outputPath := args[0], args[1]

	in, err := os.Open(inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer in.Close()

	result, err := asm.Assemble(in, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	if _, err := out.Write(result.Code); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Assembled %s to %s (%d bytes, %d label(s)).\n",
		inputPath, outputPath, len(result.Code), len(result.Labels))
}
