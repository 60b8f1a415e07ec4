package main

import (
	"fmt"
	"os"

	"github.com/treeform/nimmy/nimmy"
)

const usage = `usage: nimmy <file>
       nimmy -e <code>
       nimmy --help

Runs a nimmy script, or evaluates a literal code fragment with -e.`

func main() {
	if len(os.Args) < 2 || os.Args[1] == "--help" {
		fmt.Println(usage)
		if len(os.Args) < 2 {
			os.Exit(1)
		}
		return
	}

	vm := nimmy.NewVM()

	if os.Args[1] == "-e" {
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: -e requires a code argument")
			os.Exit(1)
		}
		runSource(vm, os.Args[2])
		return
	}

	source, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading file: %s\n", err)
		os.Exit(1)
	}
	runSource(vm, string(source))
}

func runSource(vm *nimmy.VM, source string) {
	out, err := vm.Run(source)
	if err != nil {
		if nerr, ok := err.(*nimmy.NimmyError); ok {
			fmt.Fprintln(os.Stderr, nerr.ShowSource(source))
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
	fmt.Print(out)
}
