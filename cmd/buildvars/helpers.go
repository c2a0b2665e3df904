package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tsukumogami/buildvars/internal/errmsg"
)

// printInfo prints an informational message unless quiet mode is enabled
func printInfo(a ...interface{}) {
	if !quietFlag {
		fmt.Println(a...)
	}
}

// printInfof prints a formatted informational message unless quiet mode is enabled
func printInfof(format string, a ...interface{}) {
	if !quietFlag {
		fmt.Printf(format, a...)
	}
}

// userOutput returns where build output goes: stdout, or nowhere in quiet mode.
func userOutput() io.Writer {
	if quietFlag {
		return io.Discard
	}
	return os.Stdout
}

// printError prints an error to stderr with suggestions if available.
func printError(err error) {
	errmsg.Fprint(os.Stderr, err)
}
