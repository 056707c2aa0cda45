// Command xslt drives the transformation engine from the command line:
// it parses a source document, applies a compiled stylesheet, and
// serializes the result. Grounded on go-tools/cmd/go-tools/main.go's
// minimal rootCmd.Execute() shape rather than devshell's dynamic
// DSL-tree dispatch, since this CLI's subcommand set is fixed, not
// data-driven.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "xslt:", err)
		os.Exit(1)
	}
}
