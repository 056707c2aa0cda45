package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Streaming XSLT 2.0/3.0 transformation engine CLI",
	Long: "xslt drives the transformation engine: parse a source document, " +
		"apply a compiled stylesheet, and serialize the result.\n\n" +
		"Stylesheet compilation is outside the engine's core (see DESIGN.md) — " +
		"the transform command runs whatever CompiledStylesheet the chosen " +
		"entry point builds, falling back to the engine's built-in template " +
		"rules when none is supplied.",
}

func init() {
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(versionCmd)
}
