package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...";
// the teacher's own binaries (go-tools, devshell) carry no version
// command at all, so this one instead follows cobra's own documented
// convention for a version subcommand.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the xslt CLI version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}
