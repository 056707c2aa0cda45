package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var paramsFlags []string

// paramsCmd parses and echoes back a --param list, independent of a
// transform run, so a caller can validate key=value syntax (and catch
// duplicate names) before committing to a full transform invocation.
var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Parse and validate --param key=value arguments",
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := parseParamFlags(paramsFlags)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(parsed))
		for name := range parsed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %q\n", name, parsed[name])
		}
		return nil
	},
}

func init() {
	paramsCmd.Flags().StringArrayVar(&paramsFlags, "param", nil, "top-level stylesheet parameter as name=value (repeatable)")
}

// parseParamFlags turns a --param name=value list into a name->value
// map, rejecting malformed entries and duplicate names outright rather
// than silently letting the later one win.
func parseParamFlags(flags []string) (map[string]string, error) {
	out := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := splitParamFlag(f)
		if !ok {
			return nil, fmt.Errorf("invalid --param %q: expected name=value", f)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("duplicate --param %q", name)
		}
		out[name] = value
	}
	return out, nil
}

func splitParamFlag(f string) (name, value string, ok bool) {
	for i := 0; i < len(f); i++ {
		if f[i] == '=' {
			if i == 0 {
				return "", "", false
			}
			return f[:i], f[i+1:], true
		}
	}
	return "", "", false
}
