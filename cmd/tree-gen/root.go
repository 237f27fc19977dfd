// Package main implements the tree-gen command line tool.
package main

import (
	"github.com/spf13/cobra"

	"github.com/tree-gen/tree-gen/internal/cli"
)

// Version is injected at build time (see main.go); it drives the
// "requires" header directive's semver check (SPEC_FULL.md §3).
var Version = "dev"

// NewRootCmd builds the single tree-gen command: "tree-gen INPUT
// HEADER_OUT SOURCE_OUT [DYNAMIC_OUT]" (spec §6). There are no
// subcommands; the four positional slots and two ambient flags are the
// entire surface.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    int
	)

	root := &cobra.Command{
		Use:           "tree-gen INPUT HEADER_OUT SOURCE_OUT [DYNAMIC_OUT]",
		Short:         "tree-gen compiles a .tree description into a native object model and an optional dynamic-language model",
		Args:          cobra.RangeArgs(3, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := cli.Args{
				Input:       args[0],
				HeaderOut:   args[1],
				SourceOut:   args[2],
				ConfigPath:  configPath,
				Verbose:     -1,
				ToolVersion: Version,
			}
			if cmd.Flags().Changed("verbose") {
				a.Verbose = verbose
			}
			if len(args) == 4 {
				a.DynamicOut = args[3]
			}
			return cli.Run(a)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to an optional TOML config file")
	root.Flags().CountVarP(&verbose, "verbose", "v", "increase logging verbosity (repeatable: -v, -vv)")

	return root
}
