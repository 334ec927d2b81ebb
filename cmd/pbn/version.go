// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Set with -ldflags at build time.
var (
	BuildBranch  string
	BuildVersion string
	BuildTime    string
	Builder      string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "show version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "\033[36m%-16s\033[0m %s\n", "BuildBranch", BuildBranch)
	fmt.Fprintf(w, "\033[36m%-16s\033[0m %s\n", "BuildVersion", BuildVersion)
	fmt.Fprintf(w, "\033[36m%-16s\033[0m %s\n", "BuildTime", BuildTime)
	fmt.Fprintf(w, "\033[36m%-16s\033[0m %s\n", "Builder", Builder)
}
