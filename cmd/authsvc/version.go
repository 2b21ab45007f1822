package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kbukum/sessionauth/version"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version.Short())
				return
			}
			v := version.Get()
			fmt.Fprintf(out, "Version:    %s\n", v.Version)
			fmt.Fprintf(out, "Commit:     %s\n", v.GitCommit)
			fmt.Fprintf(out, "Built:      %s\n", v.BuildTime)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")
	return cmd
}
