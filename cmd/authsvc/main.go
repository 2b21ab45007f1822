// Command authsvc runs the session authentication service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "authsvc"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   serviceName,
		Short: "User authentication service with pluggable session strategies",
		Long: `authsvc serves user registration, login sessions and password resets,
plus an /api/v1 surface protected by the configured auth strategy
(none, basic_auth, session_auth, session_exp_auth, session_db_auth or
bearer_auth).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), versionCmd())
	return root
}
