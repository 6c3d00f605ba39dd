// Command desimctl provides the command-line interface for building,
// running, and monitoring desim models.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "desimctl",
	Short: "desimctl runs and inspects desim models.",
	Long: `desimctl runs and inspects desim models. Currently it supports ` +
		`running a bundled example model to completion and running one ` +
		`under the monitoring HTTP server.`,
}

// Execute adds all child commands to the root command, loads any .env file
// found in the working directory, and sets flags appropriately.
func Execute() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "desimctl: loading .env: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
