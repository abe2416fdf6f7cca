// Package main provides the sieve command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
)

func main() {
	root := newRootCommand()
	err := root.Execute()
	capitan.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sieve",
		Short: "Bounded producer/consumer pipeline classifying integers",
		Long: `sieve reads integers from a file, buffers them in a bounded queue and lets
even, odd and prime consumers take the values that match their category.

Commands:
  run       Run the pipeline until interrupted or the duration elapses
  generate  Write a file of random integers`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCommand())
	root.AddCommand(newGenerateCommand())
	return root
}
