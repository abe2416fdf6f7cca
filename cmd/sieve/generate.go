package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/sieve"
)

type generateOptions struct {
	count  int
	low    int
	high   int
	output string
	seed   uint64
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write random integers, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", sieve.DefaultGenerateCount, "number of values to write")
	cmd.Flags().IntVar(&opts.low, "min", sieve.DefaultGenerateMin, "smallest value (inclusive)")
	cmd.Flags().IntVar(&opts.high, "max", sieve.DefaultGenerateMax, "largest value (inclusive)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "numeros.txt", "output file, - for stdout")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed, 0 for a random sequence")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	var rng *rand.Rand
	if opts.seed != 0 {
		rng = rand.New(rand.NewPCG(opts.seed, opts.seed))
	}

	if opts.output == "-" {
		return sieve.Generate(cmd.OutOrStdout(), opts.count, opts.low, opts.high, rng)
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := sieve.Generate(f, opts.count, opts.low, opts.high, rng); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d values to %s\n", opts.count, opts.output)
	return nil
}
