// Command variantselect runs variant selection over a YAML scenario and
// reports the outcome. It is a presentation layer over resolved variant
// data: it never downloads or transforms artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	variantselect "github.com/albertocavalcante/go-variantselect"
	"github.com/albertocavalcante/go-variantselect/matching"
	"github.com/albertocavalcante/go-variantselect/scenario"
	"github.com/albertocavalcante/go-variantselect/transform"
)

var explain bool

func main() {
	root := &cobra.Command{
		Use:           "variantselect",
		Short:         "Select artifact variants by attribute matching and transform chains",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&explain, "explain", false, "log matching decisions to stderr")
	root.AddCommand(selectCmd(), chainsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <scenario.yaml>",
		Short: "Run a selection scenario and print the selected artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			opts, cleanup, err := explainOptions()
			if err != nil {
				return err
			}
			defer cleanup()

			selector, err := variantselect.NewSelector(nil, sc.Registry, opts...)
			if err != nil {
				return err
			}

			result := selector.Select(sc.Producer, sc.Requested, sc.AllowNoMatch)
			switch {
			case result.Failed():
				return result.Failure
			case result.Empty():
				fmt.Fprintf(cmd.OutOrStdout(), "no matching variant of %s (empty result allowed)\n", sc.Producer.Name)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "selected variant %s of %s\n", result.SelectedVariant.Name, sc.Producer.Name)
				if result.TransformedVariant != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "via transform chain: %s\n", result.TransformedVariant.Chain())
				}
				for _, a := range result.Artifacts {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", a.Name)
				}
			}
			return nil
		},
	}
}

func chainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains <scenario.yaml>",
		Short: "List the candidate transform chains for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			matcher := matching.NewMatcher(sc.Producer.Schema, nil)
			finder := transform.NewChainFinder(sc.Registry, matcher, 0)

			roots := make([]matching.Candidate, len(sc.Producer.Variants))
			for i, v := range sc.Producer.Variants {
				roots[i] = v
			}
			requested := sc.Requested.Concat(sc.Producer.OverriddenAttributes)
			chains := finder.FindTransformedVariants(roots, requested)
			if len(chains) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no transform chains found")
				return nil
			}
			for _, c := range chains {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  [fingerprint %s]\n", c, transform.FingerprintOf(c))
			}
			return nil
		},
	}
}

// explainOptions returns the selector options implied by --explain, plus
// a cleanup that flushes the logger.
func explainOptions() ([]variantselect.Option, func(), error) {
	if !explain {
		return nil, func() {}, nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	opts := []variantselect.Option{
		variantselect.WithLogger(logger),
		variantselect.WithExplanation(matching.LogExplanation(logger)),
	}
	return opts, func() { _ = logger.Sync() }, nil
}
