package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pablor21/annomodel"
)

func newScanCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [patterns...]",
		Short: "Scan packages and print enum-valued annotation parameters",
		Long: `Scan loads the given packages (import paths, ./... patterns or file globs,
a leading '!' excludes) and prints every annotation parameter whose value is
an enum constant, followed by the types declaring those constants.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Scanning.Packages = args
			}
			res, err := annomodel.ProcessWithConfig(cmd.Context(), cfg)
			if res == nil {
				return err
			}
			if perr := printResult(cmd.OutOrStdout(), res); perr != nil {
				return errors.Join(err, perr)
			}
			return err
		},
	}
}

func printResult(w io.Writer, res *annomodel.Result) error {
	for _, p := range res.Params {
		name := p.Annotation.Name
		if p.Param != "" {
			name += "." + p.Param
		}
		if _, err := fmt.Fprintf(w, "%s @%s = %s\n", p.Target, name, p.Value); err != nil {
			return err
		}
	}
	classes := res.Graph.Classes()
	if _, err := fmt.Fprintf(w, "\n%d classes\n", len(classes)); err != nil {
		return err
	}
	for _, ci := range classes {
		if _, err := fmt.Fprintf(w, "  %s\n", ci.CanonicalName()); err != nil {
			return err
		}
	}
	return nil
}
