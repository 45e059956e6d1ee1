package main

import (
	"github.com/spf13/cobra"

	"mvvmgen/internal/driver"
)

type diagFlags struct {
	pipelineFlags
	warningsAsErrors bool
}

func newDiagCmd(a *app) *cobra.Command {
	var f diagFlags
	cmd := &cobra.Command{
		Use:   "diag [path]",
		Short: "Report generator and analyzer diagnostics without writing files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, opts, err := a.load(cmd, targetArg(args), &f.pipelineFlags)
			if err != nil {
				return err
			}
			if f.warningsAsErrors {
				opts.Config.Diagnostics.WarningsAsErrors = true
			}
			ds, err := driver.Diagnose(cmd.Context(), ws, opts)
			if err != nil {
				return err
			}
			if err := a.report(ws.Files, ds, f.format); err != nil {
				return err
			}
			if len(ds) == 0 {
				a.status("no diagnostics in %d files", len(ws.Docs))
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.warningsAsErrors, "warnings-as-errors", false, "report warnings as errors")
	return cmd
}
