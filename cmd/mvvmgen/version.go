package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mvvmgen/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(versionPayload{
					Tool:      "mvvmgen",
					Version:   version.Plain(),
					GitCommit: version.GitCommit,
					BuildDate: version.BuildDate,
				})
			case "pretty", "":
				fmt.Fprintf(a.stdout, "mvvmgen %s\n", version.Colored())
				for _, line := range version.Details() {
					fmt.Fprintln(a.stdout, line)
				}
				return nil
			}
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
