package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mvvmgen/internal/incremental"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk memo cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clean [path]",
		Short: "Remove every cached generator result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(targetArg(args))
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return err
			}
			disk, err := incremental.OpenDisk(dir)
			if err != nil {
				return err
			}
			if err := disk.DropAll(); err != nil {
				return err
			}
			a.status("removed %s", disk.Dir())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "dir [path]",
		Short: "Print the cache directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(targetArg(args))
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, dir)
			return nil
		},
	})
	return cmd
}
