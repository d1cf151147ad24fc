package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pmemkit/pmem"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pmemctl %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		if current != nil {
			fmt.Printf("  cpu flush: %s\n", current.syncer.PersistName())
		} else {
			fmt.Printf("  cpu flush: %s\n", pmem.DefaultSyncer().PersistName())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
