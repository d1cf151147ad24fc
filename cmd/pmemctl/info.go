package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/pmemkit/pmem"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <path>",
		Short: "Report how a persistent-memory file would be deep-synced",
		Long: `The info command maps a regular file or device DAX and displays its file
type, device number, effective flush granularity, mapping length and the CPU
cache flush strategy this machine uses.

Example:
  pmemctl info /dev/dax0.0
  pmemctl info /mnt/pmem/pool --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
	return cmd
}

type mapInfo struct {
	Path        string `json:"path"`
	FileType    string `json:"file_type"`
	DeviceID    uint64 `json:"device_id"`
	Granularity string `json:"granularity"`
	Length      int    `json:"length"`
	Persist     string `json:"persist"`
}

func runInfo(path string) error {
	printVerbose("Opening: %s\n", path)

	m, err := current.open(path)
	if err != nil {
		return err
	}
	defer m.Close()

	info := mapInfo{
		Path:        path,
		FileType:    m.FileType().String(),
		DeviceID:    m.DeviceID(),
		Granularity: m.Granularity().String(),
		Length:      m.Len(),
		Persist:     current.syncer.PersistName(),
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nMapping Information:\n")
	printInfo("  File: %s\n", info.Path)
	printInfo("  Type: %s\n", info.FileType)
	if m.FileType() == pmem.FileTypeDeviceDax {
		printInfo("  Device: %d\n", info.DeviceID)
	}
	printInfo("  Granularity: %s\n", info.Granularity)
	printInfo("  Length: %s\n", formatBytes(int64(info.Length)))
	printInfo("  CPU flush: %s\n", info.Persist)
	return nil
}
