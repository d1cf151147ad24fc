package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pmemkit/pmem"
	"github.com/joshuapare/pmemkit/pmem/region"
)

func init() {
	rootCmd.AddCommand(newRegionCmd())
}

func newRegionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "region <device>",
		Short: "Show the NVDIMM region behind a device DAX",
		Long: `The region command resolves the NVDIMM region that owns a device DAX and
prints the region id, its deep_flush control file and its persistence domain.

Example:
  pmemctl region /dev/dax0.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegion(args[0])
		},
	}
	return cmd
}

type regionInfo struct {
	Device            string    `json:"device"`
	Region            region.ID `json:"region"`
	DeepFlush         string    `json:"deep_flush"`
	PersistenceDomain string    `json:"persistence_domain,omitempty"`
}

func runRegion(path string) error {
	m, err := current.open(path)
	if err != nil {
		return err
	}
	defer m.Close()

	if m.FileType() != pmem.FileTypeDeviceDax {
		return fmt.Errorf("%s is a %s file, not a device DAX", path, m.FileType())
	}

	id, err := current.sysfs.Find(m.DeviceID())
	if err != nil {
		return err
	}
	info := regionInfo{
		Device:    path,
		Region:    id,
		DeepFlush: filepath.Join(current.sysfs.Root(), region.DeepFlushPath(id)),
	}
	if domain, err := current.sysfs.PersistenceDomain(id); err == nil {
		info.PersistenceDomain = domain
	}

	if jsonOut {
		return printJSON(info)
	}
	printInfo("Region: %d\n", info.Region)
	printInfo("Deep flush: %s\n", info.DeepFlush)
	if info.PersistenceDomain != "" {
		printInfo("Persistence domain: %s\n", info.PersistenceDomain)
	}
	return nil
}
