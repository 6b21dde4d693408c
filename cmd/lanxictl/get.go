// ABOUTME: The get command
// ABOUTME: Downloads a stored recording container plus its setup sidecar
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var getDir string

var getCmd = &cobra.Command{
	Use:   "get <id>...",
	Short: "Download recording containers from the device",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := dialInstrument(context.Background())
		if err != nil {
			return err
		}

		dir := getDir
		if dir == "" {
			dir = cfg.Output.Directory
		}
		for _, id := range args {
			path, err := inst.GetWAV(context.Background(), dir, id)
			if err != nil {
				return fmt.Errorf("get %s: %w", id, err)
			}
			fmt.Println(path)
		}
		return nil
	},
}

func init() {
	getCmd.Flags().StringVarP(&getDir, "dir", "d", "", "output directory (default from config)")
}
