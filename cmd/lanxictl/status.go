// ABOUTME: The status and info commands
// ABOUTME: One-shot state query and module hardware summary
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recorder state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := dialInstrument(context.Background())
		if err != nil {
			return err
		}
		st, err := inst.Status(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("state:         %s\n", st.State)
		fmt.Printf("lastUpdateTag: %d\n", st.LastUpdateTag)
		if !st.DeviceTime.IsZero() {
			fmt.Printf("device time:   %s\n", st.DeviceTime.UTC().Format("2006-01-02 15:04:05 MST"))
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the instrument hardware summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := dialInstrument(context.Background())
		if err != nil {
			return err
		}
		fmt.Print(inst.String())
		return nil
	},
}
