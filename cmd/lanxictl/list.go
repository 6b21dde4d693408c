// ABOUTME: The list command
// ABOUTME: Prints the catalog of recordings stored on the device
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanxi-tools/lanxi-go/pkg/lanxi"
)

var listLast int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recordings stored on the device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := dialInstrument(context.Background())
		if err != nil {
			return err
		}

		var recs []lanxi.Recording
		if listLast > 0 {
			recs, err = inst.LastRecordings(context.Background(), listLast)
		} else {
			recs, err = inst.ListRecordings(context.Background())
		}
		if err != nil {
			return err
		}

		if len(recs) == 0 {
			fmt.Println("no recordings stored")
			return nil
		}
		for _, rec := range recs {
			fmt.Printf("%s  %s  %7.1fs  %8.1f MB  %s\n",
				rec.ID(),
				rec.StartTime().Format("2006-01-02 15:04:05"),
				rec.Seconds(),
				float64(rec.Size)/(1024*1024),
				rec.Setup.Name)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&listLast, "last", "n", 0, "show only the N most recent recordings")
}
