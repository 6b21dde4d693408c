// ABOUTME: The discover command
// ABOUTME: Browses mDNS for instruments on the local network
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanxi-tools/lanxi-go/internal/discovery"
)

var discoverTimeout time.Duration

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find instruments on the local network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		found, err := discovery.NewBrowser(logger).Browse(discoverTimeout)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Println("no instruments found")
			return nil
		}
		for _, inst := range found {
			fmt.Printf("%-20s %s\n", inst.Host, inst.Name)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 3*time.Second, "how long to browse")
}
