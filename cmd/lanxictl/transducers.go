// ABOUTME: The transducers command
// ABOUTME: Dumps the TEDS transducer detection report per channel
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var transducersCmd = &cobra.Command{
	Use:   "transducers",
	Short: "Show the detected transducers on each channel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := dialInstrument(context.Background())
		if err != nil {
			return err
		}
		report, err := inst.Transducers(context.Background())
		if err != nil {
			return err
		}

		for idx, entry := range report {
			fmt.Printf("--- channel %d\n", idx+1)
			if len(entry) == 0 {
				fmt.Println("no transducer detected")
				continue
			}
			out, err := yaml.Marshal(entry)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
		}
		return nil
	},
}
