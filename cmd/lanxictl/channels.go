// ABOUTME: The channels command
// ABOUTME: Shows device default channel settings or the config file's applied view
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var channelsApply bool

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Show input channel settings",
	Long: `Show the device's default input channel settings. With --apply the
channel definitions from the config file are applied to the snapshot
first, so the output is what a recording would actually use.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := dialInstrument(context.Background())
		if err != nil {
			return err
		}

		if channelsApply {
			if err := applyChannels(inst); err != nil {
				return err
			}
			if err := inst.SetSampleRate(cfg.Recording.SampleRate); err != nil {
				return err
			}
		}

		s := inst.Settings()
		fmt.Printf("%s (%d SPS)\n", s.Name, s.SampleRate())
		for idx, ch := range s.Channels {
			mark := " "
			if ch.Enabled {
				mark = "*"
			}
			powered := ""
			if ch.CCLD {
				powered = ", powered"
			}
			fmt.Printf(" %s %2d  %-24s %s, %s filter, %s, %gV/%s%s\n",
				mark, idx+1, ch.Name, ch.Bandwidth, ch.Filter, ch.Range,
				ch.Transducer.Sensitivity, ch.Transducer.Unit, powered)
		}
		return nil
	},
}

func init() {
	channelsCmd.Flags().BoolVarP(&channelsApply, "apply", "a", false, "apply the config file's channel definitions first")
}
