// ABOUTME: The record command
// ABOUTME: Applies channel configuration, powers up, records and optionally fetches
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanxi-tools/lanxi-go/pkg/lanxi"
)

var (
	recordDuration float64
	recordSettle   float64
	recordFetch    bool
)

var recordCmd = &cobra.Command{
	Use:   "record [name]",
	Short: "Run a recording with the configured channels",
	Long: `Apply the channel definitions from the config file, power the
instrument up, wait for powered transducers to settle, record for the
requested duration and power back down.

With --fetch the finished container is downloaded into the output
directory right away.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		name := cfg.Recording.Name
		if len(args) == 1 {
			name = args[0]
		}
		if recordDuration <= 0 {
			recordDuration = cfg.Recording.DurationSeconds
		}
		if recordSettle < 0 {
			recordSettle = cfg.Recording.SettleSeconds
		}
		if !cmd.Flags().Changed("fetch") {
			recordFetch = cfg.Recording.AutoFetch
		}
		duration := time.Duration(recordDuration * float64(time.Second))
		settle := time.Duration(recordSettle * float64(time.Second))

		inst, err := dialInstrument(ctx)
		if err != nil {
			return err
		}

		if err := applyChannels(inst); err != nil {
			return err
		}
		if err := inst.SetSampleRate(cfg.Recording.SampleRate); err != nil {
			return err
		}
		if err := inst.SetName(name); err != nil {
			return err
		}

		if _, err := inst.PowerUp(ctx); err != nil {
			return err
		}
		defer func() {
			if err := inst.PowerDown(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("power down failed")
			}
		}()

		if settle > 0 {
			logger.Info().Dur("settle", settle).Msg("waiting for transducers to settle")
			select {
			case <-time.After(settle):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		id, err := inst.Record(ctx, duration)
		if err != nil {
			return err
		}
		fmt.Printf("recorded %s (%s, %gs at %d SPS)\n", id, name, recordDuration, cfg.Recording.SampleRate)

		if recordFetch {
			path, err := inst.GetWAV(ctx, cfg.Output.Directory, id)
			if err != nil {
				return err
			}
			fmt.Println(path)
		}
		return nil
	},
}

// applyChannels pushes the config file's channel definitions into the
// settings snapshot.
func applyChannels(inst *lanxi.Instrument) error {
	inst.DisableAll()
	for _, ch := range cfg.Channels {
		err := inst.SetChannel(ch.Channel, lanxi.ChannelConfig{
			Name:           ch.Name,
			Filter:         ch.Filter,
			Range:          ch.Range,
			Sensitivity:    ch.Sensitivity,
			Unit:           ch.Unit,
			Powered:        ch.Powered,
			SerialNumber:   ch.SerialNumber,
			TransducerType: ch.TransducerType,
		})
		if err != nil {
			return fmt.Errorf("channel %d: %w", ch.Channel, err)
		}
	}
	return nil
}

func init() {
	recordCmd.Flags().Float64VarP(&recordDuration, "duration", "t", 0, "recording length in seconds (default from config)")
	recordCmd.Flags().Float64Var(&recordSettle, "settle", -1, "transducer settling delay in seconds (default from config)")
	recordCmd.Flags().BoolVarP(&recordFetch, "fetch", "f", false, "download the container when the recording finishes")
}
