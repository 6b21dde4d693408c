// ABOUTME: The decode command
// ABOUTME: Inspects a downloaded recording container offline
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanxi-tools/lanxi-go/pkg/wav"
)

var (
	decodeSamples  bool
	decodeReencode string
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file.wav>",
	Short: "Decode a recording container and print its layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []wav.Option
		if verbosity > 0 {
			opts = append(opts, wav.WithVerbose(logger))
		}
		c, err := wav.DecodeFile(args[0], opts...)
		if err != nil {
			return err
		}
		h := c.Header

		format := "PCM"
		if h.AudioFormat == wav.FormatIEEEFloat {
			format = "IEEE float"
		}
		frames := 0
		if len(c.Samples) > 0 {
			frames = len(c.Samples[0])
		}
		fmt.Printf("format:      %s, %d bit\n", format, h.BitsPerSample)
		fmt.Printf("channels:    %d\n", h.NumChannels)
		fmt.Printf("sample rate: %d SPS\n", h.SampleRate)
		fmt.Printf("frames:      %d (%.3f s)\n", frames, c.Duration())

		if m := h.Metadata; m != nil {
			fmt.Printf("label:       %s\n", m.Label)
			fmt.Printf("recorded:    %s UTC (annex version %s)\n", m.Date, m.Version)
			for ch := 0; ch < h.NumChannels && ch < len(m.ChannelNames); ch++ {
				fmt.Printf("channel %d:   %s, %s, sensitivity %g, scale %g\n",
					ch+1, m.ChannelNames[ch], m.ChannelUnits[ch],
					m.Sensitivities[ch], m.Scales[ch])
			}
		} else {
			fmt.Println("no vendor annex present")
		}
		if c.Setup != nil {
			fmt.Println("setup sidecar loaded")
		}

		if decodeSamples {
			for ch := range c.Samples {
				lo, hi := minMax(c.Samples[ch])
				fmt.Printf("channel %d range: [%g, %g]\n", ch+1, lo, hi)
			}
		}

		if decodeReencode != "" {
			if err := wav.EncodeFile(decodeReencode, c); err != nil {
				return err
			}
			fmt.Printf("re-encoded to %s\n", decodeReencode)
		}
		return nil
	},
}

func minMax(samples []float64) (float64, float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	lo, hi := samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return lo, hi
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeSamples, "samples", false, "print per-channel sample ranges")
	decodeCmd.Flags().StringVar(&decodeReencode, "reencode", "", "re-encode the decoded container to this path")
}
