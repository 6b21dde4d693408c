// ABOUTME: Entry point and root command for the lanxictl CLI
// ABOUTME: Wires config, logging and the device address resolution
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lanxi-tools/lanxi-go/internal/config"
	"github.com/lanxi-tools/lanxi-go/internal/discovery"
	"github.com/lanxi-tools/lanxi-go/pkg/lanxi"
)

var (
	cfgFile    string
	deviceAddr string
	verbosity  int

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lanxictl",
	Short: "Remote-control a LAN-XI signal recorder",
	Long: `lanxictl drives a LAN-XI class multi-channel signal recorder over its
HTTP control interface: configure channels, arm and run recordings, and
fetch or delete the stored WAV containers.

The device address comes from --device, the config file, or mDNS
discovery, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbosity)

		if cfgFile == "" {
			cfgFile = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/lanxictl.yaml)")
	rootCmd.PersistentFlags().StringVarP(&deviceAddr, "device", "D", "", "device address (overrides config)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(transducersCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging configures a console zerolog writer by verbosity level.
func setupLogging(level int) {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	logger = zerolog.New(out).With().Timestamp().Logger()
	switch {
	case level <= 0:
		logger = logger.Level(zerolog.InfoLevel)
	case level == 1:
		logger = logger.Level(zerolog.DebugLevel)
	default:
		logger = logger.Level(zerolog.TraceLevel)
	}
}

// resolveAddress picks the device address: flag, config, then discovery.
func resolveAddress() (string, error) {
	if deviceAddr != "" {
		return deviceAddr, nil
	}
	if cfg.Device.Address != "" {
		return cfg.Device.Address, nil
	}

	logger.Info().Msg("no device address configured, trying mDNS discovery")
	inst, found, err := discovery.NewBrowser(logger).First(3 * time.Second)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}
	if !found {
		return "", fmt.Errorf("no device address given and no instrument answered discovery")
	}
	logger.Info().Str("host", inst.Host).Str("name", inst.Name).Msg("using discovered instrument")
	return inst.Host, nil
}

// dialInstrument resolves the address and opens a session.
func dialInstrument(ctx context.Context) (*lanxi.Instrument, error) {
	addr, err := resolveAddress()
	if err != nil {
		return nil, err
	}
	return lanxi.Dial(ctx, addr,
		lanxi.WithLogger(logger),
		lanxi.WithTimeout(time.Duration(cfg.Device.TimeoutSeconds)*time.Second),
	)
}
