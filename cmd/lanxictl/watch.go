// ABOUTME: The watch command
// ABOUTME: Live dashboard fed by the device notification stream
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanxi-tools/lanxi-go/internal/notify"
	"github.com/lanxi-tools/lanxi-go/internal/ui"
	"github.com/lanxi-tools/lanxi-go/pkg/lanxi"
)

// channelsMsg renders a settings snapshot into dashboard channel rows.
func channelsMsg(s lanxi.Settings) ui.ChannelsMsg {
	msg := ui.ChannelsMsg{}
	for idx, ch := range s.Channels {
		detail := fmt.Sprintf("%s, %s", ch.Filter, ch.Range)
		if ch.CCLD {
			detail += ", powered"
		}
		msg.Channels = append(msg.Channels, ui.ChannelLine{
			Number:  idx + 1,
			Name:    ch.Name,
			Enabled: ch.Enabled,
			Detail:  detail,
		})
	}
	return msg
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the instrument live",
	Long: `Open a dashboard showing the recorder state, channel configuration
and recording catalog. State changes arrive over the device's websocket
notification feed; the catalog is refreshed periodically.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		inst, err := dialInstrument(ctx)
		if err != nil {
			return err
		}

		listener := notify.NewListener(inst.Addr(), logger)
		if err := listener.Connect(); err != nil {
			return err
		}
		defer listener.Close()

		p := ui.Run(inst.Addr())

		p.Send(ui.ConnMsg{Connected: true, Addr: inst.Addr()})
		p.Send(channelsMsg(inst.Settings()))
		if st, err := inst.Status(ctx); err == nil {
			p.Send(ui.StatusMsg{State: st.State, LastUpdateTag: st.LastUpdateTag, SDCardInserted: inst.Info().SDCardInserted})
		}

		// Feed forwarding: notifications drive the state line; when the feed
		// drops the dashboard shows it and the catalog refresh stops too.
		go func() {
			for ev := range listener.Events() {
				p.Send(ui.StatusMsg{
					State:          ev.ModuleState,
					LastUpdateTag:  ev.LastUpdateTag,
					SDCardInserted: ev.SDCardInserted,
				})
			}
			p.Send(ui.FeedClosedMsg{})
			cancel()
		}()

		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
				recs, err := inst.ListRecordings(ctx)
				if err != nil {
					continue
				}
				msg := ui.RecordingsMsg{Count: len(recs)}
				if len(recs) > 0 {
					msg.Latest = recs[len(recs)-1].Setup.Name
				}
				p.Send(msg)
			}
		}()

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	},
}
