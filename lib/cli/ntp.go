package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/go-gtime/lib/util/time/skew"
	"github.com/go-i2p/go-gtime/lib/util/time/sntp"
	"github.com/go-i2p/logger"
	"github.com/spf13/cobra"
)

func newNTPCommand(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "ntp",
		Short: "Measure the host clock against NTP servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := a.newTimestamper()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if watch {
				return watchNTP(cmd, ts, a.cfg.Skew.Max)
			}
			if err := ts.SyncOnce(cmd.Context()); err != nil {
				return err
			}
			reportOffset(out, ts.Now(), ts.Offset(), a.cfg.Skew.Max)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep synchronizing until interrupted")
	return cmd
}

func watchNTP(cmd *cobra.Command, ts *sntp.Timestamper, maxSkew gtime.Duration) error {
	printer := &offsetPrinter{out: cmd.OutOrStdout(), ts: ts, maxSkew: maxSkew}
	ts.AddListener(printer)
	ts.Start()
	defer ts.Stop()

	fmt.Fprintf(printer.out, "watching %v, press Ctrl-C to stop\n", ts.Servers())
	<-cmd.Context().Done()
	log.WithField("at", "watchNTP").Debug("ntp watch interrupted")
	return nil
}

// offsetPrinter reports every applied correction.
type offsetPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	ts      *sntp.Timestamper
	maxSkew gtime.Duration
}

func (p *offsetPrinter) SetNow(now gtime.Instant, stratum uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	log.WithFields(logger.Fields{
		"at":      "offsetPrinter.SetNow",
		"stratum": stratum,
	}).Debug("ntp update")
	reportOffset(p.out, now, p.ts.Offset(), p.maxSkew)
}

func (p *offsetPrinter) OnInitialized() {}

func (p *offsetPrinter) OnSyncFailure(consecutiveFails int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "sync failed (%d in a row)\n", consecutiveFails)
}

func (p *offsetPrinter) OnSyncLost() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, "sync lost, backing off")
}

func reportOffset(out io.Writer, corrected gtime.Instant, offset, maxSkew gtime.Duration) {
	fmt.Fprintf(out, "ntp time: %s.%09d\noffset: %s\n", corrected, corrected.Nanosecond(), offset)
	if err := skew.ValidateInstantWithSkew(corrected, maxSkew); err != nil {
		fmt.Fprintf(out, "host clock outside tolerance: %v\n", err)
		return
	}
	fmt.Fprintf(out, "host clock within %s\n", maxSkew)
}
