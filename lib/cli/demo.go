package cli

import (
	"fmt"
	"time"

	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/spf13/cobra"
)

func newDemoCommand(a *app) *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through the library: now, add, sleep, elapsed and conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.installClock(cmd.Context()); err != nil {
				return err
			}
			return runDemo(cmd, a.cfg.Format.Layout, gtime.FromStd(wait))
		},
	}
	cmd.Flags().DurationVar(&wait, "duration", 2500*time.Millisecond, "duration to add and sleep")
	return cmd
}

func runDemo(cmd *cobra.Command, layout string, d gtime.Duration) error {
	out := cmd.OutOrStdout()
	now := gtime.Now()

	stamp, err := now.Format(layout)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Now: %s\n", stamp)

	later, err := now.Add(d).Format("%H:%M:%S")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Later: %s\n", later)

	fmt.Fprintf(out, "Sleeping for %s...\n", d)
	gtime.Sleep(d)

	elapsed := gtime.Since(now)
	fmt.Fprintf(out, "Elapsed: %s\n", elapsed)

	minute := gtime.Second * 60
	fmt.Fprintf(out, "Seconds 1: %f\n", elapsed.Seconds())
	fmt.Fprintf(out, "Seconds 2: %.2f\n", minute.Seconds())
	fmt.Fprintf(out, "Milliseconds: %f ms\n", elapsed.Milliseconds())
	fmt.Fprintf(out, "Nanoseconds: %f ns\n", elapsed.Nanoseconds())
	return nil
}
