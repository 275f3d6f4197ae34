package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/go-gtime/lib/util/time/monotonic"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func newSleepCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sleep DURATION",
		Short: "Sleep and report the measured elapsed time",
		Long:  "DURATION is a Go duration such as 1.5s or 250ms, or a plain count of nanoseconds.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDuration(args[0])
			if err != nil {
				return err
			}
			sw := monotonic.StartStopwatch()
			if err := gtime.SleepContext(cmd.Context(), d); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "slept %s (requested %s)\n", sw.Elapsed(), d)
			return err
		},
	}
}

func parseDuration(s string) (gtime.Duration, error) {
	if ns, err := strconv.ParseInt(s, 10, 64); err == nil {
		return gtime.NewDuration(ns), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, oops.Wrapf(err, "invalid duration %q", s)
	}
	return gtime.FromStd(d), nil
}
