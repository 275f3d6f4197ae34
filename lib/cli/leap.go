package cli

import (
	"fmt"
	"strconv"

	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func newLeapCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leap [--] YEAR...",
		Short: "Report whether each year is a leap year",
		Long: `Report whether each year is a leap year.

Years before 1 CE are negative; put them after -- so they are not read as
flags, for example: gtime leap -- -4 1900`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				year, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return oops.Wrapf(err, "invalid year %q", arg)
				}
				kind := "common year"
				if gtime.IsLeapYear(year) {
					kind = "leap year"
				}
				fmt.Fprintf(out, "%d: %s\n", year, kind)
			}
			return nil
		},
	}
}
