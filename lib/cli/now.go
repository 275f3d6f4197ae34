package cli

import (
	"fmt"

	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputYAML = "yaml"
)

type nowOptions struct {
	layout string
	output string
}

// nowReport is the machine readable form of `gtime now`.
type nowReport struct {
	Time       string `yaml:"time"`
	Unix       int64  `yaml:"unix"`
	Nanosecond int64  `yaml:"nanosecond"`
	Weekday    string `yaml:"weekday"`
	Zone       string `yaml:"zone"`
	LeapYear   bool   `yaml:"leap_year"`
	Clock      string `yaml:"clock"`
}

func newNowCommand(a *app) *cobra.Command {
	opts := nowOptions{}
	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print the current time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNow(cmd, a, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.layout, "layout", "", "strftime layout (default format.layout)")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text or yaml")
	return cmd
}

func runNow(cmd *cobra.Command, a *app, opts nowOptions) error {
	if opts.output != outputText && opts.output != outputYAML {
		return oops.Errorf("unknown output format %q", opts.output)
	}
	layout := opts.layout
	if layout == "" {
		layout = a.cfg.Format.Layout
	}
	f, err := gtime.NewFormatter(layout)
	if err != nil {
		return err
	}
	if err := a.installClock(cmd.Context()); err != nil {
		return err
	}

	now := gtime.Now()
	report := buildNowReport(now, f, a.cfg.Clock.Source)

	out := cmd.OutOrStdout()
	if opts.output == outputYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return oops.Wrapf(err, "encoding report")
		}
		return enc.Close()
	}
	_, err = fmt.Fprintf(out, "%s\nunix: %d.%09d\nweekday: %s\nzone: %s\n",
		report.Time, report.Unix, report.Nanosecond, report.Weekday, report.Zone)
	return err
}

func buildNowReport(now gtime.Instant, f *gtime.Formatter, clock string) nowReport {
	return nowReport{
		Time:       f.Format(now),
		Unix:       now.Unix(),
		Nanosecond: now.Nanosecond(),
		Weekday:    now.Weekday().String(),
		Zone:       gtime.LocalZoneName(),
		LeapYear:   gtime.IsLeapYear(int64(now.Time().Year())),
		Clock:      clock,
	}
}
