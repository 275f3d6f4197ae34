package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-i2p/go-gtime/lib/config"
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/go-gtime/lib/util"
	"github.com/go-i2p/go-gtime/lib/util/time/sntp"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

var log = logger.GetGoI2PLogger()

// app carries state shared by every subcommand.
type app struct {
	cfgFile     string
	clockSource string
	cfg         config.Config
	ntpClient   sntp.NTPClient
}

// Execute runs the gtime command with os.Args.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer util.CloseAll()
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	return newRootCommand(&app{ntpClient: &sntp.DefaultNTPClient{}}, out, errOut)
}

func newRootCommand(a *app, out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gtime",
		Short:         "Inspect, format and measure time",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			util.CloseAll()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/"+config.GTIME_BASE_DIR+"/config.yaml)")
	flags.StringVar(&a.clockSource, "clock", "", "clock source: system or ntp (overrides clock.source)")

	cmd.AddCommand(
		newNowCommand(a),
		newDemoCommand(a),
		newSleepCommand(a),
		newLeapCommand(a),
		newStopwatchCommand(a),
		newNTPCommand(a),
		newServeCommand(a),
	)
	return cmd
}

func (a *app) initialize(cmd *cobra.Command) error {
	config.CfgFile = a.cfgFile
	if err := config.InitConfig(); err != nil {
		return err
	}
	cfg := config.CurrentConfig()
	if cmd.Flags().Changed("clock") {
		cfg.Clock.Source = a.clockSource
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	log.WithFields(logger.Fields{
		"at":      "initialize",
		"command": cmd.Name(),
		"clock":   cfg.Clock.Source,
	}).Debug("configuration loaded")
	return nil
}

// installClock makes gtime.Now follow the configured clock source until
// util.CloseAll runs.
func (a *app) installClock(ctx context.Context) error {
	if a.cfg.Clock.Source != config.ClockSourceNTP {
		return nil
	}
	ts, err := a.newTimestamper()
	if err != nil {
		return err
	}
	if err := ts.SyncOnce(ctx); err != nil {
		return oops.Wrapf(err, "ntp clock unavailable")
	}
	prev := gtime.SetDefaultClock(ts)
	util.RegisterCloser(closerFunc(func() error {
		gtime.SetDefaultClock(prev)
		return nil
	}))
	return nil
}

func (a *app) newTimestamper() (*sntp.Timestamper, error) {
	ts, err := sntp.NewTimestamper(a.ntpClient, a.cfg.NTP)
	if err != nil {
		return nil, err
	}
	util.RegisterCloser(ts)
	return ts, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
