package cli

import (
	"fmt"

	"github.com/go-i2p/go-gtime/lib/config"
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/go-gtime/lib/rpc"
	"github.com/go-i2p/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured clock over JSON-RPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("address") {
				a.cfg.RPC.Address = address
			}
			s, err := a.startServer()
			if err != nil {
				return err
			}
			defer s.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s (clock: %s)\n", s.Addr(), a.cfg.Clock.Source)
			<-cmd.Context().Done()
			log.WithField("at", "serve").Debug("serve interrupted")
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address (overrides rpc.address)")
	return cmd
}

// startServer builds the RPC backend for the configured clock source and
// starts listening. With the NTP source the timestamper keeps synchronizing
// in the background and its metrics are exported on /metrics.
func (a *app) startServer() (*rpc.Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	backend := rpc.Backend{
		Clock:    gtime.SystemClock{},
		Source:   a.cfg.Clock.Source,
		Layout:   a.cfg.Format.Layout,
		Gatherer: reg,
	}
	if a.cfg.Clock.Source == config.ClockSourceNTP {
		ts, err := a.newTimestamper()
		if err != nil {
			return nil, err
		}
		if err := ts.RegisterMetrics(reg); err != nil {
			return nil, err
		}
		ts.Start()
		backend.Clock = ts
		backend.Status = ts
	}

	s, err := rpc.NewServer(a.cfg.RPC, backend)
	if err != nil {
		return nil, err
	}
	if err := s.Start(); err != nil {
		return nil, err
	}
	log.WithFields(logger.Fields{
		"at":      "startServer",
		"address": s.Addr(),
		"clock":   a.cfg.Clock.Source,
	}).Info("rpc server started")
	return s, nil
}
