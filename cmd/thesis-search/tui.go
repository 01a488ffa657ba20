// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/thesis-search/internal/httputil"
	"github.com/pdiddy/thesis-search/internal/logger"
	"github.com/pdiddy/thesis-search/internal/session"
	"github.com/pdiddy/thesis-search/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive search screen",
	Long: `Launch a full-screen search box. Results refresh once typing pauses for
session.debounce; a newer query cancels the request still in flight, so the
list always reflects the latest text.

Controls:
  ↑/↓      - Scroll results
  Esc      - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	tuiCmd.Flags().String("log-file", "", "write logs to this file (logging is off otherwise)")

	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	log := zap.NewNop()
	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		l, err := logger.New(clientConfig.Log.Format, clientConfig.Log.Level, logFile)
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()
		log = l
	}

	var opts []httputil.Option
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, httputil.WithMetrics(httputil.NewMetrics(reg)))

		stop, err := serveMetrics(addr, reg, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	client, err := newClient(log, opts...)
	if err != nil {
		return err
	}

	return tui.Run(ctx, client, session.Options{
		Debounce: clientConfig.Session.Debounce,
		TopK:     clientConfig.Search.TopK,
		Logger:   log,
	}, client.BaseURL())
}

// serveMetrics exposes reg on addr under /metrics and returns a function
// that shuts the server down.
func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Surface bind failures before the screen takes over the terminal.
	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("metrics server: %w", err)
		}
	case <-time.After(100 * time.Millisecond):
	}
	log.Info("serving metrics", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
