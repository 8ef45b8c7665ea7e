// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/black-desk/fswatch/pkg/fswatch/config"
	"github.com/black-desk/fswatch/pkg/metrics"
	"github.com/black-desk/fswatch/pkg/types"
	"github.com/black-desk/lib/go/logger"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flags struct {
	CfgPath string
	Roots   []string
}

var rootCmd = &cobra.Command{
	Use:   "fswatch",
	Short: "Watch directory trees and report coalesced changes",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf(
				"\n\n%w\n"+CheckDocumentString,
				err,
			)

			return
		}()
		err = rootCmdRun(cmd.Context())
		return
	},
}

func loadConfig(log *zap.SugaredLogger) (ret *config.Config, err error) {
	content, err := os.ReadFile(flags.CfgPath)
	if errors.Is(err, os.ErrNotExist) && flags.CfgPath == FswatchCfgPath {
		log.Warnw("Configuration file missing fallback to default config.")

		content = []byte(config.DefaultConfig)
		err = nil
	} else if err != nil {
		log.Errorw("Failed to read configuration from file",
			"file", flags.CfgPath,
			"error", err)

		return
	}

	ret, err = config.New(
		config.WithContent(content),
		config.WithLogger(log),
	)
	if err != nil {
		return
	}

	for i := range flags.Roots {
		var path string
		path, err = filepath.Abs(flags.Roots[i])
		if err != nil {
			return
		}

		ret.Roots = append(ret.Roots, config.Root{Path: path})
	}

	return
}

func rootCmdRun(parent context.Context) (err error) {
	if parent == nil {
		parent = context.Background()
	}

	log := logger.Get("fswatch")

	cfg, err := loadConfig(log)
	if err != nil {
		return
	}

	m := metrics.New()

	engine, err := injectedEngine(cfg, log, m)
	if err != nil {
		return
	}

	_, err = engine.Subscribe(func(n types.Notification) {
		if n.Type == types.NotificationTypeEvent {
			fmt.Println(n.String())
			return
		}

		log.Warnw("Watch state changed.",
			"notification", n.String(),
		)
	})
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			cancel(&ErrCancelBySignal{Signal: sig})
		case <-ctx.Done():
		}
	}()

	p := pool.New().WithContext(ctx).WithFirstError().WithCancelOnError()

	p.Go(engine.Run)

	if cfg.MetricsAddress != "" {
		p.Go(func(ctx context.Context) error {
			return serveMetrics(ctx, cfg.MetricsAddress, m.Handler(), log)
		})
	}

	err = p.Wait()
	if cause := context.Cause(ctx); cause != nil && errors.Is(err, ctx.Err()) {
		err = cause
	}
	if err == nil {
		return
	}

	log.Debugw(
		"Engine exited with error.",
		"error", err,
	)

	var cancelBySignal *ErrCancelBySignal
	if errors.As(err, &cancelBySignal) {
		log.Infow("Signal received, exiting...",
			"signal", cancelBySignal.Signal,
		)
		err = nil
		return
	}

	return
}

func serveMetrics(
	ctx context.Context, addr string, h http.Handler, log *zap.SugaredLogger,
) (
	err error,
) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), metricsShutdownTimeout,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnw("Failed to shutdown metrics server.",
				"error", err,
			)
		}
	}()

	log.Infow("Serving metrics.",
		"address", addr,
	)

	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	return
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cfgPath := os.Getenv("CONFIGURATION_DIRECTORY")
	if cfgPath == "" {
		cfgPath = FswatchCfgPath
	} else {
		cfgPath += "/config.yaml"
	}

	rootCmd.PersistentFlags().StringVarP(
		&flags.CfgPath,
		"config", "c", cfgPath,
		"the configure file to use",
	)

	rootCmd.Flags().StringArrayVarP(
		&flags.Roots,
		"root", "r", nil,
		"an extra recursive root to watch, can be repeated",
	)
}
