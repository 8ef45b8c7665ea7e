// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"github.com/benbjohnson/clock"
	"github.com/black-desk/fswatch/pkg/fswatch"
	"github.com/black-desk/fswatch/pkg/fswatch/config"
	"github.com/black-desk/fswatch/pkg/interfaces"
	"github.com/black-desk/fswatch/pkg/metrics"
	"github.com/black-desk/fswatch/pkg/source"
	"github.com/google/wire"
	"go.uber.org/zap"
)

func provideClock() clock.Clock {
	return clock.New()
}

func provideSource(
	cfg *config.Config, c clock.Clock, logger *zap.SugaredLogger,
) (
	source.Source, error,
) {
	return fswatch.NewSource(cfg, c, logger)
}

func provideEngine(
	cfg *config.Config,
	src source.Source,
	c clock.Clock,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
) (
	ret interfaces.Engine, err error,
) {
	var e *fswatch.Engine
	e, err = fswatch.New(
		fswatch.WithConfig(cfg),
		fswatch.WithSource(src),
		fswatch.WithClock(c),
		fswatch.WithMetrics(m),
		fswatch.WithLogger(logger),
	)
	if err != nil {
		return
	}

	ret = e
	return
}

var set = wire.NewSet(
	provideClock,
	provideEngine,
	provideSource,
)
