// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build wireinject
// +build wireinject

package cmd

import (
	"github.com/black-desk/fswatch/pkg/fswatch/config"
	"github.com/black-desk/fswatch/pkg/interfaces"
	"github.com/black-desk/fswatch/pkg/metrics"
	"github.com/google/wire"
	"go.uber.org/zap"
)

func injectedEngine(
	*config.Config, *zap.SugaredLogger, *metrics.Metrics,
) (
	interfaces.Engine, error,
) {
	panic(wire.Build(set))
}
