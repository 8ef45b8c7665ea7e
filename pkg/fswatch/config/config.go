// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Version string `yaml:"version" validate:"required,eq=1"`

	// Backend selects the library used to talk to the platform.
	Backend Backend `yaml:"backend" validate:"omitempty,oneof=notify fsnotify poll"`

	// QuiescenceIntervalMs is how long a path must stay quiet
	// before its window is flushed.
	QuiescenceIntervalMs int `yaml:"quiescence-interval-ms" validate:"gte=0"`
	// MaxWindowLifetimeMs bounds how long a window can be kept open
	// by a path which never stays quiet.
	MaxWindowLifetimeMs int `yaml:"max-window-lifetime-ms" validate:"gte=0"`

	// PollIntervalMs is how often the poll backend scans the roots.
	PollIntervalMs int `yaml:"poll-interval-ms" validate:"gte=0"`
	// FollowSymlinks makes the poll backend descend into
	// directories reached through symbolic links.
	FollowSymlinks bool `yaml:"follow-symlinks"`

	SubscriptionQueueCapacity int `yaml:"subscription-queue-capacity" validate:"gte=0"`
	MaxPendingEntries         int `yaml:"max-pending-entries" validate:"gte=0"`

	Roots []Root `yaml:"roots" validate:"dive"`

	// MetricsAddress is where prometheus metrics are served.
	// Metrics are not served if it is empty.
	MetricsAddress string `yaml:"metrics-address" validate:"omitempty,hostname_port"`

	log *zap.SugaredLogger `yaml:"-"`
	raw []byte
}

type Backend string

const (
	BackendNotify   Backend = "notify"
	BackendFsnotify Backend = "fsnotify"
	BackendPoll     Backend = "poll"
)

type Root struct {
	Path string `yaml:"path" validate:"required"`
	// Recursive defaults to true.
	Recursive *bool `yaml:"recursive"`
}

func (r *Root) IsRecursive() bool {
	return r.Recursive == nil || *r.Recursive
}

func (c *Config) Quiescence() time.Duration {
	return time.Duration(c.QuiescenceIntervalMs) * time.Millisecond
}

func (c *Config) MaxLifetime() time.Duration {
	return time.Duration(c.MaxWindowLifetimeMs) * time.Millisecond
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
