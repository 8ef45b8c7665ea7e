// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

const (
	DefaultConfig = `
version: 1
backend: notify
quiescence-interval-ms: 50
max-window-lifetime-ms: 1000
poll-interval-ms: 1000
subscription-queue-capacity: 1024
max-pending-entries: 65536
roots: []
`

	DefaultQuiescenceIntervalMs      = 50
	DefaultMaxWindowLifetimeMs       = 1000
	DefaultPollIntervalMs            = 1000
	DefaultSubscriptionQueueCapacity = 1024
	DefaultMaxPendingEntries         = 65536
)
