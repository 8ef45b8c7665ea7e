// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import "time"

const (
	CheckDocumentString = `
Go to check
1. documentation https://pkg.go.dev/github.com/black-desk/fswatch/cmd/fswatch
2. wiki https://github.com/black-desk/fswatch/wiki
for some help.
`
	FswatchCfgPath = "/etc/fswatch/config.yaml"

	metricsShutdownTimeout = 5 * time.Second
)
