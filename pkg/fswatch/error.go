// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fswatch

import "errors"

var (
	ErrConfigMissing  = errors.New("config is missing.")
	ErrUnknownBackend = errors.New("unknown backend.")
	ErrEngineClosed   = errors.New("engine is closed.")
	ErrAlreadyRunning = errors.New("engine is already running.")
)
