// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package debounce

import "errors"

var (
	ErrInvalidQuiescence = errors.New("quiescence interval must be positive.")
	ErrInvalidLifetime   = errors.New("max window lifetime must not be shorter than quiescence interval.")
	ErrInvalidMaxPending = errors.New("max pending entries must be positive.")
	ErrPendingTableFull  = errors.New("pending table is full.")
	ErrPathMissing       = errors.New("raw event has no path.")
)
