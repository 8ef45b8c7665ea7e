// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package debounce

import "time"

const (
	DefaultQuiescence  = 50 * time.Millisecond
	DefaultMaxLifetime = time.Second
	DefaultMaxPending  = 65536
)
