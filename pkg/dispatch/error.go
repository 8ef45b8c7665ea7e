// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dispatch

import "errors"

var (
	ErrInvalidCapacity     = errors.New("subscription queue capacity must be positive.")
	ErrCallbackMissing     = errors.New("callback is missing.")
	ErrDispatcherClosed    = errors.New("dispatcher is closed.")
	ErrUnknownSubscription = errors.New("unknown subscription.")
)
