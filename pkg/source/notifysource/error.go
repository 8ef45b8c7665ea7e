// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package notifysource

import "errors"

var ErrInvalidBufferSize = errors.New("event buffer size must be positive.")
