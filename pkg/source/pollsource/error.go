// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pollsource

import "errors"

var (
	ErrInvalidInterval = errors.New("poll interval must be positive.")
	ErrNotDirectory    = errors.New("root is not a directory.")
)
