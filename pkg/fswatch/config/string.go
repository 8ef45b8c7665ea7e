// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "fmt"

func (r *Root) String() string {
	return fmt.Sprintf("root [ %s | recursive=%t ]", r.Path, r.IsRecursive())
}
