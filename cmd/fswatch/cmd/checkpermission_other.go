// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !linux

package cmd

import (
	"fmt"
	"os"

	. "github.com/black-desk/lib/go/errwrap"
)

func checkPermissionCmdRun() (err error) {
	defer Wrap(&err)

	cfg, err := readCheckedConfig()
	if err != nil {
		return
	}

	for i := range cfg.Roots {
		path := cfg.Roots[i].Path

		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			err = fmt.Errorf("read permission is required to watch %s: %w", path, err)
			return
		}
		f.Close()
	}

	return
}
