// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"kernel.org/pub/linux/libs/security/libcap/cap"
)

// checkPermissionCmd represents the permission command
var checkPermissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Check permission",
	Long:  `Check fswatch can read every configured root.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf("\n\n%w\n"+CheckDocumentString, err)

			return
		}()

		err = checkPermissionCmdRun()
		return
	},
}

func checkPermissionCmdRun() (err error) {
	defer Wrap(&err)

	capSet := cap.GetProc()
	hasCapDacReadSearch := false
	hasCapDacReadSearch, err = capSet.GetFlag(cap.Effective, cap.DAC_READ_SEARCH)
	if err != nil {
		return
	}

	log := checkLogger()

	if hasCapDacReadSearch {
		log.Infow("CAP_DAC_READ_SEARCH is available, skip access checks.")
		return
	}

	cfg, err := readCheckedConfig()
	if err != nil {
		return
	}

	for i := range cfg.Roots {
		path := cfg.Roots[i].Path
		if unix.Access(path, unix.R_OK|unix.X_OK) == nil {
			continue
		}

		err = errors.New(
			"CAP_DAC_READ_SEARCH or read permission is required to watch " +
				path + ".",
		)
		return
	}

	return
}

func init() {
	checkCmd.AddCommand(checkPermissionCmd)
}
