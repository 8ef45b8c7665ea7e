// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os"

	"github.com/black-desk/fswatch/pkg/fswatch/config"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/black-desk/lib/go/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkConfigCmd represents the config command
var checkConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Check configuration",
	Long:  `Validate configuration.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf("\n%w\n"+CheckDocumentString, err)

			return
		}()

		err = checkConfigCmdRun()
		return
	},
}

func checkLogger() *zap.SugaredLogger {
	if checkFlags.EnableLogger {
		return logger.Get("fswatch")
	}

	return zap.NewNop().Sugar()
}

func readCheckedConfig() (ret *config.Config, err error) {
	var content []byte
	content, err = os.ReadFile(flags.CfgPath)
	if err != nil {
		Wrap(
			&err,
			"read configuration from %s",
			flags.CfgPath,
		)
		return
	}

	ret, err = config.New(
		config.WithContent(content),
		config.WithLogger(checkLogger()),
	)
	return
}

func checkConfigCmdRun() (err error) {
	defer Wrap(&err)

	_, err = readCheckedConfig()
	return
}

func init() {
	checkCmd.AddCommand(checkConfigCmd)
}
