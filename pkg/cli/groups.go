// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
)

func groupsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "groups",
		EnableShellCompletion: true,
		Usage:                 "List the declared option groups",
		Description: `List every option group of the catalog in merge order, with each option's
kind, default, choices and the preferences it emits.

Examples:
  profilemaker groups
  profilemaker groups --format table
  profilemaker --catalog extras.yaml groups --format json`,
		Flags: []cli.Flag{
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}

			format, err := parseOutputFormat(cmd, rt.settings)
			if err != nil {
				return err
			}

			slog.Debug("listing groups", "groups", len(rt.catalog.IDs()))
			return writeDocument(ctx, cmd, format, rt.catalog.Document(version))
		},
	}
}
