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
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/ffprofile/profilemaker/pkg/profile"
)

func compileCmd() *cli.Command {
	return &cli.Command{
		Name:                  "compile",
		EnableShellCompletion: true,
		Usage:                 "Compile a submission into a profile document",
		Description: `Compile the submitted groups and merge their preference overlays in catalog
order. When two groups set the same preference the later group wins; the
replacement is listed under overrides.

The profile is printed to stdout; nothing is written to a browser profile.

Examples:
  profilemaker compile --submission prefs.yaml
  profilemaker compile --all-groups --set privacy.all_cookies=true --format json
  profilemaker compile -f prefs.jsonc --metrics-file /var/lib/node_exporter/profilemaker.prom`,
		Flags: []cli.Flag{
			submissionFlag(),
			setFlag(),
			&cli.BoolFlag{
				Name:    "all-groups",
				Usage:   "Compile every group, using defaults for groups without a submission",
				Sources: cli.EnvVars(envVar("ALL_GROUPS")),
			},
			&cli.IntFlag{
				Name:    "parallelism",
				Usage:   "Maximum number of groups compiled concurrently",
				Sources: cli.EnvVars(envVar("PARALLELISM")),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics in textfile-collector format to this path",
				Sources: cli.EnvVars(envVar("METRICS_FILE")),
			},
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

			subs, err := loadSubmissions(rt.catalog, cmd.String("submission"), cmd.StringSlice("set"))
			if err != nil {
				return err
			}

			opts := []profile.Option{
				profile.WithVersion(version),
				profile.WithParallelism(intSetting(cmd, "parallelism", rt.settings.Parallelism)),
			}
			if boolSetting(cmd, "all-groups", rt.settings.AllGroups) {
				opts = append(opts, profile.WithAllGroups())
			}

			p, err := profile.NewComposer(rt.catalog, opts...).Compose(ctx, subs)
			if err != nil {
				return fmt.Errorf("failed to compile profile: %w", err)
			}

			if err := writeDocument(ctx, cmd, format, p); err != nil {
				return err
			}

			if path := stringSetting(cmd, "metrics-file", rt.settings.MetricsFile); path != "" {
				if err := profile.WriteMetrics(path); err != nil {
					return err
				}
				slog.Debug("metrics written", "path", path)
			}

			return nil
		},
	}
}
