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

	"github.com/ffprofile/profilemaker/pkg/errors"
	"github.com/ffprofile/profilemaker/pkg/profile"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate a submission against the option groups",
		Description: `Check every submitted group and report each rejected option with its
reason (missing_required or out_of_domain). Exits non-zero when any group
is invalid.

Examples:
  profilemaker validate --submission prefs.yaml
  profilemaker validate --set privacy.referer=2 --set tracking.dnt=false`,
		Flags: []cli.Flag{
			submissionFlag(),
			setFlag(),
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

			c := profile.NewComposer(rt.catalog, profile.WithVersion(version))
			report, err := c.Validate(ctx, subs)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if err := writeDocument(ctx, cmd, format, report); err != nil {
				return err
			}

			slog.Info("validation completed", "groups", len(report.Groups), "valid", report.Valid)

			if !report.Valid {
				var invalid []string
				for _, g := range report.Groups {
					if !g.Valid {
						invalid = append(invalid, g.Group)
					}
				}
				return errors.NewWithContext(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("submission is invalid for group(s): %v", invalid),
					map[string]any{"groups": invalid})
			}
			return nil
		},
	}
}
