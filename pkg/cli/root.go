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
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/ffprofile/profilemaker/pkg/defaults"
	"github.com/ffprofile/profilemaker/pkg/errors"
	"github.com/ffprofile/profilemaker/pkg/logging"
	"github.com/ffprofile/profilemaker/pkg/serializer"
)

const (
	name           = "profilemaker"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Flags are built per command tree; urfave/cli flags hold parse state.

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Usage:   fmt.Sprintf("Config file (default is $HOME/%s.yaml)", defaults.ConfigName),
		Sources: cli.EnvVars(envVar("CONFIG")),
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars(envVar("LOG_LEVEL"), logging.EnvVarLogLevel),
	}
}

func catalogFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "catalog",
		Usage:   "Path to a group catalog file (YAML, JSON or JSONC) used instead of the built-in catalog",
		Sources: cli.EnvVars(envVar("CATALOG")),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (supported values: %v)", serializer.SupportedFormats()),
		Sources: cli.EnvVars(envVar("FORMAT")),
	}
}

func submissionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "submission",
		Aliases: []string{"f"},
		Usage:   "Path to a submission file (YAML, JSON or JSONC) of the form {groups: {<group>: {<option>: value}}}",
	}
}

func setFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "set",
		Usage: "Set an option value as group.option=value (repeatable, applied after --submission)",
	}
}

func envVar(key string) string {
	return defaults.EnvPrefix + "_" + key
}

// newRootCmd returns the profilemaker command tree writing documents to w.
func newRootCmd(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Compile browser privacy option groups into a preference overlay",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Writer:                w,
		Description: `profilemaker turns checkbox, text and choice selections into a flat map of
browser preference keys and an ordered list of add-on identifiers.

groups   - lists the declared option groups and their options.
validate - checks a submission and reports every rejected option.
compile  - compiles a submission into a profile document.`,
		Flags: []cli.Flag{
			configFlag(),
			logLevelFlag(),
			catalogFlag(),
		},
		Commands: []*cli.Command{
			groupsCmd(),
			validateCmd(),
			compileCmd(),
		},
	}
}

// Execute runs the CLI with the process arguments and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	logging.SetDefaultStructuredLogger(name, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status: 2 for cancellation,
// 1 for everything else.
func exitCode(err error) int {
	if errors.HasCode(err, errors.ErrCodeTimeout) {
		return 2
	}
	return 1
}

// parseOutputFormat returns the validated output format of cmd, falling back
// to the configured default when the flag was not given.
func parseOutputFormat(cmd *cli.Command, s *Settings) (serializer.Format, error) {
	value := cmd.String("format")
	if !cmd.IsSet("format") && s != nil {
		value = s.Format
	}
	f := serializer.Format(value)
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported values: %v)", value, serializer.SupportedFormats())
	}
	return f, nil
}

// writeDocument serializes v to the command's writer.
func writeDocument(ctx context.Context, cmd *cli.Command, format serializer.Format, v any) error {
	w := serializer.NewWriter(format, cmd.Root().Writer)
	if err := w.Serialize(ctx, v); err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}
	slog.Debug("document written", "format", format)
	return nil
}
