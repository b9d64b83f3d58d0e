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
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v3"

	"github.com/ffprofile/profilemaker/pkg/catalog"
	pmdefaults "github.com/ffprofile/profilemaker/pkg/defaults"
	"github.com/ffprofile/profilemaker/pkg/errors"
	"github.com/ffprofile/profilemaker/pkg/logging"
)

// Settings holds values read from the optional config file. Flags and their
// environment variables take precedence over every field.
type Settings struct {
	LogLevel    string `mapstructure:"log-level" default:"info"`
	Format      string `mapstructure:"format" default:"yaml"`
	Catalog     string `mapstructure:"catalog"`
	AllGroups   bool   `mapstructure:"all-groups"`
	Parallelism int    `mapstructure:"parallelism"`
	MetricsFile string `mapstructure:"metrics-file"`
}

// loadSettings reads the config file at path, or searches $HOME and the
// working directory for .profilemaker.yaml when path is empty. A missing
// auto-discovered file is not an error; a missing explicit file is.
func loadSettings(path string) (*Settings, error) {
	s := &Settings{}
	if err := defaults.Set(s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to apply settings defaults", err)
	}

	v := viper.NewWithOptions(viper.WithLogger(slog.Default()))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
				"failed to read config file", err, map[string]any{"path": path})
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(pmdefaults.ConfigName)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read config file", err)
			}
		}
	}

	if err := v.Unmarshal(s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode config file", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("loaded config file", "path", used)
	}
	return s, nil
}

// runtime is the per-invocation state shared by every command.
type runtime struct {
	settings *Settings
	catalog  *catalog.Catalog
}

// setup loads settings, installs the logger and loads the catalog.
func setup(cmd *cli.Command) (*runtime, error) {
	s, err := loadSettings(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	s.LogLevel = stringSetting(cmd, "log-level", s.LogLevel)
	s.Catalog = stringSetting(cmd, "catalog", s.Catalog)

	logging.SetDefaultStructuredLoggerWithLevel(name, version, s.LogLevel)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", s.LogLevel)

	var cat *catalog.Catalog
	if s.Catalog != "" {
		cat, err = catalog.LoadFile(s.Catalog)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	return &runtime{settings: s, catalog: cat}, nil
}

func stringSetting(cmd *cli.Command, flag, fallback string) string {
	if cmd.IsSet(flag) {
		return cmd.String(flag)
	}
	return fallback
}

func boolSetting(cmd *cli.Command, flag string, fallback bool) bool {
	if cmd.IsSet(flag) {
		return cmd.Bool(flag)
	}
	return fallback
}

func intSetting(cmd *cli.Command, flag string, fallback int) int {
	if cmd.IsSet(flag) {
		return int(cmd.Int(flag))
	}
	return fallback
}
