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

package defaults

// Configuration file discovery and environment variables.
const (
	// ConfigName is the base name of the optional config file searched in
	// $HOME and the working directory.
	ConfigName = ".profilemaker"

	// EnvPrefix prefixes every environment variable read by the CLI.
	EnvPrefix = "PROFILEMAKER"
)

// File limits for caller-provided input.
const (
	// MaxInputFileSize bounds submission and catalog files (1MB).
	MaxInputFileSize = 1 << 20
)

// Composition defaults.
const (
	// ComposeParallelism bounds how many groups compile concurrently.
	ComposeParallelism = 4
)
