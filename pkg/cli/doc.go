// Package cli implements the command-line interface of profilemaker.
//
// # Overview
//
// profilemaker compiles browser privacy option groups (checkboxes, text fields
// and dropdowns) into a flat preference overlay and an ordered add-on list.
// The result is printed; nothing is written to a browser profile.
//
// # Commands
//
// groups - List the option groups:
//
//	profilemaker groups [--format yaml|json|table]
//
// validate - Check a submission and report rejected options:
//
//	profilemaker validate --submission prefs.yaml [--set group.option=value]...
//
// compile - Compile a submission into a profile document:
//
//	profilemaker compile --submission prefs.yaml [--set group.option=value]... \
//	    [--all-groups] [--parallelism N] [--metrics-file FILE] [--format yaml|json|table]
//
// # Submission Files
//
// Submissions are YAML, JSON or JSONC (JSON with comments), chosen by file
// extension:
//
//	groups:
//	  tracking:
//	    dnt: true
//	  privacy:
//	    all_cookies: true
//	    referer: 1
//
// --set values are applied after the file. Boolean options accept any value
// strconv.ParseBool understands; other values are passed as strings and
// matched against the option's declared choices.
//
// # Global Flags
//
//	--config       Config file (default: $HOME/.profilemaker.yaml)
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--catalog      Custom group catalog used instead of the built-in one
//
// # Configuration
//
// Values are resolved in this order: flag, environment variable, config file,
// built-in default. Environment variables use the PROFILEMAKER_ prefix
// (PROFILEMAKER_FORMAT, PROFILEMAKER_ALL_GROUPS, PROFILEMAKER_METRICS_FILE).
// LOG_LEVEL is honored as well. Config file keys match the flag names:
//
//	format: json
//	all-groups: true
//	parallelism: 2
//
// # Exit Codes
//
//	0  Success
//	1  Invalid input or execution failure
//	2  Context canceled
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/ffprofile/profilemaker/pkg/cli.version=1.0.0'"
package cli
