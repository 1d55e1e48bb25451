// Package config loads the assetlist configuration file.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/assetlist/config.toml
//  3. If the file doesn't exist, use defaults
//  4. If the file exists but fields are missing or blank, use defaults for them
//
// # Fields
//
//	catalog_dir = "~/games/tactics/data"     # root of the YAML catalog (default ".")
//	lists_dir = "~/.config/assetlist/lists"  # list configurations (*.toml)
//	export_dir = "~/.local/share/assetlist/exports"
//	log_dir = "~/.local/share/assetlist/logs"
//	log_level = "info"                       # debug, info, warn, error
//	include = ["**/*.yaml", "**/*.yml"]      # doublestar globs below catalog_dir
//	rescan_seconds = 30                      # watcher fallback rescan interval
//
// Every value is trimmed and directory values get tilde expansion and are made
// absolute. The session log is written to <log_dir>/assetlist.log.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors and unknown log levels. A missing file is
// not an error, so assetlist runs without any configuration.
package config
