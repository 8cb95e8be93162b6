// Package config loads racecard's configuration.
//
// Values are layered: built-in defaults, then the YAML file at
// ~/.racecard/config.yaml (or the path given with --config), then the
// RACECARD_BASE_URL, RACECARD_OUTPUT_DIR and RACECARD_DATA_DIR environment
// variables. Command-line flags are applied last by the cli package.
//
// Example config.yaml:
//
//	site:
//	  requests_per_second: 2
//	  encoding: euc-jp
//	resolver:
//	  pattern_budget: 80
//	  suffixes: [EB, "39", 1B]
//	output:
//	  dir: ~/Documents/keiba
package config
