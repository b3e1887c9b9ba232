// Package config loads the formskema CLI settings with Viper.
//
// Settings come from, in increasing precedence: built-in defaults, a
// config.yaml found in the working directory or in
// $XDG_CONFIG_HOME/formskema, and FORMSKEMA_* environment variables.
//
//	strategy: direct       # or expand
//	language: en           # or ja
//	max_variants: 0        # 0 = unbounded
//	output: text           # or json
//	log_level: info
//	log_format: text
package config
