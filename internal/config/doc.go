// Package config loads and validates tonearm configuration from TOML.
//
// Load resolves the config path, merges file contents over defaults, and
// normalizes values such as home-relative paths. Voting limits are carried
// at runtime by a LimitStore so quorum checks always observe the current
// values even when an operator changes them mid-session.
package config
