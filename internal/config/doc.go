// Package config loads callir settings from CUE.
//
// A config file is plain CUE unified with the embedded #Config schema
// (schema.cue), so omitted fields take the schema defaults and unknown
// fields are rejected:
//
//	max_depth: 64
//	format:    "json"
//	database:  "callir.db"
//
// Command-line flags override loaded values.
package config
