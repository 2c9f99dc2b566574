// Package migrations embeds the versioned schema for each supported SQL
// dialect. Files follow goose's "-- +goose Up / Down" annotation format.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
