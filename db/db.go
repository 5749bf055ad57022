// Package db embeds the MongoDB migrations.
package db

import "embed"

// Migrations holds the migration files under migrations/.
//
//go:embed migrations/*.json
var Migrations embed.FS
