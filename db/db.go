package db

import "embed"

// Migrations holds the schema migrations, one directory per database driver.
//
//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var Migrations embed.FS
