package db

import "embed"

// MigrationFS embeds the SQL migrations in internal/db/migrations (golang-migrate naming: NNNNNN_name.{up,down}.sql).
// Applied by internal/db/migrate from cmd/migrate.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
