package postgres

import "embed"

// Migrations holds the goose SQL migrations for the tasks schema.
// Paths inside the FS are relative to MigrationsDir.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory within Migrations that goose should read.
const MigrationsDir = "migrations"
