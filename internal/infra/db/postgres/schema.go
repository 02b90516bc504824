package postgres

import _ "embed"

// Schema is applied by cmd/seed; kept in SQL so the constraints the repos
// depend on are reviewable in one place.
//
//go:embed schema.sql
var Schema string
