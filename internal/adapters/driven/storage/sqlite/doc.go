// Package sqlite archives chat transcripts in a local SQLite database.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that needs no
// CGO. The schema is managed through versioned migrations embedded from the
// migrations/ directory; each .up.sql file records its own version.
//
// By default the database is stored at ~/.paperlens/data/transcripts.db.
package sqlite
