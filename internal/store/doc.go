// Package store persists translation records. Records are append-only: the
// store never updates or deletes a row, and inserting the same file twice
// produces two rows. Backends exist for Supabase (PostgREST over HTTP), for a
// Postgres database through gorm, and for a local SQLite file.
package store
