// Package store reads the local environment-variable database backed by
// SQLite.
//
// The database belongs to the secrets tool; envwatch opens it, creates the
// environments and variables tables when they are missing, and otherwise only
// queries it. The write helpers exist so tests and fixtures can seed data
// through the same code path as the schema.
//
// Timestamps are written with millisecond precision and compared through
// SQLite's julianday() so both the CURRENT_TIMESTAMP layout and ISO-8601
// values written by other tools order correctly, fractional seconds included.
package store
