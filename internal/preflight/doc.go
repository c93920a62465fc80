// Package preflight provides readiness checks for the filesystem paths and
// services envwatch depends on.
//
// The "config validate" command runs RunAll and prints each Result; the
// monitor command runs the same checks before taking its lock so a missing or
// read-only database directory is reported up front.
package preflight
