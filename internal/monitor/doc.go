// Package monitor runs the periodic hygiene checks against the variables
// store.
//
// A Monitor owns three independent cron entries (rotation, unused, and
// duplicate checks), a running flag that every check consults before touching
// the store or writing output, and the console rendering of each result. Check
// bodies are serialized so at most one executes at a time. Stop removes every
// entry and waits for an in-flight check before returning, after which no
// further output is produced.
package monitor
