// Package daemon owns the long-running envwatch monitor process lifecycle.
//
// It pairs a monitor.Monitor with a flock-based lock in the data directory so
// only one monitor polls a given database at a time. Start acquires the lock
// before scheduling any check; Stop halts the monitor and releases the lock.
package daemon
