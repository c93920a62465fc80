// Package main hosts the envwatch CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation and hands
// it to the internal packages: the monitor command runs the long-lived
// polling loop, while status, check, and report run against the variables
// database once and exit.
package main
