package testsupport

import (
	"context"
	"testing"
	"time"

	"envwatch/internal/config"
	"envwatch/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustEnvironment creates (or fetches) an environment and returns its ID.
func MustEnvironment(t testing.TB, st *store.Store, name string) int64 {
	t.Helper()

	id, err := st.CreateEnvironment(context.Background(), name)
	if err != nil {
		t.Fatalf("store.CreateEnvironment: %v", err)
	}
	return id
}

// VariableOption adjusts a seeded variable before it is written.
type VariableOption func(*store.Variable)

// Secret marks the variable as a secret with rotation enabled and due at due.
func Secret(due time.Time) VariableOption {
	return func(v *store.Variable) {
		v.IsSecret = true
		v.RotationEnabled = true
		v.NextRotation = &due
	}
}

// UpdatedAt sets the last-updated timestamp.
func UpdatedAt(ts time.Time) VariableOption {
	return func(v *store.Variable) {
		v.UpdatedAt = ts
	}
}

// NoValue stores the variable with a NULL value.
func NoValue() VariableOption {
	return func(v *store.Variable) {
		v.Value = nil
	}
}

// MustVariable writes a variable into the environment and returns its ID.
func MustVariable(t testing.TB, st *store.Store, envID int64, key, value string, opts ...VariableOption) int64 {
	t.Helper()

	v := store.Variable{
		EnvironmentID: envID,
		Key:           key,
		Value:         &value,
	}
	for _, opt := range opts {
		opt(&v)
	}
	id, err := st.PutVariable(context.Background(), v)
	if err != nil {
		t.Fatalf("store.PutVariable: %v", err)
	}
	return id
}
