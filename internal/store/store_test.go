package store_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"envwatch/internal/store"
	"envwatch/internal/testsupport"
)

func TestOpenCreatesSchemaOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	envID := testsupport.MustEnvironment(t, st, "prod")
	testsupport.MustVariable(t, st, envID, "API_KEY", "abc")
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	if reopened.Path() != cfg.Paths.DatabasePath {
		t.Fatalf("expected path %q, got %q", cfg.Paths.DatabasePath, reopened.Path())
	}
	v, err := reopened.GetVariable(context.Background(), "prod", "API_KEY")
	if err != nil {
		t.Fatalf("GetVariable: %v", err)
	}
	if v == nil || v.Value == nil || *v.Value != "abc" {
		t.Fatalf("expected variable to survive reopen, got %+v", v)
	}
}

func TestOpenUsesExistingVariablesTable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	db, err := sql.Open("sqlite", cfg.Paths.DatabasePath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE environments (id INTEGER PRIMARY KEY, name TEXT UNIQUE);
CREATE TABLE variables (id INTEGER PRIMARY KEY, environment_id INTEGER, key TEXT, value TEXT,
 is_secret INTEGER, rotation_enabled INTEGER, next_rotation TEXT, created_at TEXT, updated_at TEXT,
 UNIQUE(environment_id, key));
INSERT INTO environments (id, name) VALUES (1, 'legacy');
INSERT INTO variables (environment_id, key, value, is_secret, rotation_enabled, updated_at)
 VALUES (1, 'OLD', 'x', 0, 0, '2020-01-01 00:00:00');`)
	if err != nil {
		t.Fatalf("seed legacy schema: %v", err)
	}
	_ = db.Close()

	st := testsupport.MustOpenStore(t, cfg)
	refs, err := st.UnusedSince(context.Background(), time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("UnusedSince: %v", err)
	}
	if len(refs) != 1 || refs[0].String() != "legacy/OLD" {
		t.Fatalf("unexpected refs %v", refs)
	}
}

func TestDueForRotation(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	prod := testsupport.MustEnvironment(t, st, "prod")
	dev := testsupport.MustEnvironment(t, st, "dev")
	testsupport.MustVariable(t, st, prod, "DB_PASSWORD", "p1", testsupport.Secret(now.Add(-time.Hour)))
	testsupport.MustVariable(t, st, prod, "API_TOKEN", "p2", testsupport.Secret(now))
	testsupport.MustVariable(t, st, dev, "SESSION_KEY", "d1", testsupport.Secret(now.Add(-24*time.Hour)))
	testsupport.MustVariable(t, st, prod, "FUTURE", "p3", testsupport.Secret(now.Add(time.Minute)))

	disabled := now.Add(-time.Hour)
	if _, err := st.PutVariable(ctx, store.Variable{
		EnvironmentID: prod, Key: "DISABLED", IsSecret: true, NextRotation: &disabled,
	}); err != nil {
		t.Fatalf("PutVariable: %v", err)
	}
	if _, err := st.PutVariable(ctx, store.Variable{
		EnvironmentID: prod, Key: "PLAIN", RotationEnabled: true, NextRotation: &disabled,
	}); err != nil {
		t.Fatalf("PutVariable: %v", err)
	}
	if _, err := st.PutVariable(ctx, store.Variable{
		EnvironmentID: prod, Key: "NO_SCHEDULE", IsSecret: true, RotationEnabled: true,
	}); err != nil {
		t.Fatalf("PutVariable: %v", err)
	}

	refs, err := st.DueForRotation(ctx, now)
	if err != nil {
		t.Fatalf("DueForRotation: %v", err)
	}
	var got []string
	for _, ref := range refs {
		got = append(got, ref.String())
	}
	want := "dev/SESSION_KEY,prod/API_TOKEN,prod/DB_PASSWORD"
	if strings.Join(got, ",") != want {
		t.Fatalf("expected %s, got %s", want, strings.Join(got, ","))
	}
}

func TestUnusedSinceIsStrict(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-30 * 24 * time.Hour)

	env := testsupport.MustEnvironment(t, st, "staging")
	testsupport.MustVariable(t, st, env, "OLDEST", "a", testsupport.UpdatedAt(cutoff.Add(-48*time.Hour)))
	testsupport.MustVariable(t, st, env, "OLD", "b", testsupport.UpdatedAt(cutoff.Add(-time.Second)))
	testsupport.MustVariable(t, st, env, "BOUNDARY", "c", testsupport.UpdatedAt(cutoff))
	testsupport.MustVariable(t, st, env, "FRESH", "d", testsupport.UpdatedAt(now))

	refs, err := st.UnusedSince(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("UnusedSince: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 unused variables, got %v", refs)
	}
	if refs[0].Key != "OLDEST" || refs[1].Key != "OLD" {
		t.Fatalf("expected oldest first, got %v", refs)
	}
}

func TestUnusedSinceComparesFractionalSeconds(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	cutoff := time.Date(2024, 5, 2, 12, 0, 0, 500*int(time.Millisecond), time.UTC)

	env := testsupport.MustEnvironment(t, st, "staging")
	testsupport.MustVariable(t, st, env, "JUST_OLDER", "a", testsupport.UpdatedAt(cutoff.Add(-250*time.Millisecond)))
	testsupport.MustVariable(t, st, env, "AT_CUTOFF", "b", testsupport.UpdatedAt(cutoff))
	testsupport.MustVariable(t, st, env, "JUST_NEWER", "c", testsupport.UpdatedAt(cutoff.Add(250*time.Millisecond)))

	refs, err := st.UnusedSince(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("UnusedSince: %v", err)
	}
	if len(refs) != 1 || refs[0].Key != "JUST_OLDER" {
		t.Fatalf("expected only JUST_OLDER, got %v", refs)
	}
}

func TestDuplicateValuesSkipsEmptyAndSingletons(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	prod := testsupport.MustEnvironment(t, st, "prod")
	dev := testsupport.MustEnvironment(t, st, "dev")

	testsupport.MustVariable(t, st, prod, "TOKEN", "shared")
	testsupport.MustVariable(t, st, dev, "API_KEY", "shared")
	testsupport.MustVariable(t, st, dev, "OTHER_KEY", "shared")
	testsupport.MustVariable(t, st, prod, "HOST", "db.local")
	testsupport.MustVariable(t, st, dev, "HOST", "db.local")
	testsupport.MustVariable(t, st, prod, "UNIQUE", "only-once")
	testsupport.MustVariable(t, st, prod, "EMPTY_A", "")
	testsupport.MustVariable(t, st, dev, "EMPTY_B", "")
	testsupport.MustVariable(t, st, prod, "NULL_A", "", testsupport.NoValue())
	testsupport.MustVariable(t, st, dev, "NULL_B", "", testsupport.NoValue())

	groups, err := st.DuplicateValues(context.Background())
	if err != nil {
		t.Fatalf("DuplicateValues: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", groups)
	}
	if groups[0].Count != 3 || groups[0].Value != "shared" {
		t.Fatalf("expected largest group first, got %+v", groups[0])
	}
	if groups[0].Keys != "API_KEY, OTHER_KEY, TOKEN" {
		t.Fatalf("expected keys in key order, got %q", groups[0].Keys)
	}
	if groups[1].Count != 2 || groups[1].Keys != "HOST, HOST" {
		t.Fatalf("unexpected second group %+v", groups[1])
	}
}

func TestStats(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	now := time.Now().UTC()

	empty, err := st.Stats(context.Background(), now)
	if err != nil {
		t.Fatalf("Stats on empty store: %v", err)
	}
	if empty != (store.Stats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}

	env := testsupport.MustEnvironment(t, st, "prod")
	testsupport.MustVariable(t, st, env, "A", "1")
	testsupport.MustVariable(t, st, env, "B", "2", testsupport.Secret(now.Add(-time.Hour)))
	testsupport.MustVariable(t, st, env, "C", "3", testsupport.Secret(now.Add(time.Hour)))

	stats, err := st.Stats(context.Background(), now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := store.Stats{Variables: 3, Secrets: 2, RotationDue: 1}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func TestPutVariableUpsertsByEnvironmentAndKey(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	env := testsupport.MustEnvironment(t, st, "prod")
	again := testsupport.MustEnvironment(t, st, "prod")
	if env != again {
		t.Fatalf("expected CreateEnvironment to return existing id %d, got %d", env, again)
	}

	first := testsupport.MustVariable(t, st, env, "KEY", "v1")
	stamp := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	second := testsupport.MustVariable(t, st, env, "KEY", "v2", testsupport.UpdatedAt(stamp))
	if first != second {
		t.Fatalf("expected upsert to keep id %d, got %d", first, second)
	}

	v, err := st.GetVariable(context.Background(), "prod", "KEY")
	if err != nil {
		t.Fatalf("GetVariable: %v", err)
	}
	if v == nil || v.Value == nil || *v.Value != "v2" {
		t.Fatalf("expected updated value, got %+v", v)
	}
	if !v.UpdatedAt.Equal(stamp) {
		t.Fatalf("expected updated_at %v, got %v", stamp, v.UpdatedAt)
	}

	missing, err := st.GetVariable(context.Background(), "prod", "MISSING")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing variable, got %+v, %v", missing, err)
	}
}

func TestWritesRejectInvalidInput(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, err := st.CreateEnvironment(ctx, "   "); err == nil {
		t.Fatal("expected error for blank environment name")
	}
	if _, err := st.PutVariable(ctx, store.Variable{Key: "K"}); err == nil {
		t.Fatal("expected error for missing environment id")
	}
	if _, err := st.PutVariable(ctx, store.Variable{EnvironmentID: 1}); err == nil {
		t.Fatal("expected error for missing key")
	}
}
