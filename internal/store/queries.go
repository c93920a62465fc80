package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const dueForRotationQuery = `
SELECT e.name, v.key
FROM variables v
JOIN environments e ON e.id = v.environment_id
WHERE v.is_secret = 1
  AND v.rotation_enabled = 1
  AND v.next_rotation IS NOT NULL
  AND julianday(v.next_rotation) <= julianday(?)
ORDER BY e.name, v.key`

const unusedSinceQuery = `
SELECT e.name, v.key
FROM variables v
JOIN environments e ON e.id = v.environment_id
WHERE julianday(v.updated_at) < julianday(?)
ORDER BY julianday(v.updated_at), e.name, v.key`

const duplicateValuesQuery = `
SELECT value, COUNT(*) AS count, GROUP_CONCAT(key, ', ' ORDER BY key) AS keys
FROM variables
WHERE value IS NOT NULL AND value <> ''
GROUP BY value
HAVING COUNT(*) > 1
ORDER BY count DESC, MIN(key)`

const statsQuery = `
SELECT
    COUNT(*),
    COALESCE(SUM(CASE WHEN is_secret = 1 THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN is_secret = 1 AND rotation_enabled = 1
        AND next_rotation IS NOT NULL AND julianday(next_rotation) <= julianday(?)
        THEN 1 ELSE 0 END), 0)
FROM variables`

// DueForRotation returns rotation-enabled secrets whose next_rotation is at or
// before now.
func (s *Store) DueForRotation(ctx context.Context, now time.Time) ([]VariableRef, error) {
	refs, err := s.variableRefs(ctx, dueForRotationQuery, formatTimestamp(now))
	if err != nil {
		return nil, fmt.Errorf("query due rotations: %w", err)
	}
	return refs, nil
}

// UnusedSince returns variables whose updated_at is strictly older than cutoff,
// oldest first.
func (s *Store) UnusedSince(ctx context.Context, cutoff time.Time) ([]VariableRef, error) {
	refs, err := s.variableRefs(ctx, unusedSinceQuery, formatTimestamp(cutoff))
	if err != nil {
		return nil, fmt.Errorf("query unused variables: %w", err)
	}
	return refs, nil
}

// DuplicateValues groups variables by non-empty value and returns the groups
// shared by more than one variable, largest first.
func (s *Store) DuplicateValues(ctx context.Context) ([]DuplicateGroup, error) {
	var groups []DuplicateGroup
	err := s.queryEach(ctx, func(rows *sql.Rows) error {
		var group DuplicateGroup
		if err := rows.Scan(&group.Value, &group.Count, &group.Keys); err != nil {
			return err
		}
		groups = append(groups, group)
		return nil
	}, duplicateValuesQuery)
	if err != nil {
		return nil, fmt.Errorf("query duplicate values: %w", err)
	}
	return groups, nil
}

// Stats counts variables, secrets, and secrets due for rotation at now.
func (s *Store) Stats(ctx context.Context, now time.Time) (Stats, error) {
	var stats Stats
	dest := []any{&stats.Variables, &stats.Secrets, &stats.RotationDue}
	if err := s.queryRow(ctx, dest, statsQuery, formatTimestamp(now)); err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}

func (s *Store) variableRefs(ctx context.Context, query string, args ...any) ([]VariableRef, error) {
	var refs []VariableRef
	err := s.queryEach(ctx, func(rows *sql.Rows) error {
		var ref VariableRef
		if err := rows.Scan(&ref.Environment, &ref.Key); err != nil {
			return err
		}
		refs = append(refs, ref)
		return nil
	}, query, args...)
	return refs, err
}
