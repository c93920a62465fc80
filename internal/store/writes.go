package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateEnvironment inserts an environment, returning the existing ID when the
// name is already present.
func (s *Store) CreateEnvironment(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("environment name is required")
	}
	var id int64
	err := s.queryRow(ctx, []any{&id},
		`INSERT INTO environments (name) VALUES (?)
         ON CONFLICT(name) DO UPDATE SET name = excluded.name
         RETURNING id`,
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("insert environment: %w", err)
	}
	return id, nil
}

// PutVariable inserts or replaces a variable keyed by environment and key.
// A zero UpdatedAt is recorded as the current time.
func (s *Store) PutVariable(ctx context.Context, v Variable) (int64, error) {
	if v.EnvironmentID == 0 {
		return 0, errors.New("environment id is required")
	}
	if strings.TrimSpace(v.Key) == "" {
		return 0, errors.New("variable key is required")
	}
	updated := v.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	var id int64
	err := s.queryRow(ctx, []any{&id},
		`INSERT INTO variables (
            environment_id, key, value, is_secret, rotation_enabled, next_rotation, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(environment_id, key) DO UPDATE SET
            value = excluded.value,
            is_secret = excluded.is_secret,
            rotation_enabled = excluded.rotation_enabled,
            next_rotation = excluded.next_rotation,
            updated_at = excluded.updated_at
        RETURNING id`,
		v.EnvironmentID,
		v.Key,
		nullableString(v.Value),
		boolToInt(v.IsSecret),
		boolToInt(v.RotationEnabled),
		nullableTime(v.NextRotation),
		formatTimestamp(updated),
	)
	if err != nil {
		return 0, fmt.Errorf("upsert variable: %w", err)
	}
	return id, nil
}

// GetVariable fetches a variable by environment name and key. It returns nil
// without error when no such variable exists.
func (s *Store) GetVariable(ctx context.Context, environment, key string) (*Variable, error) {
	var (
		v            Variable
		value        sql.NullString
		isSecret     int
		rotation     int
		nextRotation sql.NullString
		updatedRaw   string
	)
	err := s.queryRow(ctx,
		[]any{&v.ID, &v.EnvironmentID, &v.Key, &value, &isSecret, &rotation, &nextRotation, &updatedRaw},
		`SELECT v.id, v.environment_id, v.key, v.value, v.is_secret, v.rotation_enabled, v.next_rotation, v.updated_at
         FROM variables v
         JOIN environments e ON e.id = v.environment_id
         WHERE e.name = ? AND v.key = ?`,
		environment, key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get variable: %w", err)
	}

	if value.Valid {
		v.Value = &value.String
	}
	v.IsSecret = isSecret != 0
	v.RotationEnabled = rotation != 0
	if nextRotation.Valid {
		if ts, err := parseTimeString(nextRotation.String); err == nil {
			v.NextRotation = &ts
		}
	}
	if ts, err := parseTimeString(updatedRaw); err == nil {
		v.UpdatedAt = ts
	}
	return &v, nil
}
