package store

import "time"

// Variable is a single key/value entry owned by an environment.
type Variable struct {
	ID              int64
	EnvironmentID   int64
	Key             string
	Value           *string
	IsSecret        bool
	RotationEnabled bool
	NextRotation    *time.Time
	UpdatedAt       time.Time
}

// VariableRef identifies a variable by environment name and key.
type VariableRef struct {
	Environment string
	Key         string
}

// String renders the reference as <environment>/<key>.
func (r VariableRef) String() string {
	return r.Environment + "/" + r.Key
}

// DuplicateGroup describes a value shared by more than one variable.
// Keys is the comma-separated list of keys holding the value.
type DuplicateGroup struct {
	Value string
	Count int
	Keys  string
}

// Stats summarizes the store for the status display.
type Stats struct {
	Variables   int
	Secrets     int
	RotationDue int
}
