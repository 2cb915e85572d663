package migrate

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned when validating an invocation or running a plan.
var (
	// ErrNoAction indicates no action was selected.
	ErrNoAction = errors.New("at least one action must be specified; a migration usually runs parameters -> clusters -> cleanup")

	// ErrRevertNeedsTarget indicates revert was selected without parameters or clusters.
	ErrRevertNeedsTarget = errors.New("revert must be combined with parameters or clusters")

	// ErrRevertWithCleanup indicates revert and cleanup were selected together.
	ErrRevertWithCleanup = errors.New("revert can only be combined with parameters and clusters; cleanup cannot be reverted")

	// ErrCleanupCombined indicates cleanup was combined with another action.
	ErrCleanupCombined = errors.New("cleanup cannot be combined with another action; verify the migration before cleaning up, a cleanup cannot be undone")

	// ErrSelectionRequired indicates a tenant or application profile must be
	// chosen before the run can continue.
	ErrSelectionRequired = errors.New("selection required")

	// ErrNoBackups indicates a revert found migrated folders but no
	// pre-migration backups to restore, which happens after a cleanup.
	ErrNoBackups = errors.New("no pre-migration backups found; the application profile was cleaned up and cannot be reverted")
)

// Selection kinds carried by SelectionError.
const (
	SelectTenant     = "Tenant"
	SelectAppProfile = "AppProfile"
)

// SelectionError reports a tenant or application profile that was not given
// or not found, together with the names that are available.
type SelectionError struct {
	// Kind is "Tenant" or "AppProfile".
	Kind string

	// Name is the requested name; empty when nothing was requested.
	Name string

	// Available lists the names the controller reported.
	Available []string

	err error
}

func (e *SelectionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("no %s specified (available: %s)", strings.ToLower(e.Kind), strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.Name)
}

func (e *SelectionError) Unwrap() error {
	return e.err
}

// Missing reports whether the selection was not given at all, as opposed to
// given but not found.
func (e *SelectionError) Missing() bool {
	return errors.Is(e.err, ErrSelectionRequired)
}

// stepError records the description of the step being run and the error.
type stepError struct {
	description string
	err         error
}

func (e *stepError) Error() string {
	return fmt.Sprintf("%s: %v", e.description, e.err)
}

func (e *stepError) Unwrap() error {
	return e.err
}
