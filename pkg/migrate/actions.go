package migrate

import "strings"

// Actions is the set of actions selected for one invocation.
type Actions struct {
	// Parameters migrates (or with Revert, restores) the folder parameters.
	Parameters bool

	// Clusters moves the cluster associations to the other device package.
	Clusters bool

	// Cleanup deletes the pre-migration backups.
	Cleanup bool

	// Revert switches Parameters and Clusters to the 1.3 -> 1.2 direction.
	Revert bool
}

// Validate rejects action combinations that cannot be run. It is checked
// before anything is fetched.
func (a Actions) Validate() error {
	switch {
	case !a.Parameters && !a.Clusters && !a.Cleanup && !a.Revert:
		return ErrNoAction
	case a.Revert && a.Cleanup:
		return ErrRevertWithCleanup
	case a.Revert && !a.Parameters && !a.Clusters:
		return ErrRevertNeedsTarget
	case a.Cleanup && (a.Parameters || a.Clusters):
		return ErrCleanupCombined
	}
	return nil
}

// NeedsApp reports whether the actions operate on an application profile,
// which is also when the tenant's folder tree has to be fetched.
func (a Actions) NeedsApp() bool {
	return a.Parameters || a.Cleanup
}

// Steps returns the tree steps for the actions, in run order.
func (a Actions) Steps() []Step {
	var steps []Step
	switch {
	case a.Parameters && a.Revert:
		steps = append(steps, RevertSteps()...)
	case a.Parameters:
		steps = append(steps, ParameterSteps()...)
	}
	if a.Cleanup {
		steps = append(steps, CleanupSteps()...)
	}
	return steps
}

// String lists the selected actions, for example "parameters,clusters".
func (a Actions) String() string {
	var names []string
	if a.Revert {
		names = append(names, "revert")
	}
	if a.Parameters {
		names = append(names, "parameters")
	}
	if a.Clusters {
		names = append(names, "clusters")
	}
	if a.Cleanup {
		names = append(names, "cleanup")
	}
	return strings.Join(names, ",")
}
