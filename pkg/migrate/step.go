package migrate

// Step is an idempotent rewrite of the configuration tree.
type Step interface {
	// Name is a short identifier used in logs and metrics.
	Name() string

	// Description is a human readable description of what the step does.
	Description() string

	// Checkpoint reports whether the tree must be pushed right after the step
	// when it changed something, before later steps run.
	Checkpoint() bool

	// Run applies the step and reports whether the tree changed.
	Run(*Context) (bool, error)
}

// treeStep is the default Step implementation.
type treeStep struct {
	name        string
	description string
	checkpoint  bool
	run         func(*Context) (bool, error)
}

var _ Step = (*treeStep)(nil)

// Name is defined on the Step interface.
func (s *treeStep) Name() string {
	return s.name
}

// Description is defined on the Step interface.
func (s *treeStep) Description() string {
	return s.description
}

// Checkpoint is defined on the Step interface.
func (s *treeStep) Checkpoint() bool {
	return s.checkpoint
}

// Run is defined on the Step interface.
func (s *treeStep) Run(c *Context) (bool, error) {
	return s.run(c)
}

// ParameterSteps are the forward parameter migration, in order.
func ParameterSteps() []Step {
	return []Step{
		&treeStep{
			name:        "interface_keys",
			description: "rename interface folder keys",
			run:         MigrateInterfaceFolders,
		},
		&treeStep{
			name:        "zones_vlans",
			description: "extract zones and vlans",
			run:         ExtractZonesAndVlans,
		},
		&treeStep{
			name:        "default_gateways",
			description: "extract default gateways",
			run:         ExtractDefaultGateways,
		},
	}
}

// CleanupSteps delete the pre-migration backups.
func CleanupSteps() []Step {
	return []Step{
		&treeStep{
			name:        "cleanup_backups",
			description: "delete pre-migration backups",
			run:         CleanupBackups,
		},
	}
}

// RevertSteps undo a parameter migration. The first step is a checkpoint:
// migrated folders must be gone from the controller before the backups are
// renamed back into their place.
func RevertSteps() []Step {
	return []Step{
		&treeStep{
			name:        "delete_migrated",
			description: "delete migrated folders",
			checkpoint:  true,
			run:         DeleteMigratedFolders,
		},
		&treeStep{
			name:        "restore_backups",
			description: "restore pre-migration backups",
			run:         RestoreBackups,
		},
	}
}
