package apic

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxNameLength is the longest name the APIC accepts for tenants,
// application profiles, EPGs and folders.
const MaxNameLength = 64

// ErrInvalidName indicates a name the APIC would reject.
var ErrInvalidName = errors.New("invalid name")

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// ValidateName checks an object name against the APIC naming rules: 1 to 64
// characters from letters, digits and "_.:-".
//
// Example:
//
//	if err := apic.ValidateName(tenant); err != nil {
//	    return fmt.Errorf("--tenant: %w", err)
//	}
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidName, name, MaxNameLength)
	case !namePattern.MatchString(name):
		return fmt.Errorf("%w: %q may only contain letters, digits and _.:-", ErrInvalidName, name)
	}
	return nil
}
