package models

import "errors"

// Common error types used when navigating a configuration tree.

var (
	// ErrTenantNotFound indicates the requested tenant does not exist on the
	// controller.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrAppProfileNotFound indicates the requested application profile does
	// not exist in the tenant.
	ErrAppProfileNotFound = errors.New("application profile not found")

	// ErrMalformedObject indicates a controller object could not be mapped onto
	// the tree (missing class, missing name or unexpected nesting).
	ErrMalformedObject = errors.New("malformed controller object")

	// ErrMalformedDN indicates a distinguished name does not have the expected
	// shape for its class.
	ErrMalformedDN = errors.New("malformed distinguished name")
)
