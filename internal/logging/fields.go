// Package logging provides structured logging utilities for dpmigrate.
package logging

// Standard field names for consistent logging across the application.
const (
	// FieldRunID identifies one invocation of the tool.
	FieldRunID = "run_id"

	// FieldTenant is the APIC tenant name.
	FieldTenant = "tenant"

	// FieldAppProfile is the application profile name.
	FieldAppProfile = "app_profile"

	// FieldEPG is the endpoint group name.
	FieldEPG = "epg"

	// FieldFolder is a folder path below an EPG.
	FieldFolder = "folder"

	// FieldPass is the short name of a migration pass.
	FieldPass = "pass"

	// FieldStage is the push stage (checkpoint or final).
	FieldStage = "stage"

	// FieldRequestID is a unique identifier for each simulator request.
	FieldRequestID = "request_id"

	// FieldDuration is the duration of an operation in milliseconds.
	FieldDuration = "duration_ms"

	// FieldStatusCode is the HTTP status code of a response.
	FieldStatusCode = "status_code"

	// FieldMethod is the HTTP method of a request.
	FieldMethod = "method"

	// FieldPath is the URL path of an HTTP request.
	FieldPath = "path"

	// FieldRemoteAddr is the client's remote address.
	FieldRemoteAddr = "remote_addr"

	// FieldComponent identifies the component generating the log.
	FieldComponent = "component"
)
