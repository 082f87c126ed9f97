package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrCredentialsMissing indicates no access key in the profile or the environment.
	ErrCredentialsMissing = errors.New("access key not configured: set access-key-id and access-key-secret " +
		"(or ALIBABA_CLOUD_ACCESS_KEY_ID and ALIBABA_CLOUD_ACCESS_KEY_SECRET)")

	// ErrInvalidConfig indicates a configuration that could not be loaded.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidParam indicates a request parameter not in Key=Value form.
	ErrInvalidParam = errors.New("invalid parameter")
)
