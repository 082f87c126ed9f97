package cli

// Export internal functions for testing.

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// RunConfigUse exports runConfigUse for testing.
var RunConfigUse = runConfigUse

// RunConfigProfiles exports runConfigProfiles for testing.
var RunConfigProfiles = runConfigProfiles

// IsValidConfigKey exports isValidConfigKey for testing.
var IsValidConfigKey = isValidConfigKey

// ParseParams exports parseParams for testing.
var ParseParams = parseParams

// NewLogger exports newLogger for testing.
var NewLogger = newLogger

// WriteMetrics exports writeMetrics for testing.
var WriteMetrics = writeMetrics
