package client

// Export internal functions for testing.
var (
	ClassifyTransportError = classifyTransportError
	OutcomeOf              = outcomeOf
)
