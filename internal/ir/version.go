package ir

// Version constants for the extension set.
const (
	// IRVersion is the declaration schema version.
	IRVersion = "1"

	// ExtensionVersion is the cepmath extension version.
	ExtensionVersion = "0.1.0"
)
