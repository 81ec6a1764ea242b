// Package config handles the optional speccheck workspace configuration.
package config

// Default values.
const (
	// ConfigFileName is the name of the config file.
	ConfigFileName = "speccheck.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1

	// DefaultWorkspaceAlias maps "@/..." imports to the workspace root.
	DefaultWorkspaceAlias = "@/"

	// DefaultSpecSuffix marks component spec documents.
	DefaultSpecSuffix = ".spec.md"
)
