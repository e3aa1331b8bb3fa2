// Package build holds build-time metadata injected via -ldflags.
package build

var (
	// Version is the release version, set at build time.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the build date.
	Date = "unknown"

	// ProjectName is used as the env var prefix and config directory name.
	ProjectName = "carebridge"
)

// MinimumSupportedDatastoreSchemaRevision is the minimum goose schema version
// the server can run against. Readiness checks fail below it.
const MinimumSupportedDatastoreSchemaRevision int64 = 1
