// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output provide a consistent visual language across commands.
// These symbols are used for status indicators and user feedback in terminal output.
const (
	// Success represents successful completion of an operation.
	// Used for: unchanged snapshots, completed validations.
	Success = "✅"

	// Warning represents warnings or non-critical issues.
	// Used for: skipped malformed rows, partial results.
	Warning = "⚠️"

	// Frozen represents base snapshot creation on first run.
	Frozen = "📦"

	// Changes represents detected line-level differences.
	Changes = "🔄"

	// Report represents a written change report or manifest.
	Report = "📄"

	// Done represents overall pipeline completion.
	Done = "🎉"
)
