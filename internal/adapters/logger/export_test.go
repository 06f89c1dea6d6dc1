package logger

// ErrorEntry exposes errorEntry for black-box tests.
type ErrorEntry = errorEntry

// Error formatting internals exported for testing.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
