package driven

import "context"

// Extractor converts a file of a particular format into plain text.
// The returned text is raw; callers normalise and chunk it.
type Extractor interface {
	// SupportedExtensions returns lower-case filename extensions
	// (including the dot) this extractor handles.
	SupportedExtensions() []string

	// Extract reads the file at path and returns its text content.
	Extract(ctx context.Context, path string) (string, error)
}
