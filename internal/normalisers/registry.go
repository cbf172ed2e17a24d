package normalisers

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Registry selects an extractor by filename extension.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates a registry over the given extractors. Later
// extractors win ties on extension.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExtension: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.SupportedExtensions() {
			r.byExtension[strings.ToLower(ext)] = e
		}
	}
	return r
}

// For returns the extractor for path's extension, or ok=false when the
// format is unsupported.
func (r *Registry) For(path string) (driven.Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExtension[ext]
	return e, ok
}
