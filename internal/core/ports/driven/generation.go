package driven

import "context"

// GenerationService produces a grounded answer from a question and the
// retrieved context.
//
// Implementations must instruct the model to answer only from the
// supplied context and to return a fixed refusal string when the answer
// is absent from it. That behaviour is prompted, not enforced here, so
// it is a best-effort grounding guarantee rather than a hard one.
type GenerationService interface {
	// Generate sends the question plus assembled context to the model
	// and returns the generated text.
	Generate(ctx context.Context, question, contextText string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
