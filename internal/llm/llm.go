// Package llm wraps the language-model completion call used for coordinate
// inference. The interface exists so tests can swap in a canned responder.
package llm

import "context"

// Inference is a single text-completion capability: a system prompt plus a
// user prompt in, plain text out.
type Inference interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
