package llm

import "context"

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Client is a TextGenerator that holds closable resources.
type Client interface {
	TextGenerator
	Closer
}
