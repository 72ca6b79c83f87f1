package chat

import "context"

// PoemGenerator abstracts the OpenAI client so handlers can be tested with
// a fake.
type PoemGenerator interface {
	GeneratePoem(ctx context.Context, topic string) (string, error)
	// StreamPoem yields deltas on the first channel. Once it closes, the
	// second one carries the error that cut the stream, if any.
	StreamPoem(ctx context.Context, topic string) (<-chan string, <-chan error, error)
}
