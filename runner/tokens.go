package runner

import (
	"context"
	"fmt"

	"github.com/tiktoken-go/tokenizer"

	ai "github.com/calebmweir/parley"
)

// LocalTokenCounter estimates token counts offline with a tiktoken
// encoding. It approximates the server-side count closely enough for
// compaction thresholds and costs no network round trip; use the client's
// count-tokens endpoint when exact numbers matter.
type LocalTokenCounter struct {
	codec tokenizer.Codec
}

// NewLocalTokenCounter creates a counter backed by the o200k_base encoding.
func NewLocalTokenCounter() (*LocalTokenCounter, error) {
	codec, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		return nil, fmt.Errorf("runner: failed to load tokenizer: %w", err)
	}
	return &LocalTokenCounter{codec: codec}, nil
}

// CountTokens estimates the input-token count of a request built from the
// given messages and options.
func (c *LocalTokenCounter) CountTokens(ctx context.Context, messages []ai.Message, opts ...ai.Option) (int, error) {
	options := ai.ApplyOptions(opts...)

	total := 0
	add := func(text string) {
		if text == "" {
			return
		}
		n, err := c.codec.Count(text)
		if err != nil {
			n = len(text) / 4
		}
		total += n
	}

	add(options.System)
	for _, t := range options.Tools {
		add(t.Name)
		add(t.Description)
		add(string(t.InputSchema))
	}

	for _, m := range messages {
		add(string(m.Role))
		for _, b := range m.Content {
			add(b.Text)
			add(b.Thinking)
			add(b.Content)
			add(string(b.Input))
		}
		// Per-message framing overhead.
		total += 3
	}

	return total, nil
}

var _ TokenCounter = (*LocalTokenCounter)(nil)
