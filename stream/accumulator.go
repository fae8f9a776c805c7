package stream

import (
	"encoding/json"
	"sort"
	"strings"

	ai "github.com/calebmweir/parley"
)

// Accumulator rebuilds a complete Response from a streamed event sequence.
// Feed it every event in arrival order; text, thinking and tool-input
// fragments are concatenated per block index, never reordered.
type Accumulator struct {
	shell  ai.Response
	blocks map[int]*ai.ContentBlock
	inputs map[int]*strings.Builder
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		blocks: make(map[int]*ai.ContentBlock),
		inputs: make(map[int]*strings.Builder),
	}
}

// Process folds one event into the accumulated state.
func (a *Accumulator) Process(evt Event) {
	switch evt.Type {
	case MessageStart:
		if evt.Message != nil {
			a.shell = *evt.Message
			a.shell.Content = nil
		}

	case ContentBlockStart:
		if evt.Block != nil {
			block := *evt.Block
			a.blocks[evt.Index] = &block
		}

	case ContentBlockDelta:
		block, ok := a.blocks[evt.Index]
		if !ok {
			// Delta without a preceding start; tolerate it as a text block.
			block = &ai.ContentBlock{Type: ai.BlockTypeText}
			a.blocks[evt.Index] = block
		}
		switch evt.Delta.Kind {
		case DeltaText:
			block.Text += evt.Delta.Text
		case DeltaInputJSON:
			sb, ok := a.inputs[evt.Index]
			if !ok {
				sb = &strings.Builder{}
				a.inputs[evt.Index] = sb
			}
			sb.WriteString(evt.Delta.PartialJSON)
		case DeltaThinking:
			block.Thinking += evt.Delta.Text
		case DeltaSignature:
			block.Signature = evt.Delta.Signature
		}

	case ContentBlockStop:
		if sb, ok := a.inputs[evt.Index]; ok {
			if block, ok := a.blocks[evt.Index]; ok && sb.Len() > 0 {
				block.Input = json.RawMessage(sb.String())
			}
			delete(a.inputs, evt.Index)
		}

	case MessageDelta:
		if evt.StopReason != "" {
			a.shell.StopReason = evt.StopReason
		}
		if evt.StopSequence != "" {
			a.shell.StopSequence = evt.StopSequence
		}
		if evt.Usage != nil {
			a.shell.Usage.OutputTokens = evt.Usage.OutputTokens
			if evt.Usage.InputTokens > 0 {
				a.shell.Usage.InputTokens = evt.Usage.InputTokens
			}
		}
	}
}

// Response assembles the accumulated message, with content blocks in index
// order.
func (a *Accumulator) Response() *ai.Response {
	resp := a.shell
	indexes := make([]int, 0, len(a.blocks))
	for i := range a.blocks {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for _, i := range indexes {
		resp.Content = append(resp.Content, *a.blocks[i])
	}
	return &resp
}
