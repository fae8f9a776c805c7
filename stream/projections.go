package stream

import ai "github.com/calebmweir/parley"

// TextProjection yields the text of every text delta in arrival order,
// skipping all other events.
type TextProjection struct {
	src  EventSource
	text string
}

// NewTextProjection creates a text-only view over an event sequence.
func NewTextProjection(src EventSource) *TextProjection {
	return &TextProjection{src: src}
}

// Next advances to the next text delta.
func (p *TextProjection) Next() bool {
	for p.src.Next() {
		evt := p.src.Event()
		if evt.Type == ContentBlockDelta && evt.Delta.Kind == DeltaText {
			p.text = evt.Delta.Text
			return true
		}
	}
	return false
}

// Text returns the current text fragment.
func (p *TextProjection) Text() string { return p.text }

// Err returns the underlying source error, if any.
func (p *TextProjection) Err() error { return p.src.Err() }

// ToolInputFragment is one fragment of the JSON argument string for a
// tool_use block. Concatenating the fragments for one index in arrival
// order reconstructs the full argument string; the projection does not
// itself parse JSON.
type ToolInputFragment struct {
	Index       int
	ID          string
	Name        string
	PartialJSON string
}

// ToolInputProjection yields the argument fragments of every tool_use
// block in arrival order. It remembers (index, id, name) from each
// tool_use ContentBlockStart and forgets it again on the matching
// ContentBlockStop.
type ToolInputProjection struct {
	src      EventSource
	open     map[int]*ai.ContentBlock
	fragment ToolInputFragment
}

// NewToolInputProjection creates a tool-input view over an event sequence.
func NewToolInputProjection(src EventSource) *ToolInputProjection {
	return &ToolInputProjection{src: src, open: make(map[int]*ai.ContentBlock)}
}

// Next advances to the next input JSON fragment.
func (p *ToolInputProjection) Next() bool {
	for p.src.Next() {
		evt := p.src.Event()
		switch evt.Type {
		case ContentBlockStart:
			if evt.Block != nil && evt.Block.Type == ai.BlockTypeToolUse {
				p.open[evt.Index] = evt.Block
			}
		case ContentBlockDelta:
			block, ok := p.open[evt.Index]
			if ok && evt.Delta.Kind == DeltaInputJSON {
				p.fragment = ToolInputFragment{
					Index:       evt.Index,
					ID:          block.ID,
					Name:        block.Name,
					PartialJSON: evt.Delta.PartialJSON,
				}
				return true
			}
		case ContentBlockStop:
			delete(p.open, evt.Index)
		}
	}
	return false
}

// Fragment returns the current fragment.
func (p *ToolInputProjection) Fragment() ToolInputFragment { return p.fragment }

// Err returns the underlying source error, if any.
func (p *ToolInputProjection) Err() error { return p.src.Err() }

// ThinkingProjection yields the text of every thinking delta in arrival
// order.
type ThinkingProjection struct {
	src  EventSource
	text string
}

// NewThinkingProjection creates a reasoning-only view over an event sequence.
func NewThinkingProjection(src EventSource) *ThinkingProjection {
	return &ThinkingProjection{src: src}
}

// Next advances to the next thinking delta.
func (p *ThinkingProjection) Next() bool {
	for p.src.Next() {
		evt := p.src.Event()
		if evt.Type == ContentBlockDelta && evt.Delta.Kind == DeltaThinking {
			p.text = evt.Delta.Text
			return true
		}
	}
	return false
}

// Text returns the current thinking fragment.
func (p *ThinkingProjection) Text() string { return p.text }

// Err returns the underlying source error, if any.
func (p *ThinkingProjection) Err() error { return p.src.Err() }

// CitationProjection yields one citation record per citation delta, with
// the absolute character offsets as given on the wire.
type CitationProjection struct {
	src      EventSource
	citation Citation
}

// NewCitationProjection creates a citation-only view over an event sequence.
func NewCitationProjection(src EventSource) *CitationProjection {
	return &CitationProjection{src: src}
}

// Next advances to the next citation delta.
func (p *CitationProjection) Next() bool {
	for p.src.Next() {
		evt := p.src.Event()
		if evt.Type == ContentBlockDelta && evt.Delta.Kind == DeltaCitation {
			p.citation = *evt.Delta.Citation
			return true
		}
	}
	return false
}

// Citation returns the current citation record.
func (p *CitationProjection) Citation() Citation { return p.citation }

// Err returns the underlying source error, if any.
func (p *CitationProjection) Err() error { return p.src.Err() }
