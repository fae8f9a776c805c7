package stream

import "github.com/tidwall/gjson"

// DeltaKind discriminates the variants of a content-block delta.
type DeltaKind string

const (
	// DeltaText is an incremental piece of text content.
	DeltaText DeltaKind = "text_delta"

	// DeltaInputJSON is a fragment of the JSON argument string for a
	// tool_use block. Fragments concatenate in arrival order.
	DeltaInputJSON DeltaKind = "input_json_delta"

	// DeltaThinking is an incremental piece of reasoning text.
	DeltaThinking DeltaKind = "thinking_delta"

	// DeltaSignature carries the signature for a thinking block.
	DeltaSignature DeltaKind = "signature_delta"

	// DeltaCitation attaches a citation to the current text block.
	DeltaCitation DeltaKind = "citations_delta"

	// DeltaCompaction is a server-side history compaction notice.
	DeltaCompaction DeltaKind = "compaction_delta"
)

// Delta is the classified payload of one ContentBlockDelta event. Kind
// selects the variant; only the fields belonging to that variant are set.
type Delta struct {
	Kind DeltaKind

	// Text is set for text, thinking and compaction deltas.
	Text string

	// PartialJSON is set for input JSON deltas.
	PartialJSON string

	// Signature is set for signature deltas.
	Signature string

	// Citation is set for citation deltas.
	Citation *Citation
}

// Citation is one citation record with absolute character offsets into the
// enclosing text block.
type Citation struct {
	StartIndex    int
	EndIndex      int
	DocumentIndex int
	DocumentTitle string
	CitedText     string
}

// ParseDelta classifies a raw content_block_delta payload by its type
// discriminator and returns exactly one Delta variant.
//
// An unknown or missing discriminator returns an empty text delta rather
// than an error: newer protocol versions may introduce delta kinds this
// client does not know, and one unrecognized payload must not break the
// stream.
func ParseDelta(data []byte) Delta {
	switch gjson.GetBytes(data, "type").String() {
	case "text_delta":
		return Delta{Kind: DeltaText, Text: gjson.GetBytes(data, "text").String()}
	case "input_json_delta":
		return Delta{Kind: DeltaInputJSON, PartialJSON: gjson.GetBytes(data, "partial_json").String()}
	case "thinking_delta":
		return Delta{Kind: DeltaThinking, Text: gjson.GetBytes(data, "thinking").String()}
	case "signature_delta":
		return Delta{Kind: DeltaSignature, Signature: gjson.GetBytes(data, "signature").String()}
	case "citations_delta":
		c := gjson.GetBytes(data, "citation")
		return Delta{Kind: DeltaCitation, Citation: &Citation{
			StartIndex:    int(c.Get("start_char_index").Int()),
			EndIndex:      int(c.Get("end_char_index").Int()),
			DocumentIndex: int(c.Get("document_index").Int()),
			DocumentTitle: c.Get("document_title").String(),
			CitedText:     c.Get("cited_text").String(),
		}}
	case "compaction_delta":
		return Delta{Kind: DeltaCompaction, Text: gjson.GetBytes(data, "text").String()}
	default:
		return Delta{Kind: DeltaText}
	}
}
