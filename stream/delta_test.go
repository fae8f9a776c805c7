package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelta(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Delta
	}{
		{
			name: "text delta",
			data: `{"type":"text_delta","text":"Hello"}`,
			want: Delta{Kind: DeltaText, Text: "Hello"},
		},
		{
			name: "input json delta",
			data: `{"type":"input_json_delta","partial_json":"{\"loc"}`,
			want: Delta{Kind: DeltaInputJSON, PartialJSON: `{"loc`},
		},
		{
			name: "thinking delta",
			data: `{"type":"thinking_delta","thinking":"Let me consider"}`,
			want: Delta{Kind: DeltaThinking, Text: "Let me consider"},
		},
		{
			name: "signature delta",
			data: `{"type":"signature_delta","signature":"EqQBCgIYAhIM"}`,
			want: Delta{Kind: DeltaSignature, Signature: "EqQBCgIYAhIM"},
		},
		{
			name: "compaction delta",
			data: `{"type":"compaction_delta","text":"Earlier turns summarized."}`,
			want: Delta{Kind: DeltaCompaction, Text: "Earlier turns summarized."},
		},
		{
			name: "unknown kind falls back to empty text",
			data: `{"type":"something_new","x":1}`,
			want: Delta{Kind: DeltaText},
		},
		{
			name: "missing discriminator falls back to empty text",
			data: `{"text":"orphan"}`,
			want: Delta{Kind: DeltaText},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDelta([]byte(tt.data)))
		})
	}
}

func TestParseDeltaCitation(t *testing.T) {
	data := `{
		"type": "citations_delta",
		"citation": {
			"start_char_index": 10,
			"end_char_index": 42,
			"document_index": 1,
			"document_title": "Annual Report",
			"cited_text": "revenue grew 12%"
		}
	}`

	got := ParseDelta([]byte(data))
	assert.Equal(t, DeltaCitation, got.Kind)
	require.NotNil(t, got.Citation)
	assert.Equal(t, 10, got.Citation.StartIndex)
	assert.Equal(t, 42, got.Citation.EndIndex)
	assert.Equal(t, 1, got.Citation.DocumentIndex)
	assert.Equal(t, "Annual Report", got.Citation.DocumentTitle)
	assert.Equal(t, "revenue grew 12%", got.Citation.CitedText)
}
