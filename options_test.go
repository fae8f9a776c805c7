package parley

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	t.Run("defaults are zero", func(t *testing.T) {
		o := ApplyOptions()
		assert.Empty(t, o.Model)
		assert.Zero(t, o.MaxTokens)
		assert.Nil(t, o.Temperature)
		assert.Empty(t, o.ToolChoice)
	})

	t.Run("options compose", func(t *testing.T) {
		tools := []Tool{{Name: "echo", InputSchema: json.RawMessage(`{"type":"object"}`)}}
		o := ApplyOptions(
			WithModel("claude-sonnet-4-5"),
			WithMaxTokens(2048),
			WithSystem("be brief"),
			WithTemperature(0.3),
			WithStopSequences("END", "STOP"),
			WithTools(tools),
			WithToolChoice(ToolChoiceAny),
		)

		assert.Equal(t, "claude-sonnet-4-5", o.Model)
		assert.Equal(t, 2048, o.MaxTokens)
		assert.Equal(t, "be brief", o.System)
		require.NotNil(t, o.Temperature)
		assert.Equal(t, 0.3, *o.Temperature)
		assert.Equal(t, []string{"END", "STOP"}, o.StopSequences)
		assert.Len(t, o.Tools, 1)
		assert.Equal(t, ToolChoiceAny, o.ToolChoice)
	})

	t.Run("later options win", func(t *testing.T) {
		o := ApplyOptions(WithModel("first"), WithModel("second"))
		assert.Equal(t, "second", o.Model)
	})
}
