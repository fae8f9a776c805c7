package runner

import (
	"context"
	"strings"

	ai "github.com/calebmweir/parley"
)

// DefaultTokenThreshold triggers compaction when the conversation's
// input-token count crosses it.
const DefaultTokenThreshold = 10000

// summaryMarker prefixes the summary message so the model (and humans
// reading a transcript) can tell compacted history from organic content.
const summaryMarker = "[Conversation summary]"

// summaryAck is the assistant acknowledgment inserted after the summary.
const summaryAck = "Understood. Continuing from the summary above."

const summaryPrompt = "Summarize the conversation below concisely. " +
	"Preserve facts, decisions, tool outcomes, and open tasks needed to continue it.\n\n"

// CompactionConfig configures automatic history compaction. Zero value
// means disabled.
type CompactionConfig struct {
	// Enabled turns compaction on.
	Enabled bool

	// TokenThreshold is the input-token count above which history is
	// compacted. Zero means DefaultTokenThreshold.
	TokenThreshold int

	// OnCompact, if set, observes every compaction with the token counts
	// measured before and after. An after count of 0 means the follow-up
	// measurement failed.
	OnCompact func(beforeTokens, afterTokens int)
}

func (c CompactionConfig) threshold() int {
	if c.TokenThreshold > 0 {
		return c.TokenThreshold
	}
	return DefaultTokenThreshold
}

// maybeCompact replaces the conversation with a model-generated summary
// plus the most recent exchange when the measured token count crosses the
// threshold. It runs before the model call, so the turn that triggers
// compaction already uses the shrunk history.
//
// Compaction never raises: a failed token count or a failed summary call
// degrades to "don't compact this round".
func (r *Runner) maybeCompact(ctx context.Context) {
	cfg := r.opts.Compaction
	if !cfg.Enabled || r.opts.Counter == nil {
		return
	}
	if len(r.state.messages) < 3 {
		// Nothing meaningful to summarize.
		return
	}

	before, err := r.opts.Counter.CountTokens(ctx, r.state.messages, r.callOptions()...)
	if err != nil || before <= cfg.threshold() {
		return
	}

	summary, ok := r.summarize(ctx, r.state.messages)
	if !ok {
		return
	}

	tail := r.state.messages[len(r.state.messages)-2:]
	compacted := []ai.Message{
		ai.NewUserMessage(summaryMarker + "\n\n" + summary),
		ai.NewAssistantMessage(summaryAck),
	}
	compacted = append(compacted, ai.CloneMessages(tail)...)
	r.state.messages = compacted

	after, err := r.opts.Counter.CountTokens(ctx, r.state.messages, r.callOptions()...)
	if err != nil {
		after = 0
	}

	if r.opts.Logger != nil {
		r.opts.Logger.WithField("before_tokens", before).
			WithField("after_tokens", after).
			Debug("conversation compacted")
	}
	if cfg.OnCompact != nil {
		cfg.OnCompact(before, after)
	}
}

// summarize asks the model for a concise summary of the transcript.
func (r *Runner) summarize(ctx context.Context, messages []ai.Message) (string, bool) {
	transcript := renderTranscript(messages)
	if transcript == "" {
		return "", false
	}

	resp, err := r.caller.CreateMessage(ctx,
		[]ai.Message{ai.NewUserMessage(summaryPrompt + transcript)},
		ai.WithModel(r.opts.Model),
		ai.WithMaxTokens(r.opts.MaxTokens),
	)
	if err != nil {
		return "", false
	}
	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", false
	}
	return summary, true
}

// renderTranscript flattens the conversation into "Role: text" lines.
// Non-text content blocks are not rendered; only the textual content of
// each message reaches the summarization prompt.
func renderTranscript(messages []ai.Message) string {
	var sb strings.Builder
	for _, m := range messages {
		text := m.Text()
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		switch m.Role {
		case ai.RoleUser:
			sb.WriteString("User: ")
		case ai.RoleAssistant:
			sb.WriteString("Assistant: ")
		}
		sb.WriteString(text)
	}
	return sb.String()
}
