package runner

import ai "github.com/calebmweir/parley"

// conversationState is the mutable record of a single run. It is owned
// exclusively by one Runner; every operation that touches the conversation
// goes through this one struct, never through scattered fields.
type conversationState struct {
	// initial is the originally supplied message list, kept so Reset can
	// restore it.
	initial []ai.Message

	// messages is the accumulated conversation, mutated only by the loop
	// and by explicit caller injection via feed.
	messages []ai.Message

	// iteration counts model turns within the current run. It increases
	// monotonically and never exceeds the configured maximum.
	iteration int

	// finished marks the terminal state. feed clears it again to allow
	// continuation.
	finished bool

	// last is the most recent full model reply, nil before the first turn.
	last *ai.Response
}

func newConversationState(messages []ai.Message) *conversationState {
	return &conversationState{
		initial:  ai.CloneMessages(messages),
		messages: ai.CloneMessages(messages),
	}
}

// reset returns the state to its just-constructed shape.
func (s *conversationState) reset() {
	s.messages = ai.CloneMessages(s.initial)
	s.iteration = 0
	s.finished = false
	s.last = nil
}

// feed appends caller-supplied messages. A finished conversation becomes
// live again when fed at least one message; the iteration counter is
// deliberately preserved.
func (s *conversationState) feed(messages []ai.Message) {
	if len(messages) == 0 {
		return
	}
	s.messages = append(s.messages, ai.CloneMessages(messages)...)
	s.finished = false
}
