// Package chat maintains a multi-turn conversation with the assistant
// endpoint.
//
// A Session starts fresh (no conversation id) and becomes bound exactly
// once, on the first successful reply that carries an id; every later
// turn forwards that id so the remote interpreter can resume context.
// The transcript is append-only and ordered by insertion.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"taskchat/internal/apierr"
	"taskchat/internal/service"
)

// FallbackReply is appended in place of a raw error so the transcript
// stays coherent when a turn fails for non-auth reasons.
const FallbackReply = "Sorry, I encountered an error processing your request. Please try again."

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Never mutated after creation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn is one completed exchange: the user message and the assistant's
// reply, with the conversation id in effect after the reply.
type Turn struct {
	ConversationID int64
	User           Message
	Assistant      Message
}

// TurnRecorder receives completed turns, e.g. for journaling. Recorder
// failures must not fail the turn.
type TurnRecorder interface {
	RecordTurn(t Turn) error
}

// Session holds the conversation state. Callers send turns
// sequentially; the Session does not serialize concurrent SendTurn
// calls.
type Session struct {
	svc            service.Service
	conversationID int64
	transcript     []Message
	recorder       TurnRecorder
	onTurn         []func()
	log            zerolog.Logger
	now            func() time.Time
}

// NewSession creates a fresh Session on the given service.
func NewSession(svc service.Service) *Session {
	return &Session{
		svc: svc,
		log: zerolog.Nop(),
		now: time.Now,
	}
}

// SetLogger routes debug output for swallowed errors.
func (s *Session) SetLogger(log zerolog.Logger) { s.log = log }

// SetRecorder registers a journal for completed turns.
func (s *Session) SetRecorder(r TurnRecorder) { s.recorder = r }

// OnTurnCompleted registers a callback invoked after each successful
// assistant reply. This is the explicit signal that chat-driven task
// mutations may have happened on the server.
func (s *Session) OnTurnCompleted(fn func()) {
	s.onTurn = append(s.onTurn, fn)
}

// Resume binds the session to an existing conversation before the
// first turn. It has no effect once the session is bound.
func (s *Session) Resume(conversationID int64) {
	if s.conversationID == 0 && conversationID > 0 {
		s.conversationID = conversationID
	}
}

// Bound reports whether a conversation id has been assigned.
func (s *Session) Bound() bool { return s.conversationID != 0 }

// ConversationID returns the bound id, or zero when fresh.
func (s *Session) ConversationID() int64 { return s.conversationID }

// Transcript returns a copy of the messages in display order.
func (s *Session) Transcript() []Message {
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// SendTurn sends one user turn and returns the assistant message that
// was appended.
//
// Empty or whitespace-only input is rejected locally: nothing is
// appended and nothing is sent. The user message is appended before
// the request goes out. A session-expired failure propagates to the
// caller with the transcript preserved; any other failure appends
// FallbackReply instead of surfacing the raw error.
func (s *Session) SendTurn(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, nil
	}

	userMsg := s.append(RoleUser, text)

	reply, err := s.svc.SendChat(ctx, s.conversationID, text)
	if err != nil {
		if apierr.Is(err, apierr.CodeSessionExpired) {
			return Message{}, err
		}
		s.log.Debug().Err(err).Msg("chat turn failed; appending fallback reply")
		return s.append(RoleAssistant, FallbackReply), nil
	}

	if s.conversationID == 0 && reply.ConversationID != 0 {
		s.conversationID = reply.ConversationID
	}

	assistantMsg := s.append(RoleAssistant, reply.Response)

	if s.recorder != nil {
		if err := s.recorder.RecordTurn(Turn{
			ConversationID: s.conversationID,
			User:           userMsg,
			Assistant:      assistantMsg,
		}); err != nil {
			s.log.Debug().Err(err).Msg("failed to journal chat turn")
		}
	}
	for _, fn := range s.onTurn {
		fn()
	}

	return assistantMsg, nil
}

func (s *Session) append(role Role, content string) Message {
	m := Message{
		ID:        ulid.Make().String(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
	s.transcript = append(s.transcript, m)
	return m
}
