package history

import (
	"time"

	"taskchat/internal/chat"
)

// Recorder journals completed chat turns into a Store. It implements
// chat.TurnRecorder, creating the conversation row lazily on the first
// turn and pinning the remote id once the session binds.
type Recorder struct {
	store    *Store
	localID  int64
	remoteID int64
}

// NewRecorder creates a Recorder on the given store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// LocalID returns the journaled conversation's local id, or 0 before
// the first recorded turn.
func (r *Recorder) LocalID() int64 { return r.localID }

// RecordTurn implements chat.TurnRecorder.
func (r *Recorder) RecordTurn(t chat.Turn) error {
	if r.localID == 0 {
		id, err := r.store.BeginConversation(t.ConversationID, time.Now())
		if err != nil {
			return err
		}
		r.localID = id
		r.remoteID = t.ConversationID
	} else if r.remoteID == 0 && t.ConversationID != 0 {
		if err := r.store.SetRemoteID(r.localID, t.ConversationID); err != nil {
			return err
		}
		r.remoteID = t.ConversationID
	}

	if err := r.store.AppendMessage(r.localID, t.User); err != nil {
		return err
	}
	return r.store.AppendMessage(r.localID, t.Assistant)
}
