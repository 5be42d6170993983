package export

import (
	"encoding/json"
	"io"
	"time"
)

// JSONExporter exports transcripts as indented JSON.
type JSONExporter struct{}

type jsonTranscript struct {
	ConversationID int64         `json:"conversation_id"`
	RemoteID       int64         `json:"remote_id,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	Messages       []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Export exports a transcript to JSON.
func (e *JSONExporter) Export(t Transcript, w io.Writer) error {
	out := jsonTranscript{
		ConversationID: t.ConversationID,
		RemoteID:       t.RemoteID,
		StartedAt:      t.StartedAt,
		Messages:       make([]jsonMessage, 0, len(t.Messages)),
	}
	for _, m := range t.Messages {
		out.Messages = append(out.Messages, jsonMessage{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Extension returns the file extension for JSON exports.
func (e *JSONExporter) Extension() string { return "json" }
