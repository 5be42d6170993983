package export

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLExporter exports transcripts as YAML.
type YAMLExporter struct{}

type yamlTranscript struct {
	ConversationID int64         `yaml:"conversation_id"`
	RemoteID       int64         `yaml:"remote_id,omitempty"`
	StartedAt      time.Time     `yaml:"started_at"`
	Messages       []yamlMessage `yaml:"messages"`
}

type yamlMessage struct {
	ID        string    `yaml:"id"`
	Role      string    `yaml:"role"`
	Content   string    `yaml:"content"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Export exports a transcript to YAML.
func (e *YAMLExporter) Export(t Transcript, w io.Writer) error {
	out := yamlTranscript{
		ConversationID: t.ConversationID,
		RemoteID:       t.RemoteID,
		StartedAt:      t.StartedAt,
		Messages:       make([]yamlMessage, 0, len(t.Messages)),
	}
	for _, m := range t.Messages {
		out.Messages = append(out.Messages, yamlMessage{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

// Extension returns the file extension for YAML exports.
func (e *YAMLExporter) Extension() string { return "yaml" }
