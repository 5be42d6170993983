// Package export renders journaled conversations in portable formats.
package export

import (
	"fmt"
	"io"
	"time"

	"taskchat/internal/chat"
)

// Transcript is a conversation prepared for export.
type Transcript struct {
	ConversationID int64
	RemoteID       int64
	StartedAt      time.Time
	Messages       []chat.Message
}

// Exporter defines the interface for all export formats.
type Exporter interface {
	Export(t Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, md, yaml)", format)
	}
}
