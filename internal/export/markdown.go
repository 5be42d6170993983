package export

import (
	"fmt"
	"io"
	"time"
)

// MarkdownExporter exports transcripts in Markdown format.
type MarkdownExporter struct{}

// Export exports a transcript to Markdown.
func (e *MarkdownExporter) Export(t Transcript, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Conversation %d\n\n", t.ConversationID)
	if t.RemoteID != 0 {
		_, _ = fmt.Fprintf(w, "**Remote id:** %d  \n", t.RemoteID)
	}
	if !t.StartedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Started:** %s  \n", t.StartedAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(t.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, m := range t.Messages {
		timestamp := ""
		if !m.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", m.Timestamp.Format(time.RFC3339))
		}
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", m.Role, timestamp, m.Content)
		if i < len(t.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
	return nil
}

// Extension returns the file extension for Markdown exports.
func (e *MarkdownExporter) Extension() string { return "md" }
