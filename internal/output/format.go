// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskchat/internal/chat"
	"taskchat/internal/service"
)

var (
	doneMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	doneTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Strikethrough(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// FormatTask formats a task line.
// Format: "{N:>4}  [ ] {TITLE}" with "[x]" and dimmed title when completed.
func FormatTask(w io.Writer, num int, task service.Task) {
	title := normalizeTitle(task.Title)
	mark := "[ ]"
	if task.Completed {
		mark = doneMarkStyle.Render("[x]")
		title = doneTitleStyle.Render(title)
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, mark, title)
	if task.Description != "" {
		fmt.Fprintf(w, "      %s\n", mutedStyle.Render(normalizeTitle(task.Description)))
	}
}

// FormatTaskList formats the whole collection. When includeCompleted
// is false, completed tasks are skipped but numbering still follows
// the collection order so numbers stay stable across views.
func FormatTaskList(w io.Writer, tasks []service.Task, includeCompleted bool) {
	shown := 0
	for i, t := range tasks {
		if !includeCompleted && t.Completed {
			continue
		}
		FormatTask(w, i+1, t)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(w, "no tasks")
	}
}

// FormatMessage formats one transcript message with a styled role label.
func FormatMessage(w io.Writer, m chat.Message) {
	label := assistantLabelStyle.Render("assistant")
	if m.Role == chat.RoleUser {
		label = userLabelStyle.Render("you")
	}
	fmt.Fprintf(w, "%s: %s\n", label, m.Content)
}

// normalizeTitle normalizes a title for single-line display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
