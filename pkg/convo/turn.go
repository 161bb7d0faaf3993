package convo

import "strings"

// Role identifies who produced a turn.
type Role string

const (
	RoleHuman     Role = "Human"
	RoleAssistant Role = "AI"
)

// Turn is one utterance. Immutable once appended to a session history.
type Turn struct {
	Role Role
	Text string
}

// RenderHistory formats turns the way the persona prompt templates expect
// the conversation context: one "Role: text" line per turn.
func RenderHistory(turns []Turn) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Text)
	}
	return b.String()
}
