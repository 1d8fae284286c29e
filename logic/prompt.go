package logic

import (
	"github.com/asaithebest/Nova/models"
	"github.com/asaithebest/Nova/pkg"
)

// BuildWindow produces the ordered prompt for one upstream call: the system
// directive followed by the last min(len(history), window) history messages
// in chronological order. Persisted system rows are excluded from the history
// slice, and any unknown role is mapped to "user" so a future role added by
// the store cannot break the provider contract.
//
// Pure: no storage or network access, deterministic for a given input.
func BuildWindow(systemPrompt string, history []models.Message, window int) []pkg.RequestMessage {
	visible := make([]models.Message, 0, len(history))
	for _, m := range history {
		if m.Role == models.RoleSystem {
			continue
		}
		visible = append(visible, m)
	}
	if window > 0 && len(visible) > window {
		visible = visible[len(visible)-window:]
	}

	prompt := make([]pkg.RequestMessage, 0, len(visible)+1)
	prompt = append(prompt, pkg.RequestMessage{Role: models.RoleSystem, Content: systemPrompt})
	for _, m := range visible {
		role := m.Role
		if role != models.RoleUser && role != models.RoleAssistant {
			role = models.RoleUser
		}
		prompt = append(prompt, pkg.RequestMessage{Role: role, Content: m.Content})
	}
	return prompt
}
