package logic

import (
	"fmt"
	"testing"

	"github.com/asaithebest/Nova/models"
)

func history(roles ...string) []models.Message {
	msgs := make([]models.Message, len(roles))
	for i, r := range roles {
		msgs[i] = models.Message{Role: r, Content: fmt.Sprintf("msg-%d", i)}
	}
	return msgs
}

func TestBuildWindowBound(t *testing.T) {
	cases := []struct {
		name    string
		history int
		window  int
		want    int // history entries in the prompt, excluding the directive
	}{
		{"fewer than window", 5, 12, 5},
		{"exactly window", 12, 12, 12},
		{"more than window", 25, 12, 12},
		{"window of one", 3, 1, 1},
		{"empty history", 0, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			roles := make([]string, tc.history)
			for i := range roles {
				roles[i] = models.RoleUser
			}
			prompt := BuildWindow("sys", history(roles...), tc.window)

			if len(prompt) != tc.want+1 {
				t.Fatalf("prompt length = %d, want %d", len(prompt), tc.want+1)
			}
			if prompt[0].Role != models.RoleSystem || prompt[0].Content != "sys" {
				t.Errorf("prompt[0] = %+v, want system directive", prompt[0])
			}
			// The window keeps the most recent entries in original order.
			for i, m := range prompt[1:] {
				want := fmt.Sprintf("msg-%d", tc.history-tc.want+i)
				if m.Content != want {
					t.Errorf("prompt[%d].Content = %q, want %q", i+1, m.Content, want)
				}
			}
		})
	}
}

func TestBuildWindowRoleMapping(t *testing.T) {
	msgs := history(models.RoleUser, models.RoleAssistant, "tool", models.RoleUser)
	prompt := BuildWindow("sys", msgs, 20)

	wantRoles := []string{models.RoleSystem, models.RoleUser, models.RoleAssistant, models.RoleUser, models.RoleUser}
	if len(prompt) != len(wantRoles) {
		t.Fatalf("prompt length = %d, want %d", len(prompt), len(wantRoles))
	}
	for i, want := range wantRoles {
		if prompt[i].Role != want {
			t.Errorf("prompt[%d].Role = %q, want %q", i, prompt[i].Role, want)
		}
	}
}

func TestBuildWindowExcludesPersistedSystemRows(t *testing.T) {
	msgs := history(models.RoleSystem, models.RoleUser, models.RoleSystem, models.RoleAssistant)
	prompt := BuildWindow("sys", msgs, 10)

	if len(prompt) != 3 {
		t.Fatalf("prompt length = %d, want 3", len(prompt))
	}
	for i, m := range prompt[1:] {
		if m.Role == models.RoleSystem {
			t.Errorf("prompt[%d] kept a persisted system row", i+1)
		}
	}
	// The window applies after system rows are filtered out.
	windowed := BuildWindow("sys", msgs, 1)
	if len(windowed) != 2 || windowed[1].Content != "msg-3" {
		t.Errorf("windowed = %+v, want directive + msg-3", windowed)
	}
}
