package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"moola-wars-bot/internal/models"
)

const validRolesYAML = `
badges:
  - badge: wl
    role_id: "1"
  - badge: wl_winner
    role_id: "2"
  - badge: ml
    role_id: "3"
  - badge: ml_winner
    role_id: "4"
  - badge: free_mint
    role_id: "5"
  - badge: free_mint_winner
    role_id: "6"
verified_role_id: "7"
newcomer_role_id: "8"
admin_role_ids:
  - "9"
excluded_user_ids:
  - "bot-account"
`

func writeRolesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roles.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write roles file: %v", err)
	}
	return path
}

func TestLoadRoleConfig_Valid(t *testing.T) {
	cfg, err := LoadRoleConfig(writeRolesFile(t, validRolesYAML))
	if err != nil {
		t.Fatalf("LoadRoleConfig failed: %v", err)
	}

	if cfg.BadgeRoles[models.BadgeWL] != "1" {
		t.Errorf("Expected wl bound to role 1, got %q", cfg.BadgeRoles[models.BadgeWL])
	}
	if cfg.BadgeRoles[models.BadgeFreeMintWinner] != "6" {
		t.Errorf("Expected free_mint_winner bound to role 6, got %q", cfg.BadgeRoles[models.BadgeFreeMintWinner])
	}
	if cfg.VerifiedRoleId != "7" || cfg.NewcomerRoleId != "8" {
		t.Errorf("Expected verified/newcomer roles 7/8, got %q/%q", cfg.VerifiedRoleId, cfg.NewcomerRoleId)
	}
	if !cfg.IsExcluded("bot-account") {
		t.Error("Expected bot-account excluded")
	}
	if cfg.IsExcluded("someone-else") {
		t.Error("Expected someone-else not excluded")
	}
}

func TestLoadRoleConfig_MissingBadgeBinding(t *testing.T) {
	content := strings.Replace(validRolesYAML, "  - badge: free_mint_winner\n    role_id: \"6\"\n", "", 1)

	_, err := LoadRoleConfig(writeRolesFile(t, content))
	if err == nil {
		t.Fatal("Expected error for unbound badge")
	}
	if !strings.Contains(err.Error(), "free_mint_winner") {
		t.Errorf("Expected error to name the unbound badge, got: %v", err)
	}
}

func TestLoadRoleConfig_DuplicateBadgeBinding(t *testing.T) {
	content := validRolesYAML + "\n" // reuse then append a duplicate
	content = strings.Replace(content, "badges:\n", "badges:\n  - badge: wl\n    role_id: \"99\"\n", 1)

	_, err := LoadRoleConfig(writeRolesFile(t, content))
	if err == nil {
		t.Fatal("Expected error for duplicate badge binding")
	}
	if !strings.Contains(err.Error(), "more than once") {
		t.Errorf("Expected duplicate-binding error, got: %v", err)
	}
}

func TestLoadRoleConfig_UnknownBadge(t *testing.T) {
	content := strings.Replace(validRolesYAML, "badge: wl\n", "badge: mystery\n", 1)

	_, err := LoadRoleConfig(writeRolesFile(t, content))
	if err == nil {
		t.Fatal("Expected error for unknown badge name")
	}
}

func TestLoadRoleConfig_MissingVerifiedRole(t *testing.T) {
	content := strings.Replace(validRolesYAML, "verified_role_id: \"7\"\n", "", 1)

	_, err := LoadRoleConfig(writeRolesFile(t, content))
	if err == nil {
		t.Fatal("Expected error for missing verified_role_id")
	}
}

func TestLoadRoleConfig_MissingFile(t *testing.T) {
	_, err := LoadRoleConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}
