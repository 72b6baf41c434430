package common

import (
	"fmt"
	"os"
	"path/filepath"

	"moola-wars-bot/internal/models"

	"gopkg.in/yaml.v2"
)

// BadgeBinding maps one badge kind to the Discord role representing it.
type BadgeBinding struct {
	Badge  string `yaml:"badge"`
	RoleId string `yaml:"role_id"`
}

type rolesFile struct {
	Badges          []BadgeBinding `yaml:"badges"`
	VerifiedRoleId  string         `yaml:"verified_role_id"`
	NewcomerRoleId  string         `yaml:"newcomer_role_id"`
	AdminRoleIds    []string       `yaml:"admin_role_ids"`
	ExcludedUserIds []string       `yaml:"excluded_user_ids"`
}

// LoadRoleConfig reads and validates the role-binding file. Every tracked
// badge kind must be bound exactly once; no role ID literal lives in code.
func LoadRoleConfig(rolesFileName string) (*models.RoleConfig, error) {
	var rolesPath string
	if filepath.IsAbs(rolesFileName) {
		rolesPath = rolesFileName
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		rolesPath = filepath.Join(wd, rolesFileName)
	}

	data, err := os.ReadFile(rolesPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", rolesFileName, err)
	}

	var parsed rolesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", rolesFileName, err)
	}

	cfg := &models.RoleConfig{
		VerifiedRoleId:  parsed.VerifiedRoleId,
		NewcomerRoleId:  parsed.NewcomerRoleId,
		AdminRoleIds:    parsed.AdminRoleIds,
		ExcludedUserIds: parsed.ExcludedUserIds,
	}

	seen := make(map[models.BadgeKind]bool)
	for i, binding := range parsed.Badges {
		if binding.RoleId == "" {
			return nil, fmt.Errorf("badge binding at index %d missing role_id", i)
		}
		kind, err := models.ParseBadgeKind(binding.Badge)
		if err != nil {
			return nil, fmt.Errorf("badge binding at index %d: %w", i, err)
		}
		if seen[kind] {
			return nil, fmt.Errorf("badge %q bound more than once", binding.Badge)
		}
		seen[kind] = true
		cfg.BadgeRoles[kind] = binding.RoleId
	}

	for _, kind := range models.AllBadgeKinds {
		if !seen[kind] {
			return nil, fmt.Errorf("badge %q has no role binding", kind)
		}
	}

	if cfg.VerifiedRoleId == "" {
		return nil, fmt.Errorf("verified_role_id is required")
	}
	if cfg.NewcomerRoleId == "" {
		return nil, fmt.Errorf("newcomer_role_id is required")
	}

	return cfg, nil
}
