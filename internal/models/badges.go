package models

import "fmt"

// BadgeKind identifies one tracked eligibility badge. Each list category
// (whitelist, moolalist, free mint) comes in a base tier and a winner tier.
type BadgeKind int

const (
	BadgeWL BadgeKind = iota
	BadgeWLWinner
	BadgeML
	BadgeMLWinner
	BadgeFreeMint
	BadgeFreeMintWinner

	// NumBadgeKinds is the size of the closed enumeration above.
	NumBadgeKinds = int(BadgeFreeMintWinner) + 1
)

// AllBadgeKinds lists every badge in report column order.
var AllBadgeKinds = [NumBadgeKinds]BadgeKind{
	BadgeWL,
	BadgeWLWinner,
	BadgeML,
	BadgeMLWinner,
	BadgeFreeMint,
	BadgeFreeMintWinner,
}

var badgeNames = [NumBadgeKinds]string{
	"wl",
	"wl_winner",
	"ml",
	"ml_winner",
	"free_mint",
	"free_mint_winner",
}

func (k BadgeKind) String() string {
	if k < 0 || int(k) >= NumBadgeKinds {
		return fmt.Sprintf("badge(%d)", int(k))
	}
	return badgeNames[k]
}

// Column returns the report column name for this badge flag.
func (k BadgeKind) Column() string {
	return k.String() + "_role"
}

// ParseBadgeKind maps a config name (e.g. "wl_winner") to its BadgeKind.
func ParseBadgeKind(name string) (BadgeKind, error) {
	for i, n := range badgeNames {
		if n == name {
			return BadgeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown badge kind: %q", name)
}

// BadgeSet is a set of BadgeKind flags packed as a bitmask.
type BadgeSet uint8

func (s BadgeSet) Has(k BadgeKind) bool {
	return s&(1<<uint(k)) != 0
}

func (s *BadgeSet) Add(k BadgeKind) {
	*s |= 1 << uint(k)
}

// Empty reports whether no badge flag is set.
func (s BadgeSet) Empty() bool {
	return s == 0
}

// BadgeRoles binds each BadgeKind to the external chat-platform role ID
// that represents it. Loaded from configuration at process start; the
// snapshot engine never hard-codes role identifiers.
type BadgeRoles [NumBadgeKinds]string

// Derive computes the badge flags an identity holds from its raw role set.
func (b BadgeRoles) Derive(id Identity) BadgeSet {
	var set BadgeSet
	for _, k := range AllBadgeKinds {
		if roleId := b[k]; roleId != "" && id.HasRole(roleId) {
			set.Add(k)
		}
	}
	return set
}

// RoleConfig is the injected role/ID configuration for one community.
type RoleConfig struct {
	BadgeRoles      BadgeRoles
	VerifiedRoleId  string
	NewcomerRoleId  string
	AdminRoleIds    []string
	ExcludedUserIds []string
}

// IsExcluded reports whether a user is excluded from the leaderboard.
func (c *RoleConfig) IsExcluded(discordId string) bool {
	for _, id := range c.ExcludedUserIds {
		if id == discordId {
			return true
		}
	}
	return false
}
