package bot

import "github.com/bwmarrin/discordgo"

// hasAdminRole checks whether the invoking member holds any of the
// configured admin roles.
func (b *Bot) hasAdminRole(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	for _, held := range member.Roles {
		for _, admin := range b.roles.AdminRoleIds {
			if held == admin {
				return true
			}
		}
	}
	return false
}

// requireAdmin gates a handler; replies and returns false for non-admins.
func (b *Bot) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if b.hasAdminRole(i.Member) {
		return true
	}
	b.replyEphemeral(s, i, "You don't have permission to use this command.")
	return false
}
