package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Gen1xLol/AIsemble/internal/app/service"
	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// Surface implementa service.GuildSurface sobre la sesión de discordgo.
// Adaptador fino: acá no hay lógica de reform, solo traducción de tipos.
type Surface struct {
	s *discordgo.Session
}

func NewSurface(s *discordgo.Session) *Surface { return &Surface{s: s} }

func (f *Surface) BotID() string { return f.s.State.User.ID }

func (f *Surface) GuildMeta(guildID string) (service.GuildMeta, error) {
	g, err := f.guild(guildID)
	if err != nil {
		return service.GuildMeta{}, err
	}
	return service.GuildMeta{Name: g.Name, Locale: g.PreferredLocale, OwnerID: g.OwnerID}, nil
}

func (f *Surface) guild(id string) (*discordgo.Guild, error) {
	if g, err := f.s.State.Guild(id); err == nil && g != nil {
		return g, nil
	}
	return f.s.Guild(id)
}

// Members pagina la lista completa; Admin = algún role con el bit Administrator.
func (f *Surface) Members(guildID string) ([]service.Member, error) {
	roles, err := f.s.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}
	adminRoles := make(map[string]bool, len(roles))
	for _, ro := range roles {
		if ro.Permissions&discordgo.PermissionAdministrator != 0 {
			adminRoles[ro.ID] = true
		}
	}

	g, err := f.guild(guildID)
	if err != nil {
		return nil, err
	}

	var out []service.Member
	after := ""
	for {
		page, err := f.s.GuildMembers(guildID, after, 1000)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, m := range page {
			admin := m.User.ID == g.OwnerID
			for _, rid := range m.Roles {
				if adminRoles[rid] {
					admin = true
					break
				}
			}
			out = append(out, service.Member{ID: m.User.ID, Bot: m.User.Bot, Admin: admin})
		}
		after = page[len(page)-1].User.ID
		if len(page) < 1000 {
			break
		}
	}
	return out, nil
}

func (f *Surface) Roles(guildID string) ([]service.Role, error) {
	roles, err := f.s.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}
	out := make([]service.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, service.Role{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (f *Surface) Channels(guildID string) ([]service.Channel, error) {
	channels, err := f.s.GuildChannels(guildID)
	if err != nil {
		return nil, err
	}
	out := make([]service.Channel, 0, len(channels))
	for _, ch := range channels {
		out = append(out, service.Channel{
			ID:       ch.ID,
			Name:     ch.Name,
			Kind:     channelKind(ch.Type),
			ParentID: ch.ParentID,
			Topic:    ch.Topic,
		})
	}
	return out, nil
}

func channelKind(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeGuildCategory:
		return "category"
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return "voice"
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return "text"
	default:
		return "other"
	}
}

func (f *Surface) RoleCreate(guildID, name string, perms int64) (string, error) {
	r, err := f.s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name, Permissions: &perms})
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func (f *Surface) RoleDelete(guildID, roleID string) error {
	return f.s.GuildRoleDelete(guildID, roleID)
}

func (f *Surface) CategoryCreate(guildID, name string) (string, error) {
	ch, err := f.s.GuildChannelCreate(guildID, name, discordgo.ChannelTypeGuildCategory)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (f *Surface) ChannelCreate(guildID, name, kind, topic string, overwrites []service.Overwrite) (string, error) {
	t := discordgo.ChannelTypeGuildText
	if kind == "voice" {
		t = discordgo.ChannelTypeGuildVoice
	}
	ch, err := f.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 t,
		Topic:                topic,
		PermissionOverwrites: asOverwrites(overwrites),
	})
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (f *Surface) ChannelDelete(channelID string) error {
	_, err := f.s.ChannelDelete(channelID)
	return err
}

func (f *Surface) ChannelSetParent(channelID, parentID string) error {
	_, err := f.s.ChannelEdit(channelID, &discordgo.ChannelEdit{ParentID: parentID})
	return err
}

func (f *Surface) ChannelSetOverwrites(channelID string, overwrites []service.Overwrite) error {
	_, err := f.s.ChannelEdit(channelID, &discordgo.ChannelEdit{PermissionOverwrites: asOverwrites(overwrites)})
	return err
}

func (f *Surface) OverwriteSet(channelID string, ow service.Overwrite) error {
	return f.s.ChannelPermissionSet(channelID, ow.ID, overwriteType(ow), ow.Allow, ow.Deny)
}

func (f *Surface) SendMessage(channelID, content string) error {
	_, err := f.s.ChannelMessageSend(channelID, content)
	return err
}

func (f *Surface) ChannelHistory(channelID, channelName string, limit int) ([]domain.HistoryMessage, error) {
	msgs, err := f.s.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return nil, err
	}
	out := make([]domain.HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Author == nil || m.Author.Bot {
			continue
		}
		out = append(out, domain.HistoryMessage{
			Channel:   channelName,
			Author:    m.Author.Username,
			Content:   m.Content,
			Timestamp: m.Timestamp.UnixMilli(),
		})
	}
	return out, nil
}

func asOverwrites(ows []service.Overwrite) []*discordgo.PermissionOverwrite {
	out := make([]*discordgo.PermissionOverwrite, 0, len(ows))
	for _, ow := range ows {
		out = append(out, &discordgo.PermissionOverwrite{
			ID:    ow.ID,
			Type:  overwriteType(ow),
			Allow: ow.Allow,
			Deny:  ow.Deny,
		})
	}
	return out
}

func overwriteType(ow service.Overwrite) discordgo.PermissionOverwriteType {
	if ow.Member {
		return discordgo.PermissionOverwriteTypeMember
	}
	return discordgo.PermissionOverwriteTypeRole
}
