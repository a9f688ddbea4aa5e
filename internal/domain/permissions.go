package domain

import "github.com/bwmarrin/discordgo"

// permissionBits mapea los nombres de permiso que emite el planner (estilo
// PermissionFlagsBits de la API) a los bits de discordgo. Nombres desconocidos
// se descartan en silencio.
var permissionBits = map[string]int64{
	"Administrator":           discordgo.PermissionAdministrator,
	"ViewChannel":             discordgo.PermissionViewChannel,
	"SendMessages":            discordgo.PermissionSendMessages,
	"SendTTSMessages":         discordgo.PermissionSendTTSMessages,
	"ManageMessages":          discordgo.PermissionManageMessages,
	"EmbedLinks":              discordgo.PermissionEmbedLinks,
	"AttachFiles":             discordgo.PermissionAttachFiles,
	"ReadMessageHistory":      discordgo.PermissionReadMessageHistory,
	"MentionEveryone":         discordgo.PermissionMentionEveryone,
	"UseExternalEmojis":       discordgo.PermissionUseExternalEmojis,
	"AddReactions":            discordgo.PermissionAddReactions,
	"Connect":                 discordgo.PermissionVoiceConnect,
	"Speak":                   discordgo.PermissionVoiceSpeak,
	"MuteMembers":             discordgo.PermissionVoiceMuteMembers,
	"DeafenMembers":           discordgo.PermissionVoiceDeafenMembers,
	"MoveMembers":             discordgo.PermissionVoiceMoveMembers,
	"PrioritySpeaker":         discordgo.PermissionVoicePrioritySpeaker,
	"Stream":                  discordgo.PermissionVoiceStreamVideo,
	"CreateInstantInvite":     discordgo.PermissionCreateInstantInvite,
	"KickMembers":             discordgo.PermissionKickMembers,
	"BanMembers":              discordgo.PermissionBanMembers,
	"ManageChannels":          discordgo.PermissionManageChannels,
	"ManageGuild":             discordgo.PermissionManageServer,
	"ManageRoles":             discordgo.PermissionManageRoles,
	"ManageWebhooks":          discordgo.PermissionManageWebhooks,
	"ManageNicknames":         discordgo.PermissionManageNicknames,
	"ChangeNickname":          discordgo.PermissionChangeNickname,
	"ManageEmojisAndStickers": discordgo.PermissionManageEmojis,
	"ManageEvents":            discordgo.PermissionManageEvents,
	"ManageThreads":           discordgo.PermissionManageThreads,
	"CreatePublicThreads":     discordgo.PermissionCreatePublicThreads,
	"CreatePrivateThreads":    discordgo.PermissionCreatePrivateThreads,
	"ViewAuditLog":            discordgo.PermissionViewAuditLogs,
	"UseApplicationCommands":  discordgo.PermissionUseSlashCommands,
	"ModerateMembers":         discordgo.PermissionModerateMembers,
}

// PermissionBit devuelve el bit para un nombre de permiso, ok=false si no existe.
func PermissionBit(name string) (int64, bool) {
	b, ok := permissionBits[name]
	return b, ok
}

// ResolvePermissions junta los bits de una lista de nombres; los desconocidos
// no cuentan ni cortan el proceso.
func ResolvePermissions(names []string) int64 {
	var perms int64
	for _, n := range names {
		if b, ok := permissionBits[n]; ok {
			perms |= b
		}
	}
	return perms
}
