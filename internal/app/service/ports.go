package service

import (
	"context"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// Lo implementa internal/adapters/planner.Client
type PlannerAPI interface {
	Complete(ctx context.Context, msgs []domain.ChatMessage) (string, error)
}

// Lo implementan internal/infra/storage.JSONStore y storage.ConfigRepo
type ConfigRepo interface {
	Get(ctx context.Context, guildID string) (domain.GuildConfig, error)
	Put(ctx context.Context, cfg domain.GuildConfig) error
}

// Auditoría de reforms ejecutados. storage.RunsRepo (postgres) o storage.NopRuns.
type RunsRepo interface {
	Start(ctx context.Context, guildID string) (string, error)
	Finish(ctx context.Context, runID, outcome string) error
}

// --- superficie del chat platform ---

type GuildMeta struct {
	Name    string
	Locale  string
	OwnerID string
}

type Member struct {
	ID    string
	Bot   bool
	Admin bool
}

type Role struct {
	ID   string
	Name string
}

// Kind: text | voice | category | other
type Channel struct {
	ID       string
	Name     string
	Kind     string
	ParentID string
	Topic    string
}

type Overwrite struct {
	ID     string
	Member bool // overwrite de member (el bot) en vez de role
	Allow  int64
	Deny   int64
}

// GuildSurface es la superficie de lectura/mutación contra el guild vivo.
// Lo implementa internal/adapters/discord.Surface. El role everyone tiene
// ID == guildID, convención de la plataforma.
type GuildSurface interface {
	BotID() string
	GuildMeta(guildID string) (GuildMeta, error)
	Members(guildID string) ([]Member, error)
	Roles(guildID string) ([]Role, error)
	Channels(guildID string) ([]Channel, error)

	RoleCreate(guildID, name string, perms int64) (string, error)
	RoleDelete(guildID, roleID string) error
	CategoryCreate(guildID, name string) (string, error)
	ChannelCreate(guildID, name, kind, topic string, overwrites []Overwrite) (string, error)
	ChannelDelete(channelID string) error
	ChannelSetParent(channelID, parentID string) error
	ChannelSetOverwrites(channelID string, overwrites []Overwrite) error
	OverwriteSet(channelID string, ow Overwrite) error

	SendMessage(channelID, content string) error
	ChannelHistory(channelID, channelName string, limit int) ([]domain.HistoryMessage, error)
}
