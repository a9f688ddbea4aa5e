package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// GuildConfig es la config por guild que persiste el bot.
type GuildConfig struct {
	GuildID               string
	Context               string
	Suggestions           []string
	WhitelistedChannelIDs []string
}

const (
	MaxSuggestions    = 20
	MaxWhitelisted    = 10
	MaxContextLen     = 200
	HistoryPerChannel = 50
	HistoryTotalLimit = 50
	StatusChannelName = "reform-status"
)

// --- snapshot (lo que leemos del guild antes de planificar) ---

type RoleInfo struct {
	Name string `json:"name"`
}

type CategoryInfo struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type ChannelInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // text | voice
	Category    string `json:"category,omitempty"`
	Description string `json:"description"`
}

// StructureSnapshot es inmutable una vez capturado; es el input del planner.
type StructureSnapshot struct {
	Roles      []RoleInfo     `json:"roles"`
	Categories []CategoryInfo `json:"categories"`
	Channels   []ChannelInfo  `json:"channels"`
}

// --- change-set (lo que devuelve el planner; input NO confiable) ---

type RolePlan struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type CategoryPlan struct {
	Name string `json:"name"`
}

type ChannelRolePerms struct {
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions"`
}

type ChannelPlan struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"` // text | voice
	Category    string             `json:"category,omitempty"`
	Description string             `json:"description,omitempty"`
	Permissions []ChannelRolePerms `json:"permissions,omitempty"`
}

type ChangeSet struct {
	Roles      []RolePlan     `json:"roles,omitempty"`
	Categories []CategoryPlan `json:"categories,omitempty"`
	Channels   []ChannelPlan  `json:"channels,omitempty"`
	Delete     []string       `json:"delete,omitempty"`
}

var ErrEmptyChangeSet = errors.New("change-set sin roles, categories ni channels")

// ParseChangeSet parsea la respuesta del planner como JSON estricto y valida
// la estructura mínima antes de tocar nada en el guild. Unmarshal rechaza texto
// después del JSON: una respuesta con prosa alrededor falla entera.
func ParseChangeSet(raw string) (ChangeSet, error) {
	var cs ChangeSet
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &cs); err != nil {
		return ChangeSet{}, err
	}
	if err := cs.Validate(); err != nil {
		return ChangeSet{}, err
	}
	return cs, nil
}

// Validate exige al menos una de las tres secciones estructurales.
func (cs ChangeSet) Validate() error {
	if len(cs.Roles) == 0 && len(cs.Categories) == 0 && len(cs.Channels) == 0 {
		return ErrEmptyChangeSet
	}
	return nil
}

// --- mensajería planner / historial ---

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type HistoryMessage struct {
	Channel   string `json:"channel"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}
