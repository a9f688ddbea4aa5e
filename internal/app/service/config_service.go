package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// ConfigService maneja contexto, sugerencias y whitelist por guild. El repo es
// read-modify-write sin lock: dos admins corriendo comandos a la vez pueden
// pisarse un update (aceptable a frecuencia humana, ver tests).
type ConfigService struct {
	repo    ConfigRepo
	surface GuildSurface
}

func NewConfigService(repo ConfigRepo, surface GuildSurface) *ConfigService {
	return &ConfigService{repo: repo, surface: surface}
}

func (s *ConfigService) AddSuggestion(ctx context.Context, guildID, suggestion string) (string, error) {
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	// FIFO: al llegar al tope sale la más vieja
	if len(cfg.Suggestions) >= domain.MaxSuggestions {
		cfg.Suggestions = cfg.Suggestions[1:]
	}
	cfg.Suggestions = append(cfg.Suggestions, suggestion)
	cfg.GuildID = guildID
	if err := s.repo.Put(ctx, cfg); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Sugerencia agregada. (%d/%d)", len(cfg.Suggestions), domain.MaxSuggestions), nil
}

func (s *ConfigService) RemoveSuggestion(ctx context.Context, guildID string, id int) (string, error) {
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	idx := id - 1 // ids 1-based de cara al usuario
	if idx < 0 || idx >= len(cfg.Suggestions) {
		return "❌ ID de sugerencia inválido.", nil
	}
	cfg.Suggestions = append(cfg.Suggestions[:idx], cfg.Suggestions[idx+1:]...)
	cfg.GuildID = guildID
	if err := s.repo.Put(ctx, cfg); err != nil {
		return "", err
	}
	return "✅ Sugerencia eliminada.", nil
}

func (s *ConfigService) ListSuggestions(ctx context.Context, guildID string) (string, error) {
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	if len(cfg.Suggestions) == 0 {
		return "ℹ️ No hay sugerencias.", nil
	}
	var b strings.Builder
	for i, sg := range cfg.Suggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, sg)
	}
	return b.String(), nil
}

func (s *ConfigService) SetContext(ctx context.Context, guildID, context string) (string, error) {
	// límite en caracteres, no en bytes: los acentos no cuentan doble
	if utf8.RuneCountInString(context) > domain.MaxContextLen {
		return fmt.Sprintf("❌ El contexto debe tener %d caracteres o menos.", domain.MaxContextLen), nil
	}
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	cfg.Context = context
	cfg.GuildID = guildID
	if err := s.repo.Put(ctx, cfg); err != nil {
		return "", err
	}
	return "✅ Contexto guardado.", nil
}

// WhitelistChannel agrega un canal de texto a la whitelist de lectura del
// planner. Tope fijo y sin duplicados; nada se muta en los rechazos.
func (s *ConfigService) WhitelistChannel(ctx context.Context, guildID, channelID, channelName string, isText bool) (string, error) {
	if !isText {
		return "❌ Solo se pueden whitelistear canales de texto.", nil
	}
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	if len(cfg.WhitelistedChannelIDs) >= domain.MaxWhitelisted {
		return fmt.Sprintf("❌ Máximo de %d canales whitelisteados.", domain.MaxWhitelisted), nil
	}
	for _, id := range cfg.WhitelistedChannelIDs {
		if id == channelID {
			return "❌ Ese canal ya está en la whitelist.", nil
		}
	}
	cfg.WhitelistedChannelIDs = append(cfg.WhitelistedChannelIDs, channelID)
	cfg.GuildID = guildID
	if err := s.repo.Put(ctx, cfg); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ %s agregado a la whitelist. (%d/%d)", channelName, len(cfg.WhitelistedChannelIDs), domain.MaxWhitelisted), nil
}

func (s *ConfigService) UnwhitelistChannel(ctx context.Context, guildID, channelID, channelName string) (string, error) {
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	kept := cfg.WhitelistedChannelIDs[:0]
	found := false
	for _, id := range cfg.WhitelistedChannelIDs {
		if id == channelID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		return "❌ Ese canal no está en la whitelist.", nil
	}
	cfg.WhitelistedChannelIDs = kept
	cfg.GuildID = guildID
	if err := s.repo.Put(ctx, cfg); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ %s quitado de la whitelist.", channelName), nil
}

// ListWhitelisted resuelve los ids guardados contra los canales vivos; los que
// ya no existen simplemente no se listan.
func (s *ConfigService) ListWhitelisted(ctx context.Context, guildID string) ([]string, error) {
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if len(cfg.WhitelistedChannelIDs) == 0 {
		return nil, nil
	}
	channels, err := s.surface.Channels(guildID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(channels))
	for _, ch := range channels {
		names[ch.ID] = ch.Name
	}
	var out []string
	for _, id := range cfg.WhitelistedChannelIDs {
		if n, ok := names[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// ViewConfig devuelve la config cruda más los nombres resueltos de la whitelist.
func (s *ConfigService) ViewConfig(ctx context.Context, guildID string) (domain.GuildConfig, []string, error) {
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return domain.GuildConfig{}, nil, err
	}
	names, err := s.ListWhitelisted(ctx, guildID)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, names, nil
}
