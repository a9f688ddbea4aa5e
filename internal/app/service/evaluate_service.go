package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// EvaluateService arma el prompt de evaluación (contexto + snapshot + historial
// de canales whitelisteados) y devuelve el texto del modelo tal cual, para que
// el router lo meta en un embed.
type EvaluateService struct {
	planner PlannerAPI
	repo    ConfigRepo
	surface GuildSurface
	snap    *StructureSnapshotter
}

func NewEvaluateService(planner PlannerAPI, repo ConfigRepo, surface GuildSurface) *EvaluateService {
	return &EvaluateService{
		planner: planner,
		repo:    repo,
		surface: surface,
		snap:    NewStructureSnapshotter(surface),
	}
}

func (s *EvaluateService) Evaluate(ctx context.Context, guildID string) (string, error) {
	meta, err := s.surface.GuildMeta(guildID)
	if err != nil {
		return "", err
	}
	cfg, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	snapshot, err := s.snap.Capture(guildID)
	if err != nil {
		return "", err
	}
	history := collectHistory(s.surface, guildID, cfg.WhitelistedChannelIDs)

	snapJSON, _ := json.Marshal(snapshot)
	histJSON, _ := json.Marshal(history)

	msgs := []domain.ChatMessage{
		{
			Role: "system",
			Content: fmt.Sprintf(
				"You're a Discord bot assisting a server named %q. %s\n\nServer details: %s. Recent message history: %s. "+
					"Provide realistic, concise feedback as if you are observing server dynamics. No emojis or markdown. "+
					"You can give a rating of 0 to 10 to the server. Make this rating realistic, and dependent on many different things.",
				meta.Name, cfg.Context, snapJSON, histJSON),
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Talk in this language: %s. Evaluate this server and suggest improvements. Keep it short and realistic.", meta.Locale),
		},
	}
	return s.planner.Complete(ctx, msgs)
}
