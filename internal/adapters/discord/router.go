package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Gen1xLol/AIsemble/internal/app/service"
)

type Router struct {
	s          *discordgo.Session
	botOwnerID string

	cfg    *service.ConfigService
	eval   *service.EvaluateService
	reform *service.ReformService
}

func NewRouter(
	s *discordgo.Session,
	botOwnerID string,
	cfg *service.ConfigService,
	eval *service.EvaluateService,
	reform *service.ReformService,
) *Router {
	return &Router{
		s:          s,
		botOwnerID: botOwnerID,
		cfg:        cfg,
		eval:       eval,
		reform:     reform,
	}
}

// Register registra los slash commands globales (guildID vacío).
func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleSlashCommand(s, ic)
		case discordgo.InteractionMessageComponent:
			r.handleMessageComponent(s, ic)
		}
	})
}
