package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic.Member == nil || ic.Member.User == nil {
		return
	}
	data := ic.MessageComponentData()

	switch data.CustomID {

	case "confirm_reform":
		// ack sin tocar el mensaje original; el resultado llega por followup
		_ = s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		if !r.reform.Confirm(ic.GuildID, ic.Member.User.ID) {
			// no elegible o votación ya cerrada; el click no cuenta
			log.Printf("confirm_reform ignorado guild=%s user=%s", ic.GuildID, ic.Member.User.ID)
		}
	}
}
