// logica de InteractionApplicationCommand: acá solo manejamos la interacción
// del usuario y despachamos a los servicios correspondientes
package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Gen1xLol/AIsemble/internal/app/service"
	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// comandos que exigen el bit Administrator en quien invoca
var adminOnly = map[string]bool{
	"add_suggestion":      true,
	"remove_suggestion":   true,
	"list_suggestions":    true,
	"set_context":         true,
	"whitelist_channel":   true,
	"unwhitelist_channel": true,
	"list_whitelisted":    true,
	"view_config":         true,
}

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	if ic.Member == nil || ic.Member.User == nil {
		return // comandos solo en guilds
	}
	log.Printf("cmd: /%s by=%s guild=%s", cmd.Name, ic.Member.User.ID, ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in cmd /%s: %v", cmd.Name, rec)
			ReplyEphemeral(s, ic, "❌ Ocurrió un error inesperado procesando el comando.")
		}
	}()

	// reform arma su propia respuesta (embed + botón), sin defer previo
	if cmd.Name == "reform" {
		r.handleReform(s, ic)
		return
	}

	if adminOnly[cmd.Name] {
		_ = DeferEphemeral(s, ic)
		if !r.requireAdmin(s, ic) {
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch cmd.Name {

	case "evaluate_server":
		_ = DeferPublic(s, ic)
		// la completion puede tardar bastante más que un comando normal
		ectx, ecancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer ecancel()
		msg, err := r.eval.Evaluate(ectx, ic.GuildID)
		if err != nil {
			log.Printf("evaluate guild=%s: %v", ic.GuildID, err)
			content := "❌ Ocurrió un error evaluando el servidor."
			EditOriginal(s, ic, &discordgo.WebhookEdit{Content: &content})
			return
		}
		embed := &discordgo.MessageEmbed{
			Color:       0x0099ff,
			Title:       "Server Evaluation",
			Description: msg,
			Footer:      &discordgo.MessageEmbedFooter{Text: "Evaluado para " + r.guildName(ic.GuildID)},
		}
		EditOriginal(s, ic, &discordgo.WebhookEdit{Embeds: &[]*discordgo.MessageEmbed{embed}})

	case "delete_all":
		if ic.Member.User.ID != r.botOwnerID {
			SendEphemeral(s, ic, "❌ Tenés que ser el dueño del bot para usar este comando.")
			return
		}
		_ = SendResponse(s, ic, "⚠️ Nukeando el servidor... Esperá.")
		if err := r.reform.DeleteAll(ic.GuildID, ic.ChannelID); err != nil {
			ReplyPublic(s, ic, "❌ Error durante el nuke: "+err.Error())
			return
		}
		ReplyPublic(s, ic, "✅ Servidor nukeado.")

	case "add_suggestion":
		suggestion, _ := optStr(ic, "suggestion")
		msg, err := r.cfg.AddSuggestion(ctx, ic.GuildID, suggestion)
		if err != nil {
			msg = "⚠️ No pude guardar la sugerencia: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "remove_suggestion":
		id, _ := optInt(ic, "id")
		msg, err := r.cfg.RemoveSuggestion(ctx, ic.GuildID, id)
		if err != nil {
			msg = "⚠️ No pude eliminar la sugerencia: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "list_suggestions":
		msg, err := r.cfg.ListSuggestions(ctx, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude listar las sugerencias: "+err.Error())
			return
		}
		if strings.HasPrefix(msg, "ℹ️") {
			ReplyEphemeral(s, ic, msg)
			return
		}
		ReplyEphemeral(s, ic, "", &discordgo.MessageEmbed{
			Color:       0x00AE86,
			Title:       "Sugerencias de reform",
			Description: msg,
		})

	case "set_context":
		text, _ := optStr(ic, "context")
		msg, err := r.cfg.SetContext(ctx, ic.GuildID, text)
		if err != nil {
			msg = "⚠️ No pude guardar el contexto: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "whitelist_channel":
		ch := optChannel(s, ic, "channel")
		if ch == nil {
			ReplyEphemeral(s, ic, "❌ Canal desconocido.")
			return
		}
		isText := ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews
		msg, err := r.cfg.WhitelistChannel(ctx, ic.GuildID, ch.ID, ch.Name, isText)
		if err != nil {
			msg = "⚠️ No pude whitelistear el canal: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "unwhitelist_channel":
		ch := optChannel(s, ic, "channel")
		if ch == nil {
			ReplyEphemeral(s, ic, "❌ Canal desconocido.")
			return
		}
		msg, err := r.cfg.UnwhitelistChannel(ctx, ic.GuildID, ch.ID, ch.Name)
		if err != nil {
			msg = "⚠️ No pude quitar el canal: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "list_whitelisted":
		names, err := r.cfg.ListWhitelisted(ctx, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude listar la whitelist: "+err.Error())
			return
		}
		if len(names) == 0 {
			ReplyEphemeral(s, ic, "ℹ️ No hay canales whitelisteados.")
			return
		}
		ReplyEphemeral(s, ic, "", &discordgo.MessageEmbed{
			Color:       0x00AE86,
			Title:       "Canales whitelisteados",
			Description: strings.Join(names, "\n"),
		})

	case "view_config":
		cfg, names, err := r.cfg.ViewConfig(ctx, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude leer la config: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, "", configEmbed(cfg, names))

	case "help":
		_ = DeferPublic(s, ic)
		ReplyPublic(s, ic, "", helpEmbed())
	}
}

func (r *Router) handleReform(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	req, err := r.reform.RequestApproval(ic.GuildID)
	if err != nil {
		if errors.Is(err, service.ErrReformActive) || errors.Is(err, service.ErrApprovalActive) {
			SendEphemeral(s, ic, "⚠️ Ya hay un proceso de reform activo para este servidor.")
			return
		}
		SendEphemeral(s, ic, "⚠️ No pude iniciar la aprobación: "+err.Error())
		return
	}

	desc := "Esta acción va a lockear todos los canales y reestructurar el servidor usando AI. **OJO**, el AI es experimental: no lo uses en servidores existentes sin probar antes en uno nuevo y tener backup. "
	if req.OwnerOnly {
		desc += "El **dueño del servidor** tiene que aprobar los cambios (no hay otros administradores)."
	} else {
		desc += fmt.Sprintf("Al menos **la mitad de los admins (%d)** y el **dueño del servidor** tienen que aprobar los cambios.", req.Quorum)
	}

	err = s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Color:       0xFFFF00,
				Title:       "Server Reform Warning",
				Description: desc,
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Yes", Style: discordgo.SuccessButton, CustomID: "confirm_reform"},
				}},
			},
		},
	})
	if err != nil {
		log.Printf("reform respond: %v", err)
		return
	}

	go r.awaitApproval(ic, req)
}

func (r *Router) awaitApproval(ic *discordgo.InteractionCreate, req service.ApprovalRequest) {
	outcome := <-req.Outcome
	if outcome != service.ApprovalConfirmed {
		ReplyPublic(r.s, ic, "❌ Reform no aprobado. Acción cancelada.")
		return
	}
	ReplyPublic(r.s, ic, "✅ Reform confirmado. Arrancando la reestructuración...")
	go func(guildID string) {
		if err := r.reform.Run(context.Background(), guildID); err != nil {
			log.Printf("[reform] guild=%s: %v", guildID, err)
		}
	}(ic.GuildID)
}

func (r *Router) guildName(guildID string) string {
	if g, _ := r.s.State.Guild(guildID); g != nil {
		return g.Name
	}
	return guildID
}

func configEmbed(cfg domain.GuildConfig, whitelisted []string) *discordgo.MessageEmbed {
	context := cfg.Context
	if context == "" {
		context = "Sin contexto"
	}
	suggestions := "Sin sugerencias"
	if len(cfg.Suggestions) > 0 {
		suggestions = strings.Join(cfg.Suggestions, "\n")
	}
	channels := "Ningún canal whitelisteado"
	if len(whitelisted) > 0 {
		channels = strings.Join(whitelisted, "\n")
	}
	return &discordgo.MessageEmbed{
		Color: 0x00AE86,
		Title: "Configuración del servidor",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Contexto", Value: context},
			{Name: "Sugerencias", Value: suggestions},
			{Name: "Canales whitelisteados", Value: channels},
		},
	}
}

func helpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color: 0x0099ff,
		Title: "🤖 AIsemble",
		Description: "Bot que analiza y reestructura servidores de Discord con AI. " +
			"**⚠️ OJO: el reform es experimental; probalo en un servidor nuevo y hacé backup antes de usarlo en uno real.**",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "📊 Análisis",
				Value: "`/evaluate_server` - Analiza el servidor con AI y da feedback\n" +
					"`/view_config` - 🔒 Admins: muestra contexto, sugerencias y whitelist",
			},
			{
				Name: "🔄 Reform",
				Value: "`/reform` - Inicia la reestructuración con AI (requiere aprobación del dueño + admins)\n" +
					"`/add_suggestion` - 🔒 Admins: agrega sugerencias para el reform\n" +
					"`/remove_suggestion` - 🔒 Admins: elimina una sugerencia por ID\n" +
					"`/list_suggestions` - 🔒 Admins: lista las sugerencias",
			},
			{
				Name: "⚙️ Configuración",
				Value: "`/set_context` - 🔒 Admins: fija el contexto del AI (máx 200 caracteres)\n" +
					"`/whitelist_channel` - 🔒 Admins: agrega un canal a la whitelist (máx 10)\n" +
					"`/unwhitelist_channel` - 🔒 Admins: quita un canal de la whitelist\n" +
					"`/list_whitelisted` - 🔒 Admins: lista los canales whitelisteados",
			},
			{
				Name: "⚠️ Notas",
				Value: "• El reform lockea todos los canales mientras corre\n" +
					"• El dueño y al menos la mitad de los admins tienen que aprobar\n" +
					"• El AI solo lee los canales whitelisteados (máx 10)\n" +
					"• Cada servidor guarda hasta 20 sugerencias\n" +
					"• Se analizan hasta 50 mensajes recientes por canal whitelisteado",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Created with <3 by genagana_gen1x (Gen1x)"},
	}
}
