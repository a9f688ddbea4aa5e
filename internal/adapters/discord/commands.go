package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "evaluate_server",
		Description: "Evalúa el servidor usando AI",
	},
	{
		Name:        "reform",
		Description: "Reestructura el servidor con asistencia de AI (requiere aprobación)",
	},
	{
		Name:        "delete_all",
		Description: "Solo el dueño del bot: borra todos los canales, categorías y roles (para pruebas)",
	},
	{
		Name:        "add_suggestion",
		Description: "Admins: agrega una sugerencia para el reform",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "suggestion",
			Description: "La sugerencia a agregar",
			Required:    true,
		}},
	},
	{
		Name:        "remove_suggestion",
		Description: "Admins: elimina una sugerencia por ID",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "El ID de la sugerencia (ver /list_suggestions)",
			Required:    true,
		}},
	},
	{
		Name:        "list_suggestions",
		Description: "Admins: lista las sugerencias actuales",
	},
	{
		Name:        "set_context",
		Description: "Admins: fija el contexto del AI para este servidor (máx 200 caracteres)",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "context",
			Description: "El contexto a guardar",
			Required:    true,
		}},
	},
	{
		Name:        "whitelist_channel",
		Description: "Admins: agrega un canal a la whitelist de lectura del AI",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "El canal a whitelistear",
			Required:    true,
		}},
	},
	{
		Name:        "unwhitelist_channel",
		Description: "Admins: quita un canal de la whitelist",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "El canal a quitar",
			Required:    true,
		}},
	},
	{
		Name:        "list_whitelisted",
		Description: "Admins: lista los canales whitelisteados",
	},
	{
		Name:        "view_config",
		Description: "Admins: muestra toda la configuración del servidor",
	},
	{
		Name:        "help",
		Description: "Muestra información de todos los comandos",
	},
}
