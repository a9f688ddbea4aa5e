package service

import (
	"log"
	"time"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// StatusReporter crea un canal transitorio de progreso (everyone no escribe,
// el bot sí) y lo baja unos segundos después del mensaje terminal, tanto en
// éxito como en fallo.
type StatusReporter struct {
	surface  GuildSurface
	teardown time.Duration
}

func NewStatusReporter(surface GuildSurface, teardown time.Duration) *StatusReporter {
	return &StatusReporter{surface: surface, teardown: teardown}
}

type StatusChannel struct {
	surface   GuildSurface
	ChannelID string
	teardown  time.Duration
}

func (r *StatusReporter) Open(guildID string) (*StatusChannel, error) {
	ows := []Overwrite{
		{ID: guildID, Deny: domain.ResolvePermissions([]string{"SendMessages"})},
		{ID: r.surface.BotID(), Member: true, Allow: domain.ResolvePermissions([]string{"SendMessages"})},
	}
	id, err := r.surface.ChannelCreate(guildID, domain.StatusChannelName, "text", "", ows)
	if err != nil {
		return nil, err
	}
	return &StatusChannel{surface: r.surface, ChannelID: id, teardown: r.teardown}, nil
}

func (c *StatusChannel) Post(msg string) {
	if err := c.surface.SendMessage(c.ChannelID, msg); err != nil {
		log.Printf("[reform] status post: %v", err)
	}
}

// Close agenda el borrado del canal de estado tras el delay de teardown.
func (c *StatusChannel) Close() {
	id := c.ChannelID
	time.AfterFunc(c.teardown, func() {
		if err := c.surface.ChannelDelete(id); err != nil {
			log.Printf("[reform] status channel delete: %v", err)
		}
	})
}
