package service

import (
	"log"
	"sort"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

// collectHistory junta mensajes recientes de los canales whitelisteados.
// Fallos por canal se loguean y se sigue; el resultado va del más nuevo al
// más viejo, recortado al límite global.
func collectHistory(surface GuildSurface, guildID string, channelIDs []string) []domain.HistoryMessage {
	if len(channelIDs) == 0 {
		return nil
	}

	channels, err := surface.Channels(guildID)
	if err != nil {
		log.Printf("[history] channels guild=%s: %v", guildID, err)
		return nil
	}
	byID := make(map[string]Channel, len(channels))
	for _, ch := range channels {
		byID[ch.ID] = ch
	}

	var out []domain.HistoryMessage
	for _, id := range channelIDs {
		ch, ok := byID[id]
		if !ok || (ch.Kind != "text") {
			continue
		}
		msgs, err := surface.ChannelHistory(id, ch.Name, domain.HistoryPerChannel)
		if err != nil {
			log.Printf("[history] fetch %s: %v", ch.Name, err)
			continue
		}
		out = append(out, msgs...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > domain.HistoryTotalLimit {
		out = out[:domain.HistoryTotalLimit]
	}
	return out
}
